package repository

import (
	"context"
	"encoding/json"

	"nexus_consulting/internal/domain/entities"
	"nexus_consulting/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const defaultLedgerTableName = "activity_ledger"

type ledgerItem struct {
	ID         string `dynamodbav:"id"`
	Actor      string `dynamodbav:"actor"`
	Action     string `dynamodbav:"action"`
	EntityKind string `dynamodbav:"entity_kind"`
	EntityID   string `dynamodbav:"entity_id"`
	FromStatus string `dynamodbav:"from_status,omitempty"`
	ToStatus   string `dynamodbav:"to_status,omitempty"`
	Payload    string `dynamodbav:"payload,omitempty"`
	CreatedAt  string `dynamodbav:"created_at"`
}

// ActivityLedgerDynamoRepository appends audit entries to DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI1 (entity-index): entity_id, for per-entity history reads
//
// Append-only; nothing in the engine updates or deletes entries.

type ActivityLedgerDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IActivityLedger = (*ActivityLedgerDynamoRepository)(nil)

func NewActivityLedgerDynamoRepository(ddb *dynamodb.Client, tableName string) *ActivityLedgerDynamoRepository {
	if tableName == "" {
		tableName = defaultLedgerTableName
	}
	return &ActivityLedgerDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *ActivityLedgerDynamoRepository) Append(ctx context.Context, entry entities.LedgerEntry) error {
	it := ledgerItem{
		ID:         entry.ID,
		Actor:      entry.Actor,
		Action:     entry.Action,
		EntityKind: entry.EntityKind,
		EntityID:   entry.EntityID,
		FromStatus: entry.FromStatus,
		ToStatus:   entry.ToStatus,
		CreatedAt:  formatTime(entry.CreatedAt),
	}
	if len(entry.Payload) > 0 {
		b, err := json.Marshal(entry.Payload)
		if err != nil {
			return err
		}
		it.Payload = string(b)
	}

	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}

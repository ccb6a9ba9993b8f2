package repository

import (
	"context"

	"nexus_consulting/internal/domain/entities"
	"nexus_consulting/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultContractsTableName = "contracts"

type contractItem struct {
	RequestID   string `dynamodbav:"request_id"`
	ID          string `dynamodbav:"id"`
	OfferID     string `dynamodbav:"offer_id,omitempty"`
	Status      string `dynamodbav:"status"`
	DocumentRef string `dynamodbav:"document_ref,omitempty"`
	SignedAt    string `dynamodbav:"signed_at,omitempty"`
	CreatedAt   string `dynamodbav:"created_at"`
	UpdatedAt   string `dynamodbav:"updated_at"`
}

// ContractDynamoRepository persists Contract entities in DynamoDB.
//
// Table requirements:
//   - PK: request_id (string), one contract per service request

type ContractDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IContractRepository = (*ContractDynamoRepository)(nil)

func NewContractDynamoRepository(ddb *dynamodb.Client, tableName string) *ContractDynamoRepository {
	if tableName == "" {
		tableName = defaultContractsTableName
	}
	return &ContractDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *ContractDynamoRepository) Create(ctx context.Context, c entities.Contract) (entities.Contract, error) {
	av, err := attributevalue.MarshalMap(toContractItem(c))
	if err != nil {
		return entities.Contract{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#request_id)"),
		ExpressionAttributeNames: map[string]string{"#request_id": "request_id"},
	})
	if err != nil {
		return entities.Contract{}, translateConditionFailure(err, errDuplicateKey)
	}
	return c, nil
}

func (r *ContractDynamoRepository) GetByRequestID(ctx context.Context, requestID string) (entities.Contract, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"request_id": &types.AttributeValueMemberS{Value: requestID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Contract{}, err
	}
	if len(out.Item) == 0 {
		return entities.Contract{}, nil
	}

	var it contractItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Contract{}, err
	}
	return fromContractItem(it), nil
}

func (r *ContractDynamoRepository) UpdateUpload(ctx context.Context, requestID string, expected, next entities.ContractStatus, documentRef string) (entities.Contract, error) {
	return r.casUpdate(ctx, requestID, expected,
		"SET #status = :next, #document_ref = :document_ref, #updated_at = :updated_at",
		map[string]types.AttributeValue{
			":next":         &types.AttributeValueMemberS{Value: string(next)},
			":document_ref": &types.AttributeValueMemberS{Value: documentRef},
		},
		map[string]string{"#document_ref": "document_ref"},
	)
}

func (r *ContractDynamoRepository) UpdateStatus(ctx context.Context, requestID string, expected, next entities.ContractStatus) (entities.Contract, error) {
	expr := "SET #status = :next, #updated_at = :updated_at"
	values := map[string]types.AttributeValue{
		":next": &types.AttributeValueMemberS{Value: string(next)},
	}
	names := map[string]string{}
	if next == entities.ContractStatusSigned {
		expr += ", #signed_at = :signed_at"
		values[":signed_at"] = &types.AttributeValueMemberS{Value: formatTime(timeNow())}
		names["#signed_at"] = "signed_at"
	}
	return r.casUpdate(ctx, requestID, expected, expr, values, names)
}

func (r *ContractDynamoRepository) casUpdate(ctx context.Context, requestID string, expected entities.ContractStatus, updateExpr string, values map[string]types.AttributeValue, names map[string]string) (entities.Contract, error) {
	values[":expected"] = &types.AttributeValueMemberS{Value: string(expected)}
	values[":updated_at"] = &types.AttributeValueMemberS{Value: formatTime(timeNow())}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"request_id": &types.AttributeValueMemberS{Value: requestID},
		},
		ConditionExpression:       aws.String("attribute_exists(#request_id) AND #status = :expected"),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames: mergeNames(names, map[string]string{
			"#request_id": "request_id",
			"#status":     "status",
			"#updated_at": "updated_at",
		}),
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return entities.Contract{}, translateConditionFailure(err, errStatusConflict)
	}

	var it contractItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Contract{}, err
	}
	return fromContractItem(it), nil
}

func toContractItem(c entities.Contract) contractItem {
	return contractItem{
		RequestID:   c.RequestID,
		ID:          c.ID,
		OfferID:     c.OfferID,
		Status:      string(c.Status),
		DocumentRef: c.DocumentRef,
		SignedAt:    formatTime(c.SignedAt),
		CreatedAt:   formatTime(c.CreatedAt),
		UpdatedAt:   formatTime(c.UpdatedAt),
	}
}

func fromContractItem(it contractItem) entities.Contract {
	return entities.Contract{
		ID:          it.ID,
		RequestID:   it.RequestID,
		OfferID:     it.OfferID,
		Status:      entities.ContractStatus(it.Status),
		DocumentRef: it.DocumentRef,
		SignedAt:    parseTime(it.SignedAt),
		CreatedAt:   parseTime(it.CreatedAt),
		UpdatedAt:   parseTime(it.UpdatedAt),
	}
}

package repository

import (
	"context"
	"encoding/json"
	"time"

	"nexus_consulting/internal/domain/entities"
	"nexus_consulting/internal/domain/pricing"
	"nexus_consulting/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultOffersTableName = "offers"

type offerItem struct {
	RequestID      string `dynamodbav:"request_id"`
	ID             string `dynamodbav:"id"`
	Status         string `dynamodbav:"status"`
	Technical      string `dynamodbav:"technical,omitempty"`
	Financial      string `dynamodbav:"financial"`
	ManagerComment string `dynamodbav:"manager_comment,omitempty"`
	ClientName     string `dynamodbav:"client_name,omitempty"`
	ClientComment  string `dynamodbav:"client_comment,omitempty"`
	TokenHash      string `dynamodbav:"token_hash,omitempty"`
	TokenExpiresAt string `dynamodbav:"token_expires_at,omitempty"`
	CreatedAt      string `dynamodbav:"created_at"`
	UpdatedAt      string `dynamodbav:"updated_at"`
}

// OfferDynamoRepository persists Offer entities in DynamoDB.
//
// Table requirements:
//   - PK: request_id (string), enforces one offer per service request
//   - GSI1 (id-index): id
//   - GSI2 (token_hash-index): token_hash
//
// Technical and financial payloads are stored as JSON documents so the
// pricing item shapes round-trip byte-for-byte.

type OfferDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IOfferRepository = (*OfferDynamoRepository)(nil)

func NewOfferDynamoRepository(ddb *dynamodb.Client, tableName string) *OfferDynamoRepository {
	if tableName == "" {
		tableName = defaultOffersTableName
	}
	return &OfferDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *OfferDynamoRepository) Create(ctx context.Context, o entities.Offer) (entities.Offer, error) {
	it, err := toOfferItem(o)
	if err != nil {
		return entities.Offer{}, err
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Offer{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#request_id)"),
		ExpressionAttributeNames: map[string]string{"#request_id": "request_id"},
	})
	if err != nil {
		return entities.Offer{}, translateConditionFailure(err, errDuplicateKey)
	}
	return o, nil
}

func (r *OfferDynamoRepository) GetByRequestID(ctx context.Context, requestID string) (entities.Offer, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"request_id": &types.AttributeValueMemberS{Value: requestID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Offer{}, err
	}
	if len(out.Item) == 0 {
		return entities.Offer{}, nil
	}
	return unmarshalOffer(out.Item)
}

func (r *OfferDynamoRepository) GetByID(ctx context.Context, id string) (entities.Offer, error) {
	return r.queryOne(ctx, "id-index", "id", id)
}

func (r *OfferDynamoRepository) GetByTokenHash(ctx context.Context, tokenHash string) (entities.Offer, error) {
	return r.queryOne(ctx, "token_hash-index", "token_hash", tokenHash)
}

func (r *OfferDynamoRepository) queryOne(ctx context.Context, index, attr, value string) (entities.Offer, error) {
	if value == "" {
		return entities.Offer{}, nil
	}
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#attr = :value"),
		ExpressionAttributeNames: map[string]string{
			"#attr": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":value": &types.AttributeValueMemberS{Value: value},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.Offer{}, err
	}
	if len(out.Items) == 0 {
		return entities.Offer{}, nil
	}
	return unmarshalOffer(out.Items[0])
}

func (r *OfferDynamoRepository) UpdateDraft(ctx context.Context, requestID string, expected entities.OfferStatus, technical []entities.TechnicalSection, financial pricing.FinancialPayload) (entities.Offer, error) {
	techJSON, err := json.Marshal(technical)
	if err != nil {
		return entities.Offer{}, err
	}
	finJSON, err := json.Marshal(financial)
	if err != nil {
		return entities.Offer{}, err
	}
	return r.casUpdate(ctx, requestID, expected,
		"SET #technical = :technical, #financial = :financial, #updated_at = :updated_at",
		map[string]types.AttributeValue{
			":technical": &types.AttributeValueMemberS{Value: string(techJSON)},
			":financial": &types.AttributeValueMemberS{Value: string(finJSON)},
		},
		map[string]string{
			"#technical": "technical",
			"#financial": "financial",
		},
	)
}

func (r *OfferDynamoRepository) UpdateStatus(ctx context.Context, requestID string, expected, next entities.OfferStatus) (entities.Offer, error) {
	return r.casUpdate(ctx, requestID, expected,
		"SET #status = :next, #updated_at = :updated_at",
		map[string]types.AttributeValue{
			":next": &types.AttributeValueMemberS{Value: string(next)},
		},
		nil,
	)
}

func (r *OfferDynamoRepository) UpdateManagerDecision(ctx context.Context, requestID string, expected, next entities.OfferStatus, comment, tokenHash string, tokenExpiresAt time.Time) (entities.Offer, error) {
	return r.casUpdate(ctx, requestID, expected,
		"SET #status = :next, #manager_comment = :comment, #token_hash = :token_hash, #token_expires_at = :token_expires_at, #updated_at = :updated_at",
		map[string]types.AttributeValue{
			":next":             &types.AttributeValueMemberS{Value: string(next)},
			":comment":          &types.AttributeValueMemberS{Value: comment},
			":token_hash":       &types.AttributeValueMemberS{Value: tokenHash},
			":token_expires_at": &types.AttributeValueMemberS{Value: formatTime(tokenExpiresAt)},
		},
		map[string]string{
			"#manager_comment":  "manager_comment",
			"#token_hash":       "token_hash",
			"#token_expires_at": "token_expires_at",
		},
	)
}

func (r *OfferDynamoRepository) UpdateClientDecision(ctx context.Context, requestID string, expected, next entities.OfferStatus, clientName, clientComment string) (entities.Offer, error) {
	return r.casUpdate(ctx, requestID, expected,
		"SET #status = :next, #client_name = :client_name, #client_comment = :client_comment, #updated_at = :updated_at",
		map[string]types.AttributeValue{
			":next":           &types.AttributeValueMemberS{Value: string(next)},
			":client_name":    &types.AttributeValueMemberS{Value: clientName},
			":client_comment": &types.AttributeValueMemberS{Value: clientComment},
		},
		map[string]string{
			"#client_name":    "client_name",
			"#client_comment": "client_comment",
		},
	)
}

func (r *OfferDynamoRepository) casUpdate(ctx context.Context, requestID string, expected entities.OfferStatus, updateExpr string, values map[string]types.AttributeValue, names map[string]string) (entities.Offer, error) {
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
		return entities.Offer{}, translateConditionFailure(err, errStatusConflict)
	}
	return unmarshalOffer(out.Attributes)
}

func toOfferItem(o entities.Offer) (offerItem, error) {
	techJSON, err := json.Marshal(o.Technical)
	if err != nil {
		return offerItem{}, err
	}
	finJSON, err := json.Marshal(o.Financial)
	if err != nil {
		return offerItem{}, err
	}
	return offerItem{
		RequestID:      o.RequestID,
		ID:             o.ID,
		Status:         string(o.Status),
		Technical:      string(techJSON),
		Financial:      string(finJSON),
		ManagerComment: o.ManagerComment,
		ClientName:     o.ClientName,
		ClientComment:  o.ClientComment,
		TokenHash:      o.TokenHash,
		TokenExpiresAt: formatTime(o.TokenExpiresAt),
		CreatedAt:      formatTime(o.CreatedAt),
		UpdatedAt:      formatTime(o.UpdatedAt),
	}, nil
}

func unmarshalOffer(item map[string]types.AttributeValue) (entities.Offer, error) {
	var it offerItem
	if err := attributevalue.UnmarshalMap(item, &it); err != nil {
		return entities.Offer{}, err
	}

	o := entities.Offer{
		ID:             it.ID,
		RequestID:      it.RequestID,
		Status:         entities.OfferStatus(it.Status),
		ManagerComment: it.ManagerComment,
		ClientName:     it.ClientName,
		ClientComment:  it.ClientComment,
		TokenHash:      it.TokenHash,
		TokenExpiresAt: parseTime(it.TokenExpiresAt),
		CreatedAt:      parseTime(it.CreatedAt),
		UpdatedAt:      parseTime(it.UpdatedAt),
	}
	if it.Technical != "" {
		if err := json.Unmarshal([]byte(it.Technical), &o.Technical); err != nil {
			return entities.Offer{}, err
		}
	}
	if it.Financial != "" {
		if err := json.Unmarshal([]byte(it.Financial), &o.Financial); err != nil {
			return entities.Offer{}, err
		}
	}
	return o, nil
}

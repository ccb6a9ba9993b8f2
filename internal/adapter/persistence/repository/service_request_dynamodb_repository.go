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

const defaultRequestsTableName = "service_requests"

type serviceRequestItem struct {
	ID           string `dynamodbav:"id"`
	Reference    string `dynamodbav:"reference"`
	Description  string `dynamodbav:"description"`
	Status       string `dynamodbav:"status"`
	ReviewerID   string `dynamodbav:"reviewer_id,omitempty"`
	ReviewReason string `dynamodbav:"review_reason,omitempty"`
	CreatedAt    string `dynamodbav:"created_at"`
	UpdatedAt    string `dynamodbav:"updated_at"`
}

// ServiceRequestDynamoRepository persists ServiceRequest entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Status writes condition on the expected prior status, so a concurrent
// writer surfaces as ErrStatusConflict instead of a silent overwrite.

type ServiceRequestDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IServiceRequestRepository = (*ServiceRequestDynamoRepository)(nil)

func NewServiceRequestDynamoRepository(ddb *dynamodb.Client, tableName string) *ServiceRequestDynamoRepository {
	if tableName == "" {
		tableName = defaultRequestsTableName
	}
	return &ServiceRequestDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *ServiceRequestDynamoRepository) Create(ctx context.Context, sr entities.ServiceRequest) (entities.ServiceRequest, error) {
	av, err := attributevalue.MarshalMap(toServiceRequestItem(sr))
	if err != nil {
		return entities.ServiceRequest{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		return entities.ServiceRequest{}, translateConditionFailure(err, errDuplicateKey)
	}
	return sr, nil
}

func (r *ServiceRequestDynamoRepository) GetByID(ctx context.Context, id string) (entities.ServiceRequest, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.ServiceRequest{}, err
	}
	if len(out.Item) == 0 {
		return entities.ServiceRequest{}, nil
	}

	var it serviceRequestItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.ServiceRequest{}, err
	}
	return fromServiceRequestItem(it), nil
}

func (r *ServiceRequestDynamoRepository) UpdateStatus(ctx context.Context, id string, expected, next entities.ServiceRequestStatus) (entities.ServiceRequest, error) {
	return r.casUpdate(ctx, id, expected,
		"SET #status = :next, #updated_at = :updated_at",
		map[string]types.AttributeValue{
			":next": &types.AttributeValueMemberS{Value: string(next)},
		},
		nil,
	)
}

func (r *ServiceRequestDynamoRepository) UpdateReview(ctx context.Context, id string, expected, next entities.ServiceRequestStatus, reviewerID, reason string) (entities.ServiceRequest, error) {
	return r.casUpdate(ctx, id, expected,
		"SET #status = :next, #reviewer_id = :reviewer_id, #review_reason = :review_reason, #updated_at = :updated_at",
		map[string]types.AttributeValue{
			":next":          &types.AttributeValueMemberS{Value: string(next)},
			":reviewer_id":   &types.AttributeValueMemberS{Value: reviewerID},
			":review_reason": &types.AttributeValueMemberS{Value: reason},
		},
		map[string]string{
			"#reviewer_id":   "reviewer_id",
			"#review_reason": "review_reason",
		},
	)
}

// casUpdate is the shared conditional write: the item must exist and still
// carry the expected status.
func (r *ServiceRequestDynamoRepository) casUpdate(ctx context.Context, id string, expected entities.ServiceRequestStatus, updateExpr string, values map[string]types.AttributeValue, names map[string]string) (entities.ServiceRequest, error) {
	values[":expected"] = &types.AttributeValueMemberS{Value: string(expected)}
	values[":updated_at"] = &types.AttributeValueMemberS{Value: formatTime(timeNow())}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:       aws.String("attribute_exists(#id) AND #status = :expected"),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames: mergeNames(names, map[string]string{
			"#id":         "id",
			"#status":     "status",
			"#updated_at": "updated_at",
		}),
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return entities.ServiceRequest{}, translateConditionFailure(err, errStatusConflict)
	}

	var it serviceRequestItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.ServiceRequest{}, err
	}
	return fromServiceRequestItem(it), nil
}

func toServiceRequestItem(sr entities.ServiceRequest) serviceRequestItem {
	return serviceRequestItem{
		ID:           sr.ID,
		Reference:    sr.Reference,
		Description:  sr.Description,
		Status:       string(sr.Status),
		ReviewerID:   sr.ReviewerID,
		ReviewReason: sr.ReviewReason,
		CreatedAt:    formatTime(sr.CreatedAt),
		UpdatedAt:    formatTime(sr.UpdatedAt),
	}
}

func fromServiceRequestItem(it serviceRequestItem) entities.ServiceRequest {
	return entities.ServiceRequest{
		ID:           it.ID,
		Reference:    it.Reference,
		Description:  it.Description,
		Status:       entities.ServiceRequestStatus(it.Status),
		ReviewerID:   it.ReviewerID,
		ReviewReason: it.ReviewReason,
		CreatedAt:    parseTime(it.CreatedAt),
		UpdatedAt:    parseTime(it.UpdatedAt),
	}
}

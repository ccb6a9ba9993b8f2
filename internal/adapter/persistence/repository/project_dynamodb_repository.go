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

const (
	defaultProjectsTableName = "projects"
	defaultCodesTableName    = "project_codes"
)

type projectItem struct {
	RequestID string `dynamodbav:"request_id"`
	ID        string `dynamodbav:"id"`
	Code      string `dynamodbav:"code"`
	Status    string `dynamodbav:"status"`
	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// ProjectDynamoRepository persists Project entities in DynamoDB.
//
// Table requirements:
//   - projects: PK request_id (string), one project per service request
//   - project_codes: PK code (string), the global uniqueness constraint
//     behind reference codes; a conditional put here is the collision signal
//     that drives the orchestrator's bounded retry.

type ProjectDynamoRepository struct {
	ddb        *dynamodb.Client
	tableName  string
	codesTable string
}

var _ interfaces.IProjectRepository = (*ProjectDynamoRepository)(nil)

func NewProjectDynamoRepository(ddb *dynamodb.Client, tableName, codesTable string) *ProjectDynamoRepository {
	if tableName == "" {
		tableName = defaultProjectsTableName
	}
	if codesTable == "" {
		codesTable = defaultCodesTableName
	}
	return &ProjectDynamoRepository{ddb: ddb, tableName: tableName, codesTable: codesTable}
}

func (r *ProjectDynamoRepository) Create(ctx context.Context, p entities.Project) (entities.Project, error) {
	av, err := attributevalue.MarshalMap(toProjectItem(p))
	if err != nil {
		return entities.Project{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String("attribute_not_exists(#request_id)"),
		ExpressionAttributeNames: map[string]string{"#request_id": "request_id"},
	})
	if err != nil {
		return entities.Project{}, translateConditionFailure(err, errDuplicateKey)
	}
	return p, nil
}

func (r *ProjectDynamoRepository) GetByRequestID(ctx context.Context, requestID string) (entities.Project, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"request_id": &types.AttributeValueMemberS{Value: requestID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Project{}, err
	}
	if len(out.Item) == 0 {
		return entities.Project{}, nil
	}

	var it projectItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Project{}, err
	}
	return fromProjectItem(it), nil
}

// ReserveCode claims a reference code. ErrDuplicateKey means another creator
// holds it already.
func (r *ProjectDynamoRepository) ReserveCode(ctx context.Context, code string) error {
	_, err := r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.codesTable),
		Item: map[string]types.AttributeValue{
			"code":        &types.AttributeValueMemberS{Value: code},
			"reserved_at": &types.AttributeValueMemberS{Value: formatTime(timeNow())},
		},
		ConditionExpression:      aws.String("attribute_not_exists(#code)"),
		ExpressionAttributeNames: map[string]string{"#code": "code"},
	})
	if err != nil {
		return translateConditionFailure(err, errDuplicateKey)
	}
	return nil
}

func (r *ProjectDynamoRepository) UpdateStatus(ctx context.Context, requestID string, expected, next entities.ProjectStatus) (entities.Project, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"request_id": &types.AttributeValueMemberS{Value: requestID},
		},
		ConditionExpression: aws.String("attribute_exists(#request_id) AND #status = :expected"),
		UpdateExpression:    aws.String("SET #status = :next, #updated_at = :updated_at"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected":   &types.AttributeValueMemberS{Value: string(expected)},
			":next":       &types.AttributeValueMemberS{Value: string(next)},
			":updated_at": &types.AttributeValueMemberS{Value: formatTime(timeNow())},
		},
		ExpressionAttributeNames: map[string]string{
			"#request_id": "request_id",
			"#status":     "status",
			"#updated_at": "updated_at",
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return entities.Project{}, translateConditionFailure(err, errStatusConflict)
	}

	var it projectItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Project{}, err
	}
	return fromProjectItem(it), nil
}

func toProjectItem(p entities.Project) projectItem {
	return projectItem{
		RequestID: p.RequestID,
		ID:        p.ID,
		Code:      p.Code,
		Status:    string(p.Status),
		CreatedAt: formatTime(p.CreatedAt),
		UpdatedAt: formatTime(p.UpdatedAt),
	}
}

func fromProjectItem(it projectItem) entities.Project {
	return entities.Project{
		ID:        it.ID,
		RequestID: it.RequestID,
		Code:      it.Code,
		Status:    entities.ProjectStatus(it.Status),
		CreatedAt: parseTime(it.CreatedAt),
		UpdatedAt: parseTime(it.UpdatedAt),
	}
}

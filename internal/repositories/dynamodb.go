package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/vitorfontenele/videos-api/internal/models"
)

const (
	conditionVideoAbsent  = "attribute_not_exists(#id)"
	conditionVideoPresent = "attribute_exists(#id)"
	filterTitleContains   = "contains(#title, :search)"

	tableReadyTimeout = 2 * time.Minute
)

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoDBVideoRepository.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// videoItem is the DynamoDB item layout of a video.
type videoItem struct {
	ID         string  `dynamodbav:"id"`
	Title      string  `dynamodbav:"title"`
	Duration   float64 `dynamodbav:"duration"`
	UploadedAt string  `dynamodbav:"uploaded_at"`
}

// DynamoDBVideoRepository stores videos in a DynamoDB table keyed by id.
type DynamoDBVideoRepository struct {
	client    DynamoDBAPI
	tableName string
}

// NewDynamoDBVideoRepository returns a repository using the given table.
func NewDynamoDBVideoRepository(client DynamoDBAPI, tableName string) (*DynamoDBVideoRepository, error) {
	if tableName == "" {
		return nil, errors.New("dynamodb table name cannot be empty")
	}
	return &DynamoDBVideoRepository{client: client, tableName: tableName}, nil
}

// EnsureTable creates the table with on-demand billing when it is missing and
// waits until it becomes active.
func (r *DynamoDBVideoRepository) EnsureTable(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.tableName)})
	if err == nil {
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describe table %s: %w", r.tableName, err)
	}

	_, err = r.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(r.tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return fmt.Errorf("create table %s: %w", r.tableName, err)
		}
	}

	waiter := dynamodb.NewTableExistsWaiter(r.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.tableName)}, tableReadyTimeout); err != nil {
		return fmt.Errorf("wait for table %s: %w", r.tableName, err)
	}

	return nil
}

// FindAll scans the table, filtering on title when search is not empty.
func (r *DynamoDBVideoRepository) FindAll(ctx context.Context, search string) ([]models.VideoRecord, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(r.tableName)}
	if search != "" {
		input.FilterExpression = aws.String(filterTitleContains)
		input.ExpressionAttributeNames = map[string]string{"#title": "title"}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":search": &types.AttributeValueMemberS{Value: search},
		}
	}

	videos := make([]models.VideoRecord, 0)
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan videos: %w", err)
		}

		var items []videoItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal videos: %w", err)
		}
		for _, item := range items {
			videos = append(videos, item.record())
		}
	}

	return videos, nil
}

// FindByID performs a strongly consistent read of a single video.
// DynamoDB rejects empty key values, so no item can exist under "".
func (r *DynamoDBVideoRepository) FindByID(ctx context.Context, id string) (models.VideoRecord, error) {
	if id == "" {
		return models.VideoRecord{}, ErrNotFound
	}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            videoKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return models.VideoRecord{}, fmt.Errorf("get video: %w", err)
	}

	if result.Item == nil {
		return models.VideoRecord{}, ErrNotFound
	}

	var item videoItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return models.VideoRecord{}, fmt.Errorf("unmarshal video: %w", err)
	}

	return item.record(), nil
}

// Insert writes the video unless an item with the same id exists.
func (r *DynamoDBVideoRepository) Insert(ctx context.Context, video models.VideoRecord) error {
	if video.ID == "" {
		return ErrEmptyKey
	}

	av, err := attributevalue.MarshalMap(itemFromRecord(video))
	if err != nil {
		return fmt.Errorf("marshal video: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      aws.String(conditionVideoAbsent),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		if isConditionFailure(err) {
			return ErrConflict
		}
		return fmt.Errorf("put video: %w", err)
	}

	return nil
}

// UpdateByID replaces the item stored under id. When the id changes, the old
// item is removed and the new one written in a single transaction.
func (r *DynamoDBVideoRepository) UpdateByID(ctx context.Context, id string, video models.VideoRecord) error {
	if id == "" {
		return nil
	}
	if video.ID == "" {
		return ErrEmptyKey
	}

	av, err := attributevalue.MarshalMap(itemFromRecord(video))
	if err != nil {
		return fmt.Errorf("marshal video: %w", err)
	}

	if video.ID == id {
		_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:                aws.String(r.tableName),
			Item:                     av,
			ConditionExpression:      aws.String(conditionVideoPresent),
			ExpressionAttributeNames: map[string]string{"#id": "id"},
		})
		if err != nil {
			if isConditionFailure(err) {
				return nil
			}
			return fmt.Errorf("put video: %w", err)
		}
		return nil
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Delete: &types.Delete{
				TableName:                aws.String(r.tableName),
				Key:                      videoKey(id),
				ConditionExpression:      aws.String(conditionVideoPresent),
				ExpressionAttributeNames: map[string]string{"#id": "id"},
			}},
			{Put: &types.Put{
				TableName:                aws.String(r.tableName),
				Item:                     av,
				ConditionExpression:      aws.String(conditionVideoAbsent),
				ExpressionAttributeNames: map[string]string{"#id": "id"},
			}},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			reasons := canceled.CancellationReasons
			if len(reasons) > 0 && isConditionReason(reasons[0]) {
				return nil
			}
			if len(reasons) > 1 && isConditionReason(reasons[1]) {
				return ErrConflict
			}
		}
		return fmt.Errorf("move video: %w", err)
	}

	return nil
}

// DeleteByID removes the item stored under id.
func (r *DynamoDBVideoRepository) DeleteByID(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       videoKey(id),
	})
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return nil
}

// Ping describes the table to confirm it is reachable.
func (r *DynamoDBVideoRepository) Ping(ctx context.Context) error {
	if _, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(r.tableName)}); err != nil {
		return fmt.Errorf("describe table %s: %w", r.tableName, err)
	}
	return nil
}

func videoKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func itemFromRecord(video models.VideoRecord) videoItem {
	return videoItem{
		ID:         video.ID,
		Title:      video.Title,
		Duration:   video.Duration,
		UploadedAt: video.UploadedAt,
	}
}

func (i videoItem) record() models.VideoRecord {
	return models.VideoRecord{
		ID:         i.ID,
		Title:      i.Title,
		Duration:   i.Duration,
		UploadedAt: i.UploadedAt,
	}
}

func isConditionFailure(err error) bool {
	var failed *types.ConditionalCheckFailedException
	return errors.As(err, &failed)
}

func isConditionReason(reason types.CancellationReason) bool {
	return aws.ToString(reason.Code) == "ConditionalCheckFailed"
}

var _ Store = (*DynamoDBVideoRepository)(nil)

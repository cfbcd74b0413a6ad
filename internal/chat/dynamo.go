package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"finance-companion/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// DynamoAPI is the part of the DynamoDB client the repository uses.
type DynamoAPI interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// NewDynamoClient builds a client for the region. A non-empty endpoint points it
// at DynamoDB Local with static dummy credentials.
func NewDynamoClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: endpoint}, nil
		})
		opts = append(opts,
			config.WithEndpointResolverWithOptions(resolver),
			config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
				Value: aws.Credentials{AccessKeyID: "dummy", SecretAccessKey: "dummy", SessionToken: "dummy"},
			}),
		)
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

// dynamoRepository keys items by UserID (hash) and MessageID (range).
// Message IDs are UUIDv7 strings so the range key sorts by creation time.
type dynamoRepository struct {
	client DynamoAPI
	table  string
}

func NewDynamoRepository(client DynamoAPI, table string) Repository {
	return &dynamoRepository{client: client, table: table}
}

// EnsureDynamoTable creates the messages table. An error usually means it already exists, so it is only logged.
func EnsureDynamoTable(ctx context.Context, client DynamoAPI, table string, log *slog.Logger) {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("UserID"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("MessageID"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("UserID"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("MessageID"), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		log.Info("dynamodb table not created", "table", table, "error", err)
	}
}

func (r *dynamoRepository) SaveMessage(ctx context.Context, userID uuid.UUID, msg *domain.Message) error {
	item := map[string]types.AttributeValue{
		"UserID":    &types.AttributeValueMemberS{Value: userID.String()},
		"MessageID": &types.AttributeValueMemberS{Value: msg.ID},
		"Role":      &types.AttributeValueMemberS{Value: string(msg.Role)},
		"Content":   &types.AttributeValueMemberS{Value: msg.Content},
		"CreatedAt": &types.AttributeValueMemberS{Value: msg.CreatedAt.UTC().Format(time.RFC3339Nano)},
	}
	if msg.Attachment != nil {
		item["FileName"] = &types.AttributeValueMemberS{Value: msg.Attachment.Name}
		item["FileSize"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(msg.Attachment.SizeBytes, 10)}
	}

	_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("could not put chat message: %w", err)
	}
	return nil
}

func (r *dynamoRepository) ListMessages(ctx context.Context, userID uuid.UUID) ([]domain.Message, error) {
	items, err := r.queryAll(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(items))
	for _, item := range items {
		msg := domain.Message{
			ID:      stringAttr(item, "MessageID"),
			Role:    domain.Role(stringAttr(item, "Role")),
			Content: stringAttr(item, "Content"),
		}
		msg.CreatedAt, _ = time.Parse(time.RFC3339Nano, stringAttr(item, "CreatedAt"))
		if name := stringAttr(item, "FileName"); name != "" {
			att := &domain.Attachment{Name: name}
			if n, ok := item["FileSize"].(*types.AttributeValueMemberN); ok {
				att.SizeBytes, _ = strconv.ParseInt(n.Value, 10, 64)
			}
			msg.Attachment = att
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *dynamoRepository) DeleteMessages(ctx context.Context, userID uuid.UUID) error {
	items, err := r.queryAll(ctx, userID, aws.String("MessageID"))
	if err != nil {
		return err
	}
	for _, item := range items {
		_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.table),
			Key: map[string]types.AttributeValue{
				"UserID":    &types.AttributeValueMemberS{Value: userID.String()},
				"MessageID": item["MessageID"],
			},
		})
		if err != nil {
			return fmt.Errorf("could not delete chat message: %w", err)
		}
	}
	return nil
}

// queryAll follows LastEvaluatedKey until the user's partition is exhausted.
func (r *dynamoRepository) queryAll(ctx context.Context, userID uuid.UUID, projection *string) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.table),
			KeyConditionExpression: aws.String("UserID = :uid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uid": &types.AttributeValueMemberS{Value: userID.String()},
			},
			ProjectionExpression: projection,
			ScanIndexForward:     aws.Bool(true),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("could not query chat messages: %w", err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

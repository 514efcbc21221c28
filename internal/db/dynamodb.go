package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	COMMENTS_TABLE_NAME = "ScrapedComments"
	COMMENTS_TTL        = 24 * time.Hour
)

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

type commentRecord struct {
	PostID    string   `dynamodbav:"post_id"`
	Comments  []string `dynamodbav:"comments"`
	ScrapedAt int64    `dynamodbav:"scraped_at"`
	TTL       int64    `dynamodbav:"ttl"`
}

// DynamoCommentStore keeps one item per post, expiring a day after the
// scrape.
type DynamoCommentStore struct {
	client DynamoAPI
	table  string
	now    func() time.Time
}

func NewDynamoCommentStore(client DynamoAPI, table string) *DynamoCommentStore {
	if table == "" {
		table = COMMENTS_TABLE_NAME
	}
	return &DynamoCommentStore{client: client, table: table, now: time.Now}
}

func (d *DynamoCommentStore) SaveComments(ctx context.Context, postID string, comments []string) error {
	item, err := d.commentsToItem(postID, comments)
	if err != nil {
		return err
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to store comments: %w", err)
	}

	slog.Info("[DynamoDB] Successfully stored comments",
		slog.String("post_id", postID),
		slog.Int("count", len(comments)))
	return nil
}

func (d *DynamoCommentStore) LoadComments(ctx context.Context, postID string) ([]string, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]types.AttributeValue{
			"post_id": &types.AttributeValueMemberS{Value: postID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to load comments: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var record commentRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		slog.Error("[DynamoDB] Unable to unmarshal comment item", slog.String("error", err.Error()))
		return nil, err
	}
	if record.Comments == nil {
		record.Comments = []string{}
	}
	return record.Comments, nil
}

func (d *DynamoCommentStore) commentsToItem(postID string, comments []string) (map[string]types.AttributeValue, error) {
	now := d.now()
	if comments == nil {
		comments = []string{}
	}
	item, err := attributevalue.MarshalMap(commentRecord{
		PostID:    postID,
		Comments:  comments,
		ScrapedAt: now.Unix(),
		TTL:       now.Add(COMMENTS_TTL).Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to marshal comments: %w", err)
	}
	return item, nil
}

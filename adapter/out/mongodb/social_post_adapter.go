package mongodb

import (
	"context"
	"fmt"
	"time"

	"social_server/core/domain"
	"social_server/core/port/out"
	"social_server/pkg/identifier"
	"social_server/pkg/logger"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionPosts = "posts"

// PostAdapter implements out.PostRepository using MongoDB. The feed
// aggregation, the only multi-document query in the system, runs behind a
// circuit breaker so a degraded store fails fast instead of piling up
// aggregation work.
type PostAdapter struct {
	db          *mongo.Database
	collection  *mongo.Collection
	feedBreaker *gobreaker.CircuitBreaker
}

// NewPostAdapter creates a new MongoDB post adapter.
func NewPostAdapter(db *mongo.Database) *PostAdapter {
	cbSettings := gobreaker.Settings{
		Name:        "mongo-feed",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker %s: state changed from %s to %s", name, from.String(), to.String())
		},
	}

	return &PostAdapter{
		db:          db,
		collection:  db.Collection(collectionPosts),
		feedBreaker: gobreaker.NewCircuitBreaker(cbSettings),
	}
}

// EnsureIndexes creates the indexes backing the feed query.
func (a *PostAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "author", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	}

	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// Insert stores a new post document.
func (a *PostAdapter) Insert(ctx context.Context, post *domain.Post) error {
	if _, err := a.collection.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by identifier. Returns (nil, nil) when absent.
func (a *PostAdapter) GetByID(ctx context.Context, id identifier.ID) (*domain.Post, error) {
	var post domain.Post
	err := a.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// AddComment appends a comment to the post's comment sequence. The match
// count doubles as the existence check.
func (a *PostAdapter) AddComment(ctx context.Context, postID identifier.ID, comment domain.Comment) (bool, error) {
	result, err := a.collection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to add comment: %w", err)
	}
	return result.MatchedCount == 1, nil
}

// AddLike appends userID to the likes set with set semantics; the filter
// excludes posts that already carry the like, making the append atomic
// under concurrent identical requests.
func (a *PostAdapter) AddLike(ctx context.Context, postID, userID identifier.ID) (bool, error) {
	result, err := a.collection.UpdateOne(ctx,
		bson.M{"_id": postID, "likes": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"likes": userID}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to add like: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

// FeedByAuthors runs the store-side feed join: posts by the given authors,
// newest first with _id as a stable tie-break, paginated, joined with the
// author document and projected down to a like count and raw comment
// author identifiers.
func (a *PostAdapter) FeedByAuthors(ctx context.Context, authors []identifier.ID, skip, limit int64) ([]*out.FeedPost, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"author": bson.M{"$in": authors}}},
		{"$sort": bson.D{
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: -1},
		}},
		{"$skip": skip},
		{"$limit": limit},
		{"$lookup": bson.M{
			"from":         collectionUsers,
			"localField":   "author",
			"foreignField": "_id",
			"as":           "authorDetails",
		}},
		{"$project": bson.M{
			"content":   1,
			"createdAt": 1,
			"likes":     bson.M{"$size": "$likes"},
			"comments": bson.M{
				"$map": bson.M{
					"input": "$comments",
					"as":    "comment",
					"in": bson.M{
						"text":      "$$comment.text",
						"author":    bson.M{"$toString": "$$comment.author"},
						"createdAt": "$$comment.createdAt",
					},
				},
			},
			"authorFirstName": bson.M{"$arrayElemAt": bson.A{"$authorDetails.firstName", 0}},
			"authorLastName":  bson.M{"$arrayElemAt": bson.A{"$authorDetails.lastName", 0}},
		}},
	}

	result, err := a.feedBreaker.Execute(func() (interface{}, error) {
		cursor, err := a.collection.Aggregate(ctx, pipeline, options.Aggregate())
		if err != nil {
			return nil, fmt.Errorf("failed to run feed aggregation: %w", err)
		}
		defer cursor.Close(ctx)

		var rows []*out.FeedPost
		for cursor.Next(ctx) {
			var row out.FeedPost
			if err := cursor.Decode(&row); err != nil {
				return nil, fmt.Errorf("failed to decode feed row: %w", err)
			}
			rows = append(rows, &row)
		}
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate feed rows: %w", err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*out.FeedPost), nil
}

// DeleteAll wipes the posts collection.
func (a *PostAdapter) DeleteAll(ctx context.Context) (int64, error) {
	result, err := a.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete posts: %w", err)
	}
	return result.DeletedCount, nil
}

var _ out.PostRepository = (*PostAdapter)(nil)

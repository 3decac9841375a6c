package mongodb

import (
	"context"
	"fmt"

	"social_server/core/domain"
	"social_server/core/port/out"
	"social_server/pkg/identifier"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const collectionUsers = "users"

// UserAdapter implements out.UserRepository using MongoDB.
type UserAdapter struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewUserAdapter creates a new MongoDB user adapter.
func NewUserAdapter(db *mongo.Database) *UserAdapter {
	return &UserAdapter{
		db:         db,
		collection: db.Collection(collectionUsers),
	}
}

// Insert stores a new user document.
func (a *UserAdapter) Insert(ctx context.Context, user *domain.User) error {
	if _, err := a.collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by identifier. Returns (nil, nil) when absent.
func (a *UserAdapter) GetByID(ctx context.Context, id identifier.ID) (*domain.User, error) {
	var user domain.User
	err := a.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByIDs resolves a batch of identifiers in one query. Identifiers with
// no matching document are absent from the result map.
func (a *UserAdapter) GetByIDs(ctx context.Context, ids []identifier.ID) (map[identifier.ID]*domain.User, error) {
	users := make(map[identifier.ID]*domain.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	cursor, err := a.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var user domain.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users[user.ID] = &user
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// AddFollowing appends followID to the following set with set semantics:
// the filter excludes documents that already contain the entry, so the
// append is atomic and cannot produce duplicates under concurrent callers.
func (a *UserAdapter) AddFollowing(ctx context.Context, userID, followID identifier.ID) (bool, error) {
	result, err := a.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "following": bson.M{"$ne": followID}},
		bson.M{"$push": bson.M{"following": followID}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to add following: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

// RemoveFollowing removes unfollowID from the following set.
func (a *UserAdapter) RemoveFollowing(ctx context.Context, userID, unfollowID identifier.ID) (bool, error) {
	result, err := a.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"following": unfollowID}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove following: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

// DeleteAll wipes the users collection.
func (a *UserAdapter) DeleteAll(ctx context.Context) (int64, error) {
	result, err := a.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete users: %w", err)
	}
	return result.DeletedCount, nil
}

var _ out.UserRepository = (*UserAdapter)(nil)

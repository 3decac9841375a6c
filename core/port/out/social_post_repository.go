package out

import (
	"context"
	"time"

	"social_server/core/domain"
	"social_server/pkg/identifier"
)

// PostRepository is the entity store port for the posts collection.
type PostRepository interface {
	Insert(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id identifier.ID) (*domain.Post, error)

	// AddComment appends a comment to the post's comment sequence.
	// Returns false when no post matched the identifier.
	AddComment(ctx context.Context, postID identifier.ID, comment domain.Comment) (bool, error)

	// AddLike appends userID to the post's likes set only if it is not
	// already present. Returns false when the append did not apply.
	AddLike(ctx context.Context, postID, userID identifier.ID) (bool, error)

	// FeedByAuthors returns one feed page: posts authored by any of the
	// given users, most recent first with a stable tie-break, joined with
	// the author's name and projected to a like count. Comment authors are
	// left as raw identifiers.
	FeedByAuthors(ctx context.Context, authors []identifier.ID, skip, limit int64) ([]*FeedPost, error)

	// DeleteAll wipes the collection. Bulk-reset utility only.
	DeleteAll(ctx context.Context) (int64, error)
}

// FeedComment is a comment row inside a feed page. Author is the raw
// identifier in hex form; names are not resolved on the feed path.
type FeedComment struct {
	Text      string    `bson:"text" json:"text"`
	Author    string    `bson:"author" json:"author"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// FeedPost is a denormalized, read-only projection of a post produced by
// the store-side feed join.
type FeedPost struct {
	ID              identifier.ID `bson:"_id"`
	Content         string        `bson:"content"`
	CreatedAt       time.Time     `bson:"createdAt"`
	LikeCount       int           `bson:"likes"`
	Comments        []FeedComment `bson:"comments"`
	AuthorFirstName string        `bson:"authorFirstName"`
	AuthorLastName  string        `bson:"authorLastName"`
}

package domain

import (
	"time"

	"social_server/pkg/identifier"
)

// MaxCommentLength is the maximum accepted comment text length, counted in
// characters, not bytes.
const MaxCommentLength = 500

// Comment is embedded in a post, append-only and immutable once appended.
// Insertion order is chronological order.
type Comment struct {
	Author    identifier.ID `bson:"author" json:"author"`
	Text      string        `bson:"text" json:"text"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

// NewComment stamps a comment with the current UTC time.
func NewComment(author identifier.ID, text string) Comment {
	return Comment{
		Author:    author,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

// Post is a stored post. Likes is a set of user identifiers with unique
// membership. The author reference is checked only at creation paths that
// require it; there is no cascading delete.
type Post struct {
	ID        identifier.ID   `bson:"_id,omitempty" json:"postId"`
	Author    identifier.ID   `bson:"author" json:"author"`
	Content   string          `bson:"content" json:"content"`
	CreatedAt time.Time       `bson:"createdAt" json:"createdAt"`
	Likes     []identifier.ID `bson:"likes" json:"-"`
	Comments  []Comment       `bson:"comments" json:"-"`
}

// NewPost creates a post with a fresh identifier, the current UTC creation
// time and empty like/comment sets.
func NewPost(author identifier.ID, content string) *Post {
	return &Post{
		ID:        identifier.New(),
		Author:    author,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		Likes:     []identifier.ID{},
		Comments:  []Comment{},
	}
}

// LikedBy reports whether userID is in the likes set.
func (p *Post) LikedBy(userID identifier.ID) bool {
	for _, l := range p.Likes {
		if l == userID {
			return true
		}
	}
	return false
}

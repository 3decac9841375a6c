// Package feed joins the follow set of a user against posts and shapes the
// paginated, denormalized activity feed.
package feed

import (
	"context"
	"time"

	"social_server/core/port/out"
	"social_server/pkg/apperr"
	"social_server/pkg/identifier"
)

// PageSize is the fixed feed page size.
const PageSize = 20

// Service implements the feed aggregator.
type Service struct {
	users out.UserRepository
	posts out.PostRepository
}

// NewService creates a new feed service.
func NewService(users out.UserRepository, posts out.PostRepository) *Service {
	return &Service{
		users: users,
		posts: posts,
	}
}

// Comment is a feed comment projection. Author is the raw identifier in hex
// form; the feed does not resolve comment author names, unlike the
// dedicated comments endpoint.
type Comment struct {
	Text      string `json:"text"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

// Item is one denormalized feed entry: post content plus the author's name
// and a like count. Timestamps are serialized to ISO-8601 text.
type Item struct {
	PostID          string    `json:"postId"`
	Content         string    `json:"content"`
	CreatedAt       string    `json:"createdAt"`
	Likes           int       `json:"likes"`
	Comments        []Comment `json:"comments"`
	AuthorFirstName string    `json:"authorFirstName"`
	AuthorLastName  string    `json:"authorLastName"`
}

// GetFeed returns one page of the reverse-chronological feed for a user.
// An empty following set short-circuits without touching the posts
// collection. Pages below 1 are clamped to 1 so a negative skip never
// reaches the store.
func (s *Service) GetFeed(ctx context.Context, userID string, page int) ([]Item, error) {
	id, err := identifier.Parse(userID)
	if err != nil {
		return nil, apperr.InvalidID("userId")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.DatabaseError("get user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("User")
	}

	if len(user.Following) == 0 {
		return []Item{}, nil
	}

	if page < 1 {
		page = 1
	}
	skip := int64(page-1) * PageSize

	rows, err := s.posts.FeedByAuthors(ctx, user.Following, skip, PageSize)
	if err != nil {
		return nil, apperr.DatabaseError("feed query", err)
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		comments := make([]Comment, 0, len(row.Comments))
		for _, c := range row.Comments {
			comments = append(comments, Comment{
				Text:      c.Text,
				Author:    c.Author,
				CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		items = append(items, Item{
			PostID:          row.ID.Hex(),
			Content:         row.Content,
			CreatedAt:       row.CreatedAt.UTC().Format(time.RFC3339),
			Likes:           row.LikeCount,
			Comments:        comments,
			AuthorFirstName: row.AuthorFirstName,
			AuthorLastName:  row.AuthorLastName,
		})
	}
	return items, nil
}

// Package content owns post and comment creation, validation, and retrieval,
// plus user profile creation.
package content

import (
	"context"
	"time"
	"unicode/utf8"

	"social_server/core/domain"
	"social_server/core/port/out"
	"social_server/pkg/apperr"
	"social_server/pkg/identifier"
)

// Service implements the content operations.
type Service struct {
	users out.UserRepository
	posts out.PostRepository
}

// NewService creates a new content service.
func NewService(users out.UserRepository, posts out.PostRepository) *Service {
	return &Service{
		users: users,
		posts: posts,
	}
}

// CreateUser creates a profile. All four fields are required; beyond
// presence there is no validation (no length limits, no date parsing).
func (s *Service) CreateUser(ctx context.Context, firstName, lastName, birthDate, bio string) (*domain.User, error) {
	if firstName == "" || lastName == "" || birthDate == "" || bio == "" {
		return nil, apperr.MissingFields()
	}

	user := domain.NewUser(firstName, lastName, birthDate, bio)
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, apperr.DatabaseError("insert user", err)
	}
	return user, nil
}

// CreatePost creates a post. The author identifier must be well formed but
// the author's existence is not verified; the reference is stored weakly
// and resolved at read time.
func (s *Service) CreatePost(ctx context.Context, authorID, postContent string) (*domain.Post, error) {
	if authorID == "" || postContent == "" {
		return nil, apperr.MissingFields()
	}

	author, err := identifier.Parse(authorID)
	if err != nil {
		return nil, apperr.InvalidID("authorId")
	}

	post := domain.NewPost(author, postContent)
	if err := s.posts.Insert(ctx, post); err != nil {
		return nil, apperr.DatabaseError("insert post", err)
	}
	return post, nil
}

// AddComment appends a comment to a post. All input is validated before any
// write; post existence is detected via the update's match result rather
// than a separate read. The comment author's existence is not checked.
func (s *Service) AddComment(ctx context.Context, postID, authorID, text string) error {
	id, err := identifier.Parse(postID)
	if err != nil {
		return apperr.InvalidID("postId")
	}
	if authorID == "" || text == "" {
		return apperr.MissingFields()
	}
	author, err := identifier.Parse(authorID)
	if err != nil {
		return apperr.InvalidID("authorId")
	}
	if utf8.RuneCountInString(text) > domain.MaxCommentLength {
		return apperr.ValidationFailed("Comment too long")
	}

	matched, err := s.posts.AddComment(ctx, id, domain.NewComment(author, text))
	if err != nil {
		return apperr.DatabaseError("add comment", err)
	}
	if !matched {
		return apperr.NotFound("Post")
	}
	return nil
}

// CommentView is a comment with its author resolved to a name.
type CommentView struct {
	Text            string    `json:"text"`
	CreatedAt       time.Time `json:"createdAt"`
	AuthorFirstName string    `json:"authorFirstName"`
	AuthorLastName  string    `json:"authorLastName"`
}

// ListComments returns a post's comments in insertion order with the author
// resolved to first/last name. Comments whose author no longer exists are
// dropped from the result.
func (s *Service) ListComments(ctx context.Context, postID string) ([]CommentView, error) {
	id, err := identifier.Parse(postID)
	if err != nil {
		return nil, apperr.InvalidID("postId")
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.DatabaseError("get post", err)
	}
	if post == nil {
		return nil, apperr.NotFound("Post")
	}

	authorIDs := make([]identifier.ID, 0, len(post.Comments))
	for _, c := range post.Comments {
		authorIDs = append(authorIDs, c.Author)
	}
	authors, err := s.users.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, apperr.DatabaseError("resolve comment authors", err)
	}

	views := make([]CommentView, 0, len(post.Comments))
	for _, c := range post.Comments {
		author, ok := authors[c.Author]
		if !ok {
			continue
		}
		views = append(views, CommentView{
			Text:            c.Text,
			CreatedAt:       c.CreatedAt,
			AuthorFirstName: author.FirstName,
			AuthorLastName:  author.LastName,
		})
	}
	return views, nil
}

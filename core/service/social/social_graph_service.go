// Package social owns follow/unfollow and like/unlike semantics and their
// idempotency rules.
package social

import (
	"context"

	"social_server/core/port/out"
	"social_server/pkg/apperr"
	"social_server/pkg/identifier"
)

// Service implements the social graph operations.
type Service struct {
	users out.UserRepository
	posts out.PostRepository
}

// NewService creates a new social graph service.
func NewService(users out.UserRepository, posts out.PostRepository) *Service {
	return &Service{
		users: users,
		posts: posts,
	}
}

// Follow adds followID to userID's following set. Only userID is checked to
// exist; followID is stored as a weak reference. Self-follow is not
// special-cased: it succeeds structurally unless already present. The
// duplicate check is re-validated by the store's conditional append, so two
// concurrent identical requests cannot both apply.
func (s *Service) Follow(ctx context.Context, userID, followID string) error {
	id, err := identifier.Parse(userID)
	if err != nil {
		return apperr.InvalidID("userId")
	}
	follow, err := identifier.Parse(followID)
	if err != nil {
		return apperr.InvalidID("followId")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return apperr.DatabaseError("get user", err)
	}
	if user == nil {
		return apperr.NotFound("User")
	}
	if user.IsFollowing(follow) {
		return apperr.AlreadyFollowing()
	}

	added, err := s.users.AddFollowing(ctx, id, follow)
	if err != nil {
		return apperr.DatabaseError("add following", err)
	}
	if !added {
		// Lost the race against an identical concurrent request.
		return apperr.AlreadyFollowing()
	}
	return nil
}

// Unfollow removes unfollowID from userID's following set. A missing entry
// is a negative result with a descriptive message, not a server fault.
func (s *Service) Unfollow(ctx context.Context, userID, unfollowID string) error {
	id, err := identifier.Parse(userID)
	if err != nil {
		return apperr.InvalidID("userId")
	}
	unfollow, err := identifier.Parse(unfollowID)
	if err != nil {
		return apperr.InvalidID("unfollowId")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return apperr.DatabaseError("get user", err)
	}
	if user == nil {
		return apperr.NotFound("User")
	}
	if !user.IsFollowing(unfollow) {
		return apperr.NotFollowing()
	}

	removed, err := s.users.RemoveFollowing(ctx, id, unfollow)
	if err != nil {
		return apperr.DatabaseError("remove following", err)
	}
	if !removed {
		return apperr.NotFollowing()
	}
	return nil
}

// Like adds userID to the post's likes set. The liking user's existence is
// not verified. Duplicates are rejected, with the store's conditional
// append closing the read-then-write race.
func (s *Service) Like(ctx context.Context, postID, userID string) error {
	post, err := identifier.Parse(postID)
	if err != nil {
		return apperr.InvalidID("postId")
	}
	user, err := identifier.Parse(userID)
	if err != nil {
		return apperr.InvalidID("userId")
	}

	stored, err := s.posts.GetByID(ctx, post)
	if err != nil {
		return apperr.DatabaseError("get post", err)
	}
	if stored == nil {
		return apperr.NotFound("Post")
	}
	if stored.LikedBy(user) {
		return apperr.AlreadyLiked()
	}

	added, err := s.posts.AddLike(ctx, post, user)
	if err != nil {
		return apperr.DatabaseError("add like", err)
	}
	if !added {
		return apperr.AlreadyLiked()
	}
	return nil
}

// Liker is a user who liked a post, resolved to a displayable name.
type Liker struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ListLikers returns the users who liked a post, in stored order. Likers
// whose user record cannot be resolved are silently skipped.
func (s *Service) ListLikers(ctx context.Context, postID string) ([]Liker, error) {
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

	users, err := s.users.GetByIDs(ctx, post.Likes)
	if err != nil {
		return nil, apperr.DatabaseError("resolve likers", err)
	}

	likers := make([]Liker, 0, len(post.Likes))
	for _, likerID := range post.Likes {
		user, ok := users[likerID]
		if !ok {
			continue
		}
		likers = append(likers, Liker{
			UserID:    user.ID.Hex(),
			FirstName: user.FirstName,
			LastName:  user.LastName,
		})
	}
	return likers, nil
}

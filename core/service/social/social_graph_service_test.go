package social

import (
	"context"
	"testing"

	"social_server/core/domain"
	"social_server/core/port/out"
	"social_server/pkg/apperr"
	"social_server/pkg/identifier"
)

type fakeUserRepo struct {
	users map[identifier.ID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[identifier.ID]*domain.User)}
}

func (r *fakeUserRepo) Insert(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id identifier.ID) (*domain.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []identifier.ID) (map[identifier.ID]*domain.User, error) {
	found := make(map[identifier.ID]*domain.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			found[id] = u
		}
	}
	return found, nil
}

func (r *fakeUserRepo) AddFollowing(_ context.Context, userID, followID identifier.ID) (bool, error) {
	u, ok := r.users[userID]
	if !ok || u.IsFollowing(followID) {
		return false, nil
	}
	u.Following = append(u.Following, followID)
	return true, nil
}

func (r *fakeUserRepo) RemoveFollowing(_ context.Context, userID, unfollowID identifier.ID) (bool, error) {
	u, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	for i, f := range u.Following {
		if f == unfollowID {
			u.Following = append(u.Following[:i], u.Following[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(r.users))
	r.users = make(map[identifier.ID]*domain.User)
	return n, nil
}

type fakePostRepo struct {
	posts map[identifier.ID]*domain.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[identifier.ID]*domain.Post)}
}

func (r *fakePostRepo) Insert(_ context.Context, post *domain.Post) error {
	r.posts[post.ID] = post
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id identifier.ID) (*domain.Post, error) {
	return r.posts[id], nil
}

func (r *fakePostRepo) AddComment(_ context.Context, postID identifier.ID, comment domain.Comment) (bool, error) {
	p, ok := r.posts[postID]
	if !ok {
		return false, nil
	}
	p.Comments = append(p.Comments, comment)
	return true, nil
}

func (r *fakePostRepo) AddLike(_ context.Context, postID, userID identifier.ID) (bool, error) {
	p, ok := r.posts[postID]
	if !ok || p.LikedBy(userID) {
		return false, nil
	}
	p.Likes = append(p.Likes, userID)
	return true, nil
}

func (r *fakePostRepo) FeedByAuthors(_ context.Context, _ []identifier.ID, _, _ int64) ([]*out.FeedPost, error) {
	return nil, nil
}

func (r *fakePostRepo) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(r.posts))
	r.posts = make(map[identifier.ID]*domain.Post)
	return n, nil
}

func seedUser(r *fakeUserRepo, first, last string) *domain.User {
	u := domain.NewUser(first, last, "1990-01-01", "bio")
	r.users[u.ID] = u
	return u
}

func TestFollow(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewService(users, newFakePostRepo())
	ctx := context.Background()

	alice := seedUser(users, "Alice", "Smith")
	bob := seedUser(users, "Bob", "Jones")

	if err := svc.Follow(ctx, alice.ID.Hex(), bob.ID.Hex()); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if !alice.IsFollowing(bob.ID) {
		t.Error("expected alice to follow bob")
	}
	if bob.IsFollowing(alice.ID) {
		t.Error("follow must not be symmetric")
	}

	err := svc.Follow(ctx, alice.ID.Hex(), bob.ID.Hex())
	if !apperr.IsCode(err, apperr.CodeAlreadyFollowing) {
		t.Errorf("duplicate follow: expected ALREADY_FOLLOWING, got %v", err)
	}
	if len(alice.Following) != 1 {
		t.Errorf("duplicate follow must not grow the set, have %d", len(alice.Following))
	}
}

func TestFollow_Errors(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewService(users, newFakePostRepo())
	ctx := context.Background()

	bob := seedUser(users, "Bob", "Jones")

	tests := []struct {
		name     string
		userID   string
		followID string
		wantCode string
	}{
		{"malformed user id", "nope", bob.ID.Hex(), apperr.CodeInvalidID},
		{"malformed follow id", bob.ID.Hex(), "nope", apperr.CodeInvalidID},
		{"unknown user", identifier.New().Hex(), bob.ID.Hex(), apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Follow(ctx, tt.userID, tt.followID)
			if !apperr.IsCode(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestFollow_Self(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewService(users, newFakePostRepo())

	alice := seedUser(users, "Alice", "Smith")
	if err := svc.Follow(context.Background(), alice.ID.Hex(), alice.ID.Hex()); err != nil {
		t.Fatalf("self-follow should be structurally valid, got %v", err)
	}
	if !alice.IsFollowing(alice.ID) {
		t.Error("expected self-follow entry")
	}
}

func TestFollow_NonexistentTarget(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewService(users, newFakePostRepo())

	alice := seedUser(users, "Alice", "Smith")
	ghost := identifier.New()

	// The followed side is a weak reference; it is never checked.
	if err := svc.Follow(context.Background(), alice.ID.Hex(), ghost.Hex()); err != nil {
		t.Fatalf("follow of an unknown target should succeed, got %v", err)
	}
	if !alice.IsFollowing(ghost) {
		t.Error("expected ghost entry in following set")
	}
}

func TestUnfollow(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewService(users, newFakePostRepo())
	ctx := context.Background()

	alice := seedUser(users, "Alice", "Smith")
	bob := seedUser(users, "Bob", "Jones")

	err := svc.Unfollow(ctx, alice.ID.Hex(), bob.ID.Hex())
	if !apperr.IsCode(err, apperr.CodeNotFollowing) {
		t.Errorf("unfollow without follow: expected NOT_FOLLOWING, got %v", err)
	}

	if err := svc.Follow(ctx, alice.ID.Hex(), bob.ID.Hex()); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if err := svc.Unfollow(ctx, alice.ID.Hex(), bob.ID.Hex()); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	if alice.IsFollowing(bob.ID) {
		t.Error("expected follow edge removed")
	}

	// Follow again after unfollow must succeed.
	if err := svc.Follow(ctx, alice.ID.Hex(), bob.ID.Hex()); err != nil {
		t.Fatalf("re-follow: %v", err)
	}
}

func TestLike(t *testing.T) {
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	svc := NewService(users, posts)
	ctx := context.Background()

	alice := seedUser(users, "Alice", "Smith")
	post := domain.NewPost(identifier.New(), "a post")
	posts.posts[post.ID] = post

	if err := svc.Like(ctx, post.ID.Hex(), alice.ID.Hex()); err != nil {
		t.Fatalf("Like: %v", err)
	}
	if len(post.Likes) != 1 || post.Likes[0] != alice.ID {
		t.Errorf("unexpected likes: %v", post.Likes)
	}

	err := svc.Like(ctx, post.ID.Hex(), alice.ID.Hex())
	if !apperr.IsCode(err, apperr.CodeAlreadyLiked) {
		t.Errorf("duplicate like: expected ALREADY_LIKED, got %v", err)
	}
	if len(post.Likes) != 1 {
		t.Errorf("duplicate like must not grow the set, have %d", len(post.Likes))
	}

	err = svc.Like(ctx, identifier.New().Hex(), alice.ID.Hex())
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Errorf("unknown post: expected NOT_FOUND, got %v", err)
	}
	err = svc.Like(ctx, "bad", alice.ID.Hex())
	if !apperr.IsCode(err, apperr.CodeInvalidID) {
		t.Errorf("malformed post id: expected INVALID_ID, got %v", err)
	}
}

func TestListLikers(t *testing.T) {
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	svc := NewService(users, posts)
	ctx := context.Background()

	alice := seedUser(users, "Alice", "Smith")
	bob := seedUser(users, "Bob", "Jones")
	ghost := identifier.New()

	post := domain.NewPost(identifier.New(), "a post")
	post.Likes = []identifier.ID{alice.ID, ghost, bob.ID}
	posts.posts[post.ID] = post

	likers, err := svc.ListLikers(ctx, post.ID.Hex())
	if err != nil {
		t.Fatalf("ListLikers: %v", err)
	}
	if len(likers) != 2 {
		t.Fatalf("expected 2 resolvable likers, got %d", len(likers))
	}
	if likers[0].FirstName != "Alice" || likers[1].FirstName != "Bob" {
		t.Errorf("stored order not preserved: %+v", likers)
	}
	if likers[0].UserID != alice.ID.Hex() {
		t.Errorf("liker id = %s, want %s", likers[0].UserID, alice.ID.Hex())
	}

	if _, err := svc.ListLikers(ctx, identifier.New().Hex()); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Errorf("unknown post: expected NOT_FOUND, got %v", err)
	}
}

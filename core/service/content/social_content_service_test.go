package content

import (
	"context"
	"strings"
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

func TestCreateUser(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewService(users, newFakePostRepo())

	user, err := svc.CreateUser(context.Background(), "Ada", "Lovelace", "1815-12-10", "First programmer")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID.IsZero() {
		t.Error("expected a fresh identifier")
	}
	if user.Following == nil || len(user.Following) != 0 {
		t.Errorf("expected empty following set, got %v", user.Following)
	}
	if _, ok := users.users[user.ID]; !ok {
		t.Error("user was not persisted")
	}
}

func TestCreateUser_MissingFields(t *testing.T) {
	svc := NewService(newFakeUserRepo(), newFakePostRepo())

	tests := []struct {
		name      string
		firstName string
		lastName  string
		birthDate string
		bio       string
	}{
		{"no first name", "", "Lovelace", "1815-12-10", "bio"},
		{"no last name", "Ada", "", "1815-12-10", "bio"},
		{"no birth date", "Ada", "Lovelace", "", "bio"},
		{"no bio", "Ada", "Lovelace", "1815-12-10", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), tt.firstName, tt.lastName, tt.birthDate, tt.bio)
			if !apperr.IsCode(err, apperr.CodeMissingField) {
				t.Errorf("expected MISSING_FIELD, got %v", err)
			}
		})
	}
}

func TestCreatePost(t *testing.T) {
	posts := newFakePostRepo()
	svc := NewService(newFakeUserRepo(), posts)

	author := identifier.New()
	post, err := svc.CreatePost(context.Background(), author.Hex(), "Hello world!")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.Author != author {
		t.Errorf("author = %s, want %s", post.Author.Hex(), author.Hex())
	}
	if post.CreatedAt.IsZero() {
		t.Error("expected a creation timestamp")
	}
	if len(post.Likes) != 0 || len(post.Comments) != 0 {
		t.Error("expected empty like and comment sets")
	}
	if _, ok := posts.posts[post.ID]; !ok {
		t.Error("post was not persisted")
	}
}

func TestCreatePost_Invalid(t *testing.T) {
	svc := NewService(newFakeUserRepo(), newFakePostRepo())
	ctx := context.Background()

	if _, err := svc.CreatePost(ctx, "", "content"); !apperr.IsCode(err, apperr.CodeMissingField) {
		t.Errorf("empty author: expected MISSING_FIELD, got %v", err)
	}
	if _, err := svc.CreatePost(ctx, identifier.New().Hex(), ""); !apperr.IsCode(err, apperr.CodeMissingField) {
		t.Errorf("empty content: expected MISSING_FIELD, got %v", err)
	}
	if _, err := svc.CreatePost(ctx, "not-an-id", "content"); !apperr.IsCode(err, apperr.CodeInvalidID) {
		t.Errorf("malformed author: expected INVALID_ID, got %v", err)
	}
}

func TestAddComment(t *testing.T) {
	posts := newFakePostRepo()
	svc := NewService(newFakeUserRepo(), posts)
	ctx := context.Background()

	post := domain.NewPost(identifier.New(), "a post")
	posts.posts[post.ID] = post
	author := identifier.New()

	if err := svc.AddComment(ctx, post.ID.Hex(), author.Hex(), "nice"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if len(post.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(post.Comments))
	}
	if post.Comments[0].Author != author || post.Comments[0].Text != "nice" {
		t.Errorf("unexpected comment: %+v", post.Comments[0])
	}
}

func TestAddComment_Validation(t *testing.T) {
	posts := newFakePostRepo()
	svc := NewService(newFakeUserRepo(), posts)
	ctx := context.Background()

	post := domain.NewPost(identifier.New(), "a post")
	posts.posts[post.ID] = post
	author := identifier.New().Hex()

	atLimit := strings.Repeat("x", domain.MaxCommentLength)
	if err := svc.AddComment(ctx, post.ID.Hex(), author, atLimit); err != nil {
		t.Errorf("comment at the limit should pass, got %v", err)
	}

	overLimit := strings.Repeat("x", domain.MaxCommentLength+1)
	if err := svc.AddComment(ctx, post.ID.Hex(), author, overLimit); !apperr.IsCode(err, apperr.CodeValidationFailed) {
		t.Errorf("expected VALIDATION_FAILED, got %v", err)
	}
	if len(post.Comments) != 1 {
		t.Errorf("rejected comment must not be appended, have %d", len(post.Comments))
	}

	// The limit counts characters, not bytes: 300 two-byte characters are
	// 600 bytes but still well under the limit.
	multibyte := strings.Repeat("ё", 300)
	if err := svc.AddComment(ctx, post.ID.Hex(), author, multibyte); err != nil {
		t.Errorf("300-character multibyte comment should pass, got %v", err)
	}
	multibyteAtLimit := strings.Repeat("ё", domain.MaxCommentLength)
	if err := svc.AddComment(ctx, post.ID.Hex(), author, multibyteAtLimit); err != nil {
		t.Errorf("multibyte comment at the limit should pass, got %v", err)
	}
	multibyteOverLimit := strings.Repeat("ё", domain.MaxCommentLength+1)
	if err := svc.AddComment(ctx, post.ID.Hex(), author, multibyteOverLimit); !apperr.IsCode(err, apperr.CodeValidationFailed) {
		t.Errorf("multibyte comment over the limit: expected VALIDATION_FAILED, got %v", err)
	}

	if err := svc.AddComment(ctx, "bad", author, "text"); !apperr.IsCode(err, apperr.CodeInvalidID) {
		t.Errorf("malformed post id: expected INVALID_ID, got %v", err)
	}
	if err := svc.AddComment(ctx, post.ID.Hex(), author, ""); !apperr.IsCode(err, apperr.CodeMissingField) {
		t.Errorf("empty text: expected MISSING_FIELD, got %v", err)
	}
	if err := svc.AddComment(ctx, identifier.New().Hex(), author, "text"); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Errorf("unknown post: expected NOT_FOUND, got %v", err)
	}
}

func TestListComments(t *testing.T) {
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	svc := NewService(users, posts)
	ctx := context.Background()

	alice := domain.NewUser("Alice", "Smith", "1990-01-01", "bio")
	users.users[alice.ID] = alice
	ghost := identifier.New()

	post := domain.NewPost(identifier.New(), "a post")
	post.Comments = append(post.Comments,
		domain.NewComment(alice.ID, "first"),
		domain.NewComment(ghost, "from a deleted user"),
		domain.NewComment(alice.ID, "second"),
	)
	posts.posts[post.ID] = post

	views, err := svc.ListComments(ctx, post.ID.Hex())
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 resolvable comments, got %d", len(views))
	}
	if views[0].Text != "first" || views[1].Text != "second" {
		t.Errorf("insertion order not preserved: %q, %q", views[0].Text, views[1].Text)
	}
	for _, v := range views {
		if v.AuthorFirstName != "Alice" || v.AuthorLastName != "Smith" {
			t.Errorf("author not resolved: %+v", v)
		}
	}

	if _, err := svc.ListComments(ctx, identifier.New().Hex()); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Errorf("unknown post: expected NOT_FOUND, got %v", err)
	}
	if _, err := svc.ListComments(ctx, "bad"); !apperr.IsCode(err, apperr.CodeInvalidID) {
		t.Errorf("malformed id: expected INVALID_ID, got %v", err)
	}
}

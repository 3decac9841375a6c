package http

import (
	"social_server/core/service/content"
	"social_server/core/service/social"
	"social_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PostHandler handles post, comment and like requests.
type PostHandler struct {
	contentService *content.Service
	socialService  *social.Service
}

// NewPostHandler creates a new post handler.
func NewPostHandler(contentService *content.Service, socialService *social.Service) *PostHandler {
	return &PostHandler{
		contentService: contentService,
		socialService:  socialService,
	}
}

// Register registers post routes.
func (h *PostHandler) Register(router fiber.Router) {
	posts := router.Group("/posts")

	posts.Post("/", h.CreatePost)
	posts.Post("/:postId/comments", h.AddComment)
	posts.Get("/:postId/comments", h.ListComments)
	posts.Post("/:postId/likes", h.AddLike)
	posts.Get("/:postId/likes", h.ListLikers)
}

// CreatePostRequest is the post creation body.
type CreatePostRequest struct {
	AuthorID string `json:"authorId"`
	Content  string `json:"content"`
}

// CreatePost creates a post.
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	post, err := h.contentService.CreatePost(c.Context(), req.AuthorID, req.Content)
	if err != nil {
		return err
	}

	return response.Created(c, fiber.Map{
		"message": "Post created",
		"postId":  post.ID.Hex(),
	})
}

// AddCommentRequest is the comment creation body.
type AddCommentRequest struct {
	AuthorID string `json:"authorId"`
	Text     string `json:"text"`
}

// AddComment appends a comment to a post.
func (h *PostHandler) AddComment(c *fiber.Ctx) error {
	var req AddCommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.contentService.AddComment(c.Context(), c.Params("postId"), req.AuthorID, req.Text); err != nil {
		return err
	}
	return response.OK(c, message("Comment added"))
}

// ListComments returns a post's comments with resolved author names.
func (h *PostHandler) ListComments(c *fiber.Ctx) error {
	comments, err := h.contentService.ListComments(c.Context(), c.Params("postId"))
	if err != nil {
		return err
	}
	return response.OK(c, comments)
}

// AddLikeRequest carries the liking user.
type AddLikeRequest struct {
	UserID string `json:"userId"`
}

// AddLike adds a like to a post.
func (h *PostHandler) AddLike(c *fiber.Ctx) error {
	var req AddLikeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.socialService.Like(c.Context(), c.Params("postId"), req.UserID); err != nil {
		return err
	}
	return response.OK(c, message("Like added"))
}

// ListLikers returns the users who liked a post.
func (h *PostHandler) ListLikers(c *fiber.Ctx) error {
	likers, err := h.socialService.ListLikers(c.Context(), c.Params("postId"))
	if err != nil {
		return err
	}
	return response.OK(c, likers)
}

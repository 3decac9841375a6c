package http

import (
	"social_server/core/service/content"
	"social_server/core/service/feed"
	"social_server/core/service/social"
	"social_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles profile, follow graph and feed requests.
type UserHandler struct {
	contentService *content.Service
	socialService  *social.Service
	feedService    *feed.Service
}

// NewUserHandler creates a new user handler.
func NewUserHandler(contentService *content.Service, socialService *social.Service, feedService *feed.Service) *UserHandler {
	return &UserHandler{
		contentService: contentService,
		socialService:  socialService,
		feedService:    feedService,
	}
}

// Register registers user routes.
func (h *UserHandler) Register(router fiber.Router) {
	users := router.Group("/users")

	users.Post("/", h.CreateUser)
	users.Post("/:userId/follow", h.Follow)
	users.Post("/:userId/unfollow", h.Unfollow)
	users.Get("/:userId/feed", h.GetFeed)
}

// CreateUserRequest is the profile creation body.
type CreateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate"`
	Bio       string `json:"bio"`
}

// CreateUser creates a user profile.
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.contentService.CreateUser(c.Context(), req.FirstName, req.LastName, req.BirthDate, req.Bio)
	if err != nil {
		return err
	}

	return response.Created(c, fiber.Map{
		"message": "User created",
		"userId":  user.ID.Hex(),
	})
}

// FollowRequest carries the user to follow.
type FollowRequest struct {
	FollowID string `json:"followId"`
}

// Follow adds a user to the caller's following set.
func (h *UserHandler) Follow(c *fiber.Ctx) error {
	var req FollowRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.socialService.Follow(c.Context(), c.Params("userId"), req.FollowID); err != nil {
		return err
	}
	return response.OK(c, message("Now following the user"))
}

// UnfollowRequest carries the user to unfollow.
type UnfollowRequest struct {
	UnfollowID string `json:"unfollowId"`
}

// Unfollow removes a user from the caller's following set.
func (h *UserHandler) Unfollow(c *fiber.Ctx) error {
	var req UnfollowRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := h.socialService.Unfollow(c.Context(), c.Params("userId"), req.UnfollowID); err != nil {
		return err
	}
	return response.OK(c, message("Unfollowed the user"))
}

// GetFeed returns one page of the caller's activity feed.
func (h *UserHandler) GetFeed(c *fiber.Ctx) error {
	page := response.GetPage(c)

	items, err := h.feedService.GetFeed(c.Context(), c.Params("userId"), page)
	if err != nil {
		return err
	}

	return response.OKWithMeta(c, items, &response.Meta{
		Page:     page,
		PageSize: feed.PageSize,
		HasMore:  len(items) == feed.PageSize,
	})
}

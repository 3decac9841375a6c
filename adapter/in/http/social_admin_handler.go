package http

import (
	"social_server/core/port/out"
	"social_server/pkg/apperr"
	"social_server/pkg/logger"
	"social_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes the bulk-reset utility. The wipe is deliberately
// blunt and non-transactional; concurrent requests observe a mix of pre-
// and post-reset state. Test-harness use only.
type AdminHandler struct {
	users out.UserRepository
	posts out.PostRepository
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(users out.UserRepository, posts out.PostRepository) *AdminHandler {
	return &AdminHandler{
		users: users,
		posts: posts,
	}
}

// Register registers admin routes.
func (h *AdminHandler) Register(app *fiber.App) {
	app.Post("/cleanup", h.Cleanup)
}

// Cleanup clears both collections.
func (h *AdminHandler) Cleanup(c *fiber.Ctx) error {
	usersDeleted, err := h.users.DeleteAll(c.Context())
	if err != nil {
		return apperr.DatabaseError("cleanup users", err)
	}
	postsDeleted, err := h.posts.DeleteAll(c.Context())
	if err != nil {
		return apperr.DatabaseError("cleanup posts", err)
	}

	logger.Info("Database cleanup: %d users, %d posts removed", usersDeleted, postsDeleted)
	return response.OK(c, message("Database cleanup successful. Collections cleared."))
}

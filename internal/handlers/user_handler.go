package handlers

import (
	"log"

	"refugio/internal/middleware"
	"refugio/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user profiles and favourites.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes registers the authenticated user routes. Listing and
// deleting users is admin-only; the rest operate on the requester.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", middleware.AdminRequired(), h.HandleGetAllUsers)
	userRoutes.Get("/me", h.HandleGetCurrentUser)
	userRoutes.Put("/", h.HandleUpdateUser)
	userRoutes.Delete("/", middleware.AdminRequired(), h.HandleDeleteUser)
	userRoutes.Get("/favourites", h.HandleListFavourites)
	userRoutes.Put("/favourites/:petId", h.HandleToggleFavourite)
	userRoutes.Delete("/favourites/:petId", h.HandleRemoveFavourite)
}

// HandleGetAllUsers retrieves all users.
func (h *UserHandler) HandleGetAllUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers()
	if err != nil {
		return respondError(c, err, "Could not retrieve users")
	}
	return c.JSON(users)
}

// HandleGetCurrentUser returns the requester's profile with favourites
// resolved.
func (h *UserHandler) HandleGetCurrentUser(c *fiber.Ctx) error {
	user, err := h.service.GetCurrentUser(middleware.RequesterID(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve user")
	}
	return c.JSON(user)
}

// UserUpdateRequest represents the partial-update body for a user. Username
// names the target; absent fields are left untouched.
type UserUpdateRequest struct {
	Username string  `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// HandleUpdateUser merge-patches a user. Non-admins may only edit themselves;
// role changes require the admin role.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing user update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if req.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "username is required",
		})
	}

	changes := services.UserChanges{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
	user, err := h.service.UpdateUser(middleware.RequesterID(c), middleware.RequesterRole(c), req.Username, changes)
	if err != nil {
		return respondError(c, err, "Could not update user")
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

// UserDeleteRequest names the user to delete.
type UserDeleteRequest struct {
	Username string `json:"username"`
}

// HandleDeleteUser deletes a user and cascades to their adoption records.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	var req UserDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing user delete body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if req.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "username is required",
		})
	}

	if err := h.service.DeleteUser(middleware.RequesterID(c), req.Username); err != nil {
		return respondError(c, err, "Could not delete user")
	}

	return c.JSON(fiber.Map{
		"message": "User '" + req.Username + "' and related data deleted successfully",
	})
}

// HandleListFavourites returns the requester's favourites, without pets that
// currently have an active adoption.
func (h *UserHandler) HandleListFavourites(c *fiber.Ctx) error {
	pets, err := h.service.ListFavourites(middleware.RequesterID(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve favourites")
	}
	return c.JSON(fiber.Map{
		"favourites": pets,
	})
}

// HandleToggleFavourite flips the pet's membership in the requester's
// favourites set.
func (h *UserHandler) HandleToggleFavourite(c *fiber.Ctx) error {
	added, err := h.service.ToggleFavourite(middleware.RequesterID(c), c.Params("petId"))
	if err != nil {
		return respondError(c, err, "Could not set favourite")
	}

	message := "Pet removed from favourites"
	if added {
		message = "Pet added to favourites"
	}
	return c.JSON(fiber.Map{
		"message": message,
	})
}

// HandleRemoveFavourite removes the pet from the requester's favourites set,
// failing when it is not a member.
func (h *UserHandler) HandleRemoveFavourite(c *fiber.Ctx) error {
	if err := h.service.RemoveFavourite(middleware.RequesterID(c), c.Params("petId")); err != nil {
		return respondError(c, err, "Could not remove favourite")
	}

	return c.JSON(fiber.Map{
		"message": "Pet removed from favourites",
	})
}

package handlers

import (
	"log"

	"refugio/internal/middleware"
	"refugio/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdoptionHandler handles HTTP requests for adoption records.
type AdoptionHandler struct {
	service *services.AdoptionService
}

// NewAdoptionHandler creates a new AdoptionHandler.
func NewAdoptionHandler(service *services.AdoptionService) *AdoptionHandler {
	return &AdoptionHandler{
		service: service,
	}
}

// RegisterRoutes registers the adoption routes. All routes require an
// authenticated requester; status updates are admin-only.
func (h *AdoptionHandler) RegisterRoutes(router fiber.Router) {
	adoptionRoutes := router.Group("/adoptions")
	adoptionRoutes.Get("/", h.HandleListAdoptions)
	adoptionRoutes.Post("/", h.HandleRequestAdoption)
	adoptionRoutes.Put("/:adoptionId", middleware.AdminRequired(), h.HandleUpdateAdoption)
	adoptionRoutes.Delete("/:adoptionId", h.HandleDeleteAdoption)
}

// HandleListAdoptions returns all adoptions for admins, or the requester's
// own records otherwise, with user and pet resolved.
func (h *AdoptionHandler) HandleListAdoptions(c *fiber.Ctx) error {
	adoptions, err := h.service.ListAdoptions(middleware.RequesterID(c), middleware.RequesterRole(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve adoptions")
	}
	return c.JSON(adoptions)
}

// AdoptionRequest represents the request body for a new adoption.
type AdoptionRequest struct {
	PetID    string `json:"pet_id"`
	Comments string `json:"comments"`
}

// HandleRequestAdoption creates a Pending adoption for the requester.
func (h *AdoptionHandler) HandleRequestAdoption(c *fiber.Ctx) error {
	var req AdoptionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing adoption request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if req.PetID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "pet_id is required",
		})
	}

	adoption, err := h.service.RequestAdoption(middleware.RequesterID(c), req.PetID, req.Comments)
	if err != nil {
		return respondError(c, err, "Could not register adoption")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Adoption registered successfully",
		"adoption": adoption,
	})
}

// AdoptionUpdateRequest represents the partial-update body for an adoption.
// Absent fields are left untouched.
type AdoptionUpdateRequest struct {
	Status   *string `json:"status"`
	Comments *string `json:"comments"`
}

// HandleUpdateAdoption merge-patches an adoption's status and comments.
func (h *AdoptionHandler) HandleUpdateAdoption(c *fiber.Ctx) error {
	adoptionID := c.Params("adoptionId")

	var req AdoptionUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing adoption update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	adoption, err := h.service.UpdateStatus(adoptionID, req.Status, req.Comments)
	if err != nil {
		return respondError(c, err, "Could not update adoption")
	}

	return c.JSON(fiber.Map{
		"message":  "Adoption updated successfully",
		"adoption": adoption,
	})
}

// HandleDeleteAdoption deletes an adoption; only its owner may do so.
func (h *AdoptionHandler) HandleDeleteAdoption(c *fiber.Ctx) error {
	adoptionID := c.Params("adoptionId")

	if err := h.service.DeleteAdoption(adoptionID, middleware.RequesterID(c)); err != nil {
		return respondError(c, err, "Could not delete adoption")
	}

	return c.JSON(fiber.Map{
		"message": "Adoption deleted successfully",
	})
}

package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"refugio/internal/middleware"
	"refugio/internal/models"
	"refugio/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PetHandler handles HTTP requests for pets.
type PetHandler struct {
	service  *services.PetService
	validate *validator.Validate
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(service *services.PetService) *PetHandler {
	return &PetHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes registers the unauthenticated pet routes: the
// availability view and single pet lookups. Must be called before any auth
// middleware is mounted on the parent router, since Fiber applies group
// middleware to every route registered after it under the prefix. The
// /available route must precede /:petId so it is not captured by it.
func (h *PetHandler) RegisterPublicRoutes(router fiber.Router) {
	publicRoutes := router.Group("/pets")
	publicRoutes.Get("/available", h.HandleGetAvailablePets)
	publicRoutes.Get("/:petId", h.HandleGetPetByID)
}

// RegisterRoutes registers the authenticated pet routes. Listing requires
// auth; mutations additionally require the admin role.
func (h *PetHandler) RegisterRoutes(router fiber.Router) {
	petRoutes := router.Group("/pets")
	petRoutes.Get("/", h.HandleGetAllPets)
	petRoutes.Post("/", middleware.AdminRequired(), h.HandleRegisterPet)
	petRoutes.Put("/:petId", middleware.AdminRequired(), h.HandleUpdatePet)
	petRoutes.Delete("/:petId", middleware.AdminRequired(), h.HandleDeletePet)
}

// HandleGetAllPets retrieves all pets.
func (h *PetHandler) HandleGetAllPets(c *fiber.Ctx) error {
	pets, err := h.service.GetAllPets()
	if err != nil {
		return respondError(c, err, "Could not retrieve pets")
	}
	return c.JSON(pets)
}

// HandleGetAvailablePets retrieves the pets with no active adoption.
func (h *PetHandler) HandleGetAvailablePets(c *fiber.Ctx) error {
	pets, err := h.service.GetAvailablePets()
	if err != nil {
		return respondError(c, err, "Could not retrieve available pets")
	}
	return c.JSON(fiber.Map{
		"available_pets": pets,
	})
}

// HandleGetPetByID retrieves a single pet by its ID.
func (h *PetHandler) HandleGetPetByID(c *fiber.Ctx) error {
	pet, err := h.service.GetPetByID(c.Params("petId"))
	if err != nil {
		return respondError(c, err, "Could not retrieve pet")
	}
	return c.JSON(pet)
}

// PetForm represents the multipart form fields of a pet registration.
type PetForm struct {
	Chip    string `form:"chip" validate:"required"`
	Name    string `form:"name" validate:"required,min=1,max=100"`
	Age     int    `form:"age" validate:"gte=0"`
	Sex     string `form:"sex" validate:"required,oneof=Male Female"`
	Size    string `form:"size" validate:"required,oneof=Large Medium Small"`
	Species string `form:"species" validate:"required,oneof=Dog Cat"`
}

// HandleRegisterPet creates a pet from a multipart form. The image part is
// mandatory and is uploaded to the image store before the pet is saved.
func (h *PetHandler) HandleRegisterPet(c *fiber.Ctx) error {
	var form PetForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing pet form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(form); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Image is required",
		})
	}
	data, contentType, err := readUpload(fileHeader)
	if err != nil {
		log.Printf("Error reading pet image upload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded image",
		})
	}

	pet := models.Pet{
		Chip:    form.Chip,
		Name:    form.Name,
		Age:     form.Age,
		Sex:     form.Sex,
		Size:    form.Size,
		Species: form.Species,
	}

	if err := h.service.RegisterPet(c.UserContext(), &pet, data, fileHeader.Filename, contentType); err != nil {
		return respondError(c, err, "Could not register pet")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Pet registered successfully",
		"pet":     pet,
	})
}

// PetUpdateForm represents the multipart form fields of a pet update. Absent
// fields are left untouched; a chip value is rejected by the service.
type PetUpdateForm struct {
	Chip    *string `form:"chip"`
	Name    *string `form:"name"`
	Age     *int    `form:"age"`
	Sex     *string `form:"sex"`
	Size    *string `form:"size"`
	Species *string `form:"species"`
}

// HandleUpdatePet merge-patches a pet, optionally replacing its image.
func (h *PetHandler) HandleUpdatePet(c *fiber.Ctx) error {
	var form PetUpdateForm
	if err := c.BodyParser(&form); err != nil {
		log.Printf("Error parsing pet update form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	var data []byte
	var filename, contentType string
	if fileHeader, err := c.FormFile("image"); err == nil {
		data, contentType, err = readUpload(fileHeader)
		if err != nil {
			log.Printf("Error reading pet image upload: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Could not read uploaded image",
			})
		}
		filename = fileHeader.Filename
	}

	changes := services.PetChanges{
		Chip:    form.Chip,
		Name:    form.Name,
		Age:     form.Age,
		Sex:     form.Sex,
		Size:    form.Size,
		Species: form.Species,
	}

	pet, err := h.service.UpdatePet(c.UserContext(), c.Params("petId"), changes, data, filename, contentType)
	if err != nil {
		return respondError(c, err, "Could not update pet")
	}

	return c.JSON(fiber.Map{
		"message": "Pet updated successfully",
		"pet":     pet,
	})
}

// HandleDeletePet deletes a pet and its stored image.
func (h *PetHandler) HandleDeletePet(c *fiber.Ctx) error {
	pet, err := h.service.DeletePet(c.UserContext(), c.Params("petId"))
	if err != nil {
		return respondError(c, err, "Could not delete pet")
	}

	return c.JSON(fiber.Map{
		"message": "Pet deleted successfully",
		"pet":     pet,
	})
}

// readUpload reads the bytes and content type of an uploaded file part.
func readUpload(fileHeader *multipart.FileHeader) ([]byte, string, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, fileHeader.Header.Get("Content-Type"), nil
}

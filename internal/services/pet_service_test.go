package services_test

import (
	"context"
	"testing"

	"refugio/internal/models"
	"refugio/internal/repositories"
	"refugio/internal/services"
	"refugio/pkg/imagestore"

	"github.com/stretchr/testify/assert"
)

func newPetFixture() (*services.PetService, *repositories.MockPetRepository, *repositories.MockAdoptionRepository, *imagestore.MemoryStore) {
	petRepo := repositories.NewMockPetRepository()
	adoptionRepo := repositories.NewMockAdoptionRepository()
	images := imagestore.NewMemoryStore()
	return services.NewPetService(petRepo, adoptionRepo, images), petRepo, adoptionRepo, images
}

func validPet(chip string) *models.Pet {
	return &models.Pet{
		Chip:    chip,
		Name:    "Luna",
		Age:     3,
		Sex:     models.SexFemale,
		Size:    models.SizeMedium,
		Species: models.SpeciesDog,
	}
}

var petImage = []byte("not-really-a-jpeg")

func TestPetService_RegisterPet(t *testing.T) {
	service, _, _, images := newPetFixture()

	pet := validPet("chip-001")
	err := service.RegisterPet(context.Background(), pet, petImage, "luna.jpg", "image/jpeg")
	assert.NoError(t, err)
	assert.NotEmpty(t, pet.ID)
	assert.NotEmpty(t, pet.ImageURL)
	assert.True(t, images.Has(pet.ImageURL))

	// Chip collision.
	err = service.RegisterPet(context.Background(), validPet("chip-001"), petImage, "luna2.jpg", "image/jpeg")
	assert.ErrorIs(t, err, services.ErrChipTaken)

	// Missing image.
	err = service.RegisterPet(context.Background(), validPet("chip-002"), nil, "", "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestPetService_UpdatePet(t *testing.T) {
	service, _, _, images := newPetFixture()

	pet := validPet("chip-001")
	assert.NoError(t, service.RegisterPet(context.Background(), pet, petImage, "luna.jpg", "image/jpeg"))

	// The chip is immutable.
	chip := "chip-999"
	_, err := service.UpdatePet(context.Background(), pet.ID, services.PetChanges{Chip: &chip}, nil, "", "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	// Enum values are checked.
	sex := "Unknown"
	_, err = service.UpdatePet(context.Background(), pet.ID, services.PetChanges{Sex: &sex}, nil, "", "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	// Merge-patch leaves absent fields untouched.
	name := "Lunita"
	age := 4
	updated, err := service.UpdatePet(context.Background(), pet.ID, services.PetChanges{Name: &name, Age: &age}, nil, "", "")
	assert.NoError(t, err)
	assert.Equal(t, "Lunita", updated.Name)
	assert.Equal(t, 4, updated.Age)
	assert.Equal(t, models.SexFemale, updated.Sex)
	assert.Equal(t, pet.ImageURL, updated.ImageURL)

	// A replacement image swaps the stored object.
	oldURL := updated.ImageURL
	updated, err = service.UpdatePet(context.Background(), pet.ID, services.PetChanges{}, []byte("new-bytes"), "luna-new.jpg", "image/jpeg")
	assert.NoError(t, err)
	assert.NotEqual(t, oldURL, updated.ImageURL)
	assert.False(t, images.Has(oldURL))
	assert.True(t, images.Has(updated.ImageURL))

	// Missing pet.
	_, err = service.UpdatePet(context.Background(), "no-such-pet", services.PetChanges{}, nil, "", "")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPetService_DeletePet(t *testing.T) {
	service, petRepo, _, images := newPetFixture()

	pet := validPet("chip-001")
	assert.NoError(t, service.RegisterPet(context.Background(), pet, petImage, "luna.jpg", "image/jpeg"))
	assert.Equal(t, 1, images.Len())

	deleted, err := service.DeletePet(context.Background(), pet.ID)
	assert.NoError(t, err)
	assert.Equal(t, pet.ID, deleted.ID)

	_, err = petRepo.GetByID(pet.ID)
	assert.Error(t, err)
	// The stored image goes with the pet.
	assert.Equal(t, 0, images.Len())

	_, err = service.DeletePet(context.Background(), pet.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPetService_GetAvailablePets(t *testing.T) {
	service, _, adoptionRepo, _ := newPetFixture()

	free := validPet("chip-001")
	pending := validPet("chip-002")
	approvedPet := validPet("chip-003")
	rejectedOnly := validPet("chip-004")
	for _, p := range []*models.Pet{free, pending, approvedPet, rejectedOnly} {
		assert.NoError(t, service.RegisterPet(context.Background(), p, petImage, "img.jpg", "image/jpeg"))
	}

	assert.NoError(t, adoptionRepo.Create(&models.Adoption{UserID: "u1", PetID: pending.ID, Status: models.StatusPending}))
	assert.NoError(t, adoptionRepo.Create(&models.Adoption{UserID: "u2", PetID: approvedPet.ID, Status: models.StatusApproved}))
	assert.NoError(t, adoptionRepo.Create(&models.Adoption{UserID: "u3", PetID: rejectedOnly.ID, Status: models.StatusRejected}))

	available, err := service.GetAvailablePets()
	assert.NoError(t, err)

	ids := make([]string, 0, len(available))
	for _, p := range available {
		ids = append(ids, p.ID)
	}
	// Exactly the pets without a non-Rejected adoption.
	assert.ElementsMatch(t, []string{free.ID, rejectedOnly.ID}, ids)
}

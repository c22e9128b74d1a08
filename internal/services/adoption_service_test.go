package services_test

import (
	"testing"

	"refugio/internal/models"
	"refugio/internal/repositories"
	"refugio/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishAdoptionEvent(routingKey string, payload map[string]interface{}) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

// newAdoptionFixture wires an AdoptionService over the in-memory repositories
// with one pet and no adoptions.
func newAdoptionFixture(t *testing.T) (*services.AdoptionService, *repositories.MockAdoptionRepository, *repositories.MockPetRepository, *models.Pet) {
	t.Helper()

	petRepo := repositories.NewMockPetRepository()
	adoptionRepo := repositories.NewMockAdoptionRepository()

	pet := &models.Pet{
		Chip:     "chip-001",
		Name:     "Luna",
		Age:      3,
		Sex:      models.SexFemale,
		Size:     models.SizeMedium,
		Species:  models.SpeciesDog,
		ImageURL: "https://images.invalid/pets/luna.jpg",
	}
	assert.NoError(t, petRepo.Create(pet))

	service := services.NewAdoptionService(adoptionRepo, petRepo, nil)
	return service, adoptionRepo, petRepo, pet
}

func TestAdoptionService_RequestAdoption(t *testing.T) {
	service, _, _, pet := newAdoptionFixture(t)

	adoption, err := service.RequestAdoption("user-1", pet.ID, "I love her")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, adoption.Status)
	assert.Equal(t, "user-1", adoption.UserID)
	assert.Equal(t, pet.ID, adoption.PetID)
	assert.False(t, adoption.AdoptionDate.IsZero())
}

func TestAdoptionService_RequestAdoption_PetNotFound(t *testing.T) {
	service, _, _, _ := newAdoptionFixture(t)

	_, err := service.RequestAdoption("user-1", "no-such-pet", "")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAdoptionService_RequestAdoption_Conflicts(t *testing.T) {
	service, _, _, pet := newAdoptionFixture(t)

	_, err := service.RequestAdoption("user-1", pet.ID, "")
	assert.NoError(t, err)

	// Same requester again: distinguishing conflict.
	_, err = service.RequestAdoption("user-1", pet.ID, "")
	assert.ErrorIs(t, err, services.ErrAlreadyRequested)

	// A different requester: the pet is simply unavailable.
	_, err = service.RequestAdoption("user-2", pet.ID, "")
	assert.ErrorIs(t, err, services.ErrPetUnavailable)
}

func TestAdoptionService_RequestAdoption_RejectedDoesNotBlock(t *testing.T) {
	service, _, _, pet := newAdoptionFixture(t)

	first, err := service.RequestAdoption("user-1", pet.ID, "")
	assert.NoError(t, err)

	rejected := models.StatusRejected
	_, err = service.UpdateStatus(first.ID, &rejected, nil)
	assert.NoError(t, err)

	// A rejected adoption does not block a new request, even by the same user.
	second, err := service.RequestAdoption("user-1", pet.ID, "second try")
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, models.StatusPending, second.Status)
}

func TestAdoptionService_UpdateStatus(t *testing.T) {
	service, _, _, pet := newAdoptionFixture(t)

	adoption, err := service.RequestAdoption("user-1", pet.ID, "")
	assert.NoError(t, err)

	// Invalid enum value.
	bogus := "Cancelled"
	_, err = service.UpdateStatus(adoption.ID, &bogus, nil)
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	// Missing record.
	approved := models.StatusApproved
	_, err = service.UpdateStatus("no-such-adoption", &approved, nil)
	assert.ErrorIs(t, err, services.ErrNotFound)

	// Partial update: only comments.
	comments := "home visit scheduled"
	updated, err := service.UpdateStatus(adoption.ID, nil, &comments)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.Equal(t, comments, updated.Comments)

	// Approve, then flip back to Pending: transitions are unrestricted.
	updated, err = service.UpdateStatus(adoption.ID, &approved, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)

	pending := models.StatusPending
	updated, err = service.UpdateStatus(adoption.ID, &pending, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)
}

func TestAdoptionService_UpdateStatus_ReopenBlockedByActiveAdoption(t *testing.T) {
	service, adoptionRepo, _, pet := newAdoptionFixture(t)

	first, err := service.RequestAdoption("user-1", pet.ID, "")
	assert.NoError(t, err)

	rejected := models.StatusRejected
	_, err = service.UpdateStatus(first.ID, &rejected, nil)
	assert.NoError(t, err)

	second, err := service.RequestAdoption("user-2", pet.ID, "")
	assert.NoError(t, err)

	// Un-rejecting the first record would give the pet two active adoptions.
	pending := models.StatusPending
	_, err = service.UpdateStatus(first.ID, &pending, nil)
	assert.ErrorIs(t, err, services.ErrPetUnavailable)

	// The second record stays the pet's only active adoption.
	active, err := adoptionRepo.FindActiveByPet(pet.ID)
	assert.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	activeIDs, err := adoptionRepo.ActivePetIDs()
	assert.NoError(t, err)
	assert.Len(t, activeIDs, 1)
}

func TestAdoptionService_DeleteAdoption(t *testing.T) {
	service, adoptionRepo, _, pet := newAdoptionFixture(t)

	adoption, err := service.RequestAdoption("user-1", pet.ID, "")
	assert.NoError(t, err)

	// Only the owner may delete the record.
	err = service.DeleteAdoption(adoption.ID, "user-2")
	assert.ErrorIs(t, err, services.ErrForbidden)

	err = service.DeleteAdoption(adoption.ID, "user-1")
	assert.NoError(t, err)

	_, err = adoptionRepo.GetByID(adoption.ID)
	assert.Error(t, err)

	err = service.DeleteAdoption(adoption.ID, "user-1")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAdoptionService_ListAdoptions_RoleFiltering(t *testing.T) {
	service, _, petRepo, pet := newAdoptionFixture(t)

	otherPet := &models.Pet{
		Chip: "chip-002", Name: "Michi", Age: 2,
		Sex: models.SexMale, Size: models.SizeSmall, Species: models.SpeciesCat,
		ImageURL: "https://images.invalid/pets/michi.jpg",
	}
	assert.NoError(t, petRepo.Create(otherPet))

	_, err := service.RequestAdoption("user-1", pet.ID, "")
	assert.NoError(t, err)
	_, err = service.RequestAdoption("user-2", otherPet.ID, "")
	assert.NoError(t, err)

	all, err := service.ListAdoptions("admin-1", models.RoleAdmin)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := service.ListAdoptions("user-1", models.RoleUser)
	assert.NoError(t, err)
	assert.Len(t, own, 1)
	assert.Equal(t, "user-1", own[0].UserID)
}

func TestAdoptionService_PublishesEvents(t *testing.T) {
	petRepo := repositories.NewMockPetRepository()
	adoptionRepo := repositories.NewMockAdoptionRepository()
	publisher := new(MockEventPublisher)
	service := services.NewAdoptionService(adoptionRepo, petRepo, publisher)

	pet := &models.Pet{
		Chip: "chip-003", Name: "Rocky", Age: 5,
		Sex: models.SexMale, Size: models.SizeLarge, Species: models.SpeciesDog,
		ImageURL: "https://images.invalid/pets/rocky.jpg",
	}
	assert.NoError(t, petRepo.Create(pet))

	publisher.On("PublishAdoptionEvent", "adoption.requested", mock.Anything).Return(nil).Once()
	adoption, err := service.RequestAdoption("user-1", pet.ID, "")
	assert.NoError(t, err)

	publisher.On("PublishAdoptionEvent", "adoption.status_changed", mock.Anything).Return(nil).Once()
	approved := models.StatusApproved
	_, err = service.UpdateStatus(adoption.ID, &approved, nil)
	assert.NoError(t, err)

	publisher.AssertExpectations(t)
}

// TestAdoptionService_FullLifecycle walks the end-to-end story: U1 requests
// P1, U2 is blocked, the admin rejects, U2 succeeds on retry.
func TestAdoptionService_FullLifecycle(t *testing.T) {
	service, adoptionRepo, _, pet := newAdoptionFixture(t)

	first, err := service.RequestAdoption("u1", pet.ID, "")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, first.Status)

	_, err = service.RequestAdoption("u2", pet.ID, "")
	assert.ErrorIs(t, err, services.ErrPetUnavailable)

	rejected := models.StatusRejected
	_, err = service.UpdateStatus(first.ID, &rejected, nil)
	assert.NoError(t, err)

	second, err := service.RequestAdoption("u2", pet.ID, "")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, second.Status)

	// The pet is referenced by a new active adoption and stays unavailable.
	activeIDs, err := adoptionRepo.ActivePetIDs()
	assert.NoError(t, err)
	assert.Contains(t, activeIDs, pet.ID)
}

package repositories

import (
	"fmt"
	"sync"
	"time"

	"refugio/internal/models"

	"github.com/google/uuid"
)

// MockAdoptionRepository is an in-memory implementation of AdoptionRepository.
// User and Pet are not resolved on reads; callers that need them should use
// the GORM implementation.
type MockAdoptionRepository struct {
	adoptions map[string]models.Adoption
	mu        sync.RWMutex
}

// NewMockAdoptionRepository creates a new instance of MockAdoptionRepository.
func NewMockAdoptionRepository() *MockAdoptionRepository {
	return &MockAdoptionRepository{
		adoptions: make(map[string]models.Adoption),
	}
}

// GetAll returns all adoptions.
func (r *MockAdoptionRepository) GetAll() ([]models.Adoption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adoptionList := make([]models.Adoption, 0, len(r.adoptions))
	for _, a := range r.adoptions {
		adoptionList = append(adoptionList, a)
	}
	return adoptionList, nil
}

// GetByUser returns the adoptions belonging to the user.
func (r *MockAdoptionRepository) GetByUser(userID string) ([]models.Adoption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var adoptionList []models.Adoption
	for _, a := range r.adoptions {
		if a.UserID == userID {
			adoptionList = append(adoptionList, a)
		}
	}
	return adoptionList, nil
}

// GetByID returns an adoption by its ID.
func (r *MockAdoptionRepository) GetByID(id string) (*models.Adoption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adoption, ok := r.adoptions[id]
	if !ok {
		return nil, fmt.Errorf("adoption with ID %s: %w", id, ErrNotFound)
	}
	return &adoption, nil
}

// FindActiveByPet returns the pet's non-Rejected adoption, or nil, nil.
func (r *MockAdoptionRepository) FindActiveByPet(petID string) (*models.Adoption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.findActiveLocked(petID), nil
}

func (r *MockAdoptionRepository) findActiveLocked(petID string) *models.Adoption {
	for _, a := range r.adoptions {
		if a.PetID == petID && a.Status != models.StatusRejected {
			adoption := a
			return &adoption
		}
	}
	return nil
}

// Create adds a new adoption, enforcing the single-active-adoption rule under
// the repository mutex.
func (r *MockAdoptionRepository) Create(adoption *models.Adoption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findActiveLocked(adoption.PetID) != nil {
		return ErrActiveAdoptionExists
	}

	if adoption.ID == "" {
		adoption.ID = uuid.New().String()
	}
	adoption.CreatedAt = time.Now()
	adoption.UpdatedAt = time.Now()
	r.adoptions[adoption.ID] = *adoption
	return nil
}

// Update modifies an existing adoption, enforcing the single-active-adoption
// rule when the update would un-reject the record.
func (r *MockAdoptionRepository) Update(adoption *models.Adoption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.adoptions[adoption.ID]
	if !ok {
		return fmt.Errorf("adoption with ID %s: %w", adoption.ID, ErrNotFound)
	}
	if adoption.Status != models.StatusRejected {
		if existing := r.findActiveLocked(adoption.PetID); existing != nil && existing.ID != adoption.ID {
			return ErrActiveAdoptionExists
		}
	}
	adoption.UpdatedAt = time.Now()
	r.adoptions[adoption.ID] = *adoption
	return nil
}

// Delete removes an adoption by its ID.
func (r *MockAdoptionRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.adoptions[id]
	if !ok {
		return fmt.Errorf("adoption with ID %s: %w", id, ErrNotFound)
	}
	delete(r.adoptions, id)
	return nil
}

// DeleteByUser removes all adoptions that reference the user.
func (r *MockAdoptionRepository) DeleteByUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.adoptions {
		if a.UserID == userID {
			delete(r.adoptions, id)
		}
	}
	return nil
}

// ActivePetIDs returns the distinct pet IDs with a non-Rejected adoption.
func (r *MockAdoptionRepository) ActivePetIDs() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var ids []string
	for _, a := range r.adoptions {
		if a.Status != models.StatusRejected && !seen[a.PetID] {
			seen[a.PetID] = true
			ids = append(ids, a.PetID)
		}
	}
	return ids, nil
}

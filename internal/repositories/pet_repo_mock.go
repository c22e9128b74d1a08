package repositories

import (
	"fmt"
	"sync"

	"refugio/internal/models"

	"github.com/google/uuid"
)

// MockPetRepository is an in-memory implementation of PetRepository.
type MockPetRepository struct {
	pets map[string]models.Pet
	mu   sync.RWMutex
}

// NewMockPetRepository creates a new instance of MockPetRepository.
func NewMockPetRepository() *MockPetRepository {
	return &MockPetRepository{
		pets: make(map[string]models.Pet),
	}
}

// GetAll returns all pets.
func (r *MockPetRepository) GetAll() ([]models.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	petList := make([]models.Pet, 0, len(r.pets))
	for _, p := range r.pets {
		petList = append(petList, p)
	}
	return petList, nil
}

// GetByID returns a pet by its ID.
func (r *MockPetRepository) GetByID(id string) (*models.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pet, ok := r.pets[id]
	if !ok {
		return nil, fmt.Errorf("pet with ID %s: %w", id, ErrNotFound)
	}
	return &pet, nil
}

// GetByChip returns the pet carrying the chip, or nil, nil when none does.
func (r *MockPetRepository) GetByChip(chip string) (*models.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.pets {
		if p.Chip == chip {
			pet := p
			return &pet, nil
		}
	}
	return nil, nil
}

// GetByIDs returns the pets whose ID is in ids.
func (r *MockPetRepository) GetByIDs(ids []string) ([]models.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	petList := make([]models.Pet, 0, len(ids))
	for _, id := range ids {
		if pet, ok := r.pets[id]; ok {
			petList = append(petList, pet)
		}
	}
	return petList, nil
}

// GetExcluding returns all pets whose ID is not in ids.
func (r *MockPetRepository) GetExcluding(ids []string) ([]models.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	excluded := make(map[string]bool, len(ids))
	for _, id := range ids {
		excluded[id] = true
	}

	petList := make([]models.Pet, 0, len(r.pets))
	for id, p := range r.pets {
		if !excluded[id] {
			petList = append(petList, p)
		}
	}
	return petList, nil
}

// Create adds a new pet.
func (r *MockPetRepository) Create(pet *models.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pet.ID == "" {
		pet.ID = uuid.New().String()
	}
	r.pets[pet.ID] = *pet
	return nil
}

// Update modifies an existing pet.
func (r *MockPetRepository) Update(pet *models.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.pets[pet.ID]
	if !ok {
		return fmt.Errorf("pet with ID %s: %w", pet.ID, ErrNotFound)
	}
	r.pets[pet.ID] = *pet
	return nil
}

// Delete removes a pet by its ID.
func (r *MockPetRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.pets[id]
	if !ok {
		return fmt.Errorf("pet with ID %s: %w", id, ErrNotFound)
	}
	delete(r.pets, id)
	return nil
}

package repositories

import "refugio/internal/models"

// PetRepository defines the interface for pet data access.
type PetRepository interface {
	GetAll() ([]models.Pet, error)
	GetByID(id string) (*models.Pet, error)
	// GetByChip returns nil, nil when no pet carries the chip.
	GetByChip(chip string) (*models.Pet, error)
	GetByIDs(ids []string) ([]models.Pet, error)
	// GetExcluding returns all pets whose ID is not in ids.
	GetExcluding(ids []string) ([]models.Pet, error)
	Create(pet *models.Pet) error
	Update(pet *models.Pet) error
	Delete(id string) error
}

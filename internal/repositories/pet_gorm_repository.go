package repositories

import (
	"fmt"

	"refugio/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPetRepository is a GORM implementation of PetRepository.
type GORMPetRepository struct {
	db *gorm.DB
}

// NewGORMPetRepository creates a new instance of GORMPetRepository.
func NewGORMPetRepository(db *gorm.DB) *GORMPetRepository {
	return &GORMPetRepository{
		db: db,
	}
}

// GetAll retrieves all pets from the database.
func (r *GORMPetRepository) GetAll() ([]models.Pet, error) {
	var pets []models.Pet
	if err := r.db.Find(&pets).Error; err != nil {
		return nil, fmt.Errorf("failed to get all pets: %w", err)
	}
	return pets, nil
}

// GetByID retrieves a single pet by its ID from the database.
func (r *GORMPetRepository) GetByID(id string) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.First(&pet, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("pet with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pet by ID %s: %w", id, err)
	}
	return &pet, nil
}

// GetByChip retrieves a pet by its chip number. Returns nil, nil when no pet
// carries the chip, so callers can use it as an existence probe.
func (r *GORMPetRepository) GetByChip(chip string) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.First(&pet, "chip = ?", chip).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pet by chip %s: %w", chip, err)
	}
	return &pet, nil
}

// GetByIDs retrieves the pets whose ID is in ids.
func (r *GORMPetRepository) GetByIDs(ids []string) ([]models.Pet, error) {
	pets := make([]models.Pet, 0, len(ids))
	if len(ids) == 0 {
		return pets, nil
	}
	if err := r.db.Find(&pets, "id IN ?", ids).Error; err != nil {
		return nil, fmt.Errorf("failed to get pets by IDs: %w", err)
	}
	return pets, nil
}

// GetExcluding retrieves all pets whose ID is not in ids.
func (r *GORMPetRepository) GetExcluding(ids []string) ([]models.Pet, error) {
	var pets []models.Pet
	q := r.db
	if len(ids) > 0 {
		q = q.Where("id NOT IN ?", ids)
	}
	if err := q.Find(&pets).Error; err != nil {
		return nil, fmt.Errorf("failed to get pets excluding IDs: %w", err)
	}
	return pets, nil
}

// Create creates a new pet in the database.
func (r *GORMPetRepository) Create(pet *models.Pet) error {
	if pet.ID == "" {
		pet.ID = uuid.New().String()
	}
	if err := r.db.Create(pet).Error; err != nil {
		return fmt.Errorf("failed to create pet: %w", err)
	}
	return nil
}

// Update updates an existing pet in the database.
func (r *GORMPetRepository) Update(pet *models.Pet) error {
	res := r.db.Save(pet) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update pet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pet with ID %s: %w", pet.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a pet by its ID from the database.
func (r *GORMPetRepository) Delete(id string) error {
	res := r.db.Delete(&models.Pet{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete pet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pet with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

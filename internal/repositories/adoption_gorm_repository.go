package repositories

import (
	"fmt"
	"strings"

	"refugio/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAdoptionRepository is a GORM implementation of AdoptionRepository.
type GORMAdoptionRepository struct {
	db *gorm.DB
}

// NewGORMAdoptionRepository creates a new instance of GORMAdoptionRepository.
func NewGORMAdoptionRepository(db *gorm.DB) *GORMAdoptionRepository {
	return &GORMAdoptionRepository{
		db: db,
	}
}

// MigrateActiveAdoptionIndex creates the partial unique index that enforces
// at most one non-Rejected adoption per pet at the store level. Supported by
// both PostgreSQL and SQLite; call it after AutoMigrate.
func MigrateActiveAdoptionIndex(db *gorm.DB) error {
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_adoptions_active_pet
		 ON adoptions (pet_id) WHERE status <> 'Rejected' AND deleted_at IS NULL`,
	).Error
}

// GetAll retrieves all adoptions with their user and pet resolved.
func (r *GORMAdoptionRepository) GetAll() ([]models.Adoption, error) {
	var adoptions []models.Adoption
	if err := r.db.Preload("User").Preload("Pet").Find(&adoptions).Error; err != nil {
		return nil, fmt.Errorf("failed to get all adoptions: %w", err)
	}
	return adoptions, nil
}

// GetByUser retrieves one user's adoptions with their user and pet resolved.
func (r *GORMAdoptionRepository) GetByUser(userID string) ([]models.Adoption, error) {
	var adoptions []models.Adoption
	err := r.db.Preload("User").Preload("Pet").
		Find(&adoptions, "user_id = ?", userID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get adoptions for user %s: %w", userID, err)
	}
	return adoptions, nil
}

// GetByID retrieves a single adoption by its ID.
func (r *GORMAdoptionRepository) GetByID(id string) (*models.Adoption, error) {
	var adoption models.Adoption
	if err := r.db.First(&adoption, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("adoption with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get adoption by ID %s: %w", id, err)
	}
	return &adoption, nil
}

// FindActiveByPet retrieves the pet's non-Rejected adoption, or nil, nil when
// the pet has none and is therefore available.
func (r *GORMAdoptionRepository) FindActiveByPet(petID string) (*models.Adoption, error) {
	var adoption models.Adoption
	err := r.db.First(&adoption, "pet_id = ? AND status <> ?", petID, models.StatusRejected).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active adoption for pet %s: %w", petID, err)
	}
	return &adoption, nil
}

// Create inserts a new adoption. The pre-insert check and the insert run in
// one transaction, and the partial unique index on (pet_id, non-Rejected)
// backstops the check: a lost race surfaces as ErrActiveAdoptionExists too.
func (r *GORMAdoptionRepository) Create(adoption *models.Adoption) error {
	if adoption.ID == "" {
		adoption.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Adoption{}).
			Where("pet_id = ? AND status <> ?", adoption.PetID, models.StatusRejected).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check active adoptions for pet %s: %w", adoption.PetID, err)
		}
		if count > 0 {
			return ErrActiveAdoptionExists
		}
		if err := tx.Create(adoption).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrActiveAdoptionExists
			}
			return fmt.Errorf("failed to create adoption: %w", err)
		}
		return nil
	})
	return err
}

// isUniqueViolation matches the duplicate-key errors raised by the partial
// unique index on PostgreSQL and SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// Update updates an existing adoption. Un-rejecting a record while the pet
// already carries another active adoption trips the partial unique index and
// is reported as ErrActiveAdoptionExists.
func (r *GORMAdoptionRepository) Update(adoption *models.Adoption) error {
	res := r.db.Save(adoption)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrActiveAdoptionExists
		}
		return fmt.Errorf("failed to update adoption: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("adoption with ID %s: %w", adoption.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes an adoption by its ID from the database.
func (r *GORMAdoptionRepository) Delete(id string) error {
	res := r.db.Delete(&models.Adoption{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete adoption: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("adoption with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteByUser deletes all adoptions that reference the user. Used by the
// user-deletion cascade; deleting zero rows is not an error.
func (r *GORMAdoptionRepository) DeleteByUser(userID string) error {
	if err := r.db.Delete(&models.Adoption{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete adoptions for user %s: %w", userID, err)
	}
	return nil
}

// ActivePetIDs returns the distinct pet IDs with a non-Rejected adoption.
func (r *GORMAdoptionRepository) ActivePetIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Adoption{}).
		Where("status <> ?", models.StatusRejected).
		Distinct().
		Pluck("pet_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active pet IDs: %w", err)
	}
	return ids, nil
}

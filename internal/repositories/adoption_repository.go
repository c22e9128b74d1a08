package repositories

import (
	"errors"

	"refugio/internal/models"
)

// ErrActiveAdoptionExists is returned by Create when the pet already carries a
// non-Rejected adoption. The service layer decides whether that conflict means
// "already requested by you" or "taken by someone else".
var ErrActiveAdoptionExists = errors.New("pet already has an active adoption")

// AdoptionRepository defines the interface for adoption data access.
type AdoptionRepository interface {
	// GetAll and GetByUser return records with User and Pet resolved.
	GetAll() ([]models.Adoption, error)
	GetByUser(userID string) ([]models.Adoption, error)
	GetByID(id string) (*models.Adoption, error)
	// FindActiveByPet returns the pet's non-Rejected adoption, or nil, nil.
	FindActiveByPet(petID string) (*models.Adoption, error)
	// Create inserts the adoption, failing with ErrActiveAdoptionExists if the
	// pet already has a non-Rejected adoption. Check and insert happen inside
	// one transaction so concurrent requests cannot both pass the check.
	Create(adoption *models.Adoption) error
	// Update saves the record, failing with ErrActiveAdoptionExists when the
	// new status would give the pet a second active adoption.
	Update(adoption *models.Adoption) error
	Delete(id string) error
	DeleteByUser(userID string) error
	// ActivePetIDs returns the distinct pet IDs referenced by non-Rejected
	// adoptions: the pets that are currently not available.
	ActivePetIDs() ([]string, error)
}

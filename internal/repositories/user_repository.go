package repositories

import "refugio/internal/models"

// UserRepository defines the interface for user data access, including the
// user's favourites set (stored as pet references).
type UserRepository interface {
	Create(user *models.User) error
	GetAll() ([]models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Update(user *models.User) error
	// Delete removes the user and its favourites rows. Adoption records are
	// cleaned up separately by the caller via AdoptionRepository.DeleteByUser.
	Delete(id string) error

	AddFavourite(userID, petID string) error
	RemoveFavourite(userID, petID string) error
	GetFavouriteIDs(userID string) ([]string, error)
}

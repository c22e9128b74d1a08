package repositories

import (
	"fmt"

	"refugio/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetAll retrieves all users from the database.
func (r *GORMUserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with username %s: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// Update updates an existing user in the database.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s: %w", user.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a user by its ID, including its favourites join rows.
func (r *GORMUserRepository) Delete(id string) error {
	res := r.db.Select(clause.Associations).Delete(&models.User{ID: id})
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// AddFavourite appends a pet to the user's favourites set.
func (r *GORMUserRepository) AddFavourite(userID, petID string) error {
	user := models.User{ID: userID}
	if err := r.db.Model(&user).Association("Favourites").Append(&models.Pet{ID: petID}); err != nil {
		return fmt.Errorf("failed to add favourite %s for user %s: %w", petID, userID, err)
	}
	return nil
}

// RemoveFavourite removes a pet from the user's favourites set.
func (r *GORMUserRepository) RemoveFavourite(userID, petID string) error {
	user := models.User{ID: userID}
	if err := r.db.Model(&user).Association("Favourites").Delete(&models.Pet{ID: petID}); err != nil {
		return fmt.Errorf("failed to remove favourite %s for user %s: %w", petID, userID, err)
	}
	return nil
}

// GetFavouriteIDs returns the IDs of the pets in the user's favourites set.
func (r *GORMUserRepository) GetFavouriteIDs(userID string) ([]string, error) {
	var ids []string
	err := r.db.Table("user_favourites").
		Where("user_id = ?", userID).
		Pluck("pet_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get favourites for user %s: %w", userID, err)
	}
	return ids, nil
}

package services

import (
	"fmt"

	"refugio/internal/models"
	"refugio/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles business logic for user profiles and the per-user
// favourites set.
type UserService struct {
	userRepo     repositories.UserRepository
	petRepo      repositories.PetRepository
	adoptionRepo repositories.AdoptionRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, petRepo repositories.PetRepository, adoptionRepo repositories.AdoptionRepository) *UserService {
	return &UserService{
		userRepo:     userRepo,
		petRepo:      petRepo,
		adoptionRepo: adoptionRepo,
	}
}

// GetAllUsers retrieves all users.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// GetCurrentUser returns the user's profile with the favourites set resolved
// to full pet records (unfiltered; use ListFavourites for the availability
// filtered view).
func (s *UserService) GetCurrentUser(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	ids, err := s.userRepo.GetFavouriteIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		pets, err := s.petRepo.GetByIDs(ids)
		if err != nil {
			return nil, err
		}
		user.Favourites = pets
	}
	return user, nil
}

// UserChanges carries the merge-patch fields of a user update. Nil means
// "leave as is".
type UserChanges struct {
	Email    *string
	Password *string
	Role     *string
}

// UpdateUser merge-patches the user named by username. Non-admins may only
// edit themselves; the role field is only honoured for admins.
func (s *UserService) UpdateUser(requesterID, requesterRole, username string, changes UserChanges) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user %s: %w", username, err)
	}

	isAdmin := requesterRole == models.RoleAdmin
	if !isAdmin && requesterID != user.ID {
		return nil, fmt.Errorf("you do not have permission to modify this user: %w", ErrForbidden)
	}

	if changes.Email != nil {
		user.Email = *changes.Email
	}
	if changes.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*changes.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}
	if changes.Role != nil && isAdmin {
		if *changes.Role != models.RoleUser && *changes.Role != models.RoleAdmin {
			return nil, fmt.Errorf("role %q: %w", *changes.Role, ErrInvalidInput)
		}
		user.Role = *changes.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", username, err)
	}
	return user, nil
}

// DeleteUser removes the user named by username together with all of their
// adoption records. Admins cannot delete their own account.
func (s *UserService) DeleteUser(requesterID, username string) error {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if isRepoNotFound(err) {
			return fmt.Errorf("user %s: %w", username, ErrNotFound)
		}
		return fmt.Errorf("failed to load user %s: %w", username, err)
	}

	if user.ID == requesterID {
		return fmt.Errorf("you cannot delete your own user: %w", ErrForbidden)
	}

	// Cascade first so no adoption is left referencing a deleted user.
	if err := s.adoptionRepo.DeleteByUser(user.ID); err != nil {
		return fmt.Errorf("failed to delete adoptions of user %s: %w", username, err)
	}
	if err := s.userRepo.Delete(user.ID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", username, err)
	}
	return nil
}

// ToggleFavourite flips the pet's membership in the user's favourites set and
// reports whether the pet ended up added (true) or removed (false).
func (s *UserService) ToggleFavourite(userID, petID string) (bool, error) {
	if err := s.checkUserAndPet(userID, petID); err != nil {
		return false, err
	}

	ids, err := s.userRepo.GetFavouriteIDs(userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == petID {
			if err := s.userRepo.RemoveFavourite(userID, petID); err != nil {
				return false, err
			}
			return false, nil
		}
	}

	if err := s.userRepo.AddFavourite(userID, petID); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveFavourite removes the pet from the user's favourites set, failing
// with ErrNotFavourite when it is not a member.
func (s *UserService) RemoveFavourite(userID, petID string) error {
	if err := s.checkUserAndPet(userID, petID); err != nil {
		return err
	}

	ids, err := s.userRepo.GetFavouriteIDs(userID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == petID {
			return s.userRepo.RemoveFavourite(userID, petID)
		}
	}
	return fmt.Errorf("pet %s: %w", petID, ErrNotFavourite)
}

// ListFavourites resolves the user's favourites to pet records, dropping any
// pet that currently has a Pending or Approved adoption. No favourites is an
// empty slice, not an error.
func (s *UserService) ListFavourites(userID string) ([]models.Pet, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	ids, err := s.userRepo.GetFavouriteIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Pet{}, nil
	}

	pets, err := s.petRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}

	activeIDs, err := s.adoptionRepo.ActivePetIDs()
	if err != nil {
		return nil, err
	}
	active := make(map[string]bool, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = true
	}

	filtered := make([]models.Pet, 0, len(pets))
	for _, pet := range pets {
		if !active[pet.ID] {
			filtered = append(filtered, pet)
		}
	}
	return filtered, nil
}

func (s *UserService) checkUserAndPet(userID, petID string) error {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if isRepoNotFound(err) {
			return fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if _, err := s.petRepo.GetByID(petID); err != nil {
		if isRepoNotFound(err) {
			return fmt.Errorf("pet %s: %w", petID, ErrNotFound)
		}
		return fmt.Errorf("failed to load pet %s: %w", petID, err)
	}
	return nil
}

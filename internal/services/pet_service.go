package services

import (
	"context"
	"fmt"
	"log"

	"refugio/internal/models"
	"refugio/internal/repositories"
	"refugio/pkg/imagestore"
)

// PetService handles business logic related to pets, including the derived
// availability view and the stored pet images.
type PetService struct {
	petRepo      repositories.PetRepository
	adoptionRepo repositories.AdoptionRepository
	images       imagestore.Store
}

// NewPetService creates a new PetService.
func NewPetService(petRepo repositories.PetRepository, adoptionRepo repositories.AdoptionRepository, images imagestore.Store) *PetService {
	return &PetService{
		petRepo:      petRepo,
		adoptionRepo: adoptionRepo,
		images:       images,
	}
}

// GetAllPets retrieves all pets.
func (s *PetService) GetAllPets() ([]models.Pet, error) {
	return s.petRepo.GetAll()
}

// GetPetByID retrieves a single pet by its ID.
func (s *PetService) GetPetByID(id string) (*models.Pet, error) {
	pet, err := s.petRepo.GetByID(id)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("pet %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load pet %s: %w", id, err)
	}
	return pet, nil
}

// GetAvailablePets returns the pets with no non-Rejected adoption. The view
// is recomputed on every call from two queries; it is not atomic with respect
// to concurrent adoption writes.
func (s *PetService) GetAvailablePets() ([]models.Pet, error) {
	activeIDs, err := s.adoptionRepo.ActivePetIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to compute active adoptions: %w", err)
	}
	return s.petRepo.GetExcluding(activeIDs)
}

// RegisterPet uploads the mandatory image and creates the pet. The chip
// number must be unused.
func (s *PetService) RegisterPet(ctx context.Context, pet *models.Pet, image []byte, filename, contentType string) error {
	existing, err := s.petRepo.GetByChip(pet.Chip)
	if err != nil {
		return fmt.Errorf("failed to check chip %s: %w", pet.Chip, err)
	}
	if existing != nil {
		return fmt.Errorf("chip %s: %w", pet.Chip, ErrChipTaken)
	}

	if len(image) == 0 {
		return fmt.Errorf("image is required: %w", ErrInvalidInput)
	}

	imageURL, err := s.images.Upload(ctx, filename, image, contentType)
	if err != nil {
		return fmt.Errorf("failed to upload pet image: %w", err)
	}
	pet.ImageURL = imageURL

	if err := s.petRepo.Create(pet); err != nil {
		// The row never existed; do not leave the uploaded image orphaned.
		if delErr := s.images.Delete(ctx, imageURL); delErr != nil {
			log.Printf("Warning: failed to delete orphaned image %s: %v", imageURL, delErr)
		}
		return fmt.Errorf("failed to create pet: %w", err)
	}
	return nil
}

// PetChanges carries the merge-patch fields of a pet update. Nil means
// "leave as is". Chip is present only to reject attempts to change it.
type PetChanges struct {
	Chip    *string
	Name    *string
	Age     *int
	Sex     *string
	Size    *string
	Species *string
}

// UpdatePet merge-patches a pet. The chip is immutable; enum fields are
// checked against their allowed values. A replacement image, when supplied,
// replaces the stored object.
func (s *PetService) UpdatePet(ctx context.Context, petID string, changes PetChanges, image []byte, filename, contentType string) (*models.Pet, error) {
	pet, err := s.petRepo.GetByID(petID)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("pet %s: %w", petID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load pet %s: %w", petID, err)
	}

	if changes.Chip != nil {
		return nil, fmt.Errorf("chip cannot be updated, delete the pet and create a new one: %w", ErrInvalidInput)
	}

	if changes.Name != nil {
		pet.Name = *changes.Name
	}
	if changes.Age != nil {
		if *changes.Age < 0 {
			return nil, fmt.Errorf("age must not be negative: %w", ErrInvalidInput)
		}
		pet.Age = *changes.Age
	}
	if changes.Sex != nil {
		if *changes.Sex != models.SexMale && *changes.Sex != models.SexFemale {
			return nil, fmt.Errorf("sex %q: %w", *changes.Sex, ErrInvalidInput)
		}
		pet.Sex = *changes.Sex
	}
	if changes.Size != nil {
		switch *changes.Size {
		case models.SizeLarge, models.SizeMedium, models.SizeSmall:
			pet.Size = *changes.Size
		default:
			return nil, fmt.Errorf("size %q: %w", *changes.Size, ErrInvalidInput)
		}
	}
	if changes.Species != nil {
		if *changes.Species != models.SpeciesDog && *changes.Species != models.SpeciesCat {
			return nil, fmt.Errorf("species %q: %w", *changes.Species, ErrInvalidInput)
		}
		pet.Species = *changes.Species
	}

	if len(image) > 0 {
		if pet.ImageURL != "" {
			if err := s.images.Delete(ctx, pet.ImageURL); err != nil {
				log.Printf("Warning: failed to delete old image for pet %s: %v", petID, err)
			}
		}
		imageURL, err := s.images.Upload(ctx, filename, image, contentType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload replacement image: %w", err)
		}
		pet.ImageURL = imageURL
	}

	if err := s.petRepo.Update(pet); err != nil {
		return nil, fmt.Errorf("failed to update pet %s: %w", petID, err)
	}
	return pet, nil
}

// DeletePet removes the pet and then its stored image. An image-store failure
// is logged but does not undo the deletion.
func (s *PetService) DeletePet(ctx context.Context, id string) (*models.Pet, error) {
	pet, err := s.petRepo.GetByID(id)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("pet %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load pet %s: %w", id, err)
	}

	if err := s.petRepo.Delete(id); err != nil {
		return nil, fmt.Errorf("failed to delete pet %s: %w", id, err)
	}

	if pet.ImageURL != "" {
		if err := s.images.Delete(ctx, pet.ImageURL); err != nil {
			log.Printf("Warning: failed to delete image for pet %s: %v", id, err)
		}
	}
	return pet, nil
}

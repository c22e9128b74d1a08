package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"refugio/internal/models"
	"refugio/internal/repositories"
	"refugio/pkg/rabbitmq"
)

// EventPublisher publishes adoption lifecycle events. Satisfied by
// rabbitmq.Client; nil disables publishing.
type EventPublisher interface {
	PublishAdoptionEvent(routingKey string, payload map[string]interface{}) error
}

// AdoptionService handles business logic related to adoption requests.
type AdoptionService struct {
	adoptionRepo repositories.AdoptionRepository
	petRepo      repositories.PetRepository
	publisher    EventPublisher
}

// NewAdoptionService creates a new AdoptionService.
func NewAdoptionService(adoptionRepo repositories.AdoptionRepository, petRepo repositories.PetRepository, publisher EventPublisher) *AdoptionService {
	return &AdoptionService{
		adoptionRepo: adoptionRepo,
		petRepo:      petRepo,
		publisher:    publisher,
	}
}

// ListAdoptions returns all adoptions for admins and only the requester's own
// records otherwise, each with its user and pet resolved.
func (s *AdoptionService) ListAdoptions(requesterID, requesterRole string) ([]models.Adoption, error) {
	if requesterRole == models.RoleAdmin {
		return s.adoptionRepo.GetAll()
	}
	return s.adoptionRepo.GetByUser(requesterID)
}

// RequestAdoption creates a Pending adoption for the pet on behalf of the
// user. It fails with ErrNotFound for a missing pet, ErrAlreadyRequested when
// the requester already holds the pet's active adoption, and ErrPetUnavailable
// when someone else does. A pet whose only adoption is Rejected accepts a new
// request.
func (s *AdoptionService) RequestAdoption(userID, petID, comments string) (*models.Adoption, error) {
	if _, err := s.petRepo.GetByID(petID); err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("pet %s: %w", petID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load pet %s: %w", petID, err)
	}

	adoption := &models.Adoption{
		UserID:       userID,
		PetID:        petID,
		Status:       models.StatusPending,
		AdoptionDate: time.Now(),
		Comments:     comments,
	}

	if err := s.adoptionRepo.Create(adoption); err != nil {
		if errors.Is(err, repositories.ErrActiveAdoptionExists) {
			return nil, s.classifyConflict(userID, petID)
		}
		return nil, fmt.Errorf("failed to register adoption: %w", err)
	}

	s.publish(rabbitmq.KeyAdoptionRequested, adoption)
	return adoption, nil
}

// classifyConflict turns a conflicting create into the requester-facing error:
// the same user re-requesting vs the pet being taken by someone else.
func (s *AdoptionService) classifyConflict(userID, petID string) error {
	existing, err := s.adoptionRepo.FindActiveByPet(petID)
	if err != nil || existing == nil {
		// The blocking record vanished between insert and lookup; report the
		// generic conflict.
		return ErrPetUnavailable
	}
	if existing.UserID == userID {
		return ErrAlreadyRequested
	}
	return ErrPetUnavailable
}

// UpdateStatus applies a partial update to an adoption: only the supplied
// fields change. Status must be one of the three enum values, but any
// transition between them is allowed (administrative override).
func (s *AdoptionService) UpdateStatus(adoptionID string, status, comments *string) (*models.Adoption, error) {
	adoption, err := s.adoptionRepo.GetByID(adoptionID)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, fmt.Errorf("adoption %s: %w", adoptionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load adoption %s: %w", adoptionID, err)
	}

	changed := false
	if status != nil {
		if !models.ValidStatus(*status) {
			return nil, fmt.Errorf("status %q: %w", *status, ErrInvalidInput)
		}
		adoption.Status = *status
		changed = true
	}
	if comments != nil {
		adoption.Comments = *comments
		changed = true
	}

	if !changed {
		return adoption, nil
	}

	if err := s.adoptionRepo.Update(adoption); err != nil {
		// Un-rejecting fails when the pet picked up another active adoption.
		if errors.Is(err, repositories.ErrActiveAdoptionExists) {
			return nil, fmt.Errorf("pet %s: %w", adoption.PetID, ErrPetUnavailable)
		}
		return nil, fmt.Errorf("failed to update adoption %s: %w", adoptionID, err)
	}

	s.publish(rabbitmq.KeyAdoptionStatusChanged, adoption)
	return adoption, nil
}

// DeleteAdoption removes an adoption. Only the owning user may delete it;
// deletion is unconditional otherwise, regardless of status.
func (s *AdoptionService) DeleteAdoption(adoptionID, requesterID string) error {
	adoption, err := s.adoptionRepo.GetByID(adoptionID)
	if err != nil {
		if isRepoNotFound(err) {
			return fmt.Errorf("adoption %s: %w", adoptionID, ErrNotFound)
		}
		return fmt.Errorf("failed to load adoption %s: %w", adoptionID, err)
	}

	if adoption.UserID != requesterID {
		return fmt.Errorf("you can only delete your own adoption requests: %w", ErrForbidden)
	}

	if err := s.adoptionRepo.Delete(adoptionID); err != nil {
		return fmt.Errorf("failed to delete adoption %s: %w", adoptionID, err)
	}
	return nil
}

// publish sends an adoption event, best effort: a broker failure is logged
// and never surfaced to the caller.
func (s *AdoptionService) publish(routingKey string, adoption *models.Adoption) {
	if s.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"adoption_id": adoption.ID,
		"user_id":     adoption.UserID,
		"pet_id":      adoption.PetID,
		"status":      adoption.Status,
	}
	if err := s.publisher.PublishAdoptionEvent(routingKey, payload); err != nil {
		log.Printf("Warning: failed to publish %s event for adoption %s: %v", routingKey, adoption.ID, err)
	}
}

package services

import (
	"errors"

	"refugio/internal/repositories"
)

// Tagged errors returned by the service layer. Handlers map them to HTTP
// status codes with errors.Is; anything unwrapped is an unexpected failure
// and becomes a 500.
var (
	// ErrNotFound signals a referenced entity is absent.
	ErrNotFound = errors.New("not found")
	// ErrForbidden signals an ownership or role mismatch.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput signals a malformed identifier or enum value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyRequested signals the requester already has an active
	// adoption for the pet.
	ErrAlreadyRequested = errors.New("you have already requested to adopt this pet")
	// ErrPetUnavailable signals another user's active adoption blocks the pet.
	ErrPetUnavailable = errors.New("this pet has already been adopted by another user and is not available")

	// ErrNotFavourite signals a removal of a pet that is not favourited.
	ErrNotFavourite = errors.New("pet is not in favourites")

	// ErrChipTaken signals a pet registration with an existing chip number.
	ErrChipTaken = errors.New("chip already exists")
	// ErrUserExists signals a registration with a taken username or email.
	ErrUserExists = errors.New("username or email already registered")
	// ErrInvalidCredentials is the single answer to any login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// isRepoNotFound reports whether the repository error marks a missing row, as
// opposed to a store failure.
func isRepoNotFound(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}

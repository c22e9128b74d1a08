package models

import (
	"time"

	"gorm.io/gorm"
)

// Adoption lifecycle statuses. A pet may carry at most one adoption whose
// status is not Rejected; that record makes the pet unavailable.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// ValidStatus reports whether s is one of the three adoption statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Adoption represents one user's request to adopt one pet.
type Adoption struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID       string    `json:"user_id" gorm:"index;type:varchar(36)" validate:"required"`
	PetID        string    `json:"pet_id" gorm:"index;type:varchar(36)" validate:"required"`
	User         *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Pet          *Pet      `json:"pet,omitempty" gorm:"foreignKey:PetID"`
	Status       string    `json:"status" gorm:"type:varchar(16);default:Pending" validate:"omitempty,oneof=Pending Approved Rejected"`
	AdoptionDate time.Time `json:"adoption_date"`
	Comments     string    `json:"comments"`
	gorm.Model             // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Active reports whether the adoption blocks its pet from being adopted
// by someone else (Pending or Approved).
func (a *Adoption) Active() bool {
	return a.Status != StatusRejected
}

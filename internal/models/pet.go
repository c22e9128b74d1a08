package models

import "gorm.io/gorm"

// Pet enum values. Requests carrying anything else are rejected up front.
const (
	SexMale   = "Male"
	SexFemale = "Female"

	SizeLarge  = "Large"
	SizeMedium = "Medium"
	SizeSmall  = "Small"

	SpeciesDog = "Dog"
	SpeciesCat = "Cat"
)

// Pet represents an animal registered at the shelter. The chip number is
// immutable after creation; the image is mandatory and lives in the image store.
type Pet struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Chip       string `json:"chip" gorm:"uniqueIndex;type:varchar(64)" validate:"required"`
	Name       string `json:"name" validate:"required,min=1,max=100"`
	Age        int    `json:"age" validate:"gte=0"`
	Sex        string `json:"sex" gorm:"type:varchar(16)" validate:"required,oneof=Male Female"`
	Size       string `json:"size" gorm:"type:varchar(16)" validate:"required,oneof=Large Medium Small"`
	Species    string `json:"species" gorm:"type:varchar(16)" validate:"required,oneof=Dog Cat"`
	ImageURL   string `json:"image_url" validate:"required,url"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserType identifies which registry an authenticated subject belongs to.
type UserType string

const (
	UserTypeDonor    UserType = "donor"
	UserTypeHospital UserType = "hospital"
	UserTypeStaff    UserType = "staff"
)

// BloodTypes lists the eight ABO/Rh combinations accepted wherever a blood
// type field appears.
var BloodTypes = []string{"O+", "O-", "A+", "A-", "B+", "B-", "AB+", "AB-"}

// IsValidBloodType reports whether s is one of the eight ABO/Rh combinations.
func IsValidBloodType(s string) bool {
	for _, bt := range BloodTypes {
		if s == bt {
			return true
		}
	}
	return false
}

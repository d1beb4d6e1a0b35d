package models

import "time"

// Hospital represents a registered hospital that can request blood.
type Hospital struct {
	Base
	HospitalName     string    `gorm:"not null" json:"hospital_name"`
	LicenseNumber    string    `gorm:"uniqueIndex;not null" json:"license_number"`
	ContactPerson    string    `gorm:"not null" json:"contact_person"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string    `gorm:"not null" json:"-"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	BedCapacity      int       `json:"bed_capacity"`
	RegistrationDate time.Time `gorm:"not null" json:"registration_date"`
	IsVerified       bool      `gorm:"default:false" json:"is_verified"`
	IsActive         bool      `gorm:"default:true" json:"is_active"`

	Requests []BloodRequest `gorm:"foreignKey:HospitalID" json:"requests,omitempty"`
}

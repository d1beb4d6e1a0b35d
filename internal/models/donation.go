package models

import "time"

// DonationRecord is the append-only record of one completed donation.
// Each record mints exactly one inventory unit and advances the donor's
// last donation date.
type DonationRecord struct {
	Base
	DonorID      uint      `gorm:"not null;index" json:"donor_id"`
	StaffID      uint      `gorm:"not null;index" json:"staff_id"`
	DonationDate time.Time `gorm:"not null" json:"donation_date"`
	BloodType    string    `gorm:"size:3;not null" json:"blood_type"`
	VolumeML     int       `gorm:"column:quantity_ml;not null" json:"quantity_ml"`
	Location     string    `json:"location"`
	Notes        string    `json:"notes"`

	Donor *Donor `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	Staff *Staff `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
}

// TableName keeps the canonical donation_history table name.
func (DonationRecord) TableName() string { return "donation_history" }

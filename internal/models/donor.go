package models

import "time"

// Donor represents a registered blood donor.
type Donor struct {
	Base
	FullName         string     `gorm:"not null" json:"full_name"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string     `gorm:"not null" json:"-"`
	Phone            string     `json:"phone"`
	DateOfBirth      time.Time  `json:"date_of_birth"`
	BloodType        string     `gorm:"size:3;not null;index" json:"blood_type"`
	Address          string     `json:"address"`
	City             string     `json:"city"`
	RegistrationDate time.Time  `gorm:"not null" json:"registration_date"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`

	Donations []DonationRecord `gorm:"foreignKey:DonorID" json:"donations,omitempty"`
}

// DonationCooldownDays is the minimum interval between two donations by the
// same donor.
const DonationCooldownDays = 56

// NextEligibleDate returns the earliest date the donor may donate again.
// A donor with no prior donation is always eligible; the second return value
// is false in that case.
func (d *Donor) NextEligibleDate() (time.Time, bool) {
	if d.LastDonationDate == nil {
		return time.Time{}, false
	}
	return d.LastDonationDate.AddDate(0, 0, DonationCooldownDays), true
}

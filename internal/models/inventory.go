package models

import "time"

// UnitStatus represents the lifecycle state of a blood inventory unit.
type UnitStatus string

const (
	UnitStatusAvailable UnitStatus = "available"
	UnitStatusReserved  UnitStatus = "reserved"
	UnitStatusUsed      UnitStatus = "used"
	UnitStatusExpired   UnitStatus = "expired"
	UnitStatusDiscarded UnitStatus = "discarded"
)

// ShelfLifeDays is the fixed validity period of a collected unit.
const ShelfLifeDays = 42

// unitTransitions is the allowed status transition table. used, expired and
// discarded are terminal.
var unitTransitions = map[UnitStatus][]UnitStatus{
	UnitStatusAvailable: {UnitStatusReserved, UnitStatusUsed, UnitStatusExpired, UnitStatusDiscarded},
	UnitStatusReserved:  {UnitStatusAvailable, UnitStatusUsed, UnitStatusExpired, UnitStatusDiscarded},
}

// CanTransition reports whether a unit may move from one status to another.
func CanTransition(from, to UnitStatus) bool {
	for _, s := range unitTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsValidUnitStatus reports whether s is a recognized unit status.
func IsValidUnitStatus(s string) bool {
	switch UnitStatus(s) {
	case UnitStatusAvailable, UnitStatusReserved, UnitStatusUsed, UnitStatusExpired, UnitStatusDiscarded:
		return true
	}
	return false
}

// InventoryUnit represents one stored unit of blood. Units are never
// physically removed; only their status changes.
type InventoryUnit struct {
	Base
	BloodType      string     `gorm:"size:3;not null;index" json:"blood_type"`
	VolumeML       int        `gorm:"column:quantity_ml;not null" json:"quantity_ml"`
	Location       string     `json:"location"`
	CollectionDate time.Time  `gorm:"not null" json:"collection_date"`
	ExpiryDate     time.Time  `gorm:"not null;index" json:"expiry_date"`
	Status         UnitStatus `gorm:"not null;default:'available';index" json:"status"`
	DonorID        *uint      `json:"donor_id,omitempty"`
	DonationID     *uint      `json:"donation_id,omitempty"`
	// RequestID records which request consumed the unit. Set exactly when
	// Status becomes used.
	RequestID *uint `json:"request_id,omitempty"`
}

// TableName keeps the canonical blood_inventory table name.
func (InventoryUnit) TableName() string { return "blood_inventory" }

// Expired reports whether the unit is past its expiry date at the given time.
func (u *InventoryUnit) Expired(at time.Time) bool {
	return !u.ExpiryDate.After(at)
}

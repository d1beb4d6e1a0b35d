package models

import "time"

// Urgency is a request's priority tier.
type Urgency string

const (
	UrgencyRoutine   Urgency = "routine"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

// RequestStatus represents the lifecycle state of a blood request.
// fulfilled and cancelled are terminal.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusFulfilled RequestStatus = "fulfilled"
	RequestStatusCancelled RequestStatus = "cancelled"
	RequestStatusExpired   RequestStatus = "expired"
)

// MLPerUnit converts between the hospital-facing unit count and stored
// millilitres.
const MLPerUnit = 450

// BloodRequest represents a hospital's request for blood.
type BloodRequest struct {
	Base
	HospitalID        uint          `gorm:"not null;index" json:"hospital_id"`
	BloodType         string        `gorm:"size:3;not null" json:"blood_type"`
	VolumeML          int           `gorm:"column:quantity_ml;not null" json:"quantity_ml"`
	Urgency           Urgency       `gorm:"not null;default:'routine'" json:"urgency"`
	Status            RequestStatus `gorm:"not null;default:'pending';index" json:"status"`
	RequestDate       time.Time     `gorm:"not null" json:"request_date"`
	RequiredByDate    time.Time     `gorm:"not null" json:"required_by_date"`
	FulfilledDate     *time.Time    `json:"fulfilled_date,omitempty"`
	FulfilledVolumeML int           `gorm:"column:fulfilled_quantity_ml" json:"fulfilled_quantity_ml"`
	Notes             string        `json:"notes"`

	Hospital *Hospital `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
}

// TableName keeps the canonical blood_requests table name.
func (BloodRequest) TableName() string { return "blood_requests" }

// Terminal reports whether the request can no longer change state.
func (r *BloodRequest) Terminal() bool {
	return r.Status == RequestStatusFulfilled || r.Status == RequestStatusCancelled
}

package models

import "time"

// EventStatus represents the lifecycle state of a donation event.
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCompleted EventStatus = "completed"
)

// ParticipantStatus is a participant's attendance commitment.
type ParticipantStatus string

const (
	ParticipantStatusConfirmed ParticipantStatus = "Confirmed"
	ParticipantStatusTentative ParticipantStatus = "Tentative"
)

// Event is a scheduled donation drive created by staff.
type Event struct {
	Base
	Title         string      `gorm:"not null" json:"title"`
	Date          time.Time   `gorm:"not null;index" json:"date"`
	StartTime     string      `gorm:"size:8" json:"start_time"`
	EndTime       string      `gorm:"size:8" json:"end_time"`
	Location      string      `gorm:"not null" json:"location"`
	Expected      *int        `json:"expected,omitempty"`
	Notes         string      `json:"notes"`
	Status        EventStatus `gorm:"not null;default:'scheduled'" json:"status"`
	CreatedByType UserType    `gorm:"not null" json:"created_by_type"`
	CreatedByID   uint        `gorm:"not null" json:"created_by_id"`
	CreatedByName string      `json:"created_by_name"`

	Participants []EventParticipant `gorm:"foreignKey:EventID" json:"participants"`
}

// EventParticipant is one donor's entry on an event roster. A donor holds at
// most one entry per event; the name and blood type are snapshots taken at
// join time.
type EventParticipant struct {
	Base
	EventID      uint              `gorm:"not null;uniqueIndex:idx_event_donor" json:"event_id"`
	DonorID      uint              `gorm:"not null;uniqueIndex:idx_event_donor" json:"donor_id"`
	Name         string            `json:"name"`
	BloodType    string            `gorm:"size:3" json:"blood_type"`
	Status       ParticipantStatus `gorm:"not null;default:'Confirmed'" json:"status"`
	RegisteredAt time.Time         `gorm:"not null" json:"registered"`
}

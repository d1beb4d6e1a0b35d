package services

import (
	"time"

	"lifelink/internal/models"
	"lifelink/internal/pagination"
)

// DonorRegistration holds the fields required to register a donor.
type DonorRegistration struct {
	FullName    string
	Email       string
	Password    string
	Phone       string
	DateOfBirth time.Time
	BloodType   string
	Address     string
	City        string
}

// DonorPatch holds the mutable donor fields for partial updates. Nil fields
// are left unchanged.
type DonorPatch struct {
	FullName *string
	Phone    *string
	Address  *string
	City     *string
	// IsActive may only be toggled by staff.
	IsActive *bool
}

// DonorEligibility describes whether and when a donor may donate.
type DonorEligibility struct {
	LastDonationDate  *time.Time `json:"lastDonationDate"`
	NextEligibleDate  time.Time  `json:"nextEligibleDate"`
	DaysUntilEligible int        `json:"daysUntilEligible"`
	IsEligible        bool       `json:"isEligible"`
}

// RewardMilestone is one step on the donor recognition ladder.
type RewardMilestone struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Target   int    `json:"target"`
	Achieved bool   `json:"achieved"`
}

// DonorRewards summarizes a donor's donation record against the
// recognition milestones.
type DonorRewards struct {
	TotalDonations    int64             `json:"totalDonations"`
	DonationsLastYear int64             `json:"donationsLastYear"`
	Milestones        []RewardMilestone `json:"milestones"`
}

// DonorNotification is one entry on a donor's notification feed. The feed
// is derived on read, nothing is stored.
type DonorNotification struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Type    string `json:"type"`
}

// DonorServicer defines the contract for the donor registry.
type DonorServicer interface {
	Register(in DonorRegistration) (*models.Donor, error)
	Authenticate(email, password string) (*models.Donor, error)
	GetByID(id uint) (*models.Donor, error)
	List(page pagination.PageRequest) (*pagination.PageResponse[models.Donor], error)
	SearchByBloodType(bloodType string, limit int) ([]models.Donor, error)
	Update(id uint, patch DonorPatch) (*models.Donor, error)
	Deactivate(id uint) error
	Eligibility(id uint, asOf time.Time) (*DonorEligibility, error)
	Rewards(id uint, asOf time.Time) (*DonorRewards, error)
	Notifications(id uint, asOf time.Time) ([]DonorNotification, error)
}

// HospitalRegistration holds the fields required to register a hospital.
type HospitalRegistration struct {
	HospitalName  string
	LicenseNumber string
	ContactPerson string
	Email         string
	Password      string
	Phone         string
	Address       string
	City          string
	BedCapacity   int
}

// HospitalPatch holds the mutable hospital fields for partial updates.
type HospitalPatch struct {
	ContactPerson *string
	Phone         *string
	Address       *string
	City          *string
}

// HospitalServicer defines the contract for the hospital registry.
type HospitalServicer interface {
	Register(in HospitalRegistration) (*models.Hospital, error)
	Authenticate(email, password string) (*models.Hospital, error)
	GetByID(id uint) (*models.Hospital, error)
	List(page pagination.PageRequest) (*pagination.PageResponse[models.Hospital], error)
	Update(id uint, patch HospitalPatch) (*models.Hospital, error)
}

// StaffRegistration holds the fields required to register a staff member.
type StaffRegistration struct {
	FullName      string
	EmployeeID    string
	Certification string
	Email         string
	Password      string
	Phone         string
	BloodBankName string
	Department    models.Department
	Address       string
}

// StaffPatch holds the mutable staff fields for partial updates.
type StaffPatch struct {
	FullName *string
	Phone    *string
	Address  *string
}

// StaffMemberStats summarizes a staff member's activity.
type StaffMemberStats struct {
	EventsCount      int64     `json:"eventsCount"`
	DonationsCount   int64     `json:"donationsCount"`
	RegistrationDate time.Time `json:"registration_date"`
}

// StaffServicer defines the contract for the staff registry.
type StaffServicer interface {
	Register(in StaffRegistration) (*models.Staff, error)
	Authenticate(email, password string) (*models.Staff, error)
	GetByID(id uint) (*models.Staff, error)
	List(page pagination.PageRequest) (*pagination.PageResponse[models.Staff], error)
	Update(id uint, patch StaffPatch) (*models.Staff, error)
	ChangePassword(id uint, currentPassword, newPassword string) error
	Stats(id uint) (*StaffMemberStats, error)
}

// AddUnitInput holds the fields for a direct inventory entry.
type AddUnitInput struct {
	BloodType      string
	VolumeML       int
	Location       string
	CollectionDate time.Time
	// ExpiryDate defaults to CollectionDate + 42 days when nil.
	ExpiryDate *time.Time
	DonorID    *uint
}

// TypeTotals aggregates available volume for one blood type.
type TypeTotals struct {
	TotalML    int `json:"total"`
	ExpiringML int `json:"expiring"`
}

// InventoryServicer defines the contract for the blood inventory ledger.
type InventoryServicer interface {
	AddUnit(in AddUnitInput) (*models.InventoryUnit, error)
	List() ([]models.InventoryUnit, error)
	ListAvailable(bloodType string) ([]models.InventoryUnit, error)
	SetStatus(unitID uint, status models.UnitStatus) (*models.InventoryUnit, error)
	TotalsByType(asOf time.Time) (map[string]TypeTotals, error)
}

// RequestServicer defines the contract for the request/fulfillment workflow.
type RequestServicer interface {
	Create(hospitalID uint, bloodType string, volumeML int, urgency models.Urgency, requiredBy time.Time, notes string) (*models.BloodRequest, error)
	GetByID(id uint) (*models.BloodRequest, error)
	ListAll() ([]models.BloodRequest, error)
	ListForHospital(hospitalID uint) ([]models.BloodRequest, error)
	Cancel(requestID, callerHospitalID uint) (*models.BloodRequest, error)
	Fulfill(requestID uint, unitIDs []uint, volumeML int, notes string) (*models.BloodRequest, error)
	Reject(requestID uint, reason string) (*models.BloodRequest, error)
}

// RecordDonationInput holds the fields for recording a completed donation.
type RecordDonationInput struct {
	DonorID   uint
	StaffID   uint
	BloodType string
	VolumeML  int
	Date      time.Time
	Notes     string
}

// DonationServicer defines the contract for the donation recorder.
type DonationServicer interface {
	Record(in RecordDonationInput) (*models.DonationRecord, error)
	ListForDonor(donorID uint, page pagination.PageRequest) (*pagination.PageResponse[models.DonationRecord], error)
	ListAll(page pagination.PageRequest) (*pagination.PageResponse[models.DonationRecord], error)
}

// CreateEventInput holds the fields for creating a donation event.
type CreateEventInput struct {
	Title         string
	Date          time.Time
	StartTime     string
	EndTime       string
	Location      string
	Expected      *int
	Notes         string
	CreatedByType models.UserType
	CreatedByID   uint
	CreatedByName string
}

// EventPatch holds the mutable event fields for partial updates.
type EventPatch struct {
	Title     *string
	Date      *time.Time
	StartTime *string
	EndTime   *string
	Location  *string
	Expected  *int
	Notes     *string
}

// Appointment is a donor-facing view of one event participation.
type Appointment struct {
	ParticipantID uint                     `json:"participant_id"`
	EventID       uint                     `json:"event_id"`
	Status        models.ParticipantStatus `json:"status"`
	Registered    time.Time                `json:"registered"`
	Title         string                   `json:"title"`
	Date          time.Time                `json:"date"`
	StartTime     string                   `json:"start_time"`
	EndTime       string                   `json:"end_time"`
	Location      string                   `json:"location"`
}

// EventServicer defines the contract for the event/participation tracker.
type EventServicer interface {
	Create(in CreateEventInput) (*models.Event, error)
	GetByID(id uint) (*models.Event, error)
	Update(id uint, patch EventPatch) (*models.Event, error)
	MarkCompleted(id uint) (*models.Event, error)
	Delete(id uint) (*models.Event, error)
	Join(eventID, donorID uint) (*models.Event, error)
	Leave(eventID, donorID uint) error
	ListUpcoming() ([]models.Event, error)
	ListAll() ([]models.Event, error)
	ListAppointments(donorID uint) ([]Appointment, error)
}

// DonorStats is the donor dashboard payload.
type DonorStats struct {
	TotalDonations   int64     `json:"totalDonations"`
	NextEligibleDate time.Time `json:"nextEligibleDate"`
}

// HospitalStats is the hospital dashboard payload.
type HospitalStats struct {
	TotalRequests     int64                 `json:"totalRequests"`
	FulfilledRequests int64                 `json:"fulfilledRequests"`
	PendingRequests   int64                 `json:"pendingRequests"`
	CancelledRequests int64                 `json:"cancelledRequests"`
	SuccessRate       int                   `json:"successRate"`
	AvailableDonors   int64                 `json:"availableDonors"`
	InventoryByType   map[string]TypeTotals `json:"inventoryByType"`
}

// StaffStats is the staff dashboard payload.
type StaffStats struct {
	TotalInventoryML  int64                 `json:"totalInventoryMl"`
	RecentCollections int64                 `json:"recentCollections"`
	PendingRequests   int64                 `json:"pendingRequests"`
	FulfilledRequests int64                 `json:"fulfilledRequests"`
	CancelledRequests int64                 `json:"cancelledRequests"`
	InventoryByType   map[string]TypeTotals `json:"inventoryByType"`
}

// BloodTypeReport summarizes one blood type for the reports view.
type BloodTypeReport struct {
	BloodType      string `json:"blood_type"`
	UnitsAvailable int    `json:"units_available"`
	TotalCollected int    `json:"total_collected"`
	RequestCount   int64  `json:"request_count"`
}

// DailyReport is one day's donation activity.
type DailyReport struct {
	Date      string `json:"date"`
	Donations int64  `json:"donations"`
	VolumeML  int64  `json:"volume"`
}

// Report is the staff reports payload for a period.
type Report struct {
	TotalDonations        int64             `json:"total_donations"`
	TotalCollectedML      int64             `json:"total_collected"`
	RequestsFulfilled     int64             `json:"requests_fulfilled"`
	RequestsPending       int64             `json:"requests_pending"`
	RequestsCancelled     int64             `json:"requests_cancelled"`
	ActiveDonors          int64             `json:"active_donors"`
	BloodTypeDistribution map[string]int    `json:"blood_type_distribution"`
	BloodTypeStats        []BloodTypeReport `json:"blood_type_stats"`
	DailyData             []DailyReport     `json:"daily_data"`
}

// ReportServicer defines the contract for derived statistics.
type ReportServicer interface {
	DonorStats(donorID uint, asOf time.Time) (*DonorStats, error)
	HospitalStats(hospitalID uint, asOf time.Time) (*HospitalStats, error)
	StaffStats(staffID uint, asOf time.Time) (*StaffStats, error)
	Reports(period string, asOf time.Time) (*Report, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(table string, recordID uint, action string, userType models.UserType, userID uint, changes map[string]interface{})
	List(limit int) ([]models.AuditLog, error)
}

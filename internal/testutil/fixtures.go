package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"lifelink/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// hashPassword hashes with the minimum cost to keep tests fast.
func hashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

// CreateTestDonor creates an active O+ donor with no donation history.
func CreateTestDonor(t *testing.T, db *gorm.DB) *models.Donor {
	t.Helper()
	return CreateTestDonorWithBloodType(t, db, "O+")
}

// CreateTestDonorWithBloodType creates an active donor with the given blood type.
func CreateTestDonorWithBloodType(t *testing.T, db *gorm.DB, bloodType string) *models.Donor {
	t.Helper()

	n := nextID()
	donor := &models.Donor{
		FullName:         fmt.Sprintf("Test Donor %d", n),
		Email:            fmt.Sprintf("donor%d@test.com", n),
		PasswordHash:     hashPassword(t, "password123"),
		Phone:            "555-0100",
		DateOfBirth:      time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		BloodType:        bloodType,
		City:             "Testville",
		RegistrationDate: time.Now(),
		IsActive:         true,
	}
	if err := db.Create(donor).Error; err != nil {
		t.Fatalf("failed to create test donor: %v", err)
	}
	return donor
}

// CreateTestDonorWithLastDonation creates a donor whose last donation was the
// given number of days ago.
func CreateTestDonorWithLastDonation(t *testing.T, db *gorm.DB, daysAgo int) *models.Donor {
	t.Helper()

	donor := CreateTestDonor(t, db)
	last := time.Now().AddDate(0, 0, -daysAgo)
	if err := db.Model(donor).Update("last_donation_date", last).Error; err != nil {
		t.Fatalf("failed to set last donation date: %v", err)
	}
	donor.LastDonationDate = &last
	return donor
}

// CreateTestHospital creates a verified, active hospital.
func CreateTestHospital(t *testing.T, db *gorm.DB) *models.Hospital {
	t.Helper()

	n := nextID()
	hospital := &models.Hospital{
		HospitalName:     fmt.Sprintf("Test Hospital %d", n),
		LicenseNumber:    fmt.Sprintf("LIC-%d", n),
		ContactPerson:    "Test Contact",
		Email:            fmt.Sprintf("hospital%d@test.com", n),
		PasswordHash:     hashPassword(t, "password123"),
		Phone:            "555-0200",
		City:             "Testville",
		BedCapacity:      100,
		RegistrationDate: time.Now(),
		IsVerified:       true,
		IsActive:         true,
	}
	if err := db.Create(hospital).Error; err != nil {
		t.Fatalf("failed to create test hospital: %v", err)
	}
	return hospital
}

// CreateTestStaff creates a verified, active staff member in the collection
// department.
func CreateTestStaff(t *testing.T, db *gorm.DB) *models.Staff {
	t.Helper()

	n := nextID()
	staff := &models.Staff{
		FullName:         fmt.Sprintf("Test Staff %d", n),
		EmployeeID:       fmt.Sprintf("EMP-%d", n),
		Email:            fmt.Sprintf("staff%d@test.com", n),
		PasswordHash:     hashPassword(t, "password123"),
		Phone:            "555-0300",
		BloodBankName:    "Central Blood Bank",
		Department:       models.DepartmentCollection,
		RegistrationDate: time.Now(),
		IsVerified:       true,
		IsActive:         true,
	}
	if err := db.Create(staff).Error; err != nil {
		t.Fatalf("failed to create test staff: %v", err)
	}
	return staff
}

// CreateTestUnit creates an available inventory unit of the given blood type
// collected today.
func CreateTestUnit(t *testing.T, db *gorm.DB, bloodType string) *models.InventoryUnit {
	t.Helper()
	return CreateTestUnitWithExpiry(t, db, bloodType, time.Now().AddDate(0, 0, models.ShelfLifeDays))
}

// CreateTestUnitWithExpiry creates an available unit expiring at the given time.
func CreateTestUnitWithExpiry(t *testing.T, db *gorm.DB, bloodType string, expiry time.Time) *models.InventoryUnit {
	t.Helper()

	unit := &models.InventoryUnit{
		BloodType:      bloodType,
		VolumeML:       450,
		Location:       "Main Storage",
		CollectionDate: time.Now(),
		ExpiryDate:     expiry,
		Status:         models.UnitStatusAvailable,
	}
	if err := db.Create(unit).Error; err != nil {
		t.Fatalf("failed to create test unit: %v", err)
	}
	return unit
}

// CreateTestRequest creates a pending routine request for the given hospital.
func CreateTestRequest(t *testing.T, db *gorm.DB, hospitalID uint, bloodType string, volumeML int) *models.BloodRequest {
	t.Helper()

	req := &models.BloodRequest{
		HospitalID:     hospitalID,
		BloodType:      bloodType,
		VolumeML:       volumeML,
		Urgency:        models.UrgencyRoutine,
		Status:         models.RequestStatusPending,
		RequestDate:    time.Now(),
		RequiredByDate: time.Now().AddDate(0, 0, 7),
	}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("failed to create test request: %v", err)
	}
	return req
}

// CreateTestEvent creates a scheduled event one week out, created by the given
// staff member.
func CreateTestEvent(t *testing.T, db *gorm.DB, staff *models.Staff) *models.Event {
	t.Helper()

	n := nextID()
	event := &models.Event{
		Title:         fmt.Sprintf("Test Drive %d", n),
		Date:          time.Now().AddDate(0, 0, 7),
		StartTime:     "09:00",
		EndTime:       "17:00",
		Location:      "Community Center",
		Status:        models.EventStatusScheduled,
		CreatedByType: models.UserTypeStaff,
		CreatedByID:   staff.ID,
		CreatedByName: staff.FullName,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return event
}

package services

import (
	"testing"

	"lifelink/internal/models"
	"lifelink/internal/testutil"
)

func validStaffRegistration() StaffRegistration {
	return StaffRegistration{
		FullName:      "Priya Nair",
		EmployeeID:    "EMP-1001",
		Email:         "priya.nair@bank.example.com",
		Password:      "password123",
		BloodBankName: "Central Blood Bank",
		Department:    models.DepartmentCollection,
	}
}

func TestStaffRegister(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStaffService(db)

		staff, err := svc.Register(validStaffRegistration())
		testutil.AssertNoError(t, err)

		if staff.ID == 0 {
			t.Fatal("expected non-zero staff ID")
		}
		if staff.Department != models.DepartmentCollection {
			t.Errorf("expected collection department, got %s", staff.Department)
		}
	})

	t.Run("invalid_department", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStaffService(db)

		reg := validStaffRegistration()
		reg.Department = "catering"
		_, err := svc.Register(reg)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_employee_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStaffService(db)

		_, err := svc.Register(validStaffRegistration())
		testutil.AssertNoError(t, err)

		reg := validStaffRegistration()
		reg.Email = "other@bank.example.com"
		_, err = svc.Register(reg)
		testutil.AssertAppError(t, err, "DUPLICATE_EMPLOYEE_ID")
	})
}

func TestStaffChangePassword(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStaffService(db)

		staff, err := svc.Register(validStaffRegistration())
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.ChangePassword(staff.ID, "password123", "newpassword456"))

		_, err = svc.Authenticate(staff.Email, "newpassword456")
		testutil.AssertNoError(t, err)
		_, err = svc.Authenticate(staff.Email, "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("wrong_current_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewStaffService(db)

		staff, err := svc.Register(validStaffRegistration())
		testutil.AssertNoError(t, err)

		err = svc.ChangePassword(staff.ID, "wrong", "newpassword456")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestStaffStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewStaffService(db)
	staff := testutil.CreateTestStaff(t, db)
	donor := testutil.CreateTestDonor(t, db)

	testutil.CreateTestEvent(t, db, staff)
	testutil.CreateTestEvent(t, db, staff)

	donationSvc := NewDonationService(db)
	_, err := donationSvc.Record(RecordDonationInput{DonorID: donor.ID, StaffID: staff.ID, VolumeML: 450})
	testutil.AssertNoError(t, err)

	stats, err := svc.Stats(staff.ID)
	testutil.AssertNoError(t, err)

	if stats.EventsCount != 2 {
		t.Errorf("expected 2 events, got %d", stats.EventsCount)
	}
	if stats.DonationsCount != 1 {
		t.Errorf("expected 1 donation, got %d", stats.DonationsCount)
	}
}

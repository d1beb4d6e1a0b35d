package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"lifelink/internal/models"
	"lifelink/internal/pagination"
	"lifelink/internal/testutil"
)

func validDonorRegistration() DonorRegistration {
	return DonorRegistration{
		FullName:    "Jordan Reyes",
		Email:       "jordan.reyes@example.com",
		Password:    "password123",
		Phone:       "555-0101",
		DateOfBirth: time.Date(1992, 6, 15, 0, 0, 0, 0, time.UTC),
		BloodType:   "A+",
		City:        "Springfield",
	}
}

func TestDonorRegister(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)

		donor, err := svc.Register(validDonorRegistration())
		testutil.AssertNoError(t, err)

		if donor.ID == 0 {
			t.Fatal("expected non-zero donor ID")
		}
		if donor.Email != "jordan.reyes@example.com" {
			t.Errorf("expected lowercased email, got %s", donor.Email)
		}
		if donor.PasswordHash == "password123" || donor.PasswordHash == "" {
			t.Error("password should be stored as a bcrypt hash")
		}
		if !donor.IsActive {
			t.Error("expected new donor to be active")
		}
	})

	t.Run("lowercases_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)

		reg := validDonorRegistration()
		reg.Email = "Jordan.Reyes@Example.COM"
		donor, err := svc.Register(reg)
		testutil.AssertNoError(t, err)

		if donor.Email != "jordan.reyes@example.com" {
			t.Errorf("expected lowercased email, got %s", donor.Email)
		}
	})

	t.Run("invalid_blood_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)

		reg := validDonorRegistration()
		reg.BloodType = "C+"
		_, err := svc.Register(reg)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)

		_, err := svc.Register(validDonorRegistration())
		testutil.AssertNoError(t, err)

		// Case difference must not evade the uniqueness check.
		reg := validDonorRegistration()
		reg.Email = "JORDAN.REYES@example.com"
		_, err = svc.Register(reg)
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})
}

func TestDonorAuthenticate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)

		registered, err := svc.Register(validDonorRegistration())
		testutil.AssertNoError(t, err)

		donor, err := svc.Authenticate("jordan.reyes@example.com", "password123")
		testutil.AssertNoError(t, err)
		if donor.ID != registered.ID {
			t.Errorf("expected donor %d, got %d", registered.ID, donor.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)

		_, err := svc.Register(validDonorRegistration())
		testutil.AssertNoError(t, err)

		_, err = svc.Authenticate("jordan.reyes@example.com", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email_same_error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)

		_, err := svc.Authenticate("nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestDonorEligibility(t *testing.T) {
	t.Run("never_donated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)
		donor := testutil.CreateTestDonor(t, db)

		elig, err := svc.Eligibility(donor.ID, time.Now())
		testutil.AssertNoError(t, err)

		if !elig.IsEligible {
			t.Error("donor with no history should be eligible")
		}
		if elig.DaysUntilEligible != 0 {
			t.Errorf("expected 0 days until eligible, got %d", elig.DaysUntilEligible)
		}
	})

	t.Run("inside_cooldown", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)
		donor := testutil.CreateTestDonorWithLastDonation(t, db, 10)

		elig, err := svc.Eligibility(donor.ID, time.Now())
		testutil.AssertNoError(t, err)

		if elig.IsEligible {
			t.Error("donor 10 days after donating should not be eligible")
		}
		if elig.DaysUntilEligible != models.DonationCooldownDays-10 {
			t.Errorf("expected %d days until eligible, got %d", models.DonationCooldownDays-10, elig.DaysUntilEligible)
		}
	})

	t.Run("cooldown_elapsed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)
		donor := testutil.CreateTestDonorWithLastDonation(t, db, models.DonationCooldownDays)

		elig, err := svc.Eligibility(donor.ID, time.Now())
		testutil.AssertNoError(t, err)

		if !elig.IsEligible {
			t.Error("donor exactly at the cooldown boundary should be eligible")
		}
	})

	t.Run("unknown_donor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)

		_, err := svc.Eligibility(999, time.Now())
		testutil.AssertAppError(t, err, "DONOR_NOT_FOUND")
	})
}

func recordDonation(t *testing.T, db *gorm.DB, donorID, staffID uint, daysAgo int) {
	t.Helper()
	rec := &models.DonationRecord{
		DonorID:      donorID,
		StaffID:      staffID,
		DonationDate: time.Now().AddDate(0, 0, -daysAgo),
		BloodType:    "A+",
		VolumeML:     models.MLPerUnit,
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("failed to create donation record: %v", err)
	}
}

func TestDonorRewards(t *testing.T) {
	t.Run("counts_and_milestones", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)
		donor := testutil.CreateTestDonor(t, db)
		staff := testutil.CreateTestStaff(t, db)

		// Five donations all-time, two of them in the trailing year.
		for _, daysAgo := range []int{700, 600, 500, 200, 30} {
			recordDonation(t, db, donor.ID, staff.ID, daysAgo)
		}

		rewards, err := svc.Rewards(donor.ID, time.Now())
		testutil.AssertNoError(t, err)

		if rewards.TotalDonations != 5 {
			t.Errorf("expected 5 donations total, got %d", rewards.TotalDonations)
		}
		if rewards.DonationsLastYear != 2 {
			t.Errorf("expected 2 donations in the last year, got %d", rewards.DonationsLastYear)
		}

		achieved := map[string]bool{}
		for _, m := range rewards.Milestones {
			achieved[m.Key] = m.Achieved
		}
		if !achieved["first"] || !achieved["hero"] {
			t.Error("first and hero milestones should be achieved at 5 donations")
		}
		if achieved["life_saver"] {
			t.Error("life_saver milestone requires 10 donations")
		}
		if achieved["annual"] {
			t.Error("annual streak requires 4 donations in the trailing year")
		}
	})

	t.Run("no_donations", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)
		donor := testutil.CreateTestDonor(t, db)

		rewards, err := svc.Rewards(donor.ID, time.Now())
		testutil.AssertNoError(t, err)

		if rewards.TotalDonations != 0 {
			t.Errorf("expected 0 donations, got %d", rewards.TotalDonations)
		}
		for _, m := range rewards.Milestones {
			if m.Achieved {
				t.Errorf("milestone %s should not be achieved with no donations", m.Key)
			}
		}
	})

	t.Run("unknown_donor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)

		_, err := svc.Rewards(999, time.Now())
		testutil.AssertAppError(t, err, "DONOR_NOT_FOUND")
	})
}

func TestDonorNotifications(t *testing.T) {
	findByType := func(list []DonorNotification, typ string) []DonorNotification {
		var out []DonorNotification
		for _, n := range list {
			if n.Type == typ {
				out = append(out, n)
			}
		}
		return out
	}

	t.Run("eligible_donor_gets_ready_notice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)
		donor := testutil.CreateTestDonor(t, db)

		list, err := svc.Notifications(donor.ID, time.Now())
		testutil.AssertNoError(t, err)

		elig := findByType(list, "Eligibility")
		if len(elig) != 1 || elig[0].ID != "eligible-now" {
			t.Fatalf("expected a single eligible-now notice, got %+v", elig)
		}
		if len(findByType(list, "Donation")) != 0 {
			t.Error("donor with no history should get no thank-you notice")
		}
	})

	t.Run("cooldown_donor_gets_countdown", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)
		donor := testutil.CreateTestDonorWithLastDonation(t, db, 10)

		list, err := svc.Notifications(donor.ID, time.Now())
		testutil.AssertNoError(t, err)

		elig := findByType(list, "Eligibility")
		if len(elig) != 1 || elig[0].ID != "eligible-soon" {
			t.Fatalf("expected a single eligible-soon notice, got %+v", elig)
		}
		thanks := findByType(list, "Donation")
		if len(thanks) != 1 || thanks[0].ID != "thanks" {
			t.Fatalf("expected a thank-you notice, got %+v", thanks)
		}
	})

	t.Run("lists_up_to_three_upcoming_events", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)
		donor := testutil.CreateTestDonor(t, db)
		staff := testutil.CreateTestStaff(t, db)

		for i := 0; i < 4; i++ {
			testutil.CreateTestEvent(t, db, staff)
		}

		list, err := svc.Notifications(donor.ID, time.Now())
		testutil.AssertNoError(t, err)

		events := findByType(list, "Event")
		if len(events) != 3 {
			t.Fatalf("expected 3 event notices, got %d", len(events))
		}
	})

	t.Run("unknown_donor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)

		_, err := svc.Notifications(999, time.Now())
		testutil.AssertAppError(t, err, "DONOR_NOT_FOUND")
	})
}

func TestDonorUpdate(t *testing.T) {
	t.Run("patches_allowed_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)
		donor := testutil.CreateTestDonor(t, db)

		phone := "555-0199"
		city := "Shelbyville"
		updated, err := svc.Update(donor.ID, DonorPatch{Phone: &phone, City: &city})
		testutil.AssertNoError(t, err)

		if updated.Phone != phone {
			t.Errorf("expected phone %s, got %s", phone, updated.Phone)
		}
		if updated.City != city {
			t.Errorf("expected city %s, got %s", city, updated.City)
		}
		if updated.FullName != donor.FullName {
			t.Error("unpatched fields must not change")
		}
	})

	t.Run("unknown_donor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)

		name := "Ghost"
		_, err := svc.Update(999, DonorPatch{FullName: &name})
		testutil.AssertAppError(t, err, "DONOR_NOT_FOUND")
	})
}

func TestDonorSearchByBloodType(t *testing.T) {
	t.Run("filters_and_orders", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)

		testutil.CreateTestDonorWithBloodType(t, db, "A+")
		testutil.CreateTestDonorWithBloodType(t, db, "O-")
		testutil.CreateTestDonorWithBloodType(t, db, "A+")

		donors, err := svc.SearchByBloodType("A+", 0)
		testutil.AssertNoError(t, err)

		if len(donors) != 2 {
			t.Fatalf("expected 2 A+ donors, got %d", len(donors))
		}
		for _, d := range donors {
			if d.BloodType != "A+" {
				t.Errorf("expected only A+ donors, got %s", d.BloodType)
			}
		}
	})

	t.Run("invalid_blood_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDonorService(db)

		_, err := svc.SearchByBloodType("X+", 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDonorList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDonorService(db)

	for i := 0; i < 3; i++ {
		testutil.CreateTestDonor(t, db)
	}

	result, err := svc.List(pagination.PageRequest{Page: 1, PageSize: 2})
	testutil.AssertNoError(t, err)

	if result.TotalItems != 3 {
		t.Errorf("expected 3 donors total, got %d", result.TotalItems)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 donors on page 1, got %d", len(result.Data))
	}
	if result.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", result.TotalPages)
	}
}

func TestDonorDeactivate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDonorService(db)
	donor := testutil.CreateTestDonor(t, db)

	testutil.AssertNoError(t, svc.Deactivate(donor.ID))

	var reloaded models.Donor
	if err := db.First(&reloaded, donor.ID).Error; err != nil {
		t.Fatalf("donor row should survive deactivation: %v", err)
	}
	if reloaded.IsActive {
		t.Error("expected donor to be inactive")
	}
}

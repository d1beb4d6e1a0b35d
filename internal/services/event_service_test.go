package services

import (
	"testing"
	"time"

	"lifelink/internal/models"
	"lifelink/internal/testutil"
)

func TestEventJoin(t *testing.T) {
	t.Run("snapshots_donor_details", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEventService(db)
		staff := testutil.CreateTestStaff(t, db)
		event := testutil.CreateTestEvent(t, db, staff)
		donor := testutil.CreateTestDonorWithBloodType(t, db, "AB+")

		joined, err := svc.Join(event.ID, donor.ID)
		testutil.AssertNoError(t, err)

		if len(joined.Participants) != 1 {
			t.Fatalf("expected 1 participant, got %d", len(joined.Participants))
		}
		p := joined.Participants[0]
		if p.BloodType != "AB+" || p.Name != donor.FullName {
			t.Error("participant should snapshot the donor's name and blood type")
		}
		if p.Status != models.ParticipantStatusConfirmed {
			t.Errorf("expected Confirmed, got %s", p.Status)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEventService(db)
		staff := testutil.CreateTestStaff(t, db)
		event := testutil.CreateTestEvent(t, db, staff)
		donor := testutil.CreateTestDonor(t, db)

		_, err := svc.Join(event.ID, donor.ID)
		testutil.AssertNoError(t, err)
		joined, err := svc.Join(event.ID, donor.ID)
		testutil.AssertNoError(t, err)

		if len(joined.Participants) != 1 {
			t.Errorf("second join must not duplicate the roster entry, got %d", len(joined.Participants))
		}
	})

	t.Run("unknown_event", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEventService(db)
		donor := testutil.CreateTestDonor(t, db)

		_, err := svc.Join(999, donor.ID)
		testutil.AssertAppError(t, err, "EVENT_NOT_FOUND")
	})

	t.Run("completed_event_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEventService(db)
		staff := testutil.CreateTestStaff(t, db)
		event := testutil.CreateTestEvent(t, db, staff)
		donor := testutil.CreateTestDonor(t, db)

		_, err := svc.MarkCompleted(event.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.Join(event.ID, donor.ID)
		testutil.AssertAppError(t, err, "EVENT_ALREADY_COMPLETED")
	})
}

func TestEventLeave(t *testing.T) {
	t.Run("removes_registration", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEventService(db)
		staff := testutil.CreateTestStaff(t, db)
		event := testutil.CreateTestEvent(t, db, staff)
		donor := testutil.CreateTestDonor(t, db)

		_, err := svc.Join(event.ID, donor.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.Leave(event.ID, donor.ID))

		reloaded, err := svc.GetByID(event.ID)
		testutil.AssertNoError(t, err)
		if len(reloaded.Participants) != 0 {
			t.Errorf("expected empty roster, got %d", len(reloaded.Participants))
		}
	})

	t.Run("no_registration", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEventService(db)
		staff := testutil.CreateTestStaff(t, db)
		event := testutil.CreateTestEvent(t, db, staff)
		donor := testutil.CreateTestDonor(t, db)

		err := svc.Leave(event.ID, donor.ID)
		testutil.AssertAppError(t, err, "PARTICIPATION_NOT_FOUND")
	})

	t.Run("rejoin_after_leave", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewEventService(db)
		staff := testutil.CreateTestStaff(t, db)
		event := testutil.CreateTestEvent(t, db, staff)
		donor := testutil.CreateTestDonor(t, db)

		_, err := svc.Join(event.ID, donor.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.Leave(event.ID, donor.ID))

		// Leaving must not leave a tombstone behind on the unique
		// (event_id, donor_id) index; rejoining is a valid flow.
		reloaded, err := svc.Join(event.ID, donor.ID)
		testutil.AssertNoError(t, err)
		if len(reloaded.Participants) != 1 {
			t.Fatalf("expected 1 participant after rejoin, got %d", len(reloaded.Participants))
		}
	})
}

func TestEventMarkCompleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewEventService(db)
	staff := testutil.CreateTestStaff(t, db)
	event := testutil.CreateTestEvent(t, db, staff)

	completed, err := svc.MarkCompleted(event.ID)
	testutil.AssertNoError(t, err)
	if completed.Status != models.EventStatusCompleted {
		t.Errorf("expected completed, got %s", completed.Status)
	}

	_, err = svc.MarkCompleted(event.ID)
	testutil.AssertAppError(t, err, "EVENT_ALREADY_COMPLETED")
}

func TestEventDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewEventService(db)
	staff := testutil.CreateTestStaff(t, db)
	event := testutil.CreateTestEvent(t, db, staff)
	donor := testutil.CreateTestDonor(t, db)

	_, err := svc.Join(event.ID, donor.ID)
	testutil.AssertNoError(t, err)

	_, err = svc.Delete(event.ID)
	testutil.AssertNoError(t, err)

	_, err = svc.GetByID(event.ID)
	testutil.AssertAppError(t, err, "EVENT_NOT_FOUND")

	var participants int64
	db.Model(&models.EventParticipant{}).Where("event_id = ?", event.ID).Count(&participants)
	if participants != 0 {
		t.Errorf("expected roster rows removed, got %d", participants)
	}
}

func TestEventListUpcoming(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewEventService(db)
	staff := testutil.CreateTestStaff(t, db)

	upcoming := testutil.CreateTestEvent(t, db, staff)
	past := testutil.CreateTestEvent(t, db, staff)
	db.Model(past).Update("date", time.Now().AddDate(0, 0, -10))
	// Yesterday's event is still listed: the one-day grace window.
	yesterday := testutil.CreateTestEvent(t, db, staff)
	db.Model(yesterday).Update("date", time.Now().Add(-23*time.Hour))

	events, err := svc.ListUpcoming()
	testutil.AssertNoError(t, err)

	if len(events) != 2 {
		t.Fatalf("expected 2 upcoming events, got %d", len(events))
	}
	ids := map[uint]bool{events[0].ID: true, events[1].ID: true}
	if !ids[upcoming.ID] || !ids[yesterday.ID] {
		t.Error("expected the future and yesterday events only")
	}
}

func TestEventListAppointments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewEventService(db)
	staff := testutil.CreateTestStaff(t, db)
	donor := testutil.CreateTestDonor(t, db)

	event := testutil.CreateTestEvent(t, db, staff)
	testutil.CreateTestEvent(t, db, staff) // not joined

	_, err := svc.Join(event.ID, donor.ID)
	testutil.AssertNoError(t, err)

	appointments, err := svc.ListAppointments(donor.ID)
	testutil.AssertNoError(t, err)

	if len(appointments) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(appointments))
	}
	a := appointments[0]
	if a.EventID != event.ID || a.Title != event.Title || a.Location != event.Location {
		t.Error("appointment should carry the joined event's details")
	}
}

package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/models"
)

// eventService manages donation drives and their rosters.
type eventService struct {
	db *gorm.DB
}

// NewEventService creates a new EventServicer.
func NewEventService(db *gorm.DB) EventServicer {
	return &eventService{db: db}
}

// Create schedules a new donation event.
func (s *eventService) Create(in CreateEventInput) (*models.Event, error) {
	if in.Title == "" || in.Location == "" || in.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title, date and location are required")
	}

	event := &models.Event{
		Title:         in.Title,
		Date:          in.Date,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		Location:      in.Location,
		Expected:      in.Expected,
		Notes:         in.Notes,
		Status:        models.EventStatusScheduled,
		CreatedByType: in.CreatedByType,
		CreatedByID:   in.CreatedByID,
		CreatedByName: in.CreatedByName,
	}
	if err := s.db.Create(event).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return event, nil
}

// GetByID fetches an event with its roster.
func (s *eventService) GetByID(id uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.Preload("Participants").First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &event, nil
}

// Update patches an event's details. Completed events are frozen.
func (s *eventService) Update(id uint, patch EventPatch) (*models.Event, error) {
	event, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventStatusCompleted {
		return nil, apperrors.ErrEventCompleted
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Date != nil {
		updates["date"] = *patch.Date
	}
	if patch.StartTime != nil {
		updates["start_time"] = *patch.StartTime
	}
	if patch.EndTime != nil {
		updates["end_time"] = *patch.EndTime
	}
	if patch.Location != nil {
		updates["location"] = *patch.Location
	}
	if patch.Expected != nil {
		updates["expected"] = *patch.Expected
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if len(updates) == 0 {
		return event, nil
	}

	if err := s.db.Model(event).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetByID(id)
}

// MarkCompleted closes an event. Completing twice is rejected.
func (s *eventService) MarkCompleted(id uint) (*models.Event, error) {
	event, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventStatusCompleted {
		return nil, apperrors.ErrEventCompleted
	}

	if err := s.db.Model(event).Update("status", models.EventStatusCompleted).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	event.Status = models.EventStatusCompleted
	return event, nil
}

// Delete removes an event and its roster.
func (s *eventService) Delete(id uint) (*models.Event, error) {
	event, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("event_id = ?", id).Delete(&models.EventParticipant{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&models.Event{}, id).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Join adds a donor to an event roster, snapshotting the donor's name and
// blood type. Joining an event the donor is already on is a no-op.
func (s *eventService) Join(eventID, donorID uint) (*models.Event, error) {
	event, err := s.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventStatusCompleted {
		return nil, apperrors.ErrEventCompleted
	}

	var donor models.Donor
	if err := s.db.First(&donor, donorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDonorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var existing int64
	err = s.db.Model(&models.EventParticipant{}).
		Where("event_id = ? AND donor_id = ?", eventID, donorID).
		Count(&existing).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if existing == 0 {
		participant := &models.EventParticipant{
			EventID:      eventID,
			DonorID:      donorID,
			Name:         donor.FullName,
			BloodType:    donor.BloodType,
			Status:       models.ParticipantStatusConfirmed,
			RegisteredAt: time.Now(),
		}
		if err := s.db.Create(participant).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetByID(eventID)
}

// Leave removes a donor from an event roster. The row is removed outright,
// not soft-deleted: a lingering soft-deleted row would still occupy the
// (event_id, donor_id) unique index and block rejoining.
func (s *eventService) Leave(eventID, donorID uint) error {
	res := s.db.Unscoped().
		Where("event_id = ? AND donor_id = ?", eventID, donorID).
		Delete(&models.EventParticipant{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrParticipationNotFound
	}
	return nil
}

// ListUpcoming returns events from yesterday onward, soonest first. The
// one-day grace keeps today's events visible across timezones.
func (s *eventService) ListUpcoming() ([]models.Event, error) {
	cutoff := time.Now().AddDate(0, 0, -1)

	var events []models.Event
	err := s.db.Preload("Participants").
		Where("date >= ?", cutoff).
		Order("date ASC").
		Find(&events).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return events, nil
}

// ListAll returns every event with its roster, soonest first.
func (s *eventService) ListAll() ([]models.Event, error) {
	var events []models.Event
	err := s.db.Preload("Participants").
		Order("date ASC").
		Find(&events).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return events, nil
}

// ListAppointments returns a donor's event registrations, soonest first.
func (s *eventService) ListAppointments(donorID uint) ([]Appointment, error) {
	var participations []models.EventParticipant
	err := s.db.Where("donor_id = ?", donorID).Find(&participations).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(participations) == 0 {
		return []Appointment{}, nil
	}

	eventIDs := make([]uint, 0, len(participations))
	for _, p := range participations {
		eventIDs = append(eventIDs, p.EventID)
	}

	var events []models.Event
	if err := s.db.Where("id IN ?", eventIDs).Order("date ASC").Find(&events).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byID := make(map[uint]models.EventParticipant, len(participations))
	for _, p := range participations {
		byID[p.EventID] = p
	}

	appointments := make([]Appointment, 0, len(events))
	for _, e := range events {
		p := byID[e.ID]
		appointments = append(appointments, Appointment{
			ParticipantID: p.ID,
			EventID:       e.ID,
			Status:        p.Status,
			Registered:    p.RegisteredAt,
			Title:         e.Title,
			Date:          e.Date,
			StartTime:     e.StartTime,
			EndTime:       e.EndTime,
			Location:      e.Location,
		})
	}
	return appointments, nil
}

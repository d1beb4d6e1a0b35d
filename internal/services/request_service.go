package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/models"
)

// urgencyOrder sorts emergency requests ahead of urgent ahead of routine.
const urgencyOrder = "CASE urgency WHEN 'emergency' THEN 0 WHEN 'urgent' THEN 1 ELSE 2 END"

// requestService handles the blood request workflow.
type requestService struct {
	db *gorm.DB
}

// NewRequestService creates a new RequestServicer.
func NewRequestService(db *gorm.DB) RequestServicer {
	return &requestService{db: db}
}

// Create opens a new pending request on behalf of a hospital.
func (s *requestService) Create(hospitalID uint, bloodType string, volumeML int, urgency models.Urgency, requiredBy time.Time, notes string) (*models.BloodRequest, error) {
	if !models.IsValidBloodType(bloodType) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unrecognized blood type")
	}
	if volumeML <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "volume must be greater than zero")
	}
	switch urgency {
	case models.UrgencyRoutine, models.UrgencyUrgent, models.UrgencyEmergency:
	case "":
		urgency = models.UrgencyRoutine
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unrecognized urgency")
	}

	var hospital models.Hospital
	if err := s.db.First(&hospital, hospitalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHospitalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	req := &models.BloodRequest{
		HospitalID:     hospitalID,
		BloodType:      bloodType,
		VolumeML:       volumeML,
		Urgency:        urgency,
		Status:         models.RequestStatusPending,
		RequestDate:    time.Now(),
		RequiredByDate: requiredBy,
		Notes:          notes,
	}
	if err := s.db.Create(req).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return req, nil
}

// GetByID fetches a request with its hospital.
func (s *requestService) GetByID(id uint) (*models.BloodRequest, error) {
	var req models.BloodRequest
	if err := s.db.Preload("Hospital").First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &req, nil
}

// ListAll returns every request, most urgent first and earliest deadline
// within a tier.
func (s *requestService) ListAll() ([]models.BloodRequest, error) {
	var reqs []models.BloodRequest
	err := s.db.Preload("Hospital").
		Order(urgencyOrder).
		Order("required_by_date ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return reqs, nil
}

// ListForHospital returns one hospital's requests, newest first.
func (s *requestService) ListForHospital(hospitalID uint) ([]models.BloodRequest, error) {
	var reqs []models.BloodRequest
	err := s.db.Where("hospital_id = ?", hospitalID).
		Order("request_date DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return reqs, nil
}

// Cancel moves a pending request to cancelled. Only the owning hospital may
// cancel, and terminal requests stay put.
func (s *requestService) Cancel(requestID, callerHospitalID uint) (*models.BloodRequest, error) {
	var req models.BloodRequest
	if err := s.db.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if req.HospitalID != callerHospitalID {
		return nil, apperrors.ErrForbidden
	}
	if req.Terminal() {
		return nil, apperrors.WithMessage(apperrors.ErrRequestNotPending,
			"request is already "+string(req.Status))
	}

	// Conditional flip: a request that went terminal between the read and
	// the write affects zero rows instead of being clobbered.
	res := s.db.Model(&models.BloodRequest{}).
		Where("id = ? AND status NOT IN ?", requestID,
			[]models.RequestStatus{models.RequestStatusFulfilled, models.RequestStatusCancelled}).
		Updates(map[string]interface{}{
			"status":         models.RequestStatusCancelled,
			"fulfilled_date": nil,
		})
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrRequestNotPending,
			"request went terminal concurrently")
	}

	req.Status = models.RequestStatusCancelled
	req.FulfilledDate = nil
	return &req, nil
}

// Fulfill marks a pending request fulfilled using the given units. The unit
// checks and the status flips happen in one transaction; the conditional
// update closes the race where another fulfillment grabs a unit between the
// read and the write.
func (s *requestService) Fulfill(requestID uint, unitIDs []uint, volumeML int, notes string) (*models.BloodRequest, error) {
	if len(unitIDs) == 0 && volumeML <= 0 {
		return nil, apperrors.ErrEmptyFulfillment
	}

	var req models.BloodRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrRequestNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if req.Status != models.RequestStatusPending {
			return apperrors.WithMessage(apperrors.ErrRequestNotPending,
				"request is already "+string(req.Status))
		}

		now := time.Now()
		if len(unitIDs) > 0 {
			var units []models.InventoryUnit
			if err := tx.Where("id IN ?", unitIDs).Find(&units).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if len(units) != len(unitIDs) {
				return apperrors.WithMessage(apperrors.ErrUnitNotFound, "one or more units do not exist")
			}

			total := 0
			for _, u := range units {
				if u.BloodType != req.BloodType {
					return apperrors.WithMessage(apperrors.ErrUnitTypeMismatch,
						fmt.Sprintf("unit %d is %s, request needs %s", u.ID, u.BloodType, req.BloodType))
				}
				if u.Status != models.UnitStatusAvailable {
					return apperrors.WithMessage(apperrors.ErrUnitNotAvailable,
						fmt.Sprintf("unit %d is %s", u.ID, u.Status))
				}
				if u.Expired(now) {
					return apperrors.WithMessage(apperrors.ErrUnitExpired,
						fmt.Sprintf("unit %d expired on %s", u.ID, u.ExpiryDate.Format("2006-01-02")))
				}
				total += u.VolumeML
			}

			// Conditional update: if another fulfillment claimed any of these
			// units since the read above, the affected-row count comes up
			// short and the whole transaction rolls back.
			res := tx.Model(&models.InventoryUnit{}).
				Where("id IN ? AND status = ?", unitIDs, models.UnitStatusAvailable).
				Updates(map[string]interface{}{
					"status":     models.UnitStatusUsed,
					"request_id": requestID,
				})
			if res.Error != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
			}
			if res.RowsAffected != int64(len(unitIDs)) {
				return apperrors.WithMessage(apperrors.ErrUnitNotAvailable,
					"one or more units were claimed concurrently")
			}

			if volumeML <= 0 {
				volumeML = total
			}
		}
		// Same conditional guard for the request row itself: two fulfillments
		// racing with disjoint unit sets (or raw volumes) must not both land,
		// so the flip only counts when the row is still pending.
		updates := map[string]interface{}{
			"status":                models.RequestStatusFulfilled,
			"fulfilled_date":        now,
			"fulfilled_quantity_ml": volumeML,
		}
		if notes != "" {
			updates["notes"] = notes
		}
		res := tx.Model(&models.BloodRequest{}).
			Where("id = ? AND status = ?", requestID, models.RequestStatusPending).
			Updates(updates)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected != 1 {
			return apperrors.WithMessage(apperrors.ErrRequestNotPending,
				"request was fulfilled or cancelled concurrently")
		}

		req.Status = models.RequestStatusFulfilled
		req.FulfilledDate = &now
		req.FulfilledVolumeML = volumeML
		if notes != "" {
			req.Notes = notes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Reject cancels a pending request on the blood bank's side, recording the
// reason in the notes.
func (s *requestService) Reject(requestID uint, reason string) (*models.BloodRequest, error) {
	if reason == "" {
		return nil, apperrors.ErrEmptyRejectReason
	}

	var req models.BloodRequest
	if err := s.db.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if req.Status != models.RequestStatusPending {
		return nil, apperrors.WithMessage(apperrors.ErrRequestNotPending,
			"request is already "+string(req.Status))
	}

	res := s.db.Model(&models.BloodRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status": models.RequestStatusCancelled,
			"notes":  "Rejected: " + reason,
		})
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrRequestNotPending,
			"request was fulfilled or cancelled concurrently")
	}

	req.Status = models.RequestStatusCancelled
	req.Notes = "Rejected: " + reason
	return &req, nil
}

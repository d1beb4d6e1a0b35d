package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/models"
)

// expiringSoonDays is the dashboard window for units nearing expiry.
const expiringSoonDays = 7

// inventoryService handles the blood inventory ledger.
type inventoryService struct {
	db *gorm.DB
}

// NewInventoryService creates a new InventoryServicer.
func NewInventoryService(db *gorm.DB) InventoryServicer {
	return &inventoryService{db: db}
}

// AddUnit records a new inventory unit. The expiry date defaults to the
// collection date plus the fixed shelf life.
func (s *inventoryService) AddUnit(in AddUnitInput) (*models.InventoryUnit, error) {
	if !models.IsValidBloodType(in.BloodType) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unrecognized blood type")
	}
	if in.VolumeML <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "volume must be greater than zero")
	}

	collection := in.CollectionDate
	if collection.IsZero() {
		collection = time.Now()
	}
	expiry := collection.AddDate(0, 0, models.ShelfLifeDays)
	if in.ExpiryDate != nil {
		expiry = *in.ExpiryDate
	}
	location := in.Location
	if location == "" {
		location = "Main Storage"
	}

	unit := &models.InventoryUnit{
		BloodType:      in.BloodType,
		VolumeML:       in.VolumeML,
		Location:       location,
		CollectionDate: collection,
		ExpiryDate:     expiry,
		Status:         models.UnitStatusAvailable,
		DonorID:        in.DonorID,
	}

	if err := s.db.Create(unit).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return unit, nil
}

// List returns all units, grouped by blood type with soonest expiry first.
func (s *inventoryService) List() ([]models.InventoryUnit, error) {
	var units []models.InventoryUnit
	if err := s.db.Order("blood_type ASC, expiry_date ASC").Find(&units).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return units, nil
}

// ListAvailable returns available, unexpired units in first-expire-first-out
// order. An empty bloodType returns all types.
func (s *inventoryService) ListAvailable(bloodType string) ([]models.InventoryUnit, error) {
	q := s.db.Where("status = ? AND expiry_date > ?", models.UnitStatusAvailable, time.Now())
	if bloodType != "" {
		if !models.IsValidBloodType(bloodType) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unrecognized blood type")
		}
		q = q.Where("blood_type = ?", bloodType)
	}

	var units []models.InventoryUnit
	if err := q.Order("blood_type ASC, expiry_date ASC").Find(&units).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return units, nil
}

// SetStatus moves a unit through the guarded status transition table. Units
// become used only through request fulfillment, which records the consuming
// request; used is therefore not a valid target here.
func (s *inventoryService) SetStatus(unitID uint, status models.UnitStatus) (*models.InventoryUnit, error) {
	if !models.IsValidUnitStatus(string(status)) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unrecognized status")
	}
	if status == models.UnitStatusUsed {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidUnitTransition,
			"units become used through request fulfillment")
	}

	var unit models.InventoryUnit
	if err := s.db.First(&unit, unitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnitNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !models.CanTransition(unit.Status, status) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidUnitTransition,
			"cannot move unit from "+string(unit.Status)+" to "+string(status))
	}

	if err := s.db.Model(&unit).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &unit, nil
}

// TotalsByType sums available volume per blood type, and separately the
// volume expiring within seven days of asOf.
func (s *inventoryService) TotalsByType(asOf time.Time) (map[string]TypeTotals, error) {
	var units []models.InventoryUnit
	if err := s.db.Where("status = ?", models.UnitStatusAvailable).Find(&units).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	soon := asOf.AddDate(0, 0, expiringSoonDays)
	totals := make(map[string]TypeTotals)
	for _, u := range units {
		t := totals[u.BloodType]
		t.TotalML += u.VolumeML
		if !u.ExpiryDate.After(soon) {
			t.ExpiringML += u.VolumeML
		}
		totals[u.BloodType] = t
	}
	return totals, nil
}

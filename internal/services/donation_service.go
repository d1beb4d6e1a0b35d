package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/models"
	"lifelink/internal/pagination"
)

// donationService records completed donations.
type donationService struct {
	db *gorm.DB
}

// NewDonationService creates a new DonationServicer.
func NewDonationService(db *gorm.DB) DonationServicer {
	return &donationService{db: db}
}

// Record writes a completed donation. It checks the donor's cooldown, then in
// one transaction inserts the history row, creates the matching inventory
// unit, and advances the donor's last donation date.
func (s *donationService) Record(in RecordDonationInput) (*models.DonationRecord, error) {
	if in.VolumeML <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "volume must be greater than zero")
	}

	var donor models.Donor
	if err := s.db.First(&donor, in.DonorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDonorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var staff models.Staff
	if err := s.db.First(&staff, in.StaffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStaffNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	if next, ok := donor.NextEligibleDate(); ok && date.Before(next) {
		return nil, apperrors.WithMessage(apperrors.ErrDonorNotEligible,
			"donor is not eligible until "+next.Format("2006-01-02"))
	}

	bloodType := in.BloodType
	if bloodType == "" {
		bloodType = donor.BloodType
	}
	if !models.IsValidBloodType(bloodType) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unrecognized blood type")
	}

	location := staff.BloodBankName
	if location == "" {
		location = "Blood Bank"
	}

	donation := &models.DonationRecord{
		DonorID:      in.DonorID,
		StaffID:      in.StaffID,
		DonationDate: date,
		BloodType:    bloodType,
		VolumeML:     in.VolumeML,
		Location:     location,
		Notes:        in.Notes,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(donation).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		unit := &models.InventoryUnit{
			BloodType:      bloodType,
			VolumeML:       in.VolumeML,
			Location:       location,
			CollectionDate: date,
			ExpiryDate:     date.AddDate(0, 0, models.ShelfLifeDays),
			Status:         models.UnitStatusAvailable,
			DonorID:        &donation.DonorID,
			DonationID:     &donation.ID,
		}
		if err := tx.Create(unit).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(&donor).Update("last_donation_date", date).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return donation, nil
}

// ListForDonor returns one donor's donation history, newest first.
func (s *donationService) ListForDonor(donorID uint, page pagination.PageRequest) (*pagination.PageResponse[models.DonationRecord], error) {
	page.Defaults()

	base := s.db.Model(&models.DonationRecord{}).Where("donor_id = ?", donorID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.DonationRecord
	if err := base.Scopes(pagination.Paginate(page)).
		Order("donation_date DESC").
		Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListAll returns every donation with donor and staff attached, newest first.
func (s *donationService) ListAll(page pagination.PageRequest) (*pagination.PageResponse[models.DonationRecord], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.DonationRecord{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.DonationRecord
	if err := s.db.Preload("Donor").Preload("Staff").
		Scopes(pagination.Paginate(page)).
		Order("donation_date DESC").
		Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}

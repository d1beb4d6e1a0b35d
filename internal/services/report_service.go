package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/models"
)

// reportService derives statistics from the operational tables.
type reportService struct {
	db        *gorm.DB
	inventory InventoryServicer
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db, inventory: NewInventoryService(db)}
}

// DonorStats returns one donor's dashboard figures.
func (s *reportService) DonorStats(donorID uint, asOf time.Time) (*DonorStats, error) {
	var donor models.Donor
	if err := s.db.First(&donor, donorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDonorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var total int64
	if err := s.db.Model(&models.DonationRecord{}).Where("donor_id = ?", donorID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	next := asOf
	if n, ok := donor.NextEligibleDate(); ok {
		next = n
	}
	return &DonorStats{TotalDonations: total, NextEligibleDate: next}, nil
}

// HospitalStats returns one hospital's dashboard figures.
func (s *reportService) HospitalStats(hospitalID uint, asOf time.Time) (*HospitalStats, error) {
	var hospital models.Hospital
	if err := s.db.First(&hospital, hospitalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHospitalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := &HospitalStats{}
	counts := []struct {
		status models.RequestStatus
		dst    *int64
	}{
		{models.RequestStatusFulfilled, &stats.FulfilledRequests},
		{models.RequestStatusPending, &stats.PendingRequests},
		{models.RequestStatusCancelled, &stats.CancelledRequests},
	}
	base := s.db.Model(&models.BloodRequest{}).Where("hospital_id = ?", hospitalID)
	if err := base.Count(&stats.TotalRequests).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, c := range counts {
		q := s.db.Model(&models.BloodRequest{}).
			Where("hospital_id = ? AND status = ?", hospitalID, c.status)
		if err := q.Count(c.dst).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	if stats.TotalRequests > 0 {
		stats.SuccessRate = int(stats.FulfilledRequests * 100 / stats.TotalRequests)
	}

	if err := s.db.Model(&models.Donor{}).Where("is_active = ?", true).Count(&stats.AvailableDonors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	inv, err := s.inventory.TotalsByType(asOf)
	if err != nil {
		return nil, err
	}
	stats.InventoryByType = inv
	return stats, nil
}

// StaffStats returns the blood bank operations dashboard figures.
func (s *reportService) StaffStats(staffID uint, asOf time.Time) (*StaffStats, error) {
	var staff models.Staff
	if err := s.db.First(&staff, staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStaffNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := &StaffStats{}

	var totalML *int64
	row := s.db.Model(&models.InventoryUnit{}).
		Where("status = ?", models.UnitStatusAvailable).
		Select("SUM(quantity_ml)")
	if err := row.Scan(&totalML).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if totalML != nil {
		stats.TotalInventoryML = *totalML
	}

	since := asOf.AddDate(0, 0, -30)
	if err := s.db.Model(&models.DonationRecord{}).
		Where("donation_date >= ?", since).
		Count(&stats.RecentCollections).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	counts := []struct {
		status models.RequestStatus
		dst    *int64
	}{
		{models.RequestStatusPending, &stats.PendingRequests},
		{models.RequestStatusFulfilled, &stats.FulfilledRequests},
		{models.RequestStatusCancelled, &stats.CancelledRequests},
	}
	for _, c := range counts {
		if err := s.db.Model(&models.BloodRequest{}).
			Where("status = ?", c.status).
			Count(c.dst).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	inv, err := s.inventory.TotalsByType(asOf)
	if err != nil {
		return nil, err
	}
	stats.InventoryByType = inv
	return stats, nil
}

// periodStart maps a report period keyword to its window start.
func periodStart(period string, asOf time.Time) (time.Time, error) {
	switch period {
	case "daily":
		return asOf.AddDate(0, 0, -1), nil
	case "", "weekly":
		return asOf.AddDate(0, 0, -7), nil
	case "monthly":
		return asOf.AddDate(0, -1, 0), nil
	case "yearly":
		return asOf.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "unrecognized report period")
	}
}

// Reports builds the staff reports payload for the given period ending at
// asOf.
func (s *reportService) Reports(period string, asOf time.Time) (*Report, error) {
	start, err := periodStart(period, asOf)
	if err != nil {
		return nil, err
	}

	report := &Report{
		BloodTypeDistribution: make(map[string]int),
		BloodTypeStats:        []BloodTypeReport{},
		DailyData:             []DailyReport{},
	}

	var donations []models.DonationRecord
	if err := s.db.Where("donation_date >= ? AND donation_date <= ?", start, asOf).
		Order("donation_date ASC").
		Find(&donations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report.TotalDonations = int64(len(donations))
	collectedByType := make(map[string]int)
	daily := make(map[string]*DailyReport)
	dayOrder := []string{}
	for _, d := range donations {
		report.TotalCollectedML += int64(d.VolumeML)
		collectedByType[d.BloodType] += d.VolumeML

		day := d.DonationDate.Format("2006-01-02")
		if _, ok := daily[day]; !ok {
			daily[day] = &DailyReport{Date: day}
			dayOrder = append(dayOrder, day)
		}
		daily[day].Donations++
		daily[day].VolumeML += int64(d.VolumeML)
	}
	for _, day := range dayOrder {
		report.DailyData = append(report.DailyData, *daily[day])
	}

	counts := []struct {
		status models.RequestStatus
		dst    *int64
	}{
		{models.RequestStatusFulfilled, &report.RequestsFulfilled},
		{models.RequestStatusPending, &report.RequestsPending},
		{models.RequestStatusCancelled, &report.RequestsCancelled},
	}
	for _, c := range counts {
		if err := s.db.Model(&models.BloodRequest{}).
			Where("status = ? AND request_date >= ?", c.status, start).
			Count(c.dst).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if err := s.db.Model(&models.Donor{}).Where("is_active = ?", true).
		Count(&report.ActiveDonors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var units []models.InventoryUnit
	if err := s.db.Where("status = ?", models.UnitStatusAvailable).Find(&units).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	availableMLByType := make(map[string]int)
	for _, u := range units {
		availableMLByType[u.BloodType] += u.VolumeML
		report.BloodTypeDistribution[u.BloodType]++
	}

	for _, bt := range models.BloodTypes {
		var reqCount int64
		if err := s.db.Model(&models.BloodRequest{}).
			Where("blood_type = ? AND request_date >= ?", bt, start).
			Count(&reqCount).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		report.BloodTypeStats = append(report.BloodTypeStats, BloodTypeReport{
			BloodType:      bt,
			UnitsAvailable: availableMLByType[bt] / models.MLPerUnit,
			TotalCollected: collectedByType[bt],
			RequestCount:   reqCount,
		})
	}

	return report, nil
}

package services

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/models"
	"lifelink/internal/pagination"
)

// bcryptCost is the fixed work factor for password hashing.
const bcryptCost = 10

// donorService handles the donor registry.
type donorService struct {
	db *gorm.DB
}

// NewDonorService creates a new DonorServicer.
func NewDonorService(db *gorm.DB) DonorServicer {
	return &donorService{db: db}
}

// Register creates a new donor account.
func (s *donorService) Register(in DonorRegistration) (*models.Donor, error) {
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "full name, email and password are required")
	}
	if !models.IsValidBloodType(in.BloodType) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unrecognized blood type")
	}

	email := strings.ToLower(in.Email)

	var count int64
	s.db.Model(&models.Donor{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	donor := &models.Donor{
		FullName:         in.FullName,
		Email:            email,
		PasswordHash:     string(hash),
		Phone:            in.Phone,
		DateOfBirth:      in.DateOfBirth,
		BloodType:        in.BloodType,
		Address:          in.Address,
		City:             in.City,
		RegistrationDate: time.Now(),
		IsActive:         true,
	}

	if err := s.db.Create(donor).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return donor, nil
}

// Authenticate verifies a donor's credentials. An unknown email and a wrong
// password both return ErrInvalidCredentials so callers cannot enumerate
// accounts.
func (s *donorService) Authenticate(email, password string) (*models.Donor, error) {
	var donor models.Donor
	err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&donor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(donor.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &donor, nil
}

// GetByID retrieves a donor by ID.
func (s *donorService) GetByID(id uint) (*models.Donor, error) {
	var donor models.Donor
	if err := s.db.First(&donor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDonorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &donor, nil
}

// List returns a paginated directory of donors, most recent first.
func (s *donorService) List(page pagination.PageRequest) (*pagination.PageResponse[models.Donor], error) {
	page.Defaults()

	base := s.db.Model(&models.Donor{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var donors []models.Donor
	if err := base.Scopes(pagination.Paginate(page)).
		Order("registration_date DESC").
		Find(&donors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(donors, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// SearchByBloodType returns donors of a given blood type, longest-rested
// first, so recruitment targets donors most likely to be eligible.
func (s *donorService) SearchByBloodType(bloodType string, limit int) ([]models.Donor, error) {
	if !models.IsValidBloodType(bloodType) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unrecognized blood type")
	}
	if limit <= 0 {
		limit = 20
	}

	var donors []models.Donor
	if err := s.db.Where("blood_type = ? AND is_active = ?", bloodType, true).
		Order("last_donation_date ASC").
		Limit(limit).
		Find(&donors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return donors, nil
}

// Update applies a partial update restricted to the allow-listed fields.
func (s *donorService) Update(id uint, patch DonorPatch) (*models.Donor, error) {
	donor, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.FullName != nil {
		updates["full_name"] = *patch.FullName
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.Address != nil {
		updates["address"] = *patch.Address
	}
	if patch.City != nil {
		updates["city"] = *patch.City
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if len(updates) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "no fields to update")
	}

	if err := s.db.Model(donor).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return donor, nil
}

// Deactivate soft-deletes a donor by clearing the active flag. The record is
// never removed.
func (s *donorService) Deactivate(id uint) error {
	donor, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Model(donor).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// rewardMilestones is the fixed recognition ladder. The annual streak is
// measured against the trailing-year count rather than the all-time total.
var rewardMilestones = []RewardMilestone{
	{Key: "first", Label: "First Donation", Target: 1},
	{Key: "hero", Label: "Hero Donor (5)", Target: 5},
	{Key: "life_saver", Label: "Life Saver (10)", Target: 10},
	{Key: "annual", Label: "Annual Streak", Target: 4},
}

// Rewards tallies the donor's donation record against the recognition
// milestones as of the given time.
func (s *donorService) Rewards(id uint, asOf time.Time) (*DonorRewards, error) {
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}

	var total, lastYear int64
	if err := s.db.Model(&models.DonationRecord{}).
		Where("donor_id = ?", id).
		Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	yearAgo := asOf.AddDate(-1, 0, 0)
	if err := s.db.Model(&models.DonationRecord{}).
		Where("donor_id = ? AND donation_date >= ?", id, yearAgo).
		Count(&lastYear).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	milestones := make([]RewardMilestone, len(rewardMilestones))
	copy(milestones, rewardMilestones)
	for i := range milestones {
		if milestones[i].Key == "annual" {
			milestones[i].Achieved = lastYear >= int64(milestones[i].Target)
		} else {
			milestones[i].Achieved = total >= int64(milestones[i].Target)
		}
	}

	return &DonorRewards{
		TotalDonations:    total,
		DonationsLastYear: lastYear,
		Milestones:        milestones,
	}, nil
}

// Notifications derives the donor's notification feed: an eligibility
// notice, a thank-you for the most recent donation, and up to three
// upcoming events. Nothing is persisted.
func (s *donorService) Notifications(id uint, asOf time.Time) ([]DonorNotification, error) {
	elig, err := s.Eligibility(id, asOf)
	if err != nil {
		return nil, err
	}

	notifications := []DonorNotification{}

	if elig.IsEligible {
		notifications = append(notifications, DonorNotification{
			ID:      "eligible-now",
			Title:   "You are eligible to donate again",
			Message: "You can book a new appointment whenever you are ready.",
			Date:    asOf.Format("2006-01-02"),
			Type:    "Eligibility",
		})
	} else {
		notifications = append(notifications, DonorNotification{
			ID:    "eligible-soon",
			Title: "Next eligible date scheduled",
			Message: "You can donate again in " + strconv.Itoa(elig.DaysUntilEligible) +
				" days (on " + elig.NextEligibleDate.Format("2006-01-02") + ").",
			Date: elig.NextEligibleDate.Format("2006-01-02"),
			Type: "Eligibility",
		})
	}

	if elig.LastDonationDate != nil {
		notifications = append(notifications, DonorNotification{
			ID:      "thanks",
			Title:   "Thank you for donating!",
			Message: "Your recent donation is making a difference.",
			Date:    elig.LastDonationDate.Format("2006-01-02"),
			Type:    "Donation",
		})
	}

	var events []models.Event
	if err := s.db.Where("date >= ?", asOf.Truncate(24*time.Hour)).
		Order("date ASC").
		Limit(3).
		Find(&events).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i, ev := range events {
		when := ev.Date.Format("2006-01-02")
		msg := strings.TrimSpace(when + " • " + ev.StartTime + " • " + ev.Location)
		notifications = append(notifications, DonorNotification{
			ID:      "event-" + strconv.FormatUint(uint64(ev.ID), 10) + "-" + strconv.Itoa(i),
			Title:   "Upcoming event: " + ev.Title,
			Message: msg,
			Date:    when,
			Type:    "Event",
		})
	}

	return notifications, nil
}

// Eligibility computes the donor's cooldown state as of the given time.
func (s *donorService) Eligibility(id uint, asOf time.Time) (*DonorEligibility, error) {
	donor, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	next, hasPrior := donor.NextEligibleDate()
	if !hasPrior {
		return &DonorEligibility{NextEligibleDate: asOf, IsEligible: true}, nil
	}

	days := 0
	if next.After(asOf) {
		days = int(math.Ceil(next.Sub(asOf).Hours() / 24))
	}
	return &DonorEligibility{
		LastDonationDate:  donor.LastDonationDate,
		NextEligibleDate:  next,
		DaysUntilEligible: days,
		IsEligible:        days == 0,
	}, nil
}

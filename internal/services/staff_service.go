package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/models"
	"lifelink/internal/pagination"
)

// staffService handles the staff registry.
type staffService struct {
	db *gorm.DB
}

// NewStaffService creates a new StaffServicer.
func NewStaffService(db *gorm.DB) StaffServicer {
	return &staffService{db: db}
}

// Register creates a new staff account. Email and employee ID must both be
// unique, and the department must be one of the fixed set.
func (s *staffService) Register(in StaffRegistration) (*models.Staff, error) {
	if in.FullName == "" || in.EmployeeID == "" || in.Email == "" || in.Password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "full name, employee ID, email and password are required")
	}
	switch in.Department {
	case models.DepartmentCollection, models.DepartmentTesting, models.DepartmentProcessing,
		models.DepartmentStorage, models.DepartmentInventory, models.DepartmentAdmin:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid department")
	}

	email := strings.ToLower(in.Email)

	var count int64
	s.db.Model(&models.Staff{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}
	s.db.Model(&models.Staff{}).Where("employee_id = ?", in.EmployeeID).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmployeeID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	staff := &models.Staff{
		FullName:         in.FullName,
		EmployeeID:       in.EmployeeID,
		Certification:    in.Certification,
		Email:            email,
		PasswordHash:     string(hash),
		Phone:            in.Phone,
		BloodBankName:    in.BloodBankName,
		Department:       in.Department,
		Address:          in.Address,
		RegistrationDate: time.Now(),
		IsVerified:       false,
		IsActive:         true,
	}

	if err := s.db.Create(staff).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return staff, nil
}

// Authenticate verifies a staff member's credentials.
func (s *staffService) Authenticate(email, password string) (*models.Staff, error) {
	var staff models.Staff
	err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &staff, nil
}

// GetByID retrieves a staff member by ID.
func (s *staffService) GetByID(id uint) (*models.Staff, error) {
	var staff models.Staff
	if err := s.db.First(&staff, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStaffNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &staff, nil
}

// List returns a paginated directory of staff, most recent first.
func (s *staffService) List(page pagination.PageRequest) (*pagination.PageResponse[models.Staff], error) {
	page.Defaults()

	base := s.db.Model(&models.Staff{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var staff []models.Staff
	if err := base.Scopes(pagination.Paginate(page)).
		Order("registration_date DESC").
		Find(&staff).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(staff, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Update applies a partial update restricted to the allow-listed fields.
func (s *staffService) Update(id uint, patch StaffPatch) (*models.Staff, error) {
	staff, err := s.GetByID(id)
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
	if len(updates) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "no fields to update")
	}

	if err := s.db.Model(staff).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return staff, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *staffService) ChangePassword(id uint, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "current and new password required")
	}

	staff, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(currentPassword)) != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidCredentials, "Current password incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(staff).Update("password_hash", string(hash)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Stats summarizes a staff member's recorded activity.
func (s *staffService) Stats(id uint) (*StaffMemberStats, error) {
	staff, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	var eventsCount int64
	if err := s.db.Model(&models.Event{}).
		Where("created_by_type = ? AND created_by_id = ?", models.UserTypeStaff, id).
		Count(&eventsCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var donationsCount int64
	if err := s.db.Model(&models.DonationRecord{}).
		Where("staff_id = ?", id).
		Count(&donationsCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &StaffMemberStats{
		EventsCount:      eventsCount,
		DonationsCount:   donationsCount,
		RegistrationDate: staff.RegistrationDate,
	}, nil
}

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

// hospitalService handles the hospital registry.
type hospitalService struct {
	db *gorm.DB
}

// NewHospitalService creates a new HospitalServicer.
func NewHospitalService(db *gorm.DB) HospitalServicer {
	return &hospitalService{db: db}
}

// Register creates a new hospital account. Email and license number must both
// be unique.
func (s *hospitalService) Register(in HospitalRegistration) (*models.Hospital, error) {
	if in.HospitalName == "" || in.LicenseNumber == "" || in.ContactPerson == "" || in.Email == "" || in.Password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "hospital name, license number, contact person, email and password are required")
	}

	email := strings.ToLower(in.Email)

	var count int64
	s.db.Model(&models.Hospital{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}
	s.db.Model(&models.Hospital{}).Where("license_number = ?", in.LicenseNumber).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateLicense
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hospital := &models.Hospital{
		HospitalName:     in.HospitalName,
		LicenseNumber:    in.LicenseNumber,
		ContactPerson:    in.ContactPerson,
		Email:            email,
		PasswordHash:     string(hash),
		Phone:            in.Phone,
		Address:          in.Address,
		City:             in.City,
		BedCapacity:      in.BedCapacity,
		RegistrationDate: time.Now(),
		IsVerified:       false,
		IsActive:         true,
	}

	if err := s.db.Create(hospital).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return hospital, nil
}

// Authenticate verifies a hospital's credentials.
func (s *hospitalService) Authenticate(email, password string) (*models.Hospital, error) {
	var hospital models.Hospital
	err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&hospital).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hospital.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &hospital, nil
}

// GetByID retrieves a hospital by ID.
func (s *hospitalService) GetByID(id uint) (*models.Hospital, error) {
	var hospital models.Hospital
	if err := s.db.First(&hospital, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHospitalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &hospital, nil
}

// List returns a paginated directory of hospitals, most recent first.
func (s *hospitalService) List(page pagination.PageRequest) (*pagination.PageResponse[models.Hospital], error) {
	page.Defaults()

	base := s.db.Model(&models.Hospital{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var hospitals []models.Hospital
	if err := base.Scopes(pagination.Paginate(page)).
		Order("registration_date DESC").
		Find(&hospitals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(hospitals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Update applies a partial update restricted to the allow-listed fields.
func (s *hospitalService) Update(id uint, patch HospitalPatch) (*models.Hospital, error) {
	hospital, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.ContactPerson != nil {
		updates["contact_person"] = *patch.ContactPerson
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
	if len(updates) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "no fields to update")
	}

	if err := s.db.Model(hospital).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return hospital, nil
}

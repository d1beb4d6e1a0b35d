package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/middleware"
	"lifelink/internal/models"
	"lifelink/internal/services"
)

// AuthHandler handles registration and login for all three registries.
type AuthHandler struct {
	donorService    services.DonorServicer
	hospitalService services.HospitalServicer
	staffService    services.StaffServicer
	auditService    services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	donorService services.DonorServicer,
	hospitalService services.HospitalServicer,
	staffService services.StaffServicer,
	auditService services.AuditServicer,
) *AuthHandler {
	return &AuthHandler{
		donorService:    donorService,
		hospitalService: hospitalService,
		staffService:    staffService,
		auditService:    auditService,
	}
}

// RegisterDonorRequest represents the donor registration payload.
type RegisterDonorRequest struct {
	FullName    string `json:"full_name" binding:"required,min=1,max=100"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	Phone       string `json:"phone" binding:"max=20"`
	DateOfBirth string `json:"date_of_birth" binding:"required"`
	BloodType   string `json:"blood_type" binding:"required,blood_type"`
	Address     string `json:"address" binding:"max=255"`
	City        string `json:"city" binding:"max=100"`
}

// RegisterHospitalRequest represents the hospital registration payload.
type RegisterHospitalRequest struct {
	HospitalName  string `json:"hospital_name" binding:"required,min=1,max=150"`
	LicenseNumber string `json:"license_number" binding:"required,max=50"`
	ContactPerson string `json:"contact_person" binding:"max=100"`
	Email         string `json:"email" binding:"required,email,max=255"`
	Password      string `json:"password" binding:"required,min=8,max=128"`
	Phone         string `json:"phone" binding:"max=20"`
	Address       string `json:"address" binding:"max=255"`
	City          string `json:"city" binding:"max=100"`
	BedCapacity   int    `json:"bed_capacity" binding:"gte=0"`
}

// RegisterStaffRequest represents the staff registration payload.
type RegisterStaffRequest struct {
	FullName      string `json:"full_name" binding:"required,min=1,max=100"`
	EmployeeID    string `json:"employee_id" binding:"required,max=50"`
	Certification string `json:"certification" binding:"max=100"`
	Email         string `json:"email" binding:"required,email,max=255"`
	Password      string `json:"password" binding:"required,min=8,max=128"`
	Phone         string `json:"phone" binding:"max=20"`
	BloodBankName string `json:"blood_bank_name" binding:"max=150"`
	Department    string `json:"department" binding:"required,department"`
	Address       string `json:"address" binding:"max=255"`
}

// LoginRequest represents the login payload for any registry.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response with token.
type AuthResponse struct {
	Token       string `json:"token"`
	ID          uint   `json:"id"`
	DisplayName string `json:"displayName"`
}

// RegisterDonor handles donor registration
// @Summary     Register a new donor
// @Description Register a donor account with blood type and contact details
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterDonorRequest true "Donor registration data"
// @Success     201 {object} AuthResponse "Donor registered and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /register/donor [post]
func (h *AuthHandler) RegisterDonor(c *gin.Context) {
	var req RegisterDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "date_of_birth must be YYYY-MM-DD"))
		return
	}

	donor, err := h.donorService.Register(services.DonorRegistration{
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		DateOfBirth: dob,
		BloodType:   req.BloodType,
		Address:     req.Address,
		City:        req.City,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(donor.ID, models.UserTypeDonor, donor.Email)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log("donors", donor.ID, models.AuditActionInsert, models.UserTypeDonor, donor.ID,
		map[string]interface{}{"email": donor.Email})

	c.JSON(http.StatusCreated, AuthResponse{Token: token, ID: donor.ID, DisplayName: donor.FullName})
}

// RegisterHospital handles hospital registration
// @Summary     Register a new hospital
// @Description Register a hospital account with license details
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterHospitalRequest true "Hospital registration data"
// @Success     201 {object} AuthResponse "Hospital registered and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email or license already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /register/hospital [post]
func (h *AuthHandler) RegisterHospital(c *gin.Context) {
	var req RegisterHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	hospital, err := h.hospitalService.Register(services.HospitalRegistration{
		HospitalName:  req.HospitalName,
		LicenseNumber: req.LicenseNumber,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Password:      req.Password,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		BedCapacity:   req.BedCapacity,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(hospital.ID, models.UserTypeHospital, hospital.Email)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log("hospitals", hospital.ID, models.AuditActionInsert, models.UserTypeHospital, hospital.ID,
		map[string]interface{}{"email": hospital.Email, "license_number": hospital.LicenseNumber})

	c.JSON(http.StatusCreated, AuthResponse{Token: token, ID: hospital.ID, DisplayName: hospital.HospitalName})
}

// RegisterStaff handles staff registration
// @Summary     Register a new staff member
// @Description Register a blood bank staff account
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterStaffRequest true "Staff registration data"
// @Success     201 {object} AuthResponse "Staff registered and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email or employee ID already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /register/staff [post]
func (h *AuthHandler) RegisterStaff(c *gin.Context) {
	var req RegisterStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	staff, err := h.staffService.Register(services.StaffRegistration{
		FullName:      req.FullName,
		EmployeeID:    req.EmployeeID,
		Certification: req.Certification,
		Email:         req.Email,
		Password:      req.Password,
		Phone:         req.Phone,
		BloodBankName: req.BloodBankName,
		Department:    models.Department(req.Department),
		Address:       req.Address,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(staff.ID, models.UserTypeStaff, staff.Email)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log("staff", staff.ID, models.AuditActionInsert, models.UserTypeStaff, staff.ID,
		map[string]interface{}{"email": staff.Email, "employee_id": staff.EmployeeID})

	c.JSON(http.StatusCreated, AuthResponse{Token: token, ID: staff.ID, DisplayName: staff.FullName})
}

// LoginDonor handles donor login
// @Summary     Login donor
// @Description Authenticate a donor and get a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Login credentials"
// @Success     200 {object} AuthResponse "Token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /login/donor [post]
func (h *AuthHandler) LoginDonor(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	donor, err := h.donorService.Authenticate(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(donor.ID, models.UserTypeDonor, donor.Email)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, ID: donor.ID, DisplayName: donor.FullName})
}

// LoginHospital handles hospital login
// @Summary     Login hospital
// @Description Authenticate a hospital and get a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Login credentials"
// @Success     200 {object} AuthResponse "Token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /login/hospital [post]
func (h *AuthHandler) LoginHospital(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	hospital, err := h.hospitalService.Authenticate(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(hospital.ID, models.UserTypeHospital, hospital.Email)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, ID: hospital.ID, DisplayName: hospital.HospitalName})
}

// LoginStaff handles staff login
// @Summary     Login staff
// @Description Authenticate a staff member and get a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Login credentials"
// @Success     200 {object} AuthResponse "Token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /login/staff [post]
func (h *AuthHandler) LoginStaff(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	staff, err := h.staffService.Authenticate(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(staff.ID, models.UserTypeStaff, staff.Email)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, ID: staff.ID, DisplayName: staff.FullName})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/models"
	"lifelink/internal/services"
)

// defaultDonorPassword is assigned to donors created by staff on a walk-in's
// behalf; the donor is expected to change it on first login.
const defaultDonorPassword = "Donor@123"

// StaffHandler handles the staff-facing profile and donor management
// endpoints.
type StaffHandler struct {
	staffService services.StaffServicer
	donorService services.DonorServicer
	auditService services.AuditServicer
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(
	staffService services.StaffServicer,
	donorService services.DonorServicer,
	auditService services.AuditServicer,
) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
		donorService: donorService,
		auditService: auditService,
	}
}

// UpdateStaffRequest represents a staff profile patch.
type UpdateStaffRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Address  *string `json:"address" binding:"omitempty,max=255"`
}

// ChangePasswordRequest represents a staff password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// AddDonorRequest represents a staff-created donor record.
type AddDonorRequest struct {
	FullName    string `json:"full_name" binding:"required,min=1,max=100"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Phone       string `json:"phone" binding:"max=20"`
	DateOfBirth string `json:"date_of_birth" binding:"required"`
	BloodType   string `json:"blood_type" binding:"required,blood_type"`
	Address     string `json:"address" binding:"max=255"`
	City        string `json:"city" binding:"max=100"`
}

// StaffUpdateDonorRequest represents a staff-side donor patch. Staff may also
// toggle the active flag.
type StaffUpdateDonorRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Address  *string `json:"address" binding:"omitempty,max=255"`
	City     *string `json:"city" binding:"omitempty,max=100"`
	IsActive *bool   `json:"is_active"`
}

// requireSelf checks the authenticated subject owns the requested staff id.
func (h *StaffHandler) requireSelf(c *gin.Context) (uint, error) {
	subjectID, err := getSubjectID(c)
	if err != nil {
		return 0, err
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		return 0, err
	}
	if subjectID != id {
		return 0, apperrors.ErrForbidden
	}
	return id, nil
}

// GetProfile returns a staff member's own profile
// @Summary     Get staff profile
// @Description Returns the authenticated staff member's profile
// @Tags        staff
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Staff ID"
// @Success     200 {object} models.Staff "Staff profile"
// @Failure     403 {object} ErrorResponse "Not the profile owner"
// @Failure     404 {object} ErrorResponse "Staff not found"
// @Router      /staff/{id} [get]
func (h *StaffHandler) GetProfile(c *gin.Context) {
	id, err := h.requireSelf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	staff, err := h.staffService.GetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": staff})
}

// UpdateProfile patches a staff member's own profile
// @Summary     Update staff profile
// @Description Updates name, phone or address on the staff member's own profile
// @Tags        staff
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Staff ID"
// @Param       request body UpdateStaffRequest true "Fields to update"
// @Success     200 {object} models.Staff "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not the profile owner"
// @Router      /staff/{id} [put]
func (h *StaffHandler) UpdateProfile(c *gin.Context) {
	id, err := h.requireSelf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	staff, err := h.staffService.Update(id, services.StaffPatch{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("staff", id, models.AuditActionUpdate, models.UserTypeStaff, id, nil)

	c.JSON(http.StatusOK, gin.H{"staff": staff})
}

// ChangePassword updates a staff member's password
// @Summary     Change staff password
// @Description Verifies the current password and stores a new one
// @Tags        staff
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Staff ID"
// @Param       request body ChangePasswordRequest true "Current and new password"
// @Success     200 {object} map[string]string "Password changed"
// @Failure     401 {object} ErrorResponse "Current password incorrect"
// @Failure     403 {object} ErrorResponse "Not the profile owner"
// @Router      /staff/{id}/password [put]
func (h *StaffHandler) ChangePassword(c *gin.Context) {
	id, err := h.requireSelf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.staffService.ChangePassword(id, req.CurrentPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("staff", id, models.AuditActionUpdate, models.UserTypeStaff, id,
		map[string]interface{}{"field": "password"})

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// GetStats returns a staff member's activity figures
// @Summary     Get staff stats
// @Description Events created and donations recorded by the staff member
// @Tags        staff
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Staff ID"
// @Success     200 {object} services.StaffMemberStats "Activity stats"
// @Failure     403 {object} ErrorResponse "Not the profile owner"
// @Router      /staff/{id}/stats [get]
func (h *StaffHandler) GetStats(c *gin.Context) {
	id, err := h.requireSelf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.staffService.Stats(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AddDonor creates a donor record on a walk-in's behalf
// @Summary     Add donor (staff)
// @Description Creates a donor record with a default password
// @Tags        staff
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddDonorRequest true "Donor details"
// @Success     201 {object} models.Donor "Donor created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Router      /staff/donors [post]
func (h *StaffHandler) AddDonor(c *gin.Context) {
	staffID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddDonorRequest
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
		Password:    defaultDonorPassword,
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

	h.auditService.Log("donors", donor.ID, models.AuditActionInsert, models.UserTypeStaff, staffID,
		map[string]interface{}{"email": donor.Email})

	c.JSON(http.StatusCreated, gin.H{"donor": donor})
}

// UpdateDonor patches a donor record on staff's behalf
// @Summary     Update donor (staff)
// @Description Updates donor contact details or active flag
// @Tags        staff
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Donor ID"
// @Param       request body StaffUpdateDonorRequest true "Fields to update"
// @Success     200 {object} models.Donor "Updated donor"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Donor not found"
// @Router      /staff/donors/{id} [put]
func (h *StaffHandler) UpdateDonor(c *gin.Context) {
	staffID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	donorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req StaffUpdateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	donor, err := h.donorService.Update(donorID, services.DonorPatch{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		City:     req.City,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("donors", donorID, models.AuditActionUpdate, models.UserTypeStaff, staffID, nil)

	c.JSON(http.StatusOK, gin.H{"donor": donor})
}

// DeactivateDonor soft-deletes a donor record
// @Summary     Deactivate donor (staff)
// @Description Marks the donor inactive; the record is kept for history
// @Tags        staff
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Donor ID"
// @Success     200 {object} map[string]string "Donor deactivated"
// @Failure     404 {object} ErrorResponse "Donor not found"
// @Router      /staff/donors/{id} [delete]
func (h *StaffHandler) DeactivateDonor(c *gin.Context) {
	staffID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	donorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.donorService.Deactivate(donorID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("donors", donorID, models.AuditActionDelete, models.UserTypeStaff, staffID,
		map[string]interface{}{"is_active": false})

	c.JSON(http.StatusOK, gin.H{"message": "Donor deactivated"})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/models"
	"lifelink/internal/pagination"
	"lifelink/internal/services"
)

// DonorHandler handles the donor-facing profile endpoints.
type DonorHandler struct {
	donorService    services.DonorServicer
	donationService services.DonationServicer
	eventService    services.EventServicer
	auditService    services.AuditServicer
}

// NewDonorHandler creates a new DonorHandler.
func NewDonorHandler(
	donorService services.DonorServicer,
	donationService services.DonationServicer,
	eventService services.EventServicer,
	auditService services.AuditServicer,
) *DonorHandler {
	return &DonorHandler{
		donorService:    donorService,
		donationService: donationService,
		eventService:    eventService,
		auditService:    auditService,
	}
}

// UpdateDonorRequest represents a donor profile patch.
type UpdateDonorRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Address  *string `json:"address" binding:"omitempty,max=255"`
	City     *string `json:"city" binding:"omitempty,max=100"`
}

// requireSelf checks the authenticated subject owns the requested donor id.
func (h *DonorHandler) requireSelf(c *gin.Context) (uint, error) {
	subjectID, err := getSubjectID(c)
	if err != nil {
		return 0, err
	}
	subjectType, err := getSubjectType(c)
	if err != nil {
		return 0, err
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		return 0, err
	}
	if subjectType != models.UserTypeDonor || subjectID != id {
		return 0, apperrors.ErrForbidden
	}
	return id, nil
}

// GetProfile returns a donor's own profile
// @Summary     Get donor profile
// @Description Returns the authenticated donor's profile
// @Tags        donors
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Donor ID"
// @Success     200 {object} models.Donor "Donor profile"
// @Failure     403 {object} ErrorResponse "Not the profile owner"
// @Failure     404 {object} ErrorResponse "Donor not found"
// @Router      /donors/{id} [get]
func (h *DonorHandler) GetProfile(c *gin.Context) {
	id, err := h.requireSelf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	donor, err := h.donorService.GetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donor": donor})
}

// UpdateProfile patches a donor's own profile
// @Summary     Update donor profile
// @Description Updates name, phone, address or city on the donor's own profile
// @Tags        donors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Donor ID"
// @Param       request body UpdateDonorRequest true "Fields to update"
// @Success     200 {object} models.Donor "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not the profile owner"
// @Router      /donors/{id} [put]
func (h *DonorHandler) UpdateProfile(c *gin.Context) {
	id, err := h.requireSelf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	donor, err := h.donorService.Update(id, services.DonorPatch{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		City:     req.City,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("donors", id, models.AuditActionUpdate, models.UserTypeDonor, id, nil)

	c.JSON(http.StatusOK, gin.H{"donor": donor})
}

// GetEligibility reports when a donor may next donate
// @Summary     Get donor eligibility
// @Description Next eligible date and days remaining under the 56-day cooldown
// @Tags        donors
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Donor ID"
// @Success     200 {object} services.DonorEligibility "Eligibility details"
// @Failure     403 {object} ErrorResponse "Not the profile owner"
// @Failure     404 {object} ErrorResponse "Donor not found"
// @Router      /donors/{id}/eligibility [get]
func (h *DonorHandler) GetEligibility(c *gin.Context) {
	id, err := h.requireSelf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	eligibility, err := h.donorService.Eligibility(id, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, eligibility)
}

// ListDonations returns a donor's own donation history
// @Summary     List donor donations
// @Description The authenticated donor's donation history, newest first
// @Tags        donors
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Donor ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.DonationRecord] "Donation page"
// @Failure     403 {object} ErrorResponse "Not the profile owner"
// @Router      /donors/{id}/donations [get]
func (h *DonorHandler) ListDonations(c *gin.Context) {
	id, err := h.requireSelf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.donationService.ListForDonor(id, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetRewards returns a donor's milestone progress
// @Summary     Get donor rewards
// @Description Donation totals and recognition milestone progress
// @Tags        donors
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Donor ID"
// @Success     200 {object} services.DonorRewards "Milestone progress"
// @Failure     403 {object} ErrorResponse "Not the profile owner"
// @Failure     404 {object} ErrorResponse "Donor not found"
// @Router      /donors/{id}/rewards [get]
func (h *DonorHandler) GetRewards(c *gin.Context) {
	id, err := h.requireSelf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rewards, err := h.donorService.Rewards(id, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rewards)
}

// ListNotifications returns a donor's derived notification feed
// @Summary     List donor notifications
// @Description Eligibility, recent donation and upcoming event notices
// @Tags        donors
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Donor ID"
// @Success     200 {array} services.DonorNotification "Notifications"
// @Failure     403 {object} ErrorResponse "Not the profile owner"
// @Failure     404 {object} ErrorResponse "Donor not found"
// @Router      /donors/{id}/notifications [get]
func (h *DonorHandler) ListNotifications(c *gin.Context) {
	id, err := h.requireSelf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	notifications, err := h.donorService.Notifications(id, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// ListAppointments returns a donor's event registrations
// @Summary     List donor appointments
// @Description Events the authenticated donor has joined, soonest first
// @Tags        donors
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Donor ID"
// @Success     200 {array} services.Appointment "Appointments"
// @Failure     403 {object} ErrorResponse "Not the profile owner"
// @Router      /donors/{id}/appointments [get]
func (h *DonorHandler) ListAppointments(c *gin.Context) {
	id, err := h.requireSelf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	appointments, err := h.eventService.ListAppointments(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

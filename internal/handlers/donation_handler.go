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

// DonationHandler handles the staff donation recording endpoints.
type DonationHandler struct {
	donationService services.DonationServicer
	auditService    services.AuditServicer
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(donationService services.DonationServicer, auditService services.AuditServicer) *DonationHandler {
	return &DonationHandler{donationService: donationService, auditService: auditService}
}

// RecordDonationRequest represents a completed donation.
type RecordDonationRequest struct {
	DonorID    uint   `json:"donor_id" binding:"required"`
	BloodType  string `json:"blood_type" binding:"omitempty,blood_type"`
	QuantityML int    `json:"quantity_ml" binding:"required,gt=0"`
	Date       string `json:"donation_date"`
	Notes      string `json:"notes" binding:"max=500"`
}

// Record writes a completed donation
// @Summary     Record donation
// @Description Records a donation, creates the inventory unit and advances the donor's cooldown
// @Tags        donations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecordDonationRequest true "Donation details"
// @Success     201 {object} models.DonationRecord "Donation recorded"
// @Failure     400 {object} ErrorResponse "Invalid input or donor not eligible"
// @Failure     404 {object} ErrorResponse "Donor not found"
// @Router      /staff/donations [post]
func (h *DonationHandler) Record(c *gin.Context) {
	staffID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in := services.RecordDonationInput{
		DonorID:   req.DonorID,
		StaffID:   staffID,
		BloodType: req.BloodType,
		VolumeML:  req.QuantityML,
		Notes:     req.Notes,
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "donation_date must be YYYY-MM-DD"))
			return
		}
		in.Date = date
	}

	donation, err := h.donationService.Record(in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("donation_history", donation.ID, models.AuditActionInsert,
		models.UserTypeStaff, staffID,
		map[string]interface{}{"donor_id": donation.DonorID, "quantity_ml": donation.VolumeML})

	c.JSON(http.StatusCreated, gin.H{"donation": donation})
}

// List returns all donations
// @Summary     List donations
// @Description All donation records with donor and staff attached, newest first
// @Tags        donations
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.DonationRecord] "Donation page"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /staff/donations [get]
func (h *DonationHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.donationService.ListAll(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

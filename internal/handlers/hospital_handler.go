package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/models"
	"lifelink/internal/services"
)

// HospitalHandler handles the hospital-facing profile and request endpoints.
type HospitalHandler struct {
	hospitalService services.HospitalServicer
	requestService  services.RequestServicer
	donorService    services.DonorServicer
	auditService    services.AuditServicer
}

// NewHospitalHandler creates a new HospitalHandler.
func NewHospitalHandler(
	hospitalService services.HospitalServicer,
	requestService services.RequestServicer,
	donorService services.DonorServicer,
	auditService services.AuditServicer,
) *HospitalHandler {
	return &HospitalHandler{
		hospitalService: hospitalService,
		requestService:  requestService,
		donorService:    donorService,
		auditService:    auditService,
	}
}

// UpdateHospitalRequest represents a hospital profile patch.
type UpdateHospitalRequest struct {
	ContactPerson *string `json:"contact_person" binding:"omitempty,max=100"`
	Phone         *string `json:"phone" binding:"omitempty,max=20"`
	Address       *string `json:"address" binding:"omitempty,max=255"`
	City          *string `json:"city" binding:"omitempty,max=100"`
}

// CreateRequestRequest represents a new blood request. Quantity may be given
// in millilitres or in units of 450 ml; units win when both are present.
type CreateRequestRequest struct {
	BloodType  string `json:"blood_type" binding:"required,blood_type"`
	QuantityML int    `json:"quantity_ml" binding:"omitempty,gt=0"`
	Units      int    `json:"units" binding:"omitempty,gt=0"`
	Urgency    string `json:"urgency" binding:"omitempty,urgency"`
	RequiredBy string `json:"required_by" binding:"required"`
	Notes      string `json:"notes" binding:"max=500"`
}

// requireSelf checks the authenticated subject owns the requested hospital id.
func (h *HospitalHandler) requireSelf(c *gin.Context) (uint, error) {
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
	if subjectType != models.UserTypeHospital || subjectID != id {
		return 0, apperrors.ErrForbidden
	}
	return id, nil
}

// GetProfile returns a hospital's own profile with its requests
// @Summary     Get hospital profile
// @Description Returns the authenticated hospital's profile and its requests
// @Tags        hospitals
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Hospital ID"
// @Success     200 {object} models.Hospital "Hospital profile"
// @Failure     403 {object} ErrorResponse "Not the profile owner"
// @Failure     404 {object} ErrorResponse "Hospital not found"
// @Router      /hospitals/{id} [get]
func (h *HospitalHandler) GetProfile(c *gin.Context) {
	id, err := h.requireSelf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	hospital, err := h.hospitalService.GetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requests, err := h.requestService.ListForHospital(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hospital": hospital, "requests": requests})
}

// UpdateProfile patches a hospital's own profile
// @Summary     Update hospital profile
// @Description Updates contact person, phone, address or city
// @Tags        hospitals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Hospital ID"
// @Param       request body UpdateHospitalRequest true "Fields to update"
// @Success     200 {object} models.Hospital "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not the profile owner"
// @Router      /hospitals/{id} [put]
func (h *HospitalHandler) UpdateProfile(c *gin.Context) {
	id, err := h.requireSelf(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	hospital, err := h.hospitalService.Update(id, services.HospitalPatch{
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("hospitals", id, models.AuditActionUpdate, models.UserTypeHospital, id, nil)

	c.JSON(http.StatusOK, gin.H{"hospital": hospital})
}

// CreateRequest opens a new blood request
// @Summary     Create blood request
// @Description Opens a pending blood request for the authenticated hospital
// @Tags        requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRequestRequest true "Request details"
// @Success     201 {object} models.BloodRequest "Request created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /hospitals/requests [post]
func (h *HospitalHandler) CreateRequest(c *gin.Context) {
	hospitalID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	requiredBy, err := time.Parse("2006-01-02", req.RequiredBy)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "required_by must be YYYY-MM-DD"))
		return
	}

	volumeML := req.QuantityML
	if req.Units > 0 {
		volumeML = req.Units * models.MLPerUnit
	}
	if volumeML <= 0 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity_ml or units is required"))
		return
	}

	request, err := h.requestService.Create(hospitalID, req.BloodType, volumeML,
		models.Urgency(req.Urgency), requiredBy, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("blood_requests", request.ID, models.AuditActionInsert,
		models.UserTypeHospital, hospitalID,
		map[string]interface{}{"blood_type": req.BloodType, "quantity_ml": volumeML})

	c.JSON(http.StatusCreated, gin.H{"request": request})
}

// ListRequests returns the hospital's own requests
// @Summary     List hospital requests
// @Description The authenticated hospital's blood requests, newest first
// @Tags        requests
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.BloodRequest "Requests"
// @Router      /hospitals/requests [get]
func (h *HospitalHandler) ListRequests(c *gin.Context) {
	hospitalID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requests, err := h.requestService.ListForHospital(hospitalID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// CancelRequest cancels one of the hospital's pending requests
// @Summary     Cancel blood request
// @Description Cancels a pending request owned by the authenticated hospital
// @Tags        requests
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Request ID"
// @Success     200 {object} models.BloodRequest "Cancelled request"
// @Failure     403 {object} ErrorResponse "Not the request owner"
// @Failure     404 {object} ErrorResponse "Request not found"
// @Failure     409 {object} ErrorResponse "Request already terminal"
// @Router      /hospitals/requests/{id}/cancel [put]
func (h *HospitalHandler) CancelRequest(c *gin.Context) {
	hospitalID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	request, err := h.requestService.Cancel(requestID, hospitalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("blood_requests", requestID, models.AuditActionUpdate,
		models.UserTypeHospital, hospitalID,
		map[string]interface{}{"status": models.RequestStatusCancelled})

	c.JSON(http.StatusOK, gin.H{"request": request})
}

// ListAvailableDonors finds donors matching a blood type
// @Summary     Search available donors
// @Description Donors of the given blood type for recruitment, longest-rested first
// @Tags        hospitals
// @Produce     json
// @Security    BearerAuth
// @Param       type path string true "Blood type (e.g. O+)"
// @Success     200 {array} models.Donor "Matching donors"
// @Failure     400 {object} ErrorResponse "Invalid blood type"
// @Router      /hospitals/donors/blood-type/{type} [get]
func (h *HospitalHandler) ListAvailableDonors(c *gin.Context) {
	donors, err := h.donorService.SearchByBloodType(c.Param("type"), 0)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donors": donors})
}

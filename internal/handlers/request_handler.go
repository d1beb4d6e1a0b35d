package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/models"
	"lifelink/internal/services"
)

// RequestHandler handles the staff side of the request workflow.
type RequestHandler struct {
	requestService services.RequestServicer
	auditService   services.AuditServicer
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService services.RequestServicer, auditService services.AuditServicer) *RequestHandler {
	return &RequestHandler{requestService: requestService, auditService: auditService}
}

// FulfillRequestRequest represents a fulfillment. Either a list of unit IDs
// or a raw volume must be given; unit IDs bind the specific units.
type FulfillRequestRequest struct {
	UnitIDs    []uint `json:"unit_ids"`
	QuantityML int    `json:"quantity_ml" binding:"omitempty,gt=0"`
	Notes      string `json:"notes" binding:"max=500"`
}

// RejectRequestRequest represents a rejection with its reason.
type RejectRequestRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// List returns all blood requests
// @Summary     List blood requests
// @Description All requests, most urgent first, earliest deadline within a tier
// @Tags        requests
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.BloodRequest "Requests"
// @Router      /staff/requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	requests, err := h.requestService.ListAll()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Get returns one request
// @Summary     Get blood request
// @Description One request with its hospital
// @Tags        requests
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Request ID"
// @Success     200 {object} models.BloodRequest "Request"
// @Failure     404 {object} ErrorResponse "Request not found"
// @Router      /staff/requests/{id} [get]
func (h *RequestHandler) Get(c *gin.Context) {
	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	request, err := h.requestService.GetByID(requestID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request})
}

// Fulfill marks a request fulfilled with the given units
// @Summary     Fulfill blood request
// @Description Marks a pending request fulfilled, consuming the given units atomically
// @Tags        requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Request ID"
// @Param       request body FulfillRequestRequest true "Units or volume"
// @Success     200 {object} models.BloodRequest "Fulfilled request"
// @Failure     400 {object} ErrorResponse "Unit unavailable, expired or type mismatch"
// @Failure     404 {object} ErrorResponse "Request or unit not found"
// @Failure     409 {object} ErrorResponse "Request not pending"
// @Router      /staff/requests/{id}/fulfill [put]
func (h *RequestHandler) Fulfill(c *gin.Context) {
	staffID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req FulfillRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	request, err := h.requestService.Fulfill(requestID, req.UnitIDs, req.QuantityML, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("blood_requests", requestID, models.AuditActionUpdate,
		models.UserTypeStaff, staffID,
		map[string]interface{}{"status": models.RequestStatusFulfilled, "unit_ids": req.UnitIDs})

	c.JSON(http.StatusOK, gin.H{"request": request})
}

// Reject cancels a pending request from the blood bank side
// @Summary     Reject blood request
// @Description Cancels a pending request, recording the reason
// @Tags        requests
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Request ID"
// @Param       request body RejectRequestRequest true "Rejection reason"
// @Success     200 {object} models.BloodRequest "Rejected request"
// @Failure     400 {object} ErrorResponse "Missing reason"
// @Failure     404 {object} ErrorResponse "Request not found"
// @Failure     409 {object} ErrorResponse "Request not pending"
// @Router      /staff/requests/{id}/reject [put]
func (h *RequestHandler) Reject(c *gin.Context) {
	staffID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RejectRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	request, err := h.requestService.Reject(requestID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("blood_requests", requestID, models.AuditActionUpdate,
		models.UserTypeStaff, staffID,
		map[string]interface{}{"status": models.RequestStatusCancelled, "reason": req.Reason})

	c.JSON(http.StatusOK, gin.H{"request": request})
}

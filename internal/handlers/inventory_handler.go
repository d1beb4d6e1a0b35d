package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/models"
	"lifelink/internal/services"
)

// InventoryHandler handles the blood inventory endpoints.
type InventoryHandler struct {
	inventoryService services.InventoryServicer
	auditService     services.AuditServicer
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventoryService services.InventoryServicer, auditService services.AuditServicer) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService, auditService: auditService}
}

// AddUnitRequest represents a direct inventory entry.
type AddUnitRequest struct {
	BloodType      string `json:"blood_type" binding:"required,blood_type"`
	QuantityML     int    `json:"quantity_ml" binding:"required,gt=0"`
	Location       string `json:"location" binding:"max=150"`
	CollectionDate string `json:"collection_date"`
	ExpiryDate     string `json:"expiry_date"`
	DonorID        *uint  `json:"donor_id"`
}

// SetUnitStatusRequest represents a unit status change.
type SetUnitStatusRequest struct {
	Status string `json:"status" binding:"required,unit_status"`
}

// List returns the full inventory
// @Summary     List inventory
// @Description All units, grouped by blood type with soonest expiry first
// @Tags        inventory
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.InventoryUnit "Units"
// @Router      /staff/inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	units, err := h.inventoryService.List()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": units})
}

// ListAvailable returns available, unexpired units
// @Summary     List available units
// @Description Available unexpired units in first-expire-first-out order
// @Tags        inventory
// @Produce     json
// @Security    BearerAuth
// @Param       blood_type query string false "Filter by blood type"
// @Success     200 {array} models.InventoryUnit "Units"
// @Failure     400 {object} ErrorResponse "Invalid blood type"
// @Router      /staff/inventory/available [get]
func (h *InventoryHandler) ListAvailable(c *gin.Context) {
	units, err := h.inventoryService.ListAvailable(c.Query("blood_type"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": units})
}

// AddUnit records a new inventory unit
// @Summary     Add inventory unit
// @Description Records a unit; expiry defaults to collection + 42 days
// @Tags        inventory
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddUnitRequest true "Unit details"
// @Success     201 {object} models.InventoryUnit "Unit created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /staff/inventory [post]
func (h *InventoryHandler) AddUnit(c *gin.Context) {
	staffID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	subjectType, err := getSubjectType(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	in := services.AddUnitInput{
		BloodType: req.BloodType,
		VolumeML:  req.QuantityML,
		Location:  req.Location,
		DonorID:   req.DonorID,
	}
	if in.Location == "" && subjectType == models.UserTypeHospital {
		in.Location = "Hospital Storage"
	}
	if req.CollectionDate != "" {
		collection, err := time.Parse("2006-01-02", req.CollectionDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "collection_date must be YYYY-MM-DD"))
			return
		}
		in.CollectionDate = collection
	}
	if req.ExpiryDate != "" {
		expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "expiry_date must be YYYY-MM-DD"))
			return
		}
		in.ExpiryDate = &expiry
	}

	unit, err := h.inventoryService.AddUnit(in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("blood_inventory", unit.ID, models.AuditActionInsert, subjectType, staffID,
		map[string]interface{}{"blood_type": unit.BloodType, "quantity_ml": unit.VolumeML})

	c.JSON(http.StatusCreated, gin.H{"unit": unit})
}

// SetStatus changes a unit's status
// @Summary     Set unit status
// @Description Moves a unit through the guarded status transition table
// @Tags        inventory
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Unit ID"
// @Param       request body SetUnitStatusRequest true "Target status"
// @Success     200 {object} models.InventoryUnit "Updated unit"
// @Failure     400 {object} ErrorResponse "Invalid status"
// @Failure     404 {object} ErrorResponse "Unit not found"
// @Failure     409 {object} ErrorResponse "Illegal status transition"
// @Router      /staff/inventory/{id}/status [put]
func (h *InventoryHandler) SetStatus(c *gin.Context) {
	staffID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	unitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetUnitStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	unit, err := h.inventoryService.SetStatus(unitID, models.UnitStatus(req.Status))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("blood_inventory", unitID, models.AuditActionUpdate, models.UserTypeStaff, staffID,
		map[string]interface{}{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"unit": unit})
}

// Summary returns per-type availability
// @Summary     Inventory summary
// @Description Available volume per blood type plus volume expiring within 7 days
// @Tags        inventory
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]services.TypeTotals "Totals by blood type"
// @Router      /inventory [get]
func (h *InventoryHandler) Summary(c *gin.Context) {
	totals, err := h.inventoryService.TotalsByType(time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": totals})
}

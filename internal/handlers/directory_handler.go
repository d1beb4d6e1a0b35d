package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/pagination"
	"lifelink/internal/services"
)

// DirectoryHandler serves the public listings of registered donors, hospitals
// and staff.
type DirectoryHandler struct {
	donorService    services.DonorServicer
	hospitalService services.HospitalServicer
	staffService    services.StaffServicer
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(
	donorService services.DonorServicer,
	hospitalService services.HospitalServicer,
	staffService services.StaffServicer,
) *DirectoryHandler {
	return &DirectoryHandler{
		donorService:    donorService,
		hospitalService: hospitalService,
		staffService:    staffService,
	}
}

// ListDonors lists registered donors
// @Summary     List donors
// @Description Paginated directory of registered donors
// @Tags        directory
// @Produce     json
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Donor] "Donor page"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /donors [get]
func (h *DirectoryHandler) ListDonors(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.donorService.List(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListHospitals lists registered hospitals
// @Summary     List hospitals
// @Description Paginated directory of registered hospitals
// @Tags        directory
// @Produce     json
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Hospital] "Hospital page"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /hospitals [get]
func (h *DirectoryHandler) ListHospitals(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.hospitalService.List(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListStaff lists registered staff members
// @Summary     List staff
// @Description Paginated directory of registered blood bank staff
// @Tags        directory
// @Produce     json
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Staff] "Staff page"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /staff [get]
func (h *DirectoryHandler) ListStaff(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.staffService.List(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SearchDonorsByBloodType finds donors with a given blood type
// @Summary     Search donors by blood type
// @Description Donors of the given blood type, longest since last donation first
// @Tags        directory
// @Produce     json
// @Param       type path string true "Blood type (e.g. O+)"
// @Param       limit query int false "Maximum results (default 20)"
// @Success     200 {array} models.Donor "Matching donors"
// @Failure     400 {object} ErrorResponse "Invalid blood type"
// @Router      /donors/blood-type/{type} [get]
func (h *DirectoryHandler) SearchDonorsByBloodType(c *gin.Context) {
	bloodType := c.Param("type")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid limit"))
			return
		}
		limit = parsed
	}

	donors, err := h.donorService.SearchByBloodType(bloodType, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donors": donors})
}

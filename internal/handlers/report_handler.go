package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/models"
	"lifelink/internal/services"
)

// ReportHandler serves the dashboards, period reports and audit trail.
type ReportHandler struct {
	reportService services.ReportServicer
	auditService  services.AuditServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer, auditService services.AuditServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService, auditService: auditService}
}

// DashboardStats returns role-specific dashboard figures
// @Summary     Dashboard stats
// @Description Role-specific dashboard figures; callers may only read their own
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       userType path string true "donor, hospital or staff"
// @Param       userId path int true "Subject ID"
// @Success     200 {object} map[string]interface{} "Dashboard payload"
// @Failure     400 {object} ErrorResponse "Unknown user type"
// @Failure     403 {object} ErrorResponse "Not the subject"
// @Router      /dashboard/stats/{userType}/{userId} [get]
func (h *ReportHandler) DashboardStats(c *gin.Context) {
	subjectID, err := getSubjectID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	subjectType, err := getSubjectType(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rawID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid userId"))
		return
	}
	targetID := uint(rawID)
	targetType := models.UserType(c.Param("userType"))

	if subjectType != targetType || subjectID != targetID {
		respondWithError(c, apperrors.ErrForbidden)
		return
	}

	now := time.Now()
	switch targetType {
	case models.UserTypeDonor:
		stats, err := h.reportService.DonorStats(targetID, now)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	case models.UserTypeHospital:
		stats, err := h.reportService.HospitalStats(targetID, now)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	case models.UserTypeStaff:
		stats, err := h.reportService.StaffStats(targetID, now)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown user type"))
	}
}

// Reports returns period statistics for staff
// @Summary     Period reports
// @Description Donation and request statistics for daily/weekly/monthly/yearly windows
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "daily, weekly, monthly or yearly (default weekly)"
// @Success     200 {object} services.Report "Report payload"
// @Failure     400 {object} ErrorResponse "Unknown period"
// @Router      /staff/reports [get]
func (h *ReportHandler) Reports(c *gin.Context) {
	report, err := h.reportService.Reports(c.Query("period"), time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// AuditLogs returns recent audit entries
// @Summary     List audit logs
// @Description Latest audit entries, newest first
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Maximum entries (default 100)"
// @Success     200 {array} models.AuditLog "Audit entries"
// @Router      /staff/audit-logs [get]
func (h *ReportHandler) AuditLogs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid limit"))
			return
		}
		limit = parsed
	}

	logs, err := h.auditService.List(limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}

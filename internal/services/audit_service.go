package services

import (
	"encoding/json"

	"gorm.io/gorm"

	apperrors "lifelink/internal/errors"
	"lifelink/internal/logger"
	"lifelink/internal/models"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(table string, recordID uint, action string, userType models.UserType, userID uint, changes map[string]interface{}) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		Table:    table,
		RecordID: recordID,
		Action:   action,
		UserType: userType,
		UserID:   userID,
		Changes:  changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"table", table,
			"record_id", recordID,
			"action", action,
			"user_type", userType,
			"user_id", userID,
		)
	}
}

// List returns the most recent audit entries, newest first.
func (s *auditService) List(limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var logs []models.AuditLog
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return logs, nil
}

// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"lifelink/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("blood_type", validateBloodType)
		_ = v.RegisterValidation("department", validateDepartment)
		_ = v.RegisterValidation("urgency", validateUrgency)
		_ = v.RegisterValidation("unit_status", validateUnitStatus)
		_ = v.RegisterValidation("participant_status", validateParticipantStatus)
		_ = v.RegisterValidation("report_period", validateReportPeriod)
	}
}

func validateBloodType(fl validator.FieldLevel) bool {
	return models.IsValidBloodType(fl.Field().String())
}

func validateDepartment(fl validator.FieldLevel) bool {
	switch models.Department(fl.Field().String()) {
	case models.DepartmentCollection, models.DepartmentTesting, models.DepartmentProcessing,
		models.DepartmentStorage, models.DepartmentInventory, models.DepartmentAdmin:
		return true
	}
	return false
}

func validateUrgency(fl validator.FieldLevel) bool {
	switch models.Urgency(fl.Field().String()) {
	case models.UrgencyRoutine, models.UrgencyUrgent, models.UrgencyEmergency:
		return true
	}
	return false
}

func validateUnitStatus(fl validator.FieldLevel) bool {
	return models.IsValidUnitStatus(fl.Field().String())
}

func validateParticipantStatus(fl validator.FieldLevel) bool {
	switch models.ParticipantStatus(fl.Field().String()) {
	case models.ParticipantStatusConfirmed, models.ParticipantStatusTentative:
		return true
	}
	return false
}

func validateReportPeriod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "daily", "weekly", "monthly", "yearly":
		return true
	}
	return false
}

package models

import "time"

// Department is a staff member's assignment within the blood bank.
type Department string

const (
	DepartmentCollection Department = "collection"
	DepartmentTesting    Department = "testing"
	DepartmentProcessing Department = "processing"
	DepartmentStorage    Department = "storage"
	DepartmentInventory  Department = "inventory"
	DepartmentAdmin      Department = "admin"
)

// Staff represents a blood-bank staff member.
type Staff struct {
	Base
	FullName         string     `gorm:"not null" json:"full_name"`
	EmployeeID       string     `gorm:"uniqueIndex;not null" json:"employee_id"`
	Certification    string     `json:"certification"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string     `gorm:"not null" json:"-"`
	Phone            string     `json:"phone"`
	BloodBankName    string     `json:"blood_bank_name"`
	Department       Department `gorm:"not null" json:"department"`
	Address          string     `json:"address"`
	RegistrationDate time.Time  `gorm:"not null" json:"registration_date"`
	IsVerified       bool       `gorm:"default:false" json:"is_verified"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
}

// TableName keeps the canonical staff table name (gorm would pluralize to
// "staffs" otherwise).
func (Staff) TableName() string { return "staff" }

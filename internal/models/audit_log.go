package models

// Audit actions.
const (
	AuditActionInsert = "INSERT"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

// AuditLog records mutating actions for traceability. Entries are append-only
// and best-effort: a failed write never aborts the operation that produced it.
type AuditLog struct {
	Base
	Table    string   `gorm:"column:table_name;not null" json:"table_name"`
	RecordID uint     `gorm:"not null" json:"record_id"`
	Action   string   `gorm:"not null" json:"action"`
	UserType UserType `gorm:"not null" json:"user_type"`
	UserID   uint     `gorm:"not null" json:"user_id"`
	Changes  string   `json:"changes,omitempty"`
}

// TableName keeps the canonical audit_log table name.
func (AuditLog) TableName() string { return "audit_log" }

package models

import "time"

const AuditLogTable = "lr_audit_logs"

// Audit actions. LOAN_DEVICE / RETURN_DEVICE are emitted by the loan
// engine, CREATE_ITEM / DELETE_ITEM by the catalog manager.
const (
	ActionCreate       = "CREATE"
	ActionRead         = "READ"
	ActionUpdate       = "UPDATE"
	ActionDelete       = "DELETE"
	ActionLoanDevice   = "LOAN_DEVICE"
	ActionReturnDevice = "RETURN_DEVICE"
	ActionFlag         = "FLAG"
	ActionUnflag       = "UNFLAG"
	ActionComment      = "COMMENT"
	ActionCreateItem   = "CREATE_ITEM"
	ActionDeleteItem   = "DELETE_ITEM"
)

// AuditLog rows are append-only and survive deletion of whatever they
// reference; ids in Details are historical, not foreign keys.
type AuditLog struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	SsoID     string    `gorm:"size:120;index;not null" json:"ssoId"`
	Action    string    `gorm:"size:40;index;not null" json:"action"`
	Table     string    `gorm:"column:table_name;size:80;not null" json:"table"`
	Details   string    `gorm:"type:jsonb" json:"details"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (AuditLog) TableName() string { return AuditLogTable }

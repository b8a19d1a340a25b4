package models

import "time"

const LoanTable = "lr_loans"
const LoanHistoryTable = "lr_loan_history"

// Location a loan carries while the item is out.
const LocationWithUser = "With User"

// Loan is an active loan. The unique index on ItemID is the storage-level
// guarantee that at most one active loan exists per item; concurrent loan
// attempts are arbitrated by the constraint, not by application checks.
type Loan struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID     string    `gorm:"type:uuid;uniqueIndex;not null" json:"itemId"`
	UserID     string    `gorm:"size:120;index;not null" json:"userId"`
	LoanedDate time.Time `gorm:"index;not null" json:"loanedDate"`
	Location   string    `gorm:"size:200;not null;default:'With User'" json:"location"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LoanHistory is the append-only ledger of completed loan cycles.
// Rows are never updated or deleted.
type LoanHistory struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID       string    `gorm:"type:uuid;index;not null" json:"itemId"`
	UserID       string    `gorm:"size:120;index;not null" json:"userId"`
	LoanedDate   time.Time `gorm:"not null" json:"loanedDate"`
	ReturnedDate time.Time `gorm:"index;not null" json:"returnedDate"`
	Location     string    `gorm:"size:200;not null" json:"location"`
}

func (Loan) TableName() string        { return LoanTable }
func (LoanHistory) TableName() string { return LoanHistoryTable }

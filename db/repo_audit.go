package db

import (
	"context"
	"encoding/json"
	"log"

	"github.com/LoanRangers/SelfServiceLoaningBackend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recorder appends actor-attributed audit entries. Every mutating core
// operation records through this single capability.
type Recorder interface {
	Record(ctx context.Context, ssoID, action, table string, details map[string]any) error
}

type gormRecorder struct{ db *gorm.DB }

func (g *gormRecorder) Record(ctx context.Context, ssoID, action, table string, details map[string]any) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return g.db.WithContext(ctx).Create(&models.AuditLog{
		ID:      uuid.NewString(),
		SsoID:   ssoID,
		Action:  action,
		Table:   table,
		Details: string(payload),
	}).Error
}

// record is best-effort: audit must never fail an already-committed mutation.
func (r *Repo) record(ctx context.Context, ssoID, action, table string, details map[string]any) {
	if err := r.Audit.Record(ctx, ssoID, action, table, details); err != nil {
		log.Printf("audit record failed (action=%s table=%s): %v", action, table, err)
	}
}

func (r *Repo) ListAuditLogs(ctx context.Context, page, size int) ([]models.AuditLog, error) {
	page, size = normPage(page, size)
	var logs []models.AuditLog
	err := r.DB.WithContext(ctx).
		Order("created_at DESC, id").
		Offset((page - 1) * size).
		Limit(size).
		Find(&logs).Error
	if err != nil {
		return nil, translate(err)
	}
	return logs, nil
}

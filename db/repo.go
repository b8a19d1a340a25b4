package db

import (
	"context"
	"errors"

	"github.com/LoanRangers/SelfServiceLoaningBackend/models"

	"gorm.io/gorm"
)

type Repo struct {
	DB *gorm.DB
	// Audit is swappable so mutating operations can be tested with a fake recorder.
	Audit Recorder
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{DB: db, Audit: &gormRecorder{db: db}}
}

func normPage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}

// Users

func (r *Repo) FindOrCreateUser(ctx context.Context, ssoID, ssoName string) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).Where("sso_id = ?", ssoID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u = models.User{SsoID: ssoID, SsoName: ssoName}
		if err := r.DB.WithContext(ctx).Create(&u).Error; err != nil {
			return nil, translate(err)
		}
		return &u, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Repo) FindUserBySsoID(ctx context.Context, ssoID string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "sso_id = ?", ssoID).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Repo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (r *Repo) TouchUserSeen(ctx context.Context, ssoID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("sso_id = ?", ssoID).
		Update("last_seen_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

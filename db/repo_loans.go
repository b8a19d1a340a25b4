package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LoanRangers/SelfServiceLoaningBackend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateLoans loans every item in the batch to ssoID, or nothing at all.
// The whole batch runs in one transaction: a missing or already-loaned item
// rolls back every loan and availability flip made so far.
func (r *Repo) CreateLoans(ctx context.Context, ssoID string, itemIDs []string) ([]models.Loan, error) {
	if strings.TrimSpace(ssoID) == "" {
		return nil, validationf("user id is required")
	}
	if len(itemIDs) == 0 {
		return nil, validationf("at least one item id is required")
	}

	loans := make([]models.Loan, 0, len(itemIDs))
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, itemID := range itemIDs {
			var it models.Item
			if err := tx.First(&it, "id = ?", itemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
				}
				return err
			}
			if !it.IsAvailable {
				return fmt.Errorf("%w: %s", ErrAlreadyLoaned, itemID)
			}
			l := models.Loan{
				ID:         uuid.NewString(),
				ItemID:     it.ID,
				UserID:     ssoID,
				LoanedDate: now,
				Location:   models.LocationWithUser,
			}
			// The unique index on item_id arbitrates concurrent loans; the
			// availability check above is only a fast path.
			if err := tx.Create(&l).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: %s", ErrAlreadyLoaned, itemID)
				}
				return err
			}
			if err := tx.Model(&models.Item{}).Where("id = ?", it.ID).
				Updates(map[string]any{
					"is_available": false,
					"location":     models.LocationWithUser,
				}).Error; err != nil {
				return err
			}
			loans = append(loans, l)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}

	for _, l := range loans {
		r.record(ctx, ssoID, models.ActionLoanDevice, models.LoanTable, map[string]any{
			"loanId": l.ID,
			"itemId": l.ItemID,
		})
	}
	return loans, nil
}

// ReturnItem moves the item's active loan into history and restores
// availability. Loan delete, history insert and item update are one
// transaction; a failure in the middle leaves the pre-return state intact.
func (r *Repo) ReturnItem(ctx context.Context, ssoID, itemID, location string) (*models.LoanHistory, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, validationf("item id is required")
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, validationf("return location is required")
	}

	var hist models.LoanHistory
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l models.Loan
		if err := tx.First(&l, "item_id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrNoActiveLoan, itemID)
			}
			return err
		}
		// A concurrent return may have consumed the loan between the read
		// and the delete; zero rows affected means this caller lost the race
		// and must not write a second history row.
		res := tx.Delete(&models.Loan{}, "id = ?", l.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrNoActiveLoan, itemID)
		}
		hist = models.LoanHistory{
			ID:           uuid.NewString(),
			ItemID:       l.ItemID,
			UserID:       l.UserID,
			LoanedDate:   l.LoanedDate,
			ReturnedDate: time.Now().UTC(),
			Location:     location,
		}
		if err := tx.Create(&hist).Error; err != nil {
			return err
		}
		return tx.Model(&models.Item{}).Where("id = ?", itemID).
			Updates(map[string]any{
				"is_available": true,
				"location":     location,
			}).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	r.record(ctx, ssoID, models.ActionReturnDevice, models.LoanHistoryTable, map[string]any{
		"historyId": hist.ID,
		"itemId":    itemID,
		"location":  location,
	})
	return &hist, nil
}

// LoanHistoryByUser pages through the user's completed loans, newest return
// first. Pages are 1-indexed; pages past the end come back empty.
func (r *Repo) LoanHistoryByUser(ctx context.Context, userID string, page, size int) ([]models.LoanHistory, error) {
	page, size = normPage(page, size)
	var rows []models.LoanHistory
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("returned_date DESC, id").
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

// CurrentLoansByUser pages through the user's active loans, newest first.
func (r *Repo) CurrentLoansByUser(ctx context.Context, userID string, page, size int) ([]models.Loan, error) {
	page, size = normPage(page, size)
	var rows []models.Loan
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("loaned_date DESC, id").
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

// ListAvailableItems returns items with no active loan row (anti-join),
// regardless of what is_available says; the two agree under the invariant.
func (r *Repo) ListAvailableItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).Model(&models.Item{}).
		Select(models.ItemTable+".*").
		Joins("LEFT JOIN "+models.LoanTable+" l ON l.item_id = "+models.ItemTable+".id").
		Where("l.id IS NULL").
		Order(models.ItemTable + ".created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

type LoanedItemRow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location"`
	Year        int       `json:"year,omitempty"`
	LoanID      string    `json:"loanId"`
	UserID      string    `json:"userId"`
	SsoName     string    `json:"ssoName,omitempty"`
	LoanedDate  time.Time `json:"loanedDate"`
}

// ListUnavailableItems returns loaned-out items together with the open
// loan and borrower details.
func (r *Repo) ListUnavailableItems(ctx context.Context) ([]LoanedItemRow, error) {
	var rows []LoanedItemRow
	err := r.DB.WithContext(ctx).
		Table(models.ItemTable+" i").
		Select(`i.id, i.name, i.description, i.location, i.year,
			l.id AS loan_id, l.user_id, l.loaned_date, u.sso_name`).
		Joins("JOIN "+models.LoanTable+" l ON l.item_id = i.id").
		Joins("LEFT JOIN "+models.UserTable+" u ON u.sso_id = l.user_id").
		Order("l.loaned_date DESC, l.id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

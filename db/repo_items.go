package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LoanRangers/SelfServiceLoaningBackend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateItemInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Year        int      `json:"year"`
	Tags        []string `json:"tags"`
	QRCode      string   `json:"qrCode"`
}

// CreateItem creates an item with its category and location upserted by
// name. The upserts are idempotent; creating two items with the same
// category/location names yields a single lookup row each.
func (r *Repo) CreateItem(ctx context.Context, actor string, in CreateItemInput) (*models.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationf("item name is required")
	}
	catName := strings.TrimSpace(in.Category)
	if catName == "" {
		return nil, validationf("category name is required")
	}
	locName := strings.TrimSpace(in.Location)
	if locName == "" {
		return nil, validationf("location name is required")
	}

	var item models.Item
	var newCategory, newLocation bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cat, created, err := findOrCreateCategory(tx, catName)
		if err != nil {
			return err
		}
		newCategory = created

		loc, created, err := findOrCreateLocation(tx, locName)
		if err != nil {
			return err
		}
		newLocation = created

		item = models.Item{
			ID:          uuid.NewString(),
			Name:        name,
			Description: strings.TrimSpace(in.Description),
			CategoryID:  cat.ID,
			Location:    loc.Name,
			Year:        in.Year,
			IsAvailable: true,
		}
		if qr := strings.TrimSpace(in.QRCode); qr != "" {
			item.QRCodeID = &qr
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		for _, t := range in.Tags {
			tagName := strings.TrimSpace(t)
			if tagName == "" {
				continue
			}
			tag, _, err := findOrCreateTag(tx, tagName)
			if err != nil {
				return err
			}
			if err := tx.Create(&models.ItemTag{ItemID: item.ID, TagID: tag.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}

	if newCategory {
		r.record(ctx, actor, models.ActionCreate, models.CategoryTable, map[string]any{"name": catName})
	}
	if newLocation {
		r.record(ctx, actor, models.ActionCreate, models.LocationTable, map[string]any{"name": locName})
	}
	r.record(ctx, actor, models.ActionCreateItem, models.ItemTable, map[string]any{
		"itemId":      item.ID,
		"name":        item.Name,
		"description": item.Description,
	})
	return &item, nil
}

// DeleteItem removes an item and its tag/flag/comment rows. Items with an
// active loan are rejected: deleting them would orphan the loan record.
func (r *Repo) DeleteItem(ctx context.Context, actor, itemID string) error {
	if strings.TrimSpace(itemID) == "" {
		return validationf("item id is required")
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Item
		if err := tx.First(&it, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
			}
			return err
		}
		var n int64
		if err := tx.Model(&models.Loan{}).Where("item_id = ?", itemID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %s", ErrItemOnLoan, itemID)
		}
		if err := tx.Delete(&models.ItemTag{}, "item_id = ?", itemID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.ItemFlag{}, "item_id = ?", itemID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Comment{}, "item_id = ?", itemID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Item{}, "id = ?", itemID).Error
	})
	if err != nil {
		return translate(err)
	}

	r.record(ctx, actor, models.ActionDeleteItem, models.ItemTable, map[string]any{"itemId": itemID})
	return nil
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
		}
		return nil, translate(err)
	}
	return &it, nil
}

func (r *Repo) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

// find-or-create by name, reporting whether a new row was made.
// Idempotent per name; no error when the row already exists.

func findOrCreateCategory(tx *gorm.DB, name string) (*models.Category, bool, error) {
	var c models.Category
	err := tx.Where("name = ?", name).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = models.Category{ID: uuid.NewString(), Name: name}
		if err := tx.Create(&c).Error; err != nil {
			return nil, false, err
		}
		return &c, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &c, false, nil
}

func findOrCreateLocation(tx *gorm.DB, name string) (*models.Location, bool, error) {
	var l models.Location
	err := tx.Where("name = ?", name).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		l = models.Location{ID: uuid.NewString(), Name: name}
		if err := tx.Create(&l).Error; err != nil {
			return nil, false, err
		}
		return &l, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &l, false, nil
}

func findOrCreateTag(tx *gorm.DB, name string) (*models.Tag, bool, error) {
	var t models.Tag
	err := tx.Where("name = ?", name).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t = models.Tag{ID: uuid.NewString(), Name: name}
		if err := tx.Create(&t).Error; err != nil {
			return nil, false, err
		}
		return &t, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &t, false, nil
}

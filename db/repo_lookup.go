package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LoanRangers/SelfServiceLoaningBackend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Lookup tables and moderation rows. Plain inserts with no invariants
// beyond name uniqueness; flag/unflag/comment carry audit entries.

func (r *Repo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cs []models.Category
	if err := r.DB.WithContext(ctx).Order("name").Find(&cs).Error; err != nil {
		return nil, translate(err)
	}
	return cs, nil
}

func (r *Repo) CreateCategory(ctx context.Context, actor, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("category name is required")
	}
	var c *models.Category
	var created bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		c, created, err = findOrCreateCategory(tx, name)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	if created {
		r.record(ctx, actor, models.ActionCreate, models.CategoryTable, map[string]any{"name": name})
	}
	return c, nil
}

func (r *Repo) ListLocations(ctx context.Context) ([]models.Location, error) {
	var ls []models.Location
	if err := r.DB.WithContext(ctx).Order("name").Find(&ls).Error; err != nil {
		return nil, translate(err)
	}
	return ls, nil
}

// UpsertLocation creates the location or refreshes its description.
func (r *Repo) UpsertLocation(ctx context.Context, actor, name, description string) (*models.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("location name is required")
	}
	description = strings.TrimSpace(description)

	var loc models.Location
	var created bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("name = ?", name).First(&loc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			loc = models.Location{ID: uuid.NewString(), Name: name, Description: description}
			created = true
			return tx.Create(&loc).Error
		}
		if err != nil {
			return err
		}
		if description != "" && description != loc.Description {
			loc.Description = description
			return tx.Model(&loc).Update("description", description).Error
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	if created {
		r.record(ctx, actor, models.ActionCreate, models.LocationTable, map[string]any{
			"name":        name,
			"description": description,
		})
	}
	return &loc, nil
}

func (r *Repo) ListTags(ctx context.Context) ([]models.Tag, error) {
	var ts []models.Tag
	if err := r.DB.WithContext(ctx).Order("name").Find(&ts).Error; err != nil {
		return nil, translate(err)
	}
	return ts, nil
}

func (r *Repo) CreateTag(ctx context.Context, actor, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("tag name is required")
	}
	var t *models.Tag
	var created bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		t, created, err = findOrCreateTag(tx, name)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	if created {
		r.record(ctx, actor, models.ActionCreate, models.TagTable, map[string]any{"name": name})
	}
	return t, nil
}

func (r *Repo) ListQRCodes(ctx context.Context) ([]models.QRCode, error) {
	var qs []models.QRCode
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&qs).Error; err != nil {
		return nil, translate(err)
	}
	return qs, nil
}

// CreateQRCodes inserts a printed batch, skipping guids already present.
func (r *Repo) CreateQRCodes(ctx context.Context, actor string, codes []models.QRCode) (int64, error) {
	if len(codes) == 0 {
		return 0, validationf("at least one qr code is required")
	}
	for _, q := range codes {
		if strings.TrimSpace(q.GUID) == "" || strings.TrimSpace(q.Name) == "" {
			return 0, validationf("each qr code needs a guid and a name")
		}
	}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&codes)
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	r.record(ctx, actor, models.ActionCreate, models.QRCodeTable, map[string]any{"count": res.RowsAffected})
	return res.RowsAffected, nil
}

func (r *Repo) ListFlags(ctx context.Context) ([]models.Flag, error) {
	var fs []models.Flag
	if err := r.DB.WithContext(ctx).Order("name").Find(&fs).Error; err != nil {
		return nil, translate(err)
	}
	return fs, nil
}

func (r *Repo) CreateFlag(ctx context.Context, actor, name string) (*models.Flag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("flag name is required")
	}
	f := models.Flag{ID: uuid.NewString(), Name: name}
	if err := r.DB.WithContext(ctx).Create(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validationf("flag %q already exists", name)
		}
		return nil, translate(err)
	}
	r.record(ctx, actor, models.ActionCreate, models.FlagTable, map[string]any{"name": name})
	return &f, nil
}

func (r *Repo) FlagItem(ctx context.Context, actor, itemID, flagID string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Item
		if err := tx.First(&it, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
			}
			return err
		}
		// No FK backs this join table, so verify the flag too; otherwise a
		// bogus flag id would create a row pointing at nothing.
		var f models.Flag
		if err := tx.First(&f, "id = ?", flagID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationf("flag %s does not exist", flagID)
			}
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.ItemFlag{ItemID: itemID, FlagID: flagID, SsoID: actor}).Error
	})
	if err != nil {
		return translate(err)
	}
	r.record(ctx, actor, models.ActionFlag, models.ItemFlagTable, map[string]any{
		"itemId": itemID,
		"flagId": flagID,
	})
	return nil
}

func (r *Repo) UnflagItem(ctx context.Context, actor, itemID, flagID string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Item
		if err := tx.First(&it, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
			}
			return err
		}
		res := tx.Delete(&models.ItemFlag{}, "item_id = ? AND flag_id = ?", itemID, flagID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return validationf("flag %s not set on item %s", flagID, itemID)
		}
		return nil
	})
	if err != nil {
		return translate(err)
	}
	r.record(ctx, actor, models.ActionUnflag, models.ItemFlagTable, map[string]any{
		"itemId": itemID,
		"flagId": flagID,
	})
	return nil
}

func (r *Repo) ListComments(ctx context.Context, itemID string) ([]models.Comment, error) {
	var cs []models.Comment
	err := r.DB.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC, id").
		Find(&cs).Error
	if err != nil {
		return nil, translate(err)
	}
	return cs, nil
}

func (r *Repo) AddComment(ctx context.Context, actor, itemID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationf("comment content is required")
	}
	var cm models.Comment
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Item
		if err := tx.First(&it, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
			}
			return err
		}
		cm = models.Comment{ID: uuid.NewString(), ItemID: itemID, SsoID: actor, Content: content}
		return tx.Create(&cm).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	r.record(ctx, actor, models.ActionComment, models.CommentTable, map[string]any{
		"itemId":    itemID,
		"commentId": cm.ID,
	})
	return &cm, nil
}

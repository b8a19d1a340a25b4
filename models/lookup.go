package models

import "time"

const (
	CategoryTable = "lr_categories"
	LocationTable = "lr_locations"
	TagTable      = "lr_tags"
	ItemTagTable  = "lr_item_tags"
	QRCodeTable   = "lr_qr_codes"
)

// Category and Location are upserted by name when items are created.
type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Location struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Tag struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type ItemTag struct {
	ItemID string `gorm:"type:uuid;primaryKey" json:"itemId"`
	TagID  string `gorm:"type:uuid;primaryKey" json:"tagId"`
}

// QRCode guids are printed in batches ahead of time and bound to items later.
type QRCode struct {
	GUID      string    `gorm:"primaryKey;size:64" json:"guid"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Category) TableName() string { return CategoryTable }
func (Location) TableName() string { return LocationTable }
func (Tag) TableName() string      { return TagTable }
func (ItemTag) TableName() string  { return ItemTagTable }
func (QRCode) TableName() string   { return QRCodeTable }

package models

import "time"

const ItemTable = "lr_items"

type Item struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Description string `gorm:"size:1000" json:"description,omitempty"`
	CategoryID  string `gorm:"type:uuid;index;not null" json:"categoryId"`
	// Current location as free text; "With User" while loaned out,
	// the return location name otherwise.
	Location    string    `gorm:"size:200;not null" json:"location"`
	Year        int       `json:"year,omitempty"`
	IsAvailable bool      `gorm:"not null;default:true" json:"isAvailable"`
	QRCodeID    *string   `gorm:"size:64;index" json:"qrCodeId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return ItemTable }

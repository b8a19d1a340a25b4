package models

import "time"

const (
	FlagTable     = "lr_flags"
	ItemFlagTable = "lr_item_flags"
	CommentTable  = "lr_comments"
)

type Flag struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type ItemFlag struct {
	ItemID    string    `gorm:"type:uuid;primaryKey" json:"itemId"`
	FlagID    string    `gorm:"type:uuid;primaryKey" json:"flagId"`
	SsoID     string    `gorm:"size:120;not null" json:"ssoId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID    string    `gorm:"type:uuid;index;not null" json:"itemId"`
	SsoID     string    `gorm:"size:120;not null" json:"ssoId"`
	Content   string    `gorm:"size:2000;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Flag) TableName() string     { return FlagTable }
func (ItemFlag) TableName() string { return ItemFlagTable }
func (Comment) TableName() string  { return CommentTable }

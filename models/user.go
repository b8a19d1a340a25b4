package models

import "time"

const UserTable = "lr_users"

// User is keyed by the external SSO identifier and provisioned
// lazily on the first successful OAuth callback.
type User struct {
	SsoID   string `gorm:"primaryKey;size:120" json:"ssoId"`
	SsoName string `gorm:"size:255" json:"ssoName"`

	LastSeenAt *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }

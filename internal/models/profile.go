package models

import "time"

// Profile groups the permissions granted to its users.
type Profile struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Name        string       `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string       `gorm:"size:500" json:"description,omitempty"`
	Permissions []Permission `gorm:"many2many:profile_permissions;" json:"permissions,omitempty"`
}

// Permission allows one action on one resource type. Either part may be "*".
type Permission struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	ResourceType string `gorm:"size:50;not null;uniqueIndex:idx_perm_resource_action" json:"resource_type"`
	Action       string `gorm:"size:50;not null;uniqueIndex:idx_perm_resource_action" json:"action"`
	Description  string `gorm:"size:200" json:"description,omitempty"`
}

// Code returns the permission in "resource:action" format for matching.
func (p Permission) Code() string {
	return p.ResourceType + ":" + p.Action
}

// All returns every model managed by the schema, in dependency order.
func All() []any {
	return []any{
		&Permission{}, &Profile{}, &User{},
		&Client{}, &Category{}, &Transaction{}, &Report{}, &SystemConfig{},
	}
}

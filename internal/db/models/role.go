package models

import "time"

// Role represents a role of the panel (e.g. "Super Admin", "Bayi", "Muhasebe").
// The permission set of a role is stored separately in RolePermission so that
// a role without a stored set can be told apart from a role with an empty set.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique name of the role. Users and sessions reference it.
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// Description is an optional free-text description.
	Description string `gorm:"size:255" json:"description"`
	// IsSystem marks the built-in roles which cannot be deleted.
	IsSystem bool `gorm:"default:false" json:"isSystem"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

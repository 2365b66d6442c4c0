package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/BayiPanel/BayiPanel/internal/permission"
)

// RolePermission holds the complete permission set of one role.
// There is at most one row per role; replacing a set rewrites that row,
// which keeps a role's set atomic for readers.
// When a role is deleted its row is removed with it (CASCADE); other roles are untouched.
type RolePermission struct {
	// RoleID is the ID of the role owning this set.
	RoleID uint `gorm:"primaryKey;autoIncrement:false;column:role_id"`
	// Role is the associated role (loaded via foreign key).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	// Permissions is the stored module -> action -> bool mapping as JSON.
	Permissions datatypes.JSONType[permission.Set] `gorm:"not null"`
	// UpdatedAt is the timestamp of the last replace (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the RolePermission model.
func (RolePermission) TableName() string {
	return "role_permissions"
}

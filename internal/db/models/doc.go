// Package models contains the gorm models of roles, their permission sets and users.
package models

// All returns every model for AutoMigrate, in dependency order.
func All() []any {
	return []any{
		&Role{},
		&RolePermission{},
		&User{},
	}
}

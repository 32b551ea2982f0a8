package models

import "time"

type UserRole string

const (
	RoleSuperAdmin  UserRole = "super_admin"
	RoleBranchAdmin UserRole = "branch_admin"
)

// User: dueño del user_id del token. Las credenciales viven en el proveedor de identidad.
type User struct {
	ID        uint     `gorm:"primaryKey"`
	BranchID  *uint    `gorm:"index"`
	Name      string   `gorm:"size:100;not null"`
	Email     string   `gorm:"size:100;uniqueIndex;not null"`
	Role      UserRole `gorm:"size:20;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

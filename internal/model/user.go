package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles gating the admin-only endpoints
const (
	RoleAdmin     = "ADMIN"
	RoleReception = "RECEPTION"
)

// User represents an operator account
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"type:varchar(100);uniqueIndex"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	FullName  string         `json:"full_name" gorm:"type:varchar(255)"`
	Role      string         `json:"role" gorm:"type:varchar(20);default:'RECEPTION'"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

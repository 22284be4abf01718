package model

import (
	"time"

	"gorm.io/gorm"
)

// Guest represents a registered hotel guest
type Guest struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	FirstName string         `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName  string         `json:"last_name" gorm:"type:varchar(100)"`
	Phone     string         `json:"phone" gorm:"type:varchar(30);index"`
	Email     string         `json:"email" gorm:"type:varchar(100)"`
	IDNumber  string         `json:"id_number" gorm:"type:varchar(50);index"`
	TaxID     string         `json:"tax_id" gorm:"type:varchar(50)"`
	Address   string         `json:"address" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

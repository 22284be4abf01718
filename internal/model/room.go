package model

import (
	"time"

	"gorm.io/gorm"
)

// Room physical statuses. RESERVED is also derived at read time for a room
// with a CONFIRMED booking starting today, without being persisted.
const (
	RoomStatusVacantClean = "VACANT_CLEAN"
	RoomStatusVacantDirty = "VACANT_DIRTY"
	RoomStatusOccupied    = "OCCUPIED"
	RoomStatusReserved    = "RESERVED"
	RoomStatusOutOfOrder  = "OUT_OF_ORDER"
	RoomStatusCleaning    = "CLEANING"
	RoomStatusInspecting  = "INSPECTING"
)

// RoomType represents a bookable room category with its base rate
type RoomType struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null;unique"`
	Capacity  int            `json:"capacity" gorm:"default:2"`
	BaseRate  float64        `json:"base_rate" gorm:"not null"`
	Amenities string         `json:"amenities" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Room represents a physical room on the property
type Room struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Number     string         `json:"number" gorm:"type:varchar(20);not null;uniqueIndex"`
	Floor      int            `json:"floor"`
	RoomTypeID uint           `json:"room_type_id" gorm:"index;not null"`
	RoomType   *RoomType      `json:"room_type,omitempty"`
	Status     string         `json:"status" gorm:"type:varchar(20);not null;default:'VACANT_CLEAN'"`
	Note       string         `json:"note" gorm:"type:text"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

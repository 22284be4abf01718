package model

import (
	"time"

	"gorm.io/gorm"
)

// Booking lifecycle statuses
const (
	BookingStatusConfirmed  = "CONFIRMED"
	BookingStatusCheckedIn  = "CHECKED_IN"
	BookingStatusCheckedOut = "CHECKED_OUT"
	BookingStatusCancelled  = "CANCELLED"
)

// Booking represents a reservation, distinct from the in-house Stay record
type Booking struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	BookingNumber  string         `json:"booking_number" gorm:"type:varchar(30);uniqueIndex"`
	Source         string         `json:"source" gorm:"type:varchar(50)"`
	CheckInDate    time.Time      `json:"check_in_date" gorm:"index;not null"`
	CheckOutDate   time.Time      `json:"check_out_date" gorm:"index;not null"`
	Nights         int            `json:"nights" gorm:"not null"`
	Status         string         `json:"status" gorm:"type:varchar(20);index;default:'CONFIRMED'"`
	GuestID        uint           `json:"guest_id" gorm:"index;not null"`
	Guest          *Guest         `json:"guest,omitempty"`
	PaymentMethod  string         `json:"payment_method" gorm:"type:varchar(20);default:'CASH'"`
	SpecialRequest string         `json:"special_request" gorm:"type:text"`
	Rooms          []BookingRoom  `json:"rooms" gorm:"foreignKey:BookingID"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// BookingRoom links a booking to one assigned room with its nightly rate and
// occupancy counts, one row per room booked
type BookingRoom struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	BookingID    uint      `json:"booking_id" gorm:"index;not null"`
	RoomTypeID   uint      `json:"room_type_id" gorm:"not null"`
	RoomType     *RoomType `json:"room_type,omitempty"`
	RoomID       uint      `json:"room_id" gorm:"index;not null"`
	Room         *Room     `json:"room,omitempty"`
	RatePerNight float64   `json:"rate_per_night" gorm:"not null"`
	Adults       int       `json:"adults" gorm:"default:1"`
	Children     int       `json:"children" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package model

import (
	"time"
)

// Stay statuses
const (
	StayStatusInHouse    = "IN_HOUSE"
	StayStatusCheckedOut = "CHECKED_OUT"
)

// Charge item kinds
const (
	ChargeTypeRoom  = "ROOM"
	ChargeTypeExtra = "EXTRA"
)

// Deposit statuses: held at check-in, then refunded at check-out or applied
// against the folio
const (
	DepositStatusHeld     = "HELD"
	DepositStatusRefunded = "REFUNDED"
	DepositStatusApplied  = "APPLIED"
)

// Stay is the in-house occupancy record created at check-in
type Stay struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	BookingID   uint         `json:"booking_id" gorm:"index;not null"`
	Booking     *Booking     `json:"booking,omitempty"`
	CheckInAt   time.Time    `json:"check_in_at"`
	CheckOutAt  *time.Time   `json:"check_out_at,omitempty"`
	Status      string       `json:"status" gorm:"type:varchar(20);index;default:'IN_HOUSE'"`
	ChargeItems []ChargeItem `json:"charge_items,omitempty" gorm:"foreignKey:StayID"`
	Deposits    []Deposit    `json:"deposits,omitempty" gorm:"foreignKey:StayID"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ChargeItem is a billable line attached to a stay
type ChargeItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	StayID      uint      `json:"stay_id" gorm:"index;not null"`
	Type        string    `json:"type" gorm:"type:varchar(20);default:'ROOM'"`
	Description string    `json:"description" gorm:"type:varchar(255)"`
	Amount      float64   `json:"amount" gorm:"not null"`
	Invoiced    bool      `json:"invoiced" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Deposit is a sum held against a stay (e.g. key deposit). RefundedAmount
// must never exceed Amount; the receiving and refunding shifts are recorded
// for drawer reconciliation.
type Deposit struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	StayID         uint       `json:"stay_id" gorm:"index;not null"`
	Amount         float64    `json:"amount" gorm:"not null"`
	Method         string     `json:"method" gorm:"type:varchar(20);default:'CASH'"`
	Status         string     `json:"status" gorm:"type:varchar(20);index;default:'HELD'"`
	ShiftID        uint       `json:"shift_id" gorm:"index;not null"`
	RefundedAmount float64    `json:"refunded_amount"`
	RefundShiftID  *uint      `json:"refund_shift_id,omitempty" gorm:"index"`
	RefundedAt     *time.Time `json:"refunded_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

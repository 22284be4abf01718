package model

import (
	"time"
)

// Shift statuses. At most one shift is OPEN at any time; opening a new one
// auto-closes the previous.
const (
	ShiftStatusOpen   = "OPEN"
	ShiftStatusClosed = "CLOSED"
)

// Shift is a bounded working period during which every payment, POS order,
// deposit and cash transaction is attributed to one operator/terminal
type Shift struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	UserID     uint       `json:"user_id" gorm:"index;not null"`
	User       *User      `json:"user,omitempty"`
	Terminal   string     `json:"terminal" gorm:"type:varchar(50);default:'front-desk'"`
	StartCash  float64    `json:"start_cash"`
	EndCash    float64    `json:"end_cash"`
	TotalSales float64    `json:"total_sales"`
	Status     string     `json:"status" gorm:"type:varchar(20);index;default:'OPEN'"`
	OpenedAt   time.Time  `json:"opened_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

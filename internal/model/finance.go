package model

import (
	"time"
)

// Manual cash transaction kinds (petty cash, refunds outside the deposit
// flow, misc income)
const (
	CashTransactionIncome  = "INCOME"
	CashTransactionExpense = "EXPENSE"
)

// CashTransaction is a manual drawer entry attributed to the open shift
type CashTransaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ShiftID   uint      `json:"shift_id" gorm:"index;not null"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Type      string    `json:"type" gorm:"type:varchar(20);not null"`
	Method    string    `json:"method" gorm:"type:varchar(20);default:'CASH'"`
	Amount    float64   `json:"amount" gorm:"not null"`
	Note      string    `json:"note" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

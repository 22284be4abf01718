package model

import (
	"time"

	"gorm.io/gorm"
)

// Payment methods accepted across the property
const (
	MethodCash     = "CASH"
	MethodCard     = "CARD"
	MethodTransfer = "TRANSFER"
)

// Invoice statuses
const (
	InvoiceStatusUnpaid  = "UNPAID"
	InvoiceStatusPartial = "PARTIAL"
	InvoiceStatusPaid    = "PAID"
)

// Invoice carries the tax-inclusive breakdown of a folio. The invariant
// subtotal + vat_amount == total always holds.
type Invoice struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	InvoiceNumber string         `json:"invoice_number" gorm:"type:varchar(30);uniqueIndex"`
	StayID        *uint          `json:"stay_id,omitempty" gorm:"index"`
	Stay          *Stay          `json:"stay,omitempty"`
	Subtotal      float64        `json:"subtotal"`
	Discount      float64        `json:"discount"`
	ServiceCharge float64        `json:"service_charge"`
	VATAmount     float64        `json:"vat_amount"`
	Total         float64        `json:"total"`
	Status        string         `json:"status" gorm:"type:varchar(20);index;default:'UNPAID'"`
	Payments      []Payment      `json:"payments,omitempty" gorm:"foreignKey:InvoiceID"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// Payment is one settlement against an invoice, attributed to the shift that
// received it
type Payment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	InvoiceID uint      `json:"invoice_id" gorm:"index;not null"`
	Method    string    `json:"method" gorm:"type:varchar(20);not null"`
	Amount    float64   `json:"amount" gorm:"not null"`
	ShiftID   uint      `json:"shift_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VATBreakdown splits a tax-inclusive total into subtotal and VAT:
// vat = total - total/(1+rate)
func VATBreakdown(total, rate float64) (subtotal, vat float64) {
	if rate <= 0 {
		return total, 0
	}
	vat = total - total/(1+rate)
	return total - vat, vat
}

// PaidAmount sums the recorded payments
func (inv *Invoice) PaidAmount() float64 {
	var paid float64
	for _, p := range inv.Payments {
		paid += p.Amount
	}
	return paid
}

package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// All returns every entity for schema migration, in dependency order
func All() []interface{} {
	return []interface{}{
		&User{},
		&RoomType{},
		&Room{},
		&Guest{},
		&Booking{},
		&BookingRoom{},
		&Shift{},
		&Stay{},
		&ChargeItem{},
		&Deposit{},
		&Invoice{},
		&Payment{},
		&ProductCategory{},
		&Product{},
		&PosOrder{},
		&PosOrderItem{},
		&CashTransaction{},
	}
}

// NextDocumentNumber produces a per-day sequential document number such as
// "INV-20260829-0007". The count query must run inside the transaction that
// creates the document so the sequence stays consistent with the insert.
// Soft-deleted rows still hold their number, so the count is unscoped.
func NextDocumentNumber(tx *gorm.DB, prefix string, entity interface{}) (string, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var count int64
	if err := tx.Unscoped().Model(entity).Where("created_at >= ?", dayStart).Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%04d", prefix, now.Format("20060102"), count+1), nil
}

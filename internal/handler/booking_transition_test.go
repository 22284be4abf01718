package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createConfirmedBooking(t *testing.T, db *gorm.DB, room model.Room, guest model.Guest, rate float64, nights int) model.Booking {
	t.Helper()
	c, rec := newTestContext(t, http.MethodPost, "/api/bookings", map[string]interface{}{
		"primaryGuestId": guest.ID,
		"checkInDate":    dateString(0),
		"checkOutDate":   dateString(nights),
		"rooms": []map[string]interface{}{
			{"roomId": room.ID, "ratePerNight": rate},
		},
	})
	require.NoError(t, CreateBooking(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var booking model.Booking
	decodeBody(t, rec, &booking)
	return booking
}

func updateBooking(t *testing.T, bookingID uint, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	c, rec := newTestContext(t, http.MethodPatch, fmt.Sprintf("/api/bookings/%d", bookingID), body)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", bookingID))
	require.NoError(t, UpdateBooking(c))
	return rec
}

func TestCheckInCreatesStayDepositAndPaidInvoice(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reception1", model.RoleReception)
	openTestShift(t, user.ID, 1000)

	_, room := createTestRoom(t, db, "101", 1500)
	guest := createTestGuest(t, db, "Alice")
	booking := createConfirmedBooking(t, db, room, guest, 1500, 2)

	rec := updateBooking(t, booking.ID, map[string]interface{}{
		"status":        model.BookingStatusCheckedIn,
		"guestIdNumber": "1103700000001",
		"keyDeposit":    500,
		"depositMethod": model.MethodCash,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Booking model.Booking `json:"booking"`
		Invoice model.Invoice `json:"invoice"`
	}
	decodeBody(t, rec, &resp)

	assert.Equal(t, model.BookingStatusCheckedIn, resp.Booking.Status)
	assert.Equal(t, model.InvoiceStatusPaid, resp.Invoice.Status)
	assert.InDelta(t, 3000.0, resp.Invoice.Total, 0.001)
	assert.InDelta(t, 196.26, resp.Invoice.VATAmount, 0.01)
	assert.InDelta(t, 2803.74, resp.Invoice.Subtotal, 0.01)

	var stay model.Stay
	require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&stay).Error)
	assert.Equal(t, model.StayStatusInHouse, stay.Status)

	var deposit model.Deposit
	require.NoError(t, db.Where("stay_id = ?", stay.ID).First(&deposit).Error)
	assert.Equal(t, model.DepositStatusHeld, deposit.Status)
	assert.Equal(t, 500.0, deposit.Amount)

	var charge model.ChargeItem
	require.NoError(t, db.Where("stay_id = ?", stay.ID).First(&charge).Error)
	assert.Equal(t, model.ChargeTypeRoom, charge.Type)
	assert.Equal(t, 3000.0, charge.Amount)
	assert.True(t, charge.Invoiced)

	var payment model.Payment
	require.NoError(t, db.Where("invoice_id = ?", resp.Invoice.ID).First(&payment).Error)
	assert.Equal(t, 3000.0, payment.Amount)

	var stored model.Room
	require.NoError(t, db.First(&stored, room.ID).Error)
	assert.Equal(t, model.RoomStatusOccupied, stored.Status)
}

func TestCheckInRequiresOpenShift(t *testing.T) {
	db := setupTestDB(t)
	_, room := createTestRoom(t, db, "101", 1500)
	guest := createTestGuest(t, db, "Alice")
	booking := createConfirmedBooking(t, db, room, guest, 1500, 1)

	rec := updateBooking(t, booking.ID, map[string]interface{}{
		"status": model.BookingStatusCheckedIn,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no open shift")

	// Nothing from the aborted transaction may persist
	var stays int64
	db.Model(&model.Stay{}).Count(&stays)
	assert.EqualValues(t, 0, stays)
}

func TestCheckInTwiceRejected(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reception1", model.RoleReception)
	openTestShift(t, user.ID, 0)

	_, room := createTestRoom(t, db, "101", 1500)
	guest := createTestGuest(t, db, "Alice")
	booking := createConfirmedBooking(t, db, room, guest, 1500, 1)

	rec := updateBooking(t, booking.ID, map[string]interface{}{"status": model.BookingStatusCheckedIn})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = updateBooking(t, booking.ID, map[string]interface{}{"status": model.BookingStatusCheckedIn})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already checked in")
}

func TestCheckOutRefundsDepositAndReleasesRooms(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reception1", model.RoleReception)
	openTestShift(t, user.ID, 1000)

	_, room := createTestRoom(t, db, "101", 1500)
	guest := createTestGuest(t, db, "Alice")
	booking := createConfirmedBooking(t, db, room, guest, 1500, 2)

	rec := updateBooking(t, booking.ID, map[string]interface{}{
		"status":     model.BookingStatusCheckedIn,
		"keyDeposit": 500,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var deposit model.Deposit
	require.NoError(t, db.First(&deposit).Error)

	rec = updateBooking(t, booking.ID, map[string]interface{}{
		"status": model.BookingStatusCheckedOut,
		"refunds": []map[string]interface{}{
			{"depositId": deposit.ID, "amount": 500},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, db.First(&deposit, deposit.ID).Error)
	assert.Equal(t, model.DepositStatusRefunded, deposit.Status)
	assert.Equal(t, 500.0, deposit.RefundedAmount)
	require.NotNil(t, deposit.RefundShiftID)
	require.NotNil(t, deposit.RefundedAt)

	var stored model.Room
	require.NoError(t, db.First(&stored, room.ID).Error)
	assert.Equal(t, model.RoomStatusVacantDirty, stored.Status)

	var stay model.Stay
	require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&stay).Error)
	assert.Equal(t, model.StayStatusCheckedOut, stay.Status)
	require.NotNil(t, stay.CheckOutAt)

	var stored2 model.Booking
	require.NoError(t, db.First(&stored2, booking.ID).Error)
	assert.Equal(t, model.BookingStatusCheckedOut, stored2.Status)
}

func TestCheckOutRejectsOverRefund(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reception1", model.RoleReception)
	openTestShift(t, user.ID, 0)

	_, room := createTestRoom(t, db, "101", 1500)
	guest := createTestGuest(t, db, "Alice")
	booking := createConfirmedBooking(t, db, room, guest, 1500, 1)

	rec := updateBooking(t, booking.ID, map[string]interface{}{
		"status":     model.BookingStatusCheckedIn,
		"keyDeposit": 500,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var deposit model.Deposit
	require.NoError(t, db.First(&deposit).Error)

	rec = updateBooking(t, booking.ID, map[string]interface{}{
		"status": model.BookingStatusCheckedOut,
		"refunds": []map[string]interface{}{
			{"depositId": deposit.ID, "amount": 600},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "refund exceeds")

	// The rejected check-out rolls back entirely: the guest stays in house
	require.NoError(t, db.First(&deposit, deposit.ID).Error)
	assert.Equal(t, model.DepositStatusHeld, deposit.Status)

	var stay model.Stay
	require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&stay).Error)
	assert.Equal(t, model.StayStatusInHouse, stay.Status)
}

func TestCheckOutWithoutCheckInRejected(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reception1", model.RoleReception)
	openTestShift(t, user.ID, 0)

	_, room := createTestRoom(t, db, "101", 1500)
	guest := createTestGuest(t, db, "Alice")
	booking := createConfirmedBooking(t, db, room, guest, 1500, 1)

	rec := updateBooking(t, booking.ID, map[string]interface{}{"status": model.BookingStatusCheckedOut})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not in house")
}

func TestCancelReleasesRoomsOnlyWhenInHouse(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reception1", model.RoleReception)
	openTestShift(t, user.ID, 0)

	_, room := createTestRoom(t, db, "101", 1500)
	guest := createTestGuest(t, db, "Alice")

	booking := createConfirmedBooking(t, db, room, guest, 1500, 1)
	rec := updateBooking(t, booking.ID, map[string]interface{}{"status": model.BookingStatusCheckedIn})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = updateBooking(t, booking.ID, map[string]interface{}{"status": model.BookingStatusCancelled})
	require.Equal(t, http.StatusOK, rec.Code)

	var stored model.Room
	require.NoError(t, db.First(&stored, room.ID).Error)
	assert.Equal(t, model.RoomStatusVacantClean, stored.Status)

	var cancelled model.Booking
	require.NoError(t, db.First(&cancelled, booking.ID).Error)
	assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)
}

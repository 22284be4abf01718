package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/database"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/logger"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errMissingGuest    = errors.New("guest not found")
	errNoOpenShift     = errors.New("no open shift")
	errAlreadyInHouse  = errors.New("booking already checked in")
	errNotInHouse      = errors.New("booking is not in house")
	errBookingFinished = errors.New("booking is cancelled or checked out")
	errRefundExceeds   = errors.New("refund exceeds held deposit amount")
	errDepositNotHeld  = errors.New("deposit is not held")
)

// DepositRefundRequest is one requested refund on a held deposit
type DepositRefundRequest struct {
	DepositID uint    `json:"depositId"`
	Amount    float64 `json:"amount"`
}

// BookingUpdateRequest carries a status transition and its status-specific
// fields
type BookingUpdateRequest struct {
	Status string `json:"status"`

	// check-in fields
	GuestName     string  `json:"guestName"`
	GuestIDNumber string  `json:"guestIdNumber"`
	KeyDeposit    float64 `json:"keyDeposit"`
	DepositMethod string  `json:"depositMethod"`

	// check-out fields
	Refunds []DepositRefundRequest `json:"refunds"`
}

// checkInBooking performs the CONFIRMED -> CHECKED_IN transition: one
// transaction creating the Stay, the optional held key deposit, one room
// charge per booked room, the tax-inclusive invoice with its immediate
// payment, and setting every booked room OCCUPIED
func checkInBooking(c echo.Context, req *BookingUpdateRequest) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var booking model.Booking
	result := database.GetDB().Preload("Rooms").Preload("Rooms.Room").First(&booking, id)
	if result.Error != nil {
		log.Warn("Booking not found for check-in", zap.String("booking_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
	}

	var invoice model.Invoice
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if booking.Status == model.BookingStatusCheckedIn {
			return errAlreadyInHouse
		}
		if booking.Status == model.BookingStatusCancelled || booking.Status == model.BookingStatusCheckedOut {
			return errBookingFinished
		}

		shift, err := openShift(tx)
		if err != nil {
			return err
		}

		// Optional guest detail update captured at the desk
		if req.GuestName != "" || req.GuestIDNumber != "" {
			var guest model.Guest
			if result := tx.First(&guest, booking.GuestID); result.Error != nil {
				return errMissingGuest
			}
			if req.GuestName != "" {
				guest.FirstName = req.GuestName
			}
			if req.GuestIDNumber != "" {
				guest.IDNumber = req.GuestIDNumber
			}
			if result := tx.Save(&guest); result.Error != nil {
				return result.Error
			}
		}

		stay := model.Stay{
			BookingID: booking.ID,
			CheckInAt: time.Now(),
			Status:    model.StayStatusInHouse,
		}
		if result := tx.Create(&stay); result.Error != nil {
			return result.Error
		}

		// Key deposit is held against the shift that received it
		if req.KeyDeposit > 0 {
			method := req.DepositMethod
			if method == "" {
				method = model.MethodCash
			}
			deposit := model.Deposit{
				StayID:  stay.ID,
				Amount:  req.KeyDeposit,
				Method:  method,
				Status:  model.DepositStatusHeld,
				ShiftID: shift.ID,
			}
			if result := tx.Create(&deposit); result.Error != nil {
				return result.Error
			}
		}

		// One room charge per booked room: rate x nights
		var total float64
		var roomIDs []uint
		for _, br := range booking.Rooms {
			amount := br.RatePerNight * float64(booking.Nights)
			roomNumber := ""
			if br.Room != nil {
				roomNumber = br.Room.Number
			}
			charge := model.ChargeItem{
				StayID:      stay.ID,
				Type:        model.ChargeTypeRoom,
				Description: fmt.Sprintf("Room %s x %d nights", roomNumber, booking.Nights),
				Amount:      amount,
				Invoiced:    true,
			}
			if result := tx.Create(&charge); result.Error != nil {
				return result.Error
			}
			total += amount
			roomIDs = append(roomIDs, br.RoomID)
		}

		// The room total is treated as VAT-inclusive
		subtotal, vat := model.VATBreakdown(total, vatRate)

		number, err := model.NextDocumentNumber(tx, "INV", &model.Invoice{})
		if err != nil {
			return err
		}

		invoice = model.Invoice{
			InvoiceNumber: number,
			StayID:        &stay.ID,
			Subtotal:      subtotal,
			VATAmount:     vat,
			Total:         total,
			Status:        model.InvoiceStatusPaid,
			Payments: []model.Payment{{
				Method:  booking.PaymentMethod,
				Amount:  total,
				ShiftID: shift.ID,
			}},
		}
		if result := tx.Create(&invoice); result.Error != nil {
			return result.Error
		}

		if err := tx.Model(&model.Room{}).
			Where("id IN ?", roomIDs).
			Update("status", model.RoomStatusOccupied).Error; err != nil {
			return err
		}

		return tx.Model(&booking).Update("status", model.BookingStatusCheckedIn).Error
	})

	if err != nil {
		return bookingTransitionError(c, log, "check-in", err)
	}

	prometheus.RecordBookingOperation("check_in")
	prometheus.RecordRevenue("room", invoice.Total)
	UpdateRoomStatusMetrics(database.GetDB())
	log.Info("Booking checked in",
		zap.String("booking_number", booking.BookingNumber),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Float64("total", invoice.Total))

	database.GetDB().Preload("Rooms").Preload("Rooms.Room").Preload("Guest").First(&booking, booking.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"booking": booking,
		"invoice": invoice,
	})
}

// checkOutBooking performs the CHECKED_IN -> CHECKED_OUT transition: one
// transaction applying requested deposit refunds, setting every booked room
// VACANT_DIRTY and closing the in-house stay
func checkOutBooking(c echo.Context, req *BookingUpdateRequest) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var booking model.Booking
	result := database.GetDB().Preload("Rooms").First(&booking, id)
	if result.Error != nil {
		log.Warn("Booking not found for check-out", zap.String("booking_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		shift, err := openShift(tx)
		if err != nil {
			return err
		}

		var stay model.Stay
		result := tx.Where("booking_id = ? AND status = ?", booking.ID, model.StayStatusInHouse).First(&stay)
		if result.Error != nil {
			return errNotInHouse
		}

		// Apply requested refunds against held deposits. A refund above the
		// held amount aborts the whole transaction.
		for _, refund := range req.Refunds {
			var deposit model.Deposit
			if result := tx.Where("id = ? AND stay_id = ?", refund.DepositID, stay.ID).First(&deposit); result.Error != nil {
				return errDepositNotHeld
			}
			if deposit.Status != model.DepositStatusHeld {
				return errDepositNotHeld
			}
			if refund.Amount > deposit.Amount {
				return errRefundExceeds
			}

			now := time.Now()
			deposit.Status = model.DepositStatusRefunded
			deposit.RefundedAmount = refund.Amount
			deposit.RefundShiftID = &shift.ID
			deposit.RefundedAt = &now
			if result := tx.Save(&deposit); result.Error != nil {
				return result.Error
			}
		}

		var roomIDs []uint
		for _, br := range booking.Rooms {
			roomIDs = append(roomIDs, br.RoomID)
		}
		if len(roomIDs) > 0 {
			if err := tx.Model(&model.Room{}).
				Where("id IN ?", roomIDs).
				Update("status", model.RoomStatusVacantDirty).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		stay.Status = model.StayStatusCheckedOut
		stay.CheckOutAt = &now
		if result := tx.Save(&stay); result.Error != nil {
			return result.Error
		}

		return tx.Model(&booking).Update("status", model.BookingStatusCheckedOut).Error
	})

	if err != nil {
		return bookingTransitionError(c, log, "check-out", err)
	}

	prometheus.RecordBookingOperation("check_out")
	UpdateRoomStatusMetrics(database.GetDB())
	log.Info("Booking checked out", zap.String("booking_number", booking.BookingNumber))

	database.GetDB().Preload("Rooms").Preload("Rooms.Room").Preload("Guest").First(&booking, booking.ID)
	return c.JSON(http.StatusOK, booking)
}

// cancelBooking sets a booking CANCELLED. Rooms are released back to
// VACANT_CLEAN only when the booking had already been checked in; a
// CONFIRMED booking never physically held its rooms.
func cancelBooking(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var booking model.Booking
	result := database.GetDB().Preload("Rooms").First(&booking, id)
	if result.Error != nil {
		log.Warn("Booking not found for cancellation", zap.String("booking_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if booking.Status == model.BookingStatusCheckedIn {
			var roomIDs []uint
			for _, br := range booking.Rooms {
				roomIDs = append(roomIDs, br.RoomID)
			}
			if len(roomIDs) > 0 {
				if err := tx.Model(&model.Room{}).
					Where("id IN ?", roomIDs).
					Update("status", model.RoomStatusVacantClean).Error; err != nil {
					return err
				}
			}
		}

		return tx.Model(&booking).Update("status", model.BookingStatusCancelled).Error
	})

	if err != nil {
		log.Error("Failed to cancel booking", zap.String("booking_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to cancel booking"})
	}

	prometheus.RecordBookingOperation("cancel")
	log.Info("Booking cancelled", zap.String("booking_number", booking.BookingNumber))

	database.GetDB().Preload("Rooms").Preload("Guest").First(&booking, booking.ID)
	return c.JSON(http.StatusOK, booking)
}

// bookingTransitionError maps transition failures onto the flat error
// responses the desk UI expects
func bookingTransitionError(c echo.Context, log *zap.Logger, operation string, err error) error {
	switch {
	case errors.Is(err, errNoOpenShift):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no open shift; open a shift before " + operation})
	case errors.Is(err, errAlreadyInHouse):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking already checked in"})
	case errors.Is(err, errNotInHouse):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is not in house"})
	case errors.Is(err, errBookingFinished):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is cancelled or checked out"})
	case errors.Is(err, errRefundExceeds):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refund exceeds held deposit amount"})
	case errors.Is(err, errDepositNotHeld):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "deposit is not held"})
	case errors.Is(err, errMissingGuest):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest not found"})
	default:
		log.Error("Booking transition failed", zap.String("operation", operation), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to " + operation})
	}
}

package handler

import (
	"errors"
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

var errNoRoomAvailable = errors.New("no rooms available for the requested dates")

// BookingRoomRequest is one requested room line on a booking
type BookingRoomRequest struct {
	RoomTypeID   uint    `json:"roomTypeId"`
	RoomID       uint    `json:"roomId"`
	RatePerNight float64 `json:"ratePerNight"`
	Adults       int     `json:"adults"`
	Children     int     `json:"children"`
}

// BookingRequest defines the structure for booking creation
type BookingRequest struct {
	PrimaryGuestID uint                 `json:"primaryGuestId"`
	GuestData      *GuestRequest        `json:"guestData"`
	Source         string               `json:"source"`
	CheckInDate    string               `json:"checkInDate"`
	CheckOutDate   string               `json:"checkOutDate"`
	PaymentMethod  string               `json:"paymentMethod"`
	SpecialRequest string               `json:"specialRequest"`
	Rooms          []BookingRoomRequest `json:"rooms"`
}

// ListBookings handles retrieving bookings with optional filters
func ListBookings(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB().Preload("Guest").Preload("Rooms").Preload("Rooms.Room").Preload("Rooms.RoomType")

	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if guestID := c.QueryParam("guestId"); guestID != "" {
		query = query.Where("guest_id = ?", guestID)
	}
	if from := c.QueryParam("from"); from != "" {
		if d, err := parseDate(from); err == nil {
			query = query.Where("check_in_date >= ?", d)
		}
	}
	if to := c.QueryParam("to"); to != "" {
		if d, err := parseDate(to); err == nil {
			query = query.Where("check_in_date < ?", d.AddDate(0, 0, 1))
		}
	}

	var bookings []model.Booking
	if result := query.Order("check_in_date, id").Find(&bookings); result.Error != nil {
		log.Error("Failed to list bookings", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve bookings"})
	}

	return c.JSON(http.StatusOK, bookings)
}

// GetBooking handles retrieving a single booking with its rooms and guest
func GetBooking(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var booking model.Booking
	result := database.GetDB().
		Preload("Guest").Preload("Rooms").Preload("Rooms.Room").Preload("Rooms.RoomType").
		First(&booking, id)
	if result.Error != nil {
		log.Warn("Booking not found", zap.String("booking_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
	}

	return c.JSON(http.StatusOK, booking)
}

// CreateBooking handles creating a booking: one room is assigned per
// requested line, avoiding any overlap with CONFIRMED/CHECKED_IN bookings on
// the half-open interval [checkIn, checkOut)
func CreateBooking(c echo.Context) error {
	log := logger.FromContext(c)

	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	checkIn, err := parseDate(req.CheckInDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid checkInDate"})
	}
	checkOut, err := parseDate(req.CheckOutDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid checkOutDate"})
	}
	if !checkOut.After(checkIn) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkOutDate must be after checkInDate"})
	}
	if len(req.Rooms) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one room is required"})
	}
	if req.PrimaryGuestID == 0 && (req.GuestData == nil || req.GuestData.FirstName == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "primaryGuestId or guestData is required"})
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = model.MethodCash
	}

	var booking model.Booking
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		// Resolve or register the primary guest
		var guest model.Guest
		if req.PrimaryGuestID != 0 {
			if result := tx.First(&guest, req.PrimaryGuestID); result.Error != nil {
				return errMissingGuest
			}
		} else {
			guest = model.Guest{
				FirstName: req.GuestData.FirstName,
				LastName:  req.GuestData.LastName,
				Phone:     req.GuestData.Phone,
				Email:     req.GuestData.Email,
				IDNumber:  req.GuestData.IDNumber,
				TaxID:     req.GuestData.TaxID,
				Address:   req.GuestData.Address,
			}
			if result := tx.Create(&guest); result.Error != nil {
				return result.Error
			}
		}

		number, err := model.NextDocumentNumber(tx, "BK", &model.Booking{})
		if err != nil {
			return err
		}

		booking = model.Booking{
			BookingNumber:  number,
			Source:         req.Source,
			CheckInDate:    checkIn,
			CheckOutDate:   checkOut,
			Nights:         nights,
			Status:         model.BookingStatusConfirmed,
			GuestID:        guest.ID,
			PaymentMethod:  paymentMethod,
			SpecialRequest: req.SpecialRequest,
		}
		if result := tx.Create(&booking); result.Error != nil {
			return result.Error
		}

		assigned := make(map[uint]bool)
		var assignedRoomIDs []uint
		for _, line := range req.Rooms {
			room, err := assignRoom(tx, line, checkIn, checkOut, assigned)
			if err != nil {
				return err
			}
			assigned[room.ID] = true
			assignedRoomIDs = append(assignedRoomIDs, room.ID)

			rate := line.RatePerNight
			if rate == 0 {
				var roomType model.RoomType
				if result := tx.First(&roomType, room.RoomTypeID); result.Error == nil {
					rate = roomType.BaseRate
				}
			}
			adults := line.Adults
			if adults == 0 {
				adults = 1
			}

			bookingRoom := model.BookingRoom{
				BookingID:    booking.ID,
				RoomTypeID:   room.RoomTypeID,
				RoomID:       room.ID,
				RatePerNight: rate,
				Adults:       adults,
				Children:     line.Children,
			}
			if result := tx.Create(&bookingRoom); result.Error != nil {
				return result.Error
			}
		}

		// A same-day arrival physically holds its rooms right away
		if sameDay(checkIn, time.Now()) {
			if err := tx.Model(&model.Room{}).
				Where("id IN ?", assignedRoomIDs).
				Update("status", model.RoomStatusReserved).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, errNoRoomAvailable):
			log.Warn("No rooms available",
				zap.Time("check_in", checkIn),
				zap.Time("check_out", checkOut))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no rooms available"})
		case errors.Is(err, errMissingGuest):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest not found"})
		default:
			log.Error("Failed to create booking", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create booking"})
		}
	}

	// Reload with associations for the response
	database.GetDB().
		Preload("Guest").Preload("Rooms").Preload("Rooms.Room").Preload("Rooms.RoomType").
		First(&booking, booking.ID)

	prometheus.RecordBookingOperation("create")
	log.Info("Booking created",
		zap.String("booking_number", booking.BookingNumber),
		zap.Int("rooms", len(booking.Rooms)),
		zap.Int("nights", booking.Nights))
	return c.JSON(http.StatusCreated, booking)
}

// UpdateBooking dispatches a status transition: CHECKED_IN, CHECKED_OUT or
// CANCELLED
func UpdateBooking(c echo.Context) error {
	log := logger.FromContext(c)

	var req BookingUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	switch req.Status {
	case model.BookingStatusCheckedIn:
		return checkInBooking(c, &req)
	case model.BookingStatusCheckedOut:
		return checkOutBooking(c, &req)
	case model.BookingStatusCancelled:
		return cancelBooking(c)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported target status"})
	}
}

// CheckAvailability reports how many rooms of a type are free for a date
// range, using the same overlap predicate as booking creation
func CheckAvailability(c echo.Context) error {
	log := logger.FromContext(c)

	checkIn, err := parseDate(c.QueryParam("checkIn"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid checkIn"})
	}
	checkOut, err := parseDate(c.QueryParam("checkOut"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid checkOut"})
	}
	if !checkOut.After(checkIn) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkOut must be after checkIn"})
	}

	db := database.GetDB()
	query := db.Model(&model.Room{}).
		Where("status != ?", model.RoomStatusOutOfOrder).
		Where("id NOT IN (?)", overlappingRoomIDs(db, checkIn, checkOut))
	if roomTypeID := c.QueryParam("roomTypeId"); roomTypeID != "" {
		query = query.Where("room_type_id = ?", roomTypeID)
	}

	type row struct {
		RoomTypeID uint  `json:"room_type_id"`
		Available  int64 `json:"available"`
	}
	var rows []row
	if err := query.Select("room_type_id, count(*) as available").Group("room_type_id").Scan(&rows).Error; err != nil {
		log.Error("Failed to check availability", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to check availability"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"check_in":   checkIn.Format("2006-01-02"),
		"check_out":  checkOut.Format("2006-01-02"),
		"room_types": rows,
	})
}

// overlappingRoomIDs builds a subquery selecting the room IDs held by any
// CONFIRMED or CHECKED_IN booking overlapping [checkIn, checkOut):
// existing.checkIn < new.checkOut && existing.checkOut > new.checkIn
func overlappingRoomIDs(tx *gorm.DB, checkIn, checkOut time.Time) *gorm.DB {
	return tx.Model(&model.BookingRoom{}).
		Select("booking_rooms.room_id").
		Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
		Where("bookings.status IN ?", []string{model.BookingStatusConfirmed, model.BookingStatusCheckedIn}).
		Where("bookings.check_in_date < ? AND bookings.check_out_date > ?", checkOut, checkIn)
}

// assignRoom finds a free room for one booking line. An explicitly requested
// room is re-checked with the same overlap predicate; otherwise the first
// free room of the type is taken.
func assignRoom(tx *gorm.DB, line BookingRoomRequest, checkIn, checkOut time.Time, taken map[uint]bool) (*model.Room, error) {
	if line.RoomID != 0 {
		var room model.Room
		if result := tx.First(&room, line.RoomID); result.Error != nil {
			return nil, errNoRoomAvailable
		}
		if taken[room.ID] || room.Status == model.RoomStatusOutOfOrder {
			return nil, errNoRoomAvailable
		}

		var count int64
		err := overlappingRoomIDs(tx, checkIn, checkOut).
			Where("booking_rooms.room_id = ?", room.ID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, errNoRoomAvailable
		}
		return &room, nil
	}

	if line.RoomTypeID == 0 {
		return nil, errNoRoomAvailable
	}

	query := tx.
		Where("room_type_id = ?", line.RoomTypeID).
		Where("status != ?", model.RoomStatusOutOfOrder).
		Where("id NOT IN (?)", overlappingRoomIDs(tx, checkIn, checkOut))
	if len(taken) > 0 {
		ids := make([]uint, 0, len(taken))
		for id := range taken {
			ids = append(ids, id)
		}
		query = query.Where("id NOT IN ?", ids)
	}

	var room model.Room
	if result := query.Order("number").First(&room); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errNoRoomAvailable
		}
		return nil, result.Error
	}
	return &room, nil
}

// parseDate accepts a bare date or an RFC3339 timestamp
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	if d, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, value)
}

// sameDay reports whether two timestamps fall on the same calendar day
func sameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}

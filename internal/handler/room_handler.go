package handler

import (
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

// RoomTypeRequest defines the structure for room type creation/update
type RoomTypeRequest struct {
	Name      string  `json:"name"`
	Capacity  int     `json:"capacity"`
	BaseRate  float64 `json:"baseRate"`
	Amenities string  `json:"amenities"`
}

// RoomRequest defines the structure for room creation/update
type RoomRequest struct {
	Number     string `json:"number"`
	Floor      int    `json:"floor"`
	RoomTypeID uint   `json:"roomTypeId"`
	Note       string `json:"note"`
}

// ListRoomTypes handles retrieving all room types
func ListRoomTypes(c echo.Context) error {
	log := logger.FromContext(c)

	var types []model.RoomType
	if result := database.GetDB().Order("id").Find(&types); result.Error != nil {
		log.Error("Failed to list room types", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve room types"})
	}

	return c.JSON(http.StatusOK, types)
}

// CreateRoomType handles creating a new room type
func CreateRoomType(c echo.Context) error {
	log := logger.FromContext(c)

	var req RoomTypeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" || req.BaseRate <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and a positive baseRate are required"})
	}

	roomType := model.RoomType{
		Name:      req.Name,
		Capacity:  req.Capacity,
		BaseRate:  req.BaseRate,
		Amenities: req.Amenities,
	}
	if roomType.Capacity == 0 {
		roomType.Capacity = 2
	}

	if result := database.GetDB().Create(&roomType); result.Error != nil {
		log.Error("Failed to create room type", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create room type"})
	}

	log.Info("Room type created", zap.Uint("room_type_id", roomType.ID), zap.String("name", roomType.Name))
	return c.JSON(http.StatusCreated, roomType)
}

// UpdateRoomType handles updating a room type
func UpdateRoomType(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req RoomTypeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var roomType model.RoomType
	if result := database.GetDB().First(&roomType, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Room type not found"})
	}

	if req.Name != "" {
		roomType.Name = req.Name
	}
	if req.Capacity > 0 {
		roomType.Capacity = req.Capacity
	}
	if req.BaseRate > 0 {
		roomType.BaseRate = req.BaseRate
	}
	if req.Amenities != "" {
		roomType.Amenities = req.Amenities
	}

	if result := database.GetDB().Save(&roomType); result.Error != nil {
		log.Error("Failed to update room type", zap.String("room_type_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update room type"})
	}

	return c.JSON(http.StatusOK, roomType)
}

// DeleteRoomType handles removing a room type (soft delete)
func DeleteRoomType(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	// A type still assigned to rooms cannot be removed
	var roomCount int64
	database.GetDB().Model(&model.Room{}).Where("room_type_id = ?", id).Count(&roomCount)
	if roomCount > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room type is still assigned to rooms"})
	}

	result := database.GetDB().Delete(&model.RoomType{}, id)
	if result.Error != nil {
		log.Error("Failed to delete room type", zap.String("room_type_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete room type"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Room type not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Room type deleted successfully"})
}

// ListRooms handles retrieving all rooms. The stored physical status of a
// vacant room is overridden to RESERVED in the response when a CONFIRMED
// booking starts today; the override is never persisted.
func ListRooms(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB().Preload("RoomType")

	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if floor := c.QueryParam("floor"); floor != "" {
		query = query.Where("floor = ?", floor)
	}

	var rooms []model.Room
	if result := query.Order("number").Find(&rooms); result.Error != nil {
		log.Error("Failed to list rooms", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve rooms"})
	}

	reserved, err := roomsReservedToday(database.GetDB())
	if err != nil {
		log.Error("Failed to derive reserved rooms", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve rooms"})
	}

	for i := range rooms {
		if reserved[rooms[i].ID] && isVacantStatus(rooms[i].Status) {
			rooms[i].Status = model.RoomStatusReserved
		}
	}

	return c.JSON(http.StatusOK, rooms)
}

// GetRoom handles retrieving a single room by ID
func GetRoom(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var room model.Room
	if result := database.GetDB().Preload("RoomType").First(&room, id); result.Error != nil {
		log.Warn("Room not found", zap.String("room_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Room not found"})
	}

	reserved, err := roomsReservedToday(database.GetDB())
	if err == nil && reserved[room.ID] && isVacantStatus(room.Status) {
		room.Status = model.RoomStatusReserved
	}

	return c.JSON(http.StatusOK, room)
}

// CreateRoom handles adding a new physical room
func CreateRoom(c echo.Context) error {
	log := logger.FromContext(c)

	var req RoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Number == "" || req.RoomTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and roomTypeId are required"})
	}

	// The referenced room type must exist
	var roomType model.RoomType
	if result := database.GetDB().First(&roomType, req.RoomTypeID); result.Error != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room type not found"})
	}

	var count int64
	database.GetDB().Model(&model.Room{}).Where("number = ?", req.Number).Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists"})
	}

	room := model.Room{
		Number:     req.Number,
		Floor:      req.Floor,
		RoomTypeID: req.RoomTypeID,
		Status:     model.RoomStatusVacantClean,
		Note:       req.Note,
	}

	if result := database.GetDB().Create(&room); result.Error != nil {
		log.Error("Failed to create room", zap.String("number", req.Number), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create room"})
	}

	log.Info("Room created", zap.Uint("room_id", room.ID), zap.String("number", room.Number))
	return c.JSON(http.StatusCreated, room)
}

// UpdateRoom handles updating a room's fixed attributes
func UpdateRoom(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req RoomRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var room model.Room
	if result := database.GetDB().First(&room, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Room not found"})
	}

	if req.Number != "" && req.Number != room.Number {
		var count int64
		database.GetDB().Model(&model.Room{}).Where("number = ? AND id != ?", req.Number, room.ID).Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists"})
		}
		room.Number = req.Number
	}
	if req.Floor != 0 {
		room.Floor = req.Floor
	}
	if req.RoomTypeID != 0 {
		room.RoomTypeID = req.RoomTypeID
	}
	if req.Note != "" {
		room.Note = req.Note
	}

	if result := database.GetDB().Save(&room); result.Error != nil {
		log.Error("Failed to update room", zap.String("room_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update room"})
	}

	return c.JSON(http.StatusOK, room)
}

// DeleteRoom handles removing a room (soft delete)
func DeleteRoom(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Room{}, id)
	if result.Error != nil {
		log.Error("Failed to delete room", zap.String("room_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete room"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Room not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Room deleted successfully"})
}

// roomsReservedToday returns the rooms held by a CONFIRMED booking whose
// check-in date falls on the current day
func roomsReservedToday(db *gorm.DB) (map[uint]bool, error) {
	dayStart, dayEnd := todayRange()

	var roomIDs []uint
	err := db.Model(&model.BookingRoom{}).
		Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
		Where("bookings.status = ?", model.BookingStatusConfirmed).
		Where("bookings.check_in_date >= ? AND bookings.check_in_date < ?", dayStart, dayEnd).
		Pluck("booking_rooms.room_id", &roomIDs).Error
	if err != nil {
		return nil, err
	}

	reserved := make(map[uint]bool, len(roomIDs))
	for _, id := range roomIDs {
		reserved[id] = true
	}
	return reserved, nil
}

// isVacantStatus reports whether a stored status may be visually overridden
// to RESERVED. Occupied and out-of-order rooms are never masked.
func isVacantStatus(status string) bool {
	switch status {
	case model.RoomStatusVacantClean, model.RoomStatusVacantDirty,
		model.RoomStatusCleaning, model.RoomStatusInspecting:
		return true
	}
	return false
}

// todayRange returns the half-open interval covering the current day
func todayRange() (time.Time, time.Time) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dayStart, dayStart.AddDate(0, 0, 1)
}

// UpdateRoomStatusMetrics refreshes the per-status room gauge
func UpdateRoomStatusMetrics(db *gorm.DB) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := db.Model(&model.Room{}).Select("status, count(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return
	}
	for _, r := range rows {
		prometheus.RoomStatusGauge.WithLabelValues(r.Status).Set(float64(r.Count))
	}
}

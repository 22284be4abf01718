package handler

import (
	"net/http"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/database"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// housekeeping transitions allowed per current status
var housekeepingTransitions = map[string][]string{
	model.RoomStatusVacantDirty: {model.RoomStatusCleaning},
	model.RoomStatusCleaning:    {model.RoomStatusInspecting, model.RoomStatusVacantClean},
	model.RoomStatusInspecting:  {model.RoomStatusVacantClean, model.RoomStatusCleaning},
	model.RoomStatusVacantClean: {model.RoomStatusVacantDirty},
}

// ListHousekeepingRooms handles the housekeeping board: every room with its
// physical status, optionally filtered
func ListHousekeepingRooms(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB().Preload("RoomType")
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var rooms []model.Room
	if result := query.Order("number").Find(&rooms); result.Error != nil {
		log.Error("Failed to list housekeeping rooms", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve rooms"})
	}

	return c.JSON(http.StatusOK, rooms)
}

// UpdateHousekeepingStatus handles moving a room through the cleaning cycle
// (VACANT_DIRTY -> CLEANING -> INSPECTING -> VACANT_CLEAN)
func UpdateHousekeepingStatus(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var room model.Room
	if result := database.GetDB().First(&room, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Room not found"})
	}

	if room.Status == model.RoomStatusOccupied || room.Status == model.RoomStatusOutOfOrder {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room is not available for housekeeping"})
	}

	allowed := false
	for _, next := range housekeepingTransitions[room.Status] {
		if next == req.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		log.Warn("Invalid housekeeping transition",
			zap.String("room_id", id),
			zap.String("from", room.Status),
			zap.String("to", req.Status))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status transition"})
	}

	room.Status = req.Status
	if result := database.GetDB().Save(&room); result.Error != nil {
		log.Error("Failed to update room status", zap.String("room_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update room status"})
	}

	log.Info("Housekeeping status updated",
		zap.String("room_id", id),
		zap.String("status", room.Status))
	UpdateRoomStatusMetrics(database.GetDB())
	return c.JSON(http.StatusOK, room)
}

// SetRoomMaintenance handles pulling a room out of order or returning it to
// service
func SetRoomMaintenance(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req struct {
		OutOfOrder bool   `json:"outOfOrder"`
		Note       string `json:"note"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var room model.Room
	if result := database.GetDB().First(&room, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Room not found"})
	}

	if req.OutOfOrder {
		if room.Status == model.RoomStatusOccupied {
			return c.JSON(http.StatusConflict, echo.Map{"error": "occupied room cannot be taken out of order"})
		}
		room.Status = model.RoomStatusOutOfOrder
	} else {
		if room.Status != model.RoomStatusOutOfOrder {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "room is not out of order"})
		}
		// A room returning from maintenance needs cleaning first
		room.Status = model.RoomStatusVacantDirty
	}
	if req.Note != "" {
		room.Note = req.Note
	}

	if result := database.GetDB().Save(&room); result.Error != nil {
		log.Error("Failed to update maintenance status", zap.String("room_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update room status"})
	}

	log.Info("Maintenance status updated",
		zap.String("room_id", id),
		zap.String("status", room.Status))
	UpdateRoomStatusMetrics(database.GetDB())
	return c.JSON(http.StatusOK, room)
}

package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomValidation(t *testing.T) {
	db := setupTestDB(t)
	roomType, _ := createTestRoom(t, db, "101", 1500)

	// Duplicate room number
	c, rec := newTestContext(t, http.MethodPost, "/api/rooms", map[string]interface{}{
		"number":     "101",
		"floor":      1,
		"roomTypeId": roomType.ID,
	})
	require.NoError(t, CreateRoom(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Unknown room type
	c, rec = newTestContext(t, http.MethodPost, "/api/rooms", map[string]interface{}{
		"number":     "102",
		"floor":      1,
		"roomTypeId": 999,
	})
	require.NoError(t, CreateRoom(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newTestContext(t, http.MethodPost, "/api/rooms", map[string]interface{}{
		"number":     "102",
		"floor":      1,
		"roomTypeId": roomType.ID,
	})
	require.NoError(t, CreateRoom(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var room model.Room
	decodeBody(t, rec, &room)
	assert.Equal(t, model.RoomStatusVacantClean, room.Status)
}

func TestListRoomsDerivesReservedStatus(t *testing.T) {
	db := setupTestDB(t)
	_, room := createTestRoom(t, db, "101", 1500)
	guest := createTestGuest(t, db, "Alice")

	// Booking arriving today marks its vacant room RESERVED on the board
	c, rec := newTestContext(t, http.MethodPost, "/api/bookings", map[string]interface{}{
		"primaryGuestId": guest.ID,
		"checkInDate":    dateString(0),
		"checkOutDate":   dateString(1),
		"rooms":          []map[string]interface{}{{"roomId": room.ID}},
	})
	require.NoError(t, CreateBooking(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newTestContext(t, http.MethodGet, "/api/rooms", nil)
	require.NoError(t, ListRooms(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var rooms []model.Room
	decodeBody(t, rec, &rooms)
	require.Len(t, rooms, 1)
	assert.Equal(t, model.RoomStatusReserved, rooms[0].Status)
}

func TestDeleteRoomTypeBlockedWhileAssigned(t *testing.T) {
	db := setupTestDB(t)
	roomType, room := createTestRoom(t, db, "101", 1500)

	c, rec := newTestContext(t, http.MethodDelete, fmt.Sprintf("/api/room-types/%d", roomType.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", roomType.ID))
	require.NoError(t, DeleteRoomType(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	require.NoError(t, db.Unscoped().Delete(&room).Error)

	c, rec = newTestContext(t, http.MethodDelete, fmt.Sprintf("/api/room-types/%d", roomType.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", roomType.ID))
	require.NoError(t, DeleteRoomType(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHousekeepingCycle(t *testing.T) {
	db := setupTestDB(t)
	_, room := createTestRoom(t, db, "101", 1500)
	require.NoError(t, db.Model(&room).Update("status", model.RoomStatusVacantDirty).Error)

	setStatus := func(status string) *httptest.ResponseRecorder {
		c, rec := newTestContext(t, http.MethodPatch, fmt.Sprintf("/api/housekeeping/rooms/%d", room.ID),
			map[string]interface{}{"status": status})
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprintf("%d", room.ID))
		require.NoError(t, UpdateHousekeepingStatus(c))
		return rec
	}

	// Skipping straight to VACANT_CLEAN from dirty is not a valid transition
	rec := setStatus(model.RoomStatusVacantClean)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = setStatus(model.RoomStatusCleaning)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = setStatus(model.RoomStatusInspecting)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = setStatus(model.RoomStatusVacantClean)
	require.Equal(t, http.StatusOK, rec.Code)

	var stored model.Room
	require.NoError(t, db.First(&stored, room.ID).Error)
	assert.Equal(t, model.RoomStatusVacantClean, stored.Status)
}

func TestRoomMaintenanceToggle(t *testing.T) {
	db := setupTestDB(t)
	_, room := createTestRoom(t, db, "101", 1500)

	c, rec := newTestContext(t, http.MethodPatch, fmt.Sprintf("/api/maintenance/rooms/%d", room.ID),
		map[string]interface{}{"outOfOrder": true, "note": "broken aircon"})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", room.ID))
	require.NoError(t, SetRoomMaintenance(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored model.Room
	require.NoError(t, db.First(&stored, room.ID).Error)
	assert.Equal(t, model.RoomStatusOutOfOrder, stored.Status)
	assert.Equal(t, "broken aircon", stored.Note)

	// Returning from maintenance lands in VACANT_DIRTY, not VACANT_CLEAN
	c, rec = newTestContext(t, http.MethodPatch, fmt.Sprintf("/api/maintenance/rooms/%d", room.ID),
		map[string]interface{}{"outOfOrder": false})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", room.ID))
	require.NoError(t, SetRoomMaintenance(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, db.First(&stored, room.ID).Error)
	assert.Equal(t, model.RoomStatusVacantDirty, stored.Status)
}

func TestMaintenanceRejectedForOccupiedRoom(t *testing.T) {
	db := setupTestDB(t)
	_, room := createTestRoom(t, db, "101", 1500)
	require.NoError(t, db.Model(&room).Update("status", model.RoomStatusOccupied).Error)

	c, rec := newTestContext(t, http.MethodPatch, fmt.Sprintf("/api/maintenance/rooms/%d", room.ID),
		map[string]interface{}{"outOfOrder": true})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", room.ID))
	require.NoError(t, SetRoomMaintenance(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

package handler

import (
	"net/http"
	"testing"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevenueReport(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reception1", model.RoleReception)
	shift := openTestShift(t, user.ID, 0)

	require.NoError(t, db.Create(&model.PosOrder{
		OrderNumber: "ORD-TEST-0001",
		ShiftID:     shift.ID,
		Total:       50,
		Status:      model.OrderStatusCompleted,
	}).Error)
	require.NoError(t, db.Create(&model.PosOrder{
		OrderNumber: "ORD-TEST-0002",
		ShiftID:     shift.ID,
		Total:       999,
		Status:      model.OrderStatusCancelled,
	}).Error)
	invoice := model.Invoice{
		InvoiceNumber: "INV-TEST-0001",
		Total:         3000,
		Status:        model.InvoiceStatusPaid,
		Payments:      []model.Payment{{Method: model.MethodCash, Amount: 3000, ShiftID: shift.ID}},
	}
	require.NoError(t, db.Create(&invoice).Error)

	c, rec := newTestContext(t, http.MethodGet, "/api/reports?type=revenue", nil)
	require.NoError(t, Reports(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		RoomRevenue float64 `json:"room_revenue"`
		PosRevenue  float64 `json:"pos_revenue"`
		Total       float64 `json:"total"`
	}
	decodeBody(t, rec, &report)
	assert.Equal(t, 3000.0, report.RoomRevenue)
	// Cancelled orders never count toward revenue
	assert.Equal(t, 50.0, report.PosRevenue)
	assert.Equal(t, 3050.0, report.Total)
}

func TestOccupancyReport(t *testing.T) {
	db := setupTestDB(t)
	roomType, _ := createTestRoom(t, db, "101", 1500)
	for _, r := range []model.Room{
		{Number: "102", Floor: 1, RoomTypeID: roomType.ID, Status: model.RoomStatusOccupied},
		{Number: "103", Floor: 1, RoomTypeID: roomType.ID, Status: model.RoomStatusOccupied},
		{Number: "104", Floor: 1, RoomTypeID: roomType.ID, Status: model.RoomStatusOutOfOrder},
	} {
		require.NoError(t, db.Create(&r).Error)
	}

	c, rec := newTestContext(t, http.MethodGet, "/api/reports?type=occupancy", nil)
	require.NoError(t, Reports(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		TotalRooms    int64   `json:"total_rooms"`
		Occupied      int64   `json:"occupied"`
		OutOfOrder    int64   `json:"out_of_order"`
		OccupancyRate float64 `json:"occupancy_rate"`
	}
	decodeBody(t, rec, &report)
	assert.EqualValues(t, 4, report.TotalRooms)
	assert.EqualValues(t, 2, report.Occupied)
	assert.EqualValues(t, 1, report.OutOfOrder)
	// 2 occupied of 3 sellable
	assert.InDelta(t, 2.0/3.0, report.OccupancyRate, 0.001)
}

func TestOutstandingReport(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&model.Invoice{
		InvoiceNumber: "INV-TEST-0001",
		Total:         1000,
		Status:        model.InvoiceStatusPartial,
		Payments:      []model.Payment{{Method: model.MethodCash, Amount: 400, ShiftID: 1}},
	}).Error)
	require.NoError(t, db.Create(&model.Invoice{
		InvoiceNumber: "INV-TEST-0002",
		Total:         500,
		Status:        model.InvoiceStatusUnpaid,
	}).Error)
	require.NoError(t, db.Create(&model.Invoice{
		InvoiceNumber: "INV-TEST-0003",
		Total:         700,
		Status:        model.InvoiceStatusPaid,
		Payments:      []model.Payment{{Method: model.MethodCash, Amount: 700, ShiftID: 1}},
	}).Error)

	c, rec := newTestContext(t, http.MethodGet, "/api/reports?type=outstanding", nil)
	require.NoError(t, Reports(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		Invoices []struct {
			InvoiceNumber string  `json:"invoice_number"`
			Balance       float64 `json:"balance"`
		} `json:"invoices"`
		TotalOutstanding float64 `json:"total_outstanding"`
	}
	decodeBody(t, rec, &report)
	require.Len(t, report.Invoices, 2)
	assert.Equal(t, 1100.0, report.TotalOutstanding)
}

func TestArrivalsAndDeparturesReports(t *testing.T) {
	db := setupTestDB(t)
	_, room := createTestRoom(t, db, "101", 1500)
	guest := createTestGuest(t, db, "Alice")

	// Arrives today
	c, rec := newTestContext(t, http.MethodPost, "/api/bookings", map[string]interface{}{
		"primaryGuestId": guest.ID,
		"checkInDate":    dateString(0),
		"checkOutDate":   dateString(2),
		"rooms":          []map[string]interface{}{{"roomId": room.ID}},
	})
	require.NoError(t, CreateBooking(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = newTestContext(t, http.MethodGet, "/api/reports?type=arrivals", nil)
	require.NoError(t, Reports(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var arrivals struct {
		Count int `json:"count"`
	}
	decodeBody(t, rec, &arrivals)
	assert.Equal(t, 1, arrivals.Count)

	// Nobody is in house yet, so no departures
	c, rec = newTestContext(t, http.MethodGet, "/api/reports?type=departures&from="+dateString(0)+"&to="+dateString(3), nil)
	require.NoError(t, Reports(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var departures struct {
		Count int `json:"count"`
	}
	decodeBody(t, rec, &departures)
	assert.Equal(t, 0, departures.Count)
}

func TestReportsRejectsUnknownType(t *testing.T) {
	setupTestDB(t)

	c, rec := newTestContext(t, http.MethodGet, "/api/reports?type=nonsense", nil)
	require.NoError(t, Reports(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newTestContext(t, http.MethodGet, "/api/reports", nil)
	require.NoError(t, Reports(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/cache"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/database"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Reports dispatches the read-only aggregations behind
// GET /api/reports?type=...; rendered payloads are cached for a short TTL
func Reports(c echo.Context) error {
	log := logger.FromContext(c)

	reportType := c.QueryParam("type")
	if reportType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type is required"})
	}

	from, to := reportRange(c)

	// Serve from cache when a fresh copy exists
	key := fmt.Sprintf("report:%s:%s:%s", reportType, from.Format("2006-01-02"), to.Format("2006-01-02"))
	ctx := c.Request().Context()
	if blob, hit, err := cache.GetCache().Get(ctx, key); err == nil && hit {
		return c.JSONBlob(http.StatusOK, blob)
	}

	var payload interface{}
	var err error
	switch reportType {
	case "revenue":
		payload, err = revenueReport(from, to)
	case "occupancy":
		payload, err = occupancyReport()
	case "outstanding":
		payload, err = outstandingReport()
	case "arrivals":
		payload, err = arrivalsReport(from, to)
	case "departures":
		payload, err = departuresReport(from, to)
	case "room_status":
		payload, err = roomStatusReport()
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown report type"})
	}

	if err != nil {
		log.Error("Failed to build report", zap.String("type", reportType), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to build report"})
	}

	if blob, err := json.Marshal(payload); err == nil {
		if err := cache.GetCache().Set(ctx, key, blob, cache.ReportTTL()); err != nil {
			log.Warn("Failed to cache report", zap.String("type", reportType), zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, payload)
}

// reportRange derives the [from, to) window; default is the current day
func reportRange(c echo.Context) (time.Time, time.Time) {
	dayStart, dayEnd := todayRange()
	from, to := dayStart, dayEnd
	if v := c.QueryParam("from"); v != "" {
		if d, err := parseDate(v); err == nil {
			from = d
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if d, err := parseDate(v); err == nil {
			to = d.AddDate(0, 0, 1)
		}
	}
	return from, to
}

// revenueReport sums room payments and POS sales recorded in the window
func revenueReport(from, to time.Time) (interface{}, error) {
	db := database.GetDB()

	var room struct{ Total float64 }
	err := db.Model(&model.Payment{}).
		Select("coalesce(sum(amount), 0) as total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&room).Error
	if err != nil {
		return nil, err
	}

	var pos struct{ Total float64 }
	err = db.Model(&model.PosOrder{}).
		Select("coalesce(sum(total), 0) as total").
		Where("status = ?", model.OrderStatusCompleted).
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&pos).Error
	if err != nil {
		return nil, err
	}

	return echo.Map{
		"from":         from.Format("2006-01-02"),
		"to":           to.AddDate(0, 0, -1).Format("2006-01-02"),
		"room_revenue": room.Total,
		"pos_revenue":  pos.Total,
		"total":        room.Total + pos.Total,
	}, nil
}

// occupancyReport reports occupied rooms against sellable rooms right now
func occupancyReport() (interface{}, error) {
	db := database.GetDB()

	var total, occupied, outOfOrder int64
	if err := db.Model(&model.Room{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Room{}).Where("status = ?", model.RoomStatusOccupied).Count(&occupied).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Room{}).Where("status = ?", model.RoomStatusOutOfOrder).Count(&outOfOrder).Error; err != nil {
		return nil, err
	}

	sellable := total - outOfOrder
	rate := 0.0
	if sellable > 0 {
		rate = float64(occupied) / float64(sellable)
	}

	return echo.Map{
		"total_rooms":    total,
		"occupied":       occupied,
		"out_of_order":   outOfOrder,
		"occupancy_rate": rate,
	}, nil
}

// outstandingReport lists invoices not yet fully paid with their balance
func outstandingReport() (interface{}, error) {
	var invoices []model.Invoice
	err := database.GetDB().Preload("Payments").
		Where("status IN ?", []string{model.InvoiceStatusUnpaid, model.InvoiceStatusPartial}).
		Order("id").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	type row struct {
		InvoiceNumber string  `json:"invoice_number"`
		Total         float64 `json:"total"`
		Paid          float64 `json:"paid"`
		Balance       float64 `json:"balance"`
	}
	rows := make([]row, 0, len(invoices))
	var balance float64
	for _, inv := range invoices {
		paid := inv.PaidAmount()
		rows = append(rows, row{
			InvoiceNumber: inv.InvoiceNumber,
			Total:         inv.Total,
			Paid:          paid,
			Balance:       inv.Total - paid,
		})
		balance += inv.Total - paid
	}

	return echo.Map{
		"invoices":          rows,
		"total_outstanding": balance,
	}, nil
}

// arrivalsReport lists CONFIRMED bookings arriving in the window
func arrivalsReport(from, to time.Time) (interface{}, error) {
	var bookings []model.Booking
	err := database.GetDB().
		Preload("Guest").Preload("Rooms").Preload("Rooms.Room").
		Where("status = ?", model.BookingStatusConfirmed).
		Where("check_in_date >= ? AND check_in_date < ?", from, to).
		Order("check_in_date, id").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return echo.Map{"arrivals": bookings, "count": len(bookings)}, nil
}

// departuresReport lists in-house bookings departing in the window
func departuresReport(from, to time.Time) (interface{}, error) {
	var bookings []model.Booking
	err := database.GetDB().
		Preload("Guest").Preload("Rooms").Preload("Rooms.Room").
		Where("status = ?", model.BookingStatusCheckedIn).
		Where("check_out_date >= ? AND check_out_date < ?", from, to).
		Order("check_out_date, id").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return echo.Map{"departures": bookings, "count": len(bookings)}, nil
}

// roomStatusReport counts rooms per physical status
func roomStatusReport() (interface{}, error) {
	type row struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var rows []row
	err := database.GetDB().Model(&model.Room{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return echo.Map{"rooms": rows}, nil
}

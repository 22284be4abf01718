package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/middleware"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/database"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/logger"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ShiftSummary is the live reconciliation view of one shift, recomputed on
// every read
type ShiftSummary struct {
	Shift             model.Shift        `json:"shift"`
	PosSales          map[string]float64 `json:"pos_sales"`
	RoomPayments      map[string]float64 `json:"room_payments"`
	DepositsReceived  map[string]float64 `json:"deposits_received"`
	DepositsRefunded  map[string]float64 `json:"deposits_refunded"`
	CashIncome        float64            `json:"cash_income"`
	CashExpense       float64            `json:"cash_expense"`
	TotalSales        float64            `json:"total_sales"`
	ExpectedCash      float64            `json:"expected_cash"`
	TransactionsCount int64              `json:"transactions_count"`
}

// openShift resolves the single OPEN shift. The lookup is by status, not by
// operator: at most one shift is open at a time across the property.
func openShift(tx *gorm.DB) (*model.Shift, error) {
	var shift model.Shift
	result := tx.Where("status = ?", model.ShiftStatusOpen).First(&shift)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errNoOpenShift
		}
		return nil, result.Error
	}
	return &shift, nil
}

// shiftSalesTotals sums the COMPLETED POS orders and the room payments
// attributed to a shift
func shiftSalesTotals(tx *gorm.DB, shiftID uint) (posTotal, roomTotal float64, err error) {
	var pos struct{ Total float64 }
	err = tx.Model(&model.PosOrder{}).
		Select("coalesce(sum(total), 0) as total").
		Where("shift_id = ? AND status = ?", shiftID, model.OrderStatusCompleted).
		Scan(&pos).Error
	if err != nil {
		return 0, 0, err
	}

	var room struct{ Total float64 }
	err = tx.Model(&model.Payment{}).
		Select("coalesce(sum(amount), 0) as total").
		Where("shift_id = ?", shiftID).
		Scan(&room).Error
	if err != nil {
		return 0, 0, err
	}

	return pos.Total, room.Total, nil
}

// closeShiftTx snapshots a shift's totals and marks it CLOSED inside the
// caller's transaction. A negative endCash means "not counted": the start
// cash is carried over unchanged.
func closeShiftTx(tx *gorm.DB, shift *model.Shift, endCash float64) error {
	posTotal, roomTotal, err := shiftSalesTotals(tx, shift.ID)
	if err != nil {
		return err
	}

	if endCash < 0 {
		endCash = shift.StartCash
	}

	now := time.Now()
	shift.TotalSales = posTotal + roomTotal
	shift.EndCash = endCash
	shift.Status = model.ShiftStatusClosed
	shift.ClosedAt = &now
	return tx.Save(shift).Error
}

// OpenShift opens a shift for the authenticated operator. Any shift still
// OPEN is auto-closed first as a handover safety net, never an error.
func OpenShift(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req struct {
		StartCash float64 `json:"startCash"`
		Terminal  string  `json:"terminal"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.StartCash < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startCash must not be negative"})
	}

	terminal := req.Terminal
	if terminal == "" {
		terminal = "front-desk"
	}

	var shift model.Shift
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		// Auto-close a shift left open by the previous operator
		prior, err := openShift(tx)
		if err != nil && !errors.Is(err, errNoOpenShift) {
			return err
		}
		if prior != nil {
			if err := closeShiftTx(tx, prior, -1); err != nil {
				return err
			}
			log.Info("Auto-closed prior open shift",
				zap.Uint("shift_id", prior.ID),
				zap.Float64("total_sales", prior.TotalSales))
		}

		shift = model.Shift{
			UserID:    userID,
			Terminal:  terminal,
			StartCash: req.StartCash,
			Status:    model.ShiftStatusOpen,
			OpenedAt:  time.Now(),
		}
		return tx.Create(&shift).Error
	})

	if err != nil {
		log.Error("Failed to open shift", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to open shift"})
	}

	prometheus.RecordShiftOperation("open")
	log.Info("Shift opened",
		zap.Uint("shift_id", shift.ID),
		zap.Uint("user_id", userID),
		zap.Float64("start_cash", shift.StartCash))
	return c.JSON(http.StatusCreated, shift)
}

// CloseShift explicitly closes the open shift with a counted end cash
func CloseShift(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		EndCash float64 `json:"endCash"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var shift *model.Shift
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var err error
		shift, err = openShift(tx)
		if err != nil {
			return err
		}
		return closeShiftTx(tx, shift, req.EndCash)
	})

	if err != nil {
		if errors.Is(err, errNoOpenShift) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no open shift"})
		}
		log.Error("Failed to close shift", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to close shift"})
	}

	prometheus.RecordShiftOperation("close")
	log.Info("Shift closed",
		zap.Uint("shift_id", shift.ID),
		zap.Float64("total_sales", shift.TotalSales),
		zap.Float64("end_cash", shift.EndCash))
	return c.JSON(http.StatusOK, shift)
}

// CurrentShift returns the open shift, or 404 when none is open
func CurrentShift(c echo.Context) error {
	log := logger.FromContext(c)

	shift, err := openShift(database.GetDB())
	if err != nil {
		if errors.Is(err, errNoOpenShift) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no open shift"})
		}
		log.Error("Failed to look up open shift", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve shift"})
	}

	return c.JSON(http.StatusOK, shift)
}

// ListShifts returns shift history. Non-admin operators only see their own
// shifts.
func ListShifts(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB().Preload("User").Order("opened_at desc")

	role, _ := middleware.RoleFromContext(c)
	if role != model.RoleAdmin {
		userID, ok := middleware.UserIDFromContext(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
		}
		query = query.Where("user_id = ?", userID)
	}

	var shifts []model.Shift
	if result := query.Find(&shifts); result.Error != nil {
		log.Error("Failed to list shifts", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve shifts"})
	}

	return c.JSON(http.StatusOK, shifts)
}

// GetShiftSummary recomputes a shift's per-method breakdowns and its expected
// cash drawer balance on every read:
// expected = startCash + cashSales(pos+room) + cashIncome - cashExpense
func GetShiftSummary(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var shift model.Shift
	if result := database.GetDB().Preload("User").First(&shift, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Shift not found"})
	}

	db := database.GetDB()
	summary := ShiftSummary{Shift: shift}
	var err error

	summary.PosSales, err = sumByMethod(db.Model(&model.PosOrder{}).
		Select("payment_method as method, coalesce(sum(total), 0) as amount").
		Where("shift_id = ? AND status = ?", shift.ID, model.OrderStatusCompleted).
		Group("payment_method"))
	if err == nil {
		summary.RoomPayments, err = sumByMethod(db.Model(&model.Payment{}).
			Select("method, coalesce(sum(amount), 0) as amount").
			Where("shift_id = ?", shift.ID).
			Group("method"))
	}
	if err == nil {
		summary.DepositsReceived, err = sumByMethod(db.Model(&model.Deposit{}).
			Select("method, coalesce(sum(amount), 0) as amount").
			Where("shift_id = ?", shift.ID).
			Group("method"))
	}
	if err == nil {
		summary.DepositsRefunded, err = sumByMethod(db.Model(&model.Deposit{}).
			Select("method, coalesce(sum(refunded_amount), 0) as amount").
			Where("refund_shift_id = ?", shift.ID).
			Group("method"))
	}
	if err != nil {
		log.Error("Failed to compute shift summary", zap.String("shift_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute shift summary"})
	}

	// Manual drawer entries
	type txnRow struct {
		Type   string
		Amount float64
	}
	var txns []txnRow
	err = db.Model(&model.CashTransaction{}).
		Select("type, coalesce(sum(amount), 0) as amount").
		Where("shift_id = ? AND method = ?", shift.ID, model.MethodCash).
		Group("type").
		Scan(&txns).Error
	if err != nil {
		log.Error("Failed to compute shift summary", zap.String("shift_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute shift summary"})
	}
	for _, t := range txns {
		switch t.Type {
		case model.CashTransactionIncome:
			summary.CashIncome = t.Amount
		case model.CashTransactionExpense:
			summary.CashExpense = t.Amount
		}
	}

	db.Model(&model.CashTransaction{}).Where("shift_id = ?", shift.ID).Count(&summary.TransactionsCount)

	for _, amount := range summary.PosSales {
		summary.TotalSales += amount
	}
	for _, amount := range summary.RoomPayments {
		summary.TotalSales += amount
	}

	cashSales := summary.PosSales[model.MethodCash] + summary.RoomPayments[model.MethodCash]
	summary.ExpectedCash = shift.StartCash + cashSales + summary.CashIncome - summary.CashExpense

	return c.JSON(http.StatusOK, summary)
}

// sumByMethod runs a grouped sum query and folds the rows into a
// method -> amount map
func sumByMethod(query *gorm.DB) (map[string]float64, error) {
	type row struct {
		Method string
		Amount float64
	}
	var rows []row
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]float64, len(rows))
	for _, r := range rows {
		result[r.Method] = r.Amount
	}
	return result, nil
}

package handler

import (
	"errors"
	"net/http"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/middleware"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/database"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CashTransactionRequest defines the structure for a manual drawer entry
type CashTransactionRequest struct {
	Type   string  `json:"type"`
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

// CreateCashTransaction records a manual income or expense against the open
// shift (petty cash, ad-hoc refunds, misc income)
func CreateCashTransaction(c echo.Context) error {
	log := logger.FromContext(c)

	var req CashTransactionRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Type != model.CashTransactionIncome && req.Type != model.CashTransactionExpense {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be INCOME or EXPENSE"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}

	method := req.Method
	if method == "" {
		method = model.MethodCash
	}
	userID, _ := middleware.UserIDFromContext(c)

	var txn model.CashTransaction
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		shift, err := openShift(tx)
		if err != nil {
			return err
		}

		txn = model.CashTransaction{
			ShiftID: shift.ID,
			UserID:  userID,
			Type:    req.Type,
			Method:  method,
			Amount:  req.Amount,
			Note:    req.Note,
		}
		return tx.Create(&txn).Error
	})

	if err != nil {
		if errors.Is(err, errNoOpenShift) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no open shift; open a shift before recording cash"})
		}
		log.Error("Failed to record cash transaction", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to record cash transaction"})
	}

	log.Info("Cash transaction recorded",
		zap.String("type", txn.Type),
		zap.Float64("amount", txn.Amount))
	return c.JSON(http.StatusCreated, txn)
}

// ListCashTransactions returns manual drawer entries. Admin sees every
// shift; other operators only entries from their own shifts.
func ListCashTransactions(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB().Order("id desc")
	if shiftID := c.QueryParam("shiftId"); shiftID != "" {
		query = query.Where("shift_id = ?", shiftID)
	}

	role, _ := middleware.RoleFromContext(c)
	if role != model.RoleAdmin {
		userID, ok := middleware.UserIDFromContext(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
		}
		query = query.Where("shift_id IN (?)",
			database.GetDB().Model(&model.Shift{}).Select("id").Where("user_id = ?", userID))
	}

	var txns []model.CashTransaction
	if result := query.Find(&txns); result.Error != nil {
		log.Error("Failed to list cash transactions", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve cash transactions"})
	}

	return c.JSON(http.StatusOK, txns)
}

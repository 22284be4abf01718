package handler

import (
	"errors"
	"net/http"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/middleware"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/database"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/logger"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errProductNotFound   = errors.New("product not found")
	errInsufficientStock = errors.New("insufficient stock")
)

// OrderItemRequest is one cart line: the price is passed by the terminal and
// snapshotted as-is, defaulting to the catalog price when omitted. An
// explicit zero is kept so complimentary lines can be rung.
type OrderItemRequest struct {
	ProductID uint     `json:"productId"`
	Qty       int      `json:"qty"`
	Price     *float64 `json:"price"`
}

// OrderRequest defines the structure for POS order creation
type OrderRequest struct {
	Items         []OrderItemRequest `json:"items"`
	PaymentMethod string             `json:"paymentMethod"`
}

// CreateOrder converts a cart into a completed POS order: sequential order
// number, snapshotted line items and stock decrement, all in one transaction
// attributed to the open shift
func CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)

	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one item is required"})
	}
	for _, item := range req.Items {
		if item.ProductID == 0 || item.Qty <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "each item needs a productId and a positive qty"})
		}
		if item.Price != nil && *item.Price < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "item price cannot be negative"})
		}
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = model.MethodCash
	}
	userID, _ := middleware.UserIDFromContext(c)

	var order model.PosOrder
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		shift, err := openShift(tx)
		if err != nil {
			return err
		}

		number, err := model.NextDocumentNumber(tx, "ORD", &model.PosOrder{})
		if err != nil {
			return err
		}

		order = model.PosOrder{
			OrderNumber:   number,
			ShiftID:       shift.ID,
			UserID:        userID,
			PaymentMethod: paymentMethod,
			Status:        model.OrderStatusCompleted,
		}

		var total float64
		for _, item := range req.Items {
			var product model.Product
			if result := tx.First(&product, item.ProductID); result.Error != nil {
				return errProductNotFound
			}
			if product.Stock < item.Qty {
				return errInsufficientStock
			}

			// Snapshot name and price at sale time
			price := product.Price
			if item.Price != nil {
				price = *item.Price
			}
			lineTotal := price * float64(item.Qty)
			order.Items = append(order.Items, model.PosOrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     price,
				Qty:       item.Qty,
				LineTotal: lineTotal,
			})
			total += lineTotal

			if err := tx.Model(&product).Update("stock", gorm.Expr("stock - ?", item.Qty)).Error; err != nil {
				return err
			}
		}

		order.Total = total
		return tx.Create(&order).Error
	})

	if err != nil {
		switch {
		case errors.Is(err, errNoOpenShift):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no open shift; open a shift before selling"})
		case errors.Is(err, errProductNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "product not found"})
		case errors.Is(err, errInsufficientStock):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient stock"})
		default:
			log.Error("Failed to create order", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create order"})
		}
	}

	prometheus.PosOrderCounter.Inc()
	prometheus.RecordRevenue("pos", order.Total)
	log.Info("POS order created",
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total),
		zap.Int("items", len(order.Items)))
	return c.JSON(http.StatusCreated, order)
}

// ListOrders handles retrieving POS orders, optionally scoped to one shift
func ListOrders(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB().Preload("Items").Order("id desc")
	if shiftID := c.QueryParam("shiftId"); shiftID != "" {
		query = query.Where("shift_id = ?", shiftID)
	}
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.PosOrder
	if result := query.Find(&orders); result.Error != nil {
		log.Error("Failed to list orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve orders"})
	}

	return c.JSON(http.StatusOK, orders)
}

// GetOrder handles retrieving a single POS order with its line items
func GetOrder(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var order model.PosOrder
	if result := database.GetDB().Preload("Items").First(&order, id); result.Error != nil {
		log.Warn("Order not found", zap.String("order_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}

	return c.JSON(http.StatusOK, order)
}

// CancelOrder voids a completed order and returns its items to stock
func CancelOrder(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var order model.PosOrder
	if result := database.GetDB().Preload("Items").First(&order, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}
	if order.Status != model.OrderStatusCompleted {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order is not completed"})
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if err := tx.Model(&model.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Qty)).Error; err != nil {
				return err
			}
		}
		return tx.Model(&order).Update("status", model.OrderStatusCancelled).Error
	})

	if err != nil {
		log.Error("Failed to cancel order", zap.String("order_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to cancel order"})
	}

	log.Info("POS order cancelled", zap.String("order_number", order.OrderNumber))
	return c.JSON(http.StatusOK, order)
}

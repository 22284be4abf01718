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
	errStayNotFound   = errors.New("stay not found")
	errStayCheckedOut = errors.New("stay already checked out")
	errInvoicePaid    = errors.New("invoice already paid")
)

// InvoicePaymentRequest is one settlement line on an invoice
type InvoicePaymentRequest struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// InvoiceRequest defines the structure for direct invoice generation
type InvoiceRequest struct {
	StayID        uint                    `json:"stayId"`
	Discount      float64                 `json:"discount"`
	ServiceCharge float64                 `json:"serviceCharge"`
	Payments      []InvoicePaymentRequest `json:"payments"`
}

// ListInvoices handles retrieving invoices with optional status filter
func ListInvoices(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB().Preload("Payments").Order("id desc")
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []model.Invoice
	if result := query.Find(&invoices); result.Error != nil {
		log.Error("Failed to list invoices", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve invoices"})
	}

	return c.JSON(http.StatusOK, invoices)
}

// GetInvoice handles retrieving a single invoice with its payments
func GetInvoice(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var invoice model.Invoice
	result := database.GetDB().Preload("Payments").Preload("Stay").First(&invoice, id)
	if result.Error != nil {
		log.Warn("Invoice not found", zap.String("invoice_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Invoice not found"})
	}

	return c.JSON(http.StatusOK, invoice)
}

// CreateInvoice generates an invoice for a stay directly, independent of the
// booking check-out transition: folio charges are totalled, discount and
// service charge applied, VAT derived tax-inclusively, the stay is closed,
// held deposits are applied and the rooms set VACANT_DIRTY
func CreateInvoice(c echo.Context) error {
	log := logger.FromContext(c)

	var req InvoiceRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.StayID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stayId is required"})
	}

	var invoice model.Invoice
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		shift, err := openShift(tx)
		if err != nil {
			return err
		}

		var stay model.Stay
		result := tx.Preload("ChargeItems").Preload("Deposits").First(&stay, req.StayID)
		if result.Error != nil {
			return errStayNotFound
		}
		if stay.Status == model.StayStatusCheckedOut {
			return errStayCheckedOut
		}

		var booking model.Booking
		if result := tx.Preload("Rooms").Preload("Rooms.Room").First(&booking, stay.BookingID); result.Error != nil {
			return result.Error
		}

		// Folio charges not yet billed
		var base float64
		hasRoomCharge := false
		for _, item := range stay.ChargeItems {
			if item.Type == model.ChargeTypeRoom {
				hasRoomCharge = true
			}
			if item.Invoiced {
				continue
			}
			base += item.Amount
			if err := tx.Model(&model.ChargeItem{}).Where("id = ?", item.ID).Update("invoiced", true).Error; err != nil {
				return err
			}
		}

		// Room charges never itemized on the folio are billed from the
		// booking lines
		if !hasRoomCharge {
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
				base += amount
			}
		}

		total := base - req.Discount + req.ServiceCharge
		if total < 0 {
			total = 0
		}
		subtotal, vat := model.VATBreakdown(total, vatRate)

		number, err := model.NextDocumentNumber(tx, "INV", &model.Invoice{})
		if err != nil {
			return err
		}

		invoice = model.Invoice{
			InvoiceNumber: number,
			StayID:        &stay.ID,
			Subtotal:      subtotal,
			Discount:      req.Discount,
			ServiceCharge: req.ServiceCharge,
			VATAmount:     vat,
			Total:         total,
		}
		var paid float64
		for _, p := range req.Payments {
			invoice.Payments = append(invoice.Payments, model.Payment{
				Method:  p.Method,
				Amount:  p.Amount,
				ShiftID: shift.ID,
			})
			paid += p.Amount
		}
		invoice.Status = invoiceStatusFor(paid, total)

		if result := tx.Create(&invoice); result.Error != nil {
			return result.Error
		}

		// Held deposits are applied against the folio rather than refunded
		if err := tx.Model(&model.Deposit{}).
			Where("stay_id = ? AND status = ?", stay.ID, model.DepositStatusHeld).
			Update("status", model.DepositStatusApplied).Error; err != nil {
			return err
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
		return tx.Save(&stay).Error
	})

	if err != nil {
		switch {
		case errors.Is(err, errNoOpenShift):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no open shift; open a shift before invoicing"})
		case errors.Is(err, errStayNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "stay not found"})
		case errors.Is(err, errStayCheckedOut):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "stay already checked out"})
		default:
			log.Error("Failed to create invoice", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create invoice"})
		}
	}

	prometheus.RecordRevenue("room", invoice.PaidAmount())
	UpdateRoomStatusMetrics(database.GetDB())
	log.Info("Invoice created",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Float64("total", invoice.Total),
		zap.String("status", invoice.Status))
	return c.JSON(http.StatusCreated, invoice)
}

// AddInvoicePayment records an additional settlement on an open invoice
func AddInvoicePayment(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req InvoicePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}
	method := req.Method
	if method == "" {
		method = model.MethodCash
	}

	var invoice model.Invoice
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if result := tx.Preload("Payments").First(&invoice, id); result.Error != nil {
			return gorm.ErrRecordNotFound
		}
		if invoice.Status == model.InvoiceStatusPaid {
			return errInvoicePaid
		}

		shift, err := openShift(tx)
		if err != nil {
			return err
		}

		payment := model.Payment{
			InvoiceID: invoice.ID,
			Method:    method,
			Amount:    req.Amount,
			ShiftID:   shift.ID,
		}
		if result := tx.Create(&payment); result.Error != nil {
			return result.Error
		}

		invoice.Payments = append(invoice.Payments, payment)
		return tx.Model(&invoice).
			Update("status", invoiceStatusFor(invoice.PaidAmount(), invoice.Total)).Error
	})

	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Invoice not found"})
		case errors.Is(err, errInvoicePaid):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invoice already paid"})
		case errors.Is(err, errNoOpenShift):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no open shift; open a shift before taking payment"})
		default:
			log.Error("Failed to add payment", zap.String("invoice_id", id), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to add payment"})
		}
	}

	prometheus.RecordRevenue("room", req.Amount)
	log.Info("Invoice payment recorded",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Float64("amount", req.Amount))

	database.GetDB().Preload("Payments").First(&invoice, invoice.ID)
	return c.JSON(http.StatusOK, invoice)
}

// invoiceStatusFor derives the invoice status from the covered amount
func invoiceStatusFor(paid, total float64) string {
	switch {
	case total > 0 && paid >= total:
		return model.InvoiceStatusPaid
	case paid > 0:
		return model.InvoiceStatusPartial
	default:
		return model.InvoiceStatusUnpaid
	}
}

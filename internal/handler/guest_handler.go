package handler

import (
	"net/http"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/database"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GuestRequest defines the structure for guest creation/update requests
type GuestRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	IDNumber  string `json:"idNumber"`
	TaxID     string `json:"taxId"`
	Address   string `json:"address"`
}

// ListGuests handles retrieving guests with an optional search term
func ListGuests(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB().Model(&model.Guest{})

	// Search across name, phone and ID number
	if q := c.QueryParam("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR phone LIKE ? OR id_number LIKE ?",
			like, like, like, like)
	}

	var guests []model.Guest
	if result := query.Order("id").Find(&guests); result.Error != nil {
		log.Error("Failed to list guests", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve guests"})
	}

	return c.JSON(http.StatusOK, guests)
}

// GetGuest handles retrieving a single guest by ID
func GetGuest(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var guest model.Guest
	if result := database.GetDB().First(&guest, id); result.Error != nil {
		log.Warn("Guest not found", zap.String("guest_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Guest not found"})
	}

	return c.JSON(http.StatusOK, guest)
}

// CreateGuest handles registering a new guest
func CreateGuest(c echo.Context) error {
	log := logger.FromContext(c)

	var req GuestRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.FirstName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "firstName is required"})
	}

	guest := model.Guest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		IDNumber:  req.IDNumber,
		TaxID:     req.TaxID,
		Address:   req.Address,
	}

	if result := database.GetDB().Create(&guest); result.Error != nil {
		log.Error("Failed to create guest", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create guest"})
	}

	log.Info("Guest created", zap.Uint("guest_id", guest.ID))
	return c.JSON(http.StatusCreated, guest)
}

// UpdateGuest handles updating guest details
func UpdateGuest(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req GuestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var guest model.Guest
	if result := database.GetDB().First(&guest, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Guest not found"})
	}

	if req.FirstName != "" {
		guest.FirstName = req.FirstName
	}
	if req.LastName != "" {
		guest.LastName = req.LastName
	}
	if req.Phone != "" {
		guest.Phone = req.Phone
	}
	if req.Email != "" {
		guest.Email = req.Email
	}
	if req.IDNumber != "" {
		guest.IDNumber = req.IDNumber
	}
	if req.TaxID != "" {
		guest.TaxID = req.TaxID
	}
	if req.Address != "" {
		guest.Address = req.Address
	}

	if result := database.GetDB().Save(&guest); result.Error != nil {
		log.Error("Failed to update guest", zap.String("guest_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update guest"})
	}

	return c.JSON(http.StatusOK, guest)
}

// DeleteGuest handles removing a guest record (soft delete)
func DeleteGuest(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Guest{}, id)
	if result.Error != nil {
		log.Error("Failed to delete guest", zap.String("guest_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete guest"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Guest not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Guest deleted successfully"})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/database"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name       string  `json:"name"`
	SKU        string  `json:"sku"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
	CategoryID uint    `json:"categoryId"`
	IsActive   *bool   `json:"isActive"`
}

// ListProducts handles retrieving the POS catalog with optional filtering
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	query := database.GetDB().Model(&model.Product{})

	// Filter by active status if specified
	isActive := c.QueryParam("is_active")
	if isActive != "" {
		active, err := strconv.ParseBool(isActive)
		if err == nil {
			query = query.Where("is_active = ?", active)
		} else {
			log.Warn("Invalid is_active parameter", zap.String("value", isActive), zap.Error(err))
		}
	}

	// Filter by category if specified
	if categoryID := c.QueryParam("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var products []model.Product
	if result := query.Order("name").Find(&products); result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve products"})
	}

	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var product model.Product
	if result := database.GetDB().First(&product, id); result.Error != nil {
		log.Warn("Product not found", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles adding a catalog product
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Name == "" || req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and a positive price are required"})
	}

	// Check if product with SKU already exists
	if req.SKU != "" {
		var count int64
		database.GetDB().Model(&model.Product{}).Where("sku = ?", req.SKU).Count(&count)
		if count > 0 {
			log.Warn("Product with this SKU already exists", zap.String("sku", req.SKU))
			return c.JSON(http.StatusConflict, echo.Map{"error": "Product with this SKU already exists"})
		}
	}

	product := model.Product{
		Name:       req.Name,
		SKU:        req.SKU,
		Price:      req.Price,
		Stock:      req.Stock,
		CategoryID: req.CategoryID,
		IsActive:   true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if result := database.GetDB().Create(&product); result.Error != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create product"})
	}

	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var product model.Product
	if result := database.GetDB().First(&product, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	if req.SKU != "" && req.SKU != product.SKU {
		var count int64
		database.GetDB().Model(&model.Product{}).Where("sku = ? AND id != ?", req.SKU, id).Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Product with this SKU already exists"})
		}
		product.SKU = req.SKU
	}
	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Price > 0 {
		product.Price = req.Price
	}
	if req.Stock >= 0 {
		product.Stock = req.Stock
	}
	if req.CategoryID != 0 {
		product.CategoryID = req.CategoryID
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if result := database.GetDB().Save(&product); result.Error != nil {
		log.Error("Failed to update product", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update product"})
	}

	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles removing a product from the catalog (soft delete)
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Product{}, id)
	if result.Error != nil {
		log.Error("Failed to delete product", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete product"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// ListCategories handles retrieving all product categories
func ListCategories(c echo.Context) error {
	log := logger.FromContext(c)

	var categories []model.ProductCategory
	if result := database.GetDB().Order("name").Find(&categories); result.Error != nil {
		log.Error("Failed to list categories", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve categories"})
	}

	return c.JSON(http.StatusOK, categories)
}

// CreateCategory handles adding a product category
func CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	category := model.ProductCategory{Name: req.Name}
	if result := database.GetDB().Create(&category); result.Error != nil {
		log.Error("Failed to create category", zap.String("name", req.Name), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create category"})
	}

	return c.JSON(http.StatusCreated, category)
}

// DeleteCategory handles removing a product category
func DeleteCategory(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var productCount int64
	database.GetDB().Model(&model.Product{}).Where("category_id = ?", id).Count(&productCount)
	if productCount > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "category still has products"})
	}

	result := database.GetDB().Delete(&model.ProductCategory{}, id)
	if result.Error != nil {
		log.Error("Failed to delete category", zap.String("category_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete category"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Category not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}

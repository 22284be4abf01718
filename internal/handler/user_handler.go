package handler

import (
	"net/http"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/database"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRequest defines the structure for operator account creation/update
type UserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

// ListUsers handles retrieving all operator accounts
func ListUsers(c echo.Context) error {
	log := logger.FromContext(c)

	var users []model.User
	if result := database.GetDB().Order("id").Find(&users); result.Error != nil {
		log.Error("Failed to list users", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve users"})
	}

	return c.JSON(http.StatusOK, users)
}

// CreateUser handles creating a new operator account
func CreateUser(c echo.Context) error {
	log := logger.FromContext(c)

	var req UserRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	role := req.Role
	if role == "" {
		role = model.RoleReception
	}
	if role != model.RoleAdmin && role != model.RoleReception {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	// Check for a duplicate username
	var count int64
	database.GetDB().Model(&model.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		log.Warn("Username already exists", zap.String("username", req.Username))
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create user"})
	}

	user := model.User{
		Username: req.Username,
		Password: string(hashed),
		FullName: req.FullName,
		Role:     role,
		IsActive: true,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if result := database.GetDB().Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create user"})
	}

	log.Info("User created", zap.String("username", user.Username), zap.String("role", user.Role))
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser handles updating an operator account
func UpdateUser(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	var user model.User
	if result := database.GetDB().First(&user, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Role != "" {
		if req.Role != model.RoleAdmin && req.Role != model.RoleReception {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
		}
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("Failed to hash password", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update user"})
		}
		user.Password = string(hashed)
	}

	if result := database.GetDB().Save(&user); result.Error != nil {
		log.Error("Failed to update user", zap.String("user_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update user"})
	}

	log.Info("User updated", zap.String("user_id", id))
	return c.JSON(http.StatusOK, user)
}

// DeleteUser handles deactivating an operator account (soft delete)
func DeleteUser(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.User{}, id)
	if result.Error != nil {
		log.Error("Failed to delete user", zap.String("user_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete user"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}

	log.Info("User deleted", zap.String("user_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}

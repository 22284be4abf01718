package handler

import (
	"net/http"
	"time"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/middleware"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/database"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/jwtutil"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/logger"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates an operator and issues a JWT
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	// Parse request
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	// Find operator in database - track DB operation duration
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := database.GetDB().Where("username = ? AND is_active = ?", req.Username, true).First(&user)
	if result.Error != nil {
		log.Error("User not found", zap.String("username", req.Username))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("username", req.Username))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// Generate JWT carrying the operator identity and role
	token, err := jwtutil.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Operator logged in",
		zap.String("username", user.Username),
		zap.String("role", user.Role))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":        user.ID,
			"username":  user.Username,
			"full_name": user.FullName,
			"role":      user.Role,
		},
	})
}

// Me returns the authenticated operator's profile
func Me(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var user model.User
	if result := database.GetDB().First(&user, userID); result.Error != nil {
		log.Error("Authenticated user not found", zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, user)
}

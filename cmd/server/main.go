package main

import (
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/handler"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/middleware"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/cache"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/config"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/database"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/jwtutil"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/logger"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting hotel PMS...", zap.String("environment", cfg.Server.Env))

	// Initialize database (includes migrations)
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed")

	// Initialize token signing and billing parameters
	jwtutil.Init(cfg)
	handler.Init(cfg)

	// Initialize the report cache backend
	cache.Init(cfg)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(middleware.MetricsMiddleware)

	// Public routes - no authentication required
	e.GET("/", handler.Hello)
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/api/auth/login", handler.Login)

	// Everything else requires an authenticated operator
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	api.GET("/auth/me", handler.Me)

	// Operator accounts (admin only)
	users := api.Group("/users", middleware.RequireRole(model.RoleAdmin))
	users.GET("", handler.ListUsers)
	users.POST("", handler.CreateUser)
	users.PATCH("/:id", handler.UpdateUser)
	users.DELETE("/:id", handler.DeleteUser)

	// Room types
	api.GET("/room-types", handler.ListRoomTypes)
	api.POST("/room-types", handler.CreateRoomType, middleware.RequireRole(model.RoleAdmin))
	api.PATCH("/room-types/:id", handler.UpdateRoomType, middleware.RequireRole(model.RoleAdmin))
	api.DELETE("/room-types/:id", handler.DeleteRoomType, middleware.RequireRole(model.RoleAdmin))

	// Rooms
	api.GET("/rooms", handler.ListRooms)
	api.GET("/rooms/:id", handler.GetRoom)
	api.POST("/rooms", handler.CreateRoom, middleware.RequireRole(model.RoleAdmin))
	api.PATCH("/rooms/:id", handler.UpdateRoom, middleware.RequireRole(model.RoleAdmin))
	api.DELETE("/rooms/:id", handler.DeleteRoom, middleware.RequireRole(model.RoleAdmin))

	// Housekeeping and maintenance
	api.GET("/housekeeping/rooms", handler.ListHousekeepingRooms)
	api.PATCH("/housekeeping/rooms/:id", handler.UpdateHousekeepingStatus)
	api.PATCH("/maintenance/rooms/:id", handler.SetRoomMaintenance)

	// Guests
	api.GET("/guests", handler.ListGuests)
	api.GET("/guests/:id", handler.GetGuest)
	api.POST("/guests", handler.CreateGuest)
	api.PATCH("/guests/:id", handler.UpdateGuest)
	api.DELETE("/guests/:id", handler.DeleteGuest)

	// Bookings and front-desk transitions
	api.GET("/bookings", handler.ListBookings)
	api.GET("/bookings/availability", handler.CheckAvailability)
	api.GET("/bookings/:id", handler.GetBooking)
	api.POST("/bookings", handler.CreateBooking)
	api.PATCH("/bookings/:id", handler.UpdateBooking)

	// Cash shifts
	api.POST("/pos/shift/open", handler.OpenShift)
	api.POST("/pos/shift/close", handler.CloseShift)
	api.GET("/pos/shift/current", handler.CurrentShift)
	api.GET("/pos/shift/:id/summary", handler.GetShiftSummary)
	api.GET("/pos/shifts", handler.ListShifts)

	// POS catalog and orders
	api.GET("/pos/products", handler.ListProducts)
	api.GET("/pos/products/:id", handler.GetProduct)
	api.POST("/pos/products", handler.CreateProduct)
	api.PATCH("/pos/products/:id", handler.UpdateProduct)
	api.DELETE("/pos/products/:id", handler.DeleteProduct, middleware.RequireRole(model.RoleAdmin))
	api.GET("/pos/categories", handler.ListCategories)
	api.POST("/pos/categories", handler.CreateCategory)
	api.DELETE("/pos/categories/:id", handler.DeleteCategory, middleware.RequireRole(model.RoleAdmin))
	api.POST("/pos/orders", handler.CreateOrder)
	api.GET("/pos/orders", handler.ListOrders)
	api.GET("/pos/orders/:id", handler.GetOrder)
	api.POST("/pos/orders/:id/cancel", handler.CancelOrder)

	// Invoices
	api.GET("/invoices", handler.ListInvoices)
	api.GET("/invoices/:id", handler.GetInvoice)
	api.POST("/invoices", handler.CreateInvoice)
	api.POST("/invoices/:id/payments", handler.AddInvoicePayment)

	// Finance
	api.POST("/finance/transactions", handler.CreateCashTransaction)
	api.GET("/finance/transactions", handler.ListCashTransactions)

	// Reports
	api.GET("/reports", handler.Reports)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}

package main

import (
	"fmt"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/config"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/database"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Development seed data: operator accounts, room inventory and a small POS
// catalog. Existing rows (matched by their natural key) are left untouched,
// so the seed can be re-run.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	db := database.GetDB()

	seedUsers(db, log)
	seedRooms(db, log)
	seedProducts(db, log)

	log.Info("Seed completed")
}

func seedUsers(db *gorm.DB, log *zap.Logger) {
	users := []struct {
		Username string
		Password string
		FullName string
		Role     string
	}{
		{"admin", "admin1234", "Administrator", model.RoleAdmin},
		{"frontdesk", "frontdesk1234", "Front Desk", model.RoleReception},
	}

	for _, u := range users {
		var count int64
		db.Model(&model.User{}).Where("username = ?", u.Username).Count(&count)
		if count > 0 {
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("Failed to hash seed password", zap.Error(err))
		}
		user := model.User{
			Username: u.Username,
			Password: string(hashed),
			FullName: u.FullName,
			Role:     u.Role,
			IsActive: true,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatal("Failed to seed user", zap.String("username", u.Username), zap.Error(err))
		}
		log.Info("Seeded user", zap.String("username", u.Username))
	}
}

func seedRooms(db *gorm.DB, log *zap.Logger) {
	types := []model.RoomType{
		{Name: "Standard", Capacity: 2, BaseRate: 1500, Amenities: "wifi,tv,aircon"},
		{Name: "Deluxe", Capacity: 2, BaseRate: 2500, Amenities: "wifi,tv,aircon,minibar"},
		{Name: "Suite", Capacity: 4, BaseRate: 4500, Amenities: "wifi,tv,aircon,minibar,bathtub"},
	}

	typeIDs := make(map[string]uint)
	for _, t := range types {
		var existing model.RoomType
		if err := db.Where("name = ?", t.Name).First(&existing).Error; err == nil {
			typeIDs[t.Name] = existing.ID
			continue
		}
		if err := db.Create(&t).Error; err != nil {
			log.Fatal("Failed to seed room type", zap.String("name", t.Name), zap.Error(err))
		}
		typeIDs[t.Name] = t.ID
		log.Info("Seeded room type", zap.String("name", t.Name))
	}

	rooms := []struct {
		Number string
		Floor  int
		Type   string
	}{
		{"101", 1, "Standard"}, {"102", 1, "Standard"}, {"103", 1, "Standard"},
		{"201", 2, "Deluxe"}, {"202", 2, "Deluxe"},
		{"301", 3, "Suite"},
	}

	for _, r := range rooms {
		var count int64
		db.Model(&model.Room{}).Where("number = ?", r.Number).Count(&count)
		if count > 0 {
			continue
		}
		room := model.Room{
			Number:     r.Number,
			Floor:      r.Floor,
			RoomTypeID: typeIDs[r.Type],
			Status:     model.RoomStatusVacantClean,
		}
		if err := db.Create(&room).Error; err != nil {
			log.Fatal("Failed to seed room", zap.String("number", r.Number), zap.Error(err))
		}
		log.Info("Seeded room", zap.String("number", r.Number))
	}
}

func seedProducts(db *gorm.DB, log *zap.Logger) {
	var category model.ProductCategory
	if err := db.Where("name = ?", "Beverages").First(&category).Error; err != nil {
		category = model.ProductCategory{Name: "Beverages"}
		if err := db.Create(&category).Error; err != nil {
			log.Fatal("Failed to seed category", zap.Error(err))
		}
	}

	products := []model.Product{
		{Name: "Coke", SKU: "BEV-001", Price: 20, Stock: 100, CategoryID: category.ID, IsActive: true},
		{Name: "Water", SKU: "BEV-002", Price: 10, Stock: 200, CategoryID: category.ID, IsActive: true},
		{Name: "Beer", SKU: "BEV-003", Price: 80, Stock: 50, CategoryID: category.ID, IsActive: true},
	}

	for _, p := range products {
		var count int64
		db.Model(&model.Product{}).Where("sku = ?", p.SKU).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			log.Fatal("Failed to seed product", zap.String("sku", p.SKU), zap.Error(err))
		}
		log.Info("Seeded product", zap.String("name", p.Name))
	}

	fmt.Println("Seed data inserted")
}

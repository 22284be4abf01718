package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/config"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/pkg/database"
	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var metricsOnce sync.Once

// setupTestDB opens a fresh in-memory database, migrates the schema and
// installs it as the handler package's connection
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	metricsOnce.Do(func() {
		cfg, err := config.Load()
		require.NoError(t, err)
		prometheus.InitMetrics(cfg)
	})

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(model.All()...))
	database.SetDB(db)
	return db
}

// newTestContext builds an echo context around a recorded request
func newTestContext(t *testing.T, method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	return c, rec
}

// asOperator stamps the context the way AuthMiddleware would
func asOperator(c echo.Context, userID uint, role string) {
	c.Set("user_id", userID)
	c.Set("username", fmt.Sprintf("op%d", userID))
	c.Set("user_role", role)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func createTestUser(t *testing.T, db *gorm.DB, username, role string) model.User {
	t.Helper()
	user := model.User{
		Username: username,
		Password: "$2a$10$invalidhashforseedonly.aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		FullName: username,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestRoom(t *testing.T, db *gorm.DB, number string, rate float64) (model.RoomType, model.Room) {
	t.Helper()
	roomType := model.RoomType{Name: "Standard " + number, Capacity: 2, BaseRate: rate}
	require.NoError(t, db.Create(&roomType).Error)
	room := model.Room{
		Number:     number,
		Floor:      1,
		RoomTypeID: roomType.ID,
		Status:     model.RoomStatusVacantClean,
	}
	require.NoError(t, db.Create(&room).Error)
	return roomType, room
}

func createTestGuest(t *testing.T, db *gorm.DB, name string) model.Guest {
	t.Helper()
	guest := model.Guest{FirstName: name, Phone: "0800000000"}
	require.NoError(t, db.Create(&guest).Error)
	return guest
}

// openTestShift opens a shift through the handler so the auto-close path
// stays exercised
func openTestShift(t *testing.T, userID uint, startCash float64) model.Shift {
	t.Helper()
	c, rec := newTestContext(t, http.MethodPost, "/api/pos/shift/open",
		map[string]interface{}{"startCash": startCash})
	asOperator(c, userID, model.RoleReception)
	require.NoError(t, OpenShift(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var shift model.Shift
	decodeBody(t, rec, &shift)
	return shift
}

func dateString(daysFromNow int) string {
	return time.Now().AddDate(0, 0, daysFromNow).Format("2006-01-02")
}

package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenShiftAutoClosesPriorShift(t *testing.T) {
	db := setupTestDB(t)
	first := createTestUser(t, db, "reception1", model.RoleReception)
	second := createTestUser(t, db, "reception2", model.RoleReception)

	prior := openTestShift(t, first.ID, 1000)
	next := openTestShift(t, second.ID, 2000)
	assert.NotEqual(t, prior.ID, next.ID)

	// The first shift was closed by the handover, carrying its start cash
	var closed model.Shift
	require.NoError(t, db.First(&closed, prior.ID).Error)
	assert.Equal(t, model.ShiftStatusClosed, closed.Status)
	assert.Equal(t, 1000.0, closed.EndCash)
	require.NotNil(t, closed.ClosedAt)

	// Exactly one OPEN shift remains
	var open int64
	db.Model(&model.Shift{}).Where("status = ?", model.ShiftStatusOpen).Count(&open)
	assert.EqualValues(t, 1, open)
}

func TestOpenShiftRejectsNegativeStartCash(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reception1", model.RoleReception)

	c, rec := newTestContext(t, http.MethodPost, "/api/pos/shift/open",
		map[string]interface{}{"startCash": -1})
	asOperator(c, user.ID, model.RoleReception)
	require.NoError(t, OpenShift(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCloseShiftSnapshotsTotals(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reception1", model.RoleReception)
	shift := openTestShift(t, user.ID, 500)

	require.NoError(t, db.Create(&model.PosOrder{
		OrderNumber:   "ORD-TEST-0001",
		ShiftID:       shift.ID,
		UserID:        user.ID,
		PaymentMethod: model.MethodCash,
		Total:         120,
		Status:        model.OrderStatusCompleted,
	}).Error)

	c, rec := newTestContext(t, http.MethodPost, "/api/pos/shift/close",
		map[string]interface{}{"endCash": 620})
	asOperator(c, user.ID, model.RoleReception)
	require.NoError(t, CloseShift(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var closed model.Shift
	decodeBody(t, rec, &closed)
	assert.Equal(t, model.ShiftStatusClosed, closed.Status)
	assert.Equal(t, 120.0, closed.TotalSales)
	assert.Equal(t, 620.0, closed.EndCash)
}

func TestCloseShiftWithoutOpenShift(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reception1", model.RoleReception)

	c, rec := newTestContext(t, http.MethodPost, "/api/pos/shift/close",
		map[string]interface{}{"endCash": 0})
	asOperator(c, user.ID, model.RoleReception)
	require.NoError(t, CloseShift(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no open shift")
}

func TestCurrentShift(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reception1", model.RoleReception)

	c, rec := newTestContext(t, http.MethodGet, "/api/pos/shift/current", nil)
	asOperator(c, user.ID, model.RoleReception)
	require.NoError(t, CurrentShift(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	opened := openTestShift(t, user.ID, 300)

	c, rec = newTestContext(t, http.MethodGet, "/api/pos/shift/current", nil)
	asOperator(c, user.ID, model.RoleReception)
	require.NoError(t, CurrentShift(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var current model.Shift
	decodeBody(t, rec, &current)
	assert.Equal(t, opened.ID, current.ID)
}

func TestListShiftsScopedForReception(t *testing.T) {
	db := setupTestDB(t)
	first := createTestUser(t, db, "reception1", model.RoleReception)
	second := createTestUser(t, db, "reception2", model.RoleReception)
	openTestShift(t, first.ID, 0)
	openTestShift(t, second.ID, 0)

	c, rec := newTestContext(t, http.MethodGet, "/api/pos/shifts", nil)
	asOperator(c, first.ID, model.RoleReception)
	require.NoError(t, ListShifts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var shifts []model.Shift
	decodeBody(t, rec, &shifts)
	require.Len(t, shifts, 1)
	assert.Equal(t, first.ID, shifts[0].UserID)

	c, rec = newTestContext(t, http.MethodGet, "/api/pos/shifts", nil)
	asOperator(c, second.ID, model.RoleAdmin)
	require.NoError(t, ListShifts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	decodeBody(t, rec, &shifts)
	assert.Len(t, shifts, 2)
}

func TestShiftSummaryDrawerMath(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reception1", model.RoleReception)
	shift := openTestShift(t, user.ID, 1000)

	require.NoError(t, db.Create(&model.PosOrder{
		OrderNumber:   "ORD-TEST-0001",
		ShiftID:       shift.ID,
		PaymentMethod: model.MethodCash,
		Total:         50,
		Status:        model.OrderStatusCompleted,
	}).Error)
	require.NoError(t, db.Create(&model.PosOrder{
		OrderNumber:   "ORD-TEST-0002",
		ShiftID:       shift.ID,
		PaymentMethod: model.MethodCard,
		Total:         200,
		Status:        model.OrderStatusCompleted,
	}).Error)

	invoice := model.Invoice{
		InvoiceNumber: "INV-TEST-0001",
		Total:         3000,
		Status:        model.InvoiceStatusPaid,
		Payments: []model.Payment{{
			Method:  model.MethodCash,
			Amount:  3000,
			ShiftID: shift.ID,
		}},
	}
	require.NoError(t, db.Create(&invoice).Error)

	require.NoError(t, db.Create(&model.CashTransaction{
		ShiftID: shift.ID,
		UserID:  user.ID,
		Type:    model.CashTransactionExpense,
		Method:  model.MethodCash,
		Amount:  80,
		Note:    "ice delivery",
	}).Error)

	c, rec := newTestContext(t, http.MethodGet, fmt.Sprintf("/api/pos/shift/%d/summary", shift.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", shift.ID))
	asOperator(c, user.ID, model.RoleReception)
	require.NoError(t, GetShiftSummary(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var summary ShiftSummary
	decodeBody(t, rec, &summary)

	assert.Equal(t, 50.0, summary.PosSales[model.MethodCash])
	assert.Equal(t, 200.0, summary.PosSales[model.MethodCard])
	assert.Equal(t, 3000.0, summary.RoomPayments[model.MethodCash])
	assert.Equal(t, 80.0, summary.CashExpense)
	assert.Equal(t, 3250.0, summary.TotalSales)
	// 1000 start + 50 cash pos + 3000 cash room - 80 expense
	assert.Equal(t, 3970.0, summary.ExpectedCash)
	assert.EqualValues(t, 1, summary.TransactionsCount)
}

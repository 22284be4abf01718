package handler

import (
	"net/http"
	"testing"

	"github.com/bkknewyorkhotel-hash/manage-booking-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCashTransaction(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reception1", model.RoleReception)
	shift := openTestShift(t, user.ID, 0)

	c, rec := newTestContext(t, http.MethodPost, "/api/finance/transactions", map[string]interface{}{
		"type":   model.CashTransactionExpense,
		"amount": 80,
		"note":   "ice delivery",
	})
	asOperator(c, user.ID, model.RoleReception)
	require.NoError(t, CreateCashTransaction(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var txn model.CashTransaction
	decodeBody(t, rec, &txn)
	assert.Equal(t, shift.ID, txn.ShiftID)
	assert.Equal(t, model.MethodCash, txn.Method)
	assert.Equal(t, 80.0, txn.Amount)
}

func TestCreateCashTransactionValidation(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reception1", model.RoleReception)
	openTestShift(t, user.ID, 0)

	c, rec := newTestContext(t, http.MethodPost, "/api/finance/transactions", map[string]interface{}{
		"type":   "TRANSFER",
		"amount": 10,
	})
	asOperator(c, user.ID, model.RoleReception)
	require.NoError(t, CreateCashTransaction(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newTestContext(t, http.MethodPost, "/api/finance/transactions", map[string]interface{}{
		"type":   model.CashTransactionIncome,
		"amount": 0,
	})
	asOperator(c, user.ID, model.RoleReception)
	require.NoError(t, CreateCashTransaction(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCashTransactionRequiresOpenShift(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "reception1", model.RoleReception)

	c, rec := newTestContext(t, http.MethodPost, "/api/finance/transactions", map[string]interface{}{
		"type":   model.CashTransactionIncome,
		"amount": 100,
	})
	asOperator(c, user.ID, model.RoleReception)
	require.NoError(t, CreateCashTransaction(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no open shift")
}

func TestListCashTransactionsScopedForReception(t *testing.T) {
	db := setupTestDB(t)
	first := createTestUser(t, db, "reception1", model.RoleReception)
	second := createTestUser(t, db, "reception2", model.RoleReception)

	firstShift := openTestShift(t, first.ID, 0)
	require.NoError(t, db.Create(&model.CashTransaction{
		ShiftID: firstShift.ID, UserID: first.ID,
		Type: model.CashTransactionIncome, Method: model.MethodCash, Amount: 100,
	}).Error)

	secondShift := openTestShift(t, second.ID, 0)
	require.NoError(t, db.Create(&model.CashTransaction{
		ShiftID: secondShift.ID, UserID: second.ID,
		Type: model.CashTransactionExpense, Method: model.MethodCash, Amount: 50,
	}).Error)

	c, rec := newTestContext(t, http.MethodGet, "/api/finance/transactions", nil)
	asOperator(c, first.ID, model.RoleReception)
	require.NoError(t, ListCashTransactions(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var txns []model.CashTransaction
	decodeBody(t, rec, &txns)
	require.Len(t, txns, 1)
	assert.Equal(t, firstShift.ID, txns[0].ShiftID)

	c, rec = newTestContext(t, http.MethodGet, "/api/finance/transactions", nil)
	asOperator(c, first.ID, model.RoleAdmin)
	require.NoError(t, ListCashTransactions(c))
	require.Equal(t, http.StatusOK, rec.Code)

	decodeBody(t, rec, &txns)
	assert.Len(t, txns, 2)
}

package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chris/onecard-rewards/pkg/api"
	"github.com/chris/onecard-rewards/pkg/rewards"
	"github.com/chris/onecard-rewards/pkg/storage/memory"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() http.Handler {
	store := memory.New()
	opts := rewards.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	handler := NewApiHandler(store, rewards.NewAllocator(store, opts), rewards.NewLedger(store, opts), nil)
	return api.HandlerFromMux(handler, chi.NewRouter())
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, path, reader))
	return rr
}

func TestRewardFlow(t *testing.T) {
	router := newRouter()

	rr := do(t, router, http.MethodPost, "/accounts", `{"type":"vendor","id":"V-100","tier":"gold"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = do(t, router, http.MethodPost, "/accounts", `{"type":"customer","id":"6001001","privileges":["vip"]}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, router, http.MethodPost, "/allocations", `{"transaction_id":"tx-1","beneficiary_class":"vendor",
		"vendor_id":"V-100","vendor_profit":"100","customer_id":"6001001","customer_cashback":"10",
		"recipient_phone":"+27821234567","recipient_reward":"15"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var result api.AllocationResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.Len(t, result.Outcomes, 3)

	rr = do(t, router, http.MethodGet, "/accounts/vendor/V-100", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var vendor api.Account
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &vendor))
	assert.True(t, decimal.RequireFromString("110").Equal(vendor.Balance))

	rr = do(t, router, http.MethodGet, "/pending/0821234567", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var escrow api.PendingReward
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &escrow))
	assert.True(t, decimal.RequireFromString("15").Equal(escrow.Amount))

	rr = do(t, router, http.MethodPost, "/accounts", `{"type":"customer","id":"0821234567"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = do(t, router, http.MethodPost, "/pending/0821234567/claim", `{"account_id":"0821234567"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, router, http.MethodGet, "/accounts/customer", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var customers []api.Account
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &customers))
	require.Len(t, customers, 2)
	assert.Equal(t, "0821234567", customers[0].Id)
	assert.True(t, decimal.RequireFromString("15").Equal(customers[0].Balance))
	assert.True(t, decimal.RequireFromString("20").Equal(customers[1].Balance))
}

func TestRouting(t *testing.T) {
	router := newRouter()

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/accounts/customer/unknown", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/accounts/partner", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, router, http.MethodPost, "/allocations/queue", "{}").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, router, http.MethodDelete, "/allocations", "").Code)
}

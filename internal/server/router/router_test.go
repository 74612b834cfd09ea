package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/pagne/internal/domain/models"
	"github.com/mamadbah2/pagne/internal/repository"
	"github.com/mamadbah2/pagne/internal/repository/memory"
	"github.com/mamadbah2/pagne/internal/server/handlers"
	"github.com/mamadbah2/pagne/internal/service/ledger"
	"github.com/mamadbah2/pagne/internal/service/notify"
)

type testApp struct {
	engine http.Handler
	center *notify.Center
	ledger *ledger.Ledger
}

func newTestApp(t *testing.T, store ledger.OrderStore) testApp {
	t.Helper()

	center := notify.NewCenter(0, nil)
	l := ledger.NewLedger(store, center, models.DefaultPricing(), time.Minute, nil)
	engine := New(handlers.NewDashboardHandler(l, center, nil), handlers.NewOrdersHandler(l, nil), nil)
	return testApp{engine: engine, center: center, ledger: l}
}

func (a testApp) do(t *testing.T, method, path string, body string, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	a.engine.ServeHTTP(rr, req)
	return rr
}

type failingStore struct{}

func (failingStore) List(context.Context) ([]models.Order, error) {
	return nil, fmt.Errorf("%w: connection refused", repository.ErrStoreUnavailable)
}

func (failingStore) Insert(context.Context, models.Order) (models.Order, error) {
	return models.Order{}, fmt.Errorf("%w: connection refused", repository.ErrStoreWrite)
}

func (failingStore) DeleteByID(context.Context, string) error {
	return errors.New("unreachable")
}

func TestRouter_Healthz(t *testing.T) {
	app := newTestApp(t, memory.NewOrderRepository())

	rr := app.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouter_APICreateListAndStats(t *testing.T) {
	app := newTestApp(t, memory.NewOrderRepository())

	rr := app.do(t, http.MethodPost, "/api/orders",
		`{"date":"2026-03-08","client":"Awa","qty_fan":2,"qty_sm_sac":1}`, "application/json")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created models.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 14000.0, created.TotalRevenue)
	assert.Equal(t, 7001.0, created.TotalExpense)
	assert.Equal(t, 6999.0, created.NetProfit)

	rr = app.do(t, http.MethodPost, "/api/orders",
		`{"date":"2026-01-02","client":"Fatou","qty_lg_sac":1,"delivery":500}`, "application/json")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = app.do(t, http.MethodGet, "/api/orders", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var list handlers.OrdersResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Orders, 2)
	assert.Equal(t, "Fatou", list.Orders[0].Client, "orders are listed by ascending date")
	assert.Equal(t, "Awa", list.Orders[1].Client)
	assert.False(t, list.Stale)
	assert.Equal(t, 4, list.Stats.TotalItems)
	assert.Equal(t, 29000.0, list.Stats.TotalRevenue)

	rr = app.do(t, http.MethodGet, "/api/stats", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var stats models.Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, list.Stats, stats)

	rr = app.do(t, http.MethodGet, "/api/chart/profit", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var series []models.ProfitPoint
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &series))
	require.Len(t, series, 2)
	assert.Equal(t, "2026-01-02", series[0].Date)
	assert.Equal(t, 6999.0, series[1].NetProfit)
}

func TestRouter_APIRejectsInvalidOrders(t *testing.T) {
	app := newTestApp(t, memory.NewOrderRepository())

	tests := []struct {
		name string
		body string
	}{
		{"missing client", `{"date":"2026-03-08"}`},
		{"negative quantity", `{"date":"2026-03-08","client":"Awa","qty_fan":-1}`},
		{"non numeric quantity", `{"date":"2026-03-08","client":"Awa","qty_fan":"deux"}`},
		{"malformed json", `{"date":`},
		{"expenses that overflow", `{"date":"2026-03-08","client":"Awa","transport":1e308,"loss":1e308}`},
		{"quantity above bound", `{"date":"2026-03-08","client":"Awa","qty_fan":9223372036854775807}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := app.do(t, http.MethodPost, "/api/orders", tt.body, "application/json")
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	assert.Empty(t, app.ledger.Snapshot().Orders)
	assert.Empty(t, app.center.Drain(), "API errors are not shown on the dashboard")

	rr := app.do(t, http.MethodGet, "/api/orders", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"orders":[],"stats":{"total_revenue":0,"total_profit":0,"total_items":0},"stale":false}`, rr.Body.String())
}

func TestRouter_APIDeleteUnknownOrder(t *testing.T) {
	app := newTestApp(t, memory.NewOrderRepository())

	rr := app.do(t, http.MethodPost, "/api/orders", `{"date":"2026-03-08","client":"Awa","qty_fan":1}`, "application/json")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = app.do(t, http.MethodDelete, "/api/orders/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Len(t, app.ledger.Snapshot().Orders, 1)
}

func TestRouter_APIDelete(t *testing.T) {
	app := newTestApp(t, memory.NewOrderRepository())

	rr := app.do(t, http.MethodPost, "/api/orders", `{"date":"2026-03-08","client":"Awa","qty_fan":1}`, "application/json")
	require.Equal(t, http.StatusCreated, rr.Code)
	var created models.Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = app.do(t, http.MethodDelete, "/api/orders/"+created.ID, "", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, app.ledger.Snapshot().Orders)
	assert.Equal(t, models.Stats{}, app.ledger.Snapshot().Stats)
}

func TestRouter_APIStoreDown(t *testing.T) {
	app := newTestApp(t, failingStore{})

	rr := app.do(t, http.MethodGet, "/api/orders", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = app.do(t, http.MethodPost, "/api/orders", `{"date":"2026-03-08","client":"Awa"}`, "application/json")
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	rr = app.do(t, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Impossible de charger les données")
}

func TestRouter_DashboardFormAndDeleteConfirmation(t *testing.T) {
	app := newTestApp(t, memory.NewOrderRepository())

	form := url.Values{
		"date":       {"2026-03-08"},
		"client":     {"Awa"},
		"location":   {"Cocody"},
		"qty_fan":    {"2"},
		"qty_sm_sac": {"1"},
		"qty_lg_sac": {""},
		"transport":  {""},
	}
	rr := app.do(t, http.MethodPost, "/orders", form.Encode(), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	rr = app.do(t, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	page := rr.Body.String()
	assert.Contains(t, page, "Vente enregistrée !")
	assert.Contains(t, page, "Cocody")

	orders := app.ledger.Snapshot().Orders
	require.Len(t, orders, 1)
	assert.Equal(t, 6999.0, orders[0].NetProfit)

	rr = app.do(t, http.MethodPost, "/orders/"+orders[0].ID+"/delete", "", "")
	require.Equal(t, http.StatusSeeOther, rr.Code)

	pending := app.center.Pending()
	require.Len(t, pending, 1)

	rr = app.do(t, http.MethodGet, "/", "", "")
	assert.Contains(t, rr.Body.String(), "/confirmations/"+pending[0].ID+"/confirm")
	assert.Len(t, app.ledger.Snapshot().Orders, 1)

	rr = app.do(t, http.MethodPost, "/confirmations/"+pending[0].ID+"/confirm", "", "")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Empty(t, app.ledger.Snapshot().Orders)

	rr = app.do(t, http.MethodGet, "/", "", "")
	assert.Contains(t, rr.Body.String(), "Vente supprimée")
}

func TestRouter_DashboardDismissKeepsOrder(t *testing.T) {
	app := newTestApp(t, memory.NewOrderRepository())

	saved, err := app.ledger.Submit(context.Background(), models.OrderInput{Date: "2026-03-08", Client: "Awa", QtyFan: 1})
	require.NoError(t, err)

	app.do(t, http.MethodPost, "/orders/"+saved.ID+"/delete", "", "")
	pending := app.center.Pending()
	require.Len(t, pending, 1)

	rr := app.do(t, http.MethodPost, "/confirmations/"+pending[0].ID+"/dismiss", "", "")
	require.Equal(t, http.StatusSeeOther, rr.Code)

	assert.Empty(t, app.center.Pending())
	assert.Len(t, app.ledger.Snapshot().Orders, 1)
}

func TestRouter_DashboardRejectsNonNumericForm(t *testing.T) {
	app := newTestApp(t, memory.NewOrderRepository())

	form := url.Values{"date": {"2026-03-08"}, "client": {"Awa"}, "qty_fan": {"deux"}}
	rr := app.do(t, http.MethodPost, "/orders", form.Encode(), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusSeeOther, rr.Code)

	assert.Empty(t, app.ledger.Snapshot().Orders)
	toasts := app.center.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, models.NotifyError, toasts[0].Kind)
}

func TestRouter_DashboardRejectsNonFiniteNumbers(t *testing.T) {
	for _, value := range []string{"NaN", "Inf", "-Inf", "1e400"} {
		t.Run(value, func(t *testing.T) {
			app := newTestApp(t, memory.NewOrderRepository())

			form := url.Values{"date": {"2026-03-08"}, "client": {"Awa"}, "qty_fan": {"1"}, "transport": {value}}
			rr := app.do(t, http.MethodPost, "/orders", form.Encode(), "application/x-www-form-urlencoded")
			require.Equal(t, http.StatusSeeOther, rr.Code)

			assert.Empty(t, app.ledger.Snapshot().Orders)
			toasts := app.center.Drain()
			require.Len(t, toasts, 1)
			assert.Equal(t, models.NotifyError, toasts[0].Kind)

			rr = app.do(t, http.MethodGet, "/api/orders", "", "")
			require.Equal(t, http.StatusOK, rr.Code)
			var list handlers.OrdersResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
			assert.Empty(t, list.Orders)
		})
	}
}

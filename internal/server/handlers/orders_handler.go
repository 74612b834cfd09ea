package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pagne/internal/domain/models"
	"github.com/mamadbah2/pagne/internal/repository"
	"github.com/mamadbah2/pagne/internal/service/ledger"
)

// OrdersHandler exposes the ledger as a JSON API.
type OrdersHandler struct {
	ledger OrderAPI
	logger *zap.Logger
}

// NewOrdersHandler constructs the JSON handler adapter.
func NewOrdersHandler(l OrderAPI, logger *zap.Logger) *OrdersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrdersHandler{ledger: l, logger: logger}
}

// OrdersResponse is the payload of GET /api/orders.
type OrdersResponse struct {
	Orders []models.Order `json:"orders"`
	Stats  models.Stats   `json:"stats"`
	Stale  bool           `json:"stale"`
}

// List refetches the orders. When the store is unreachable the last known
// orders are returned and flagged as stale.
func (h *OrdersHandler) List(c *gin.Context) {
	stale := h.ledger.Load(c.Request.Context()) != nil
	snap := h.ledger.Snapshot()

	if stale && !snap.Loaded {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "orders unavailable"})
		return
	}

	c.JSON(http.StatusOK, OrdersResponse{Orders: snap.Orders, Stats: snap.Stats, Stale: stale})
}

// Create records a new order from a JSON body.
func (h *OrdersHandler) Create(c *gin.Context) {
	var in models.OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid order payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.ledger.Save(c.Request.Context(), in)
	switch {
	case errors.Is(err, models.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to save order"})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// Delete removes an order. Callers of the API are expected to have confirmed.
func (h *OrdersHandler) Delete(c *gin.Context) {
	err := h.ledger.Remove(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to delete order"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Stats returns the KPIs of the current snapshot.
func (h *OrdersHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.ledger.Snapshot().Stats)
}

// ProfitChart returns the profit-over-time series of the current snapshot.
func (h *OrdersHandler) ProfitChart(c *gin.Context) {
	c.JSON(http.StatusOK, ledger.ProfitSeries(h.ledger.Snapshot().Orders))
}

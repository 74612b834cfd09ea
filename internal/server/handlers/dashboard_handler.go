package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pagne/internal/domain/models"
	"github.com/mamadbah2/pagne/internal/server/views"
	"github.com/mamadbah2/pagne/internal/service/ledger"
)

// DashboardTitle heads the page.
const DashboardTitle = "Tableau de bord 8 Mars 2026 – Suivi des ventes"

const msgInvalidNumbers = "Erreur : les quantités et dépenses doivent être des nombres"

// DashboardHandler serves the server-rendered dashboard and its form posts.
type DashboardHandler struct {
	ledger        Ledger
	notifications Notifications
	logger        *zap.Logger
	now           func() time.Time
}

// NewDashboardHandler constructs the HTML handler adapter.
func NewDashboardHandler(l Ledger, notifications Notifications, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{ledger: l, notifications: notifications, logger: logger, now: time.Now}
}

// Index reloads the orders and renders the page.
func (h *DashboardHandler) Index(c *gin.Context) {
	stale := h.ledger.Refresh(c.Request.Context()) != nil
	snap := h.ledger.Snapshot()

	c.HTML(http.StatusOK, "dashboard.html", views.Dashboard{
		Title:         DashboardTitle,
		Today:         h.now().Format(models.DateLayout),
		Stats:         snap.Stats,
		Orders:        snap.Orders,
		Series:        ledger.ProfitSeries(snap.Orders),
		Toasts:        h.notifications.Drain(),
		Confirmations: h.notifications.Pending(),
		Pricing:       h.ledger.Pricing(),
		Stale:         stale,
	})
}

// CreateOrder handles the sales form. Outcomes are reported through toasts.
func (h *DashboardHandler) CreateOrder(c *gin.Context) {
	var in models.OrderInput
	if err := c.ShouldBind(&in); err != nil {
		h.logger.Warn("invalid order form", zap.Error(err))
		h.notifications.Show(msgInvalidNumbers, models.NotifyError)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	// Submit reports success and failure itself.
	_, _ = h.ledger.Submit(c.Request.Context(), in)
	c.Redirect(http.StatusSeeOther, "/")
}

// RequestDelete opens the yes/no prompt for an order.
func (h *DashboardHandler) RequestDelete(c *gin.Context) {
	h.ledger.RequestDelete(c.Param("id"))
	c.Redirect(http.StatusSeeOther, "/")
}

// Confirm runs the pending action of a prompt.
func (h *DashboardHandler) Confirm(c *gin.Context) {
	if !h.notifications.Confirm(c.Param("id")) {
		h.logger.Debug("confirmation expired or unknown", zap.String("id", c.Param("id")))
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Dismiss closes a prompt without acting.
func (h *DashboardHandler) Dismiss(c *gin.Context) {
	h.notifications.Dismiss(c.Param("id"))
	c.Redirect(http.StatusSeeOther, "/")
}

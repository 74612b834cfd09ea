package handlers

import (
	"context"

	"github.com/mamadbah2/pagne/internal/domain/models"
	"github.com/mamadbah2/pagne/internal/service/ledger"
	"github.com/mamadbah2/pagne/internal/service/notify"
)

// Ledger describes the order operations the dashboard performs. Outcomes are
// reported to the operator through the notifier.
type Ledger interface {
	Snapshot() ledger.Snapshot
	Pricing() models.PricingParameters
	Refresh(ctx context.Context) error
	Submit(ctx context.Context, in models.OrderInput) (models.Order, error)
	RequestDelete(id string) string
}

// OrderAPI is the silent variant of Ledger used by the JSON API: outcomes are
// carried by the HTTP response only.
type OrderAPI interface {
	Snapshot() ledger.Snapshot
	Load(ctx context.Context) error
	Save(ctx context.Context, in models.OrderInput) (models.Order, error)
	Remove(ctx context.Context, id string) error
}

// Notifications exposes the queued toasts and prompts to the dashboard.
type Notifications interface {
	Show(message string, kind models.NotificationKind)
	Drain() []notify.Toast
	Pending() []notify.Confirmation
	Confirm(id string) bool
	Dismiss(id string) bool
}

package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/pagne/internal/domain/models"
)

// DefaultConfirmTimeout is how long a delete confirmation stays open.
const DefaultConfirmTimeout = 5 * time.Second

const (
	msgLoadFailed    = "Impossible de charger les données"
	msgSaved         = "Vente enregistrée !"
	msgSaveFailed    = "Erreur : "
	msgDeleteConfirm = "Vraiment supprimer ?"
	msgDeleted       = "Vente supprimée"
	msgDeleteFailed  = "Erreur suppression : "
)

// OrderStore is the remote collection the ledger reads and writes.
type OrderStore interface {
	List(ctx context.Context) ([]models.Order, error)
	Insert(ctx context.Context, order models.Order) (models.Order, error)
	DeleteByID(ctx context.Context, id string) error
}

// Notifier surfaces transient messages and yes/no prompts to the operator.
type Notifier interface {
	Show(message string, kind models.NotificationKind)
	ShowConfirmation(message string, onConfirm func(), timeout time.Duration) string
}

// Snapshot is a copy of the ledger state at one point in time.
type Snapshot struct {
	Orders []models.Order
	Stats  models.Stats
	Loaded bool
}

// Ledger owns the in-memory order list and its KPIs. Every mutation goes through
// the store first and is followed by a full refetch.
type Ledger struct {
	store          OrderStore
	notifier       Notifier
	pricing        models.PricingParameters
	confirmTimeout time.Duration
	logger         *zap.Logger

	mu     sync.RWMutex
	orders []models.Order
	stats  models.Stats
	loaded bool

	// held for the whole write-then-refresh cycle
	writeMu sync.Mutex

	// held from List until the snapshot is replaced
	loadMu sync.Mutex
}

// NewLedger wires a ledger over the given store.
func NewLedger(store OrderStore, notifier Notifier, pricing models.PricingParameters, confirmTimeout time.Duration, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if confirmTimeout <= 0 {
		confirmTimeout = DefaultConfirmTimeout
	}
	return &Ledger{
		store:          store,
		notifier:       notifier,
		pricing:        pricing,
		confirmTimeout: confirmTimeout,
		logger:         logger,
		orders:         make([]models.Order, 0),
	}
}

// Pricing returns the parameters orders are derived with.
func (l *Ledger) Pricing() models.PricingParameters {
	return l.pricing
}

// Snapshot returns a copy of the current orders and stats.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	orders := make([]models.Order, len(l.orders))
	copy(orders, l.orders)
	return Snapshot{Orders: orders, Stats: l.stats, Loaded: l.loaded}
}

// Refresh refetches the whole collection. On failure the previous state is kept
// and the operator is notified.
func (l *Ledger) Refresh(ctx context.Context) error {
	return l.refresh(ctx, l.notifier)
}

// Load is Refresh without notifications, for callers outside the dashboard.
func (l *Ledger) Load(ctx context.Context) error {
	return l.refresh(ctx, nopNotifier{})
}

func (l *Ledger) refresh(ctx context.Context, n Notifier) error {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()

	orders, err := l.store.List(ctx)
	if err != nil {
		l.logger.Error("failed to load orders", zap.Error(err))
		n.Show(msgLoadFailed, models.NotifyError)
		return err
	}

	stats := Aggregate(orders)

	l.mu.Lock()
	l.orders = orders
	l.stats = stats
	l.loaded = true
	l.mu.Unlock()

	l.logger.Debug("orders refreshed", zap.Int("count", len(orders)))
	return nil
}

// Submit validates and prices a new order, stores it and refreshes the ledger.
func (l *Ledger) Submit(ctx context.Context, in models.OrderInput) (models.Order, error) {
	return l.save(ctx, in, l.notifier)
}

// Save is Submit without notifications.
func (l *Ledger) Save(ctx context.Context, in models.OrderInput) (models.Order, error) {
	return l.save(ctx, in, nopNotifier{})
}

func (l *Ledger) save(ctx context.Context, in models.OrderInput, n Notifier) (models.Order, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		n.Show(msgSaveFailed+err.Error(), models.NotifyError)
		return models.Order{}, err
	}

	financials := Derive(in, l.pricing)
	if !financials.Finite() {
		err := fmt.Errorf("%w: totals overflow", models.ErrInvalidOrder)
		n.Show(msgSaveFailed+err.Error(), models.NotifyError)
		return models.Order{}, err
	}
	order := models.Order{OrderInput: in, Financials: financials}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	saved, err := l.store.Insert(ctx, order)
	if err != nil {
		l.logger.Error("failed to save order", zap.String("client", in.Client), zap.Error(err))
		n.Show(msgSaveFailed+err.Error(), models.NotifyError)
		return models.Order{}, err
	}

	l.logger.Info("order saved",
		zap.String("id", saved.ID),
		zap.String("date", saved.Date),
		zap.Float64("revenue", saved.TotalRevenue),
		zap.Float64("profit", saved.NetProfit))
	n.Show(msgSaved, models.NotifySuccess)

	_ = l.refresh(ctx, n)
	return saved, nil
}

// RequestDelete opens a confirmation prompt. The order is deleted only if the
// operator confirms before the prompt times out.
func (l *Ledger) RequestDelete(id string) string {
	return l.notifier.ShowConfirmation(msgDeleteConfirm, func() {
		_ = l.Delete(context.Background(), id)
	}, l.confirmTimeout)
}

// Delete removes an order that the operator already confirmed and refreshes the ledger.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	return l.remove(ctx, id, l.notifier)
}

// Remove is Delete without notifications.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	return l.remove(ctx, id, nopNotifier{})
}

func (l *Ledger) remove(ctx context.Context, id string, n Notifier) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if err := l.store.DeleteByID(ctx, id); err != nil {
		l.logger.Error("failed to delete order", zap.String("id", id), zap.Error(err))
		n.Show(msgDeleteFailed+err.Error(), models.NotifyError)
		return err
	}

	l.logger.Info("order deleted", zap.String("id", id))
	_ = l.refresh(ctx, n)
	n.Show(msgDeleted, models.NotifySuccess)
	return nil
}

type nopNotifier struct{}

func (nopNotifier) Show(string, models.NotificationKind) {}

func (nopNotifier) ShowConfirmation(string, func(), time.Duration) string { return "" }

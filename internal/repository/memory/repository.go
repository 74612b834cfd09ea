package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/mamadbah2/pagne/internal/domain/models"
	"github.com/mamadbah2/pagne/internal/repository"
)

// OrderRepository keeps orders in process memory. Data is lost on restart.
type OrderRepository struct {
	mu     sync.RWMutex
	orders []models.Order
	nextID int
	now    func() time.Time
}

// NewOrderRepository creates an empty in-memory order store.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make([]models.Order, 0),
		nextID: 1,
		now:    time.Now,
	}
}

// List returns every order sorted ascending by date, then by creation time.
func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrStoreUnavailable, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Order, len(r.orders))
	copy(out, r.orders)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Insert stores the order under a fresh identifier and stamps its creation time.
func (r *OrderRepository) Insert(ctx context.Context, order models.Order) (models.Order, error) {
	if err := ctx.Err(); err != nil {
		return models.Order{}, fmt.Errorf("%w: %w", repository.ErrStoreWrite, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = strconv.Itoa(r.nextID)
	order.CreatedAt = r.now().UTC()
	r.nextID++
	r.orders = append(r.orders, order)
	return order, nil
}

// DeleteByID removes a single order.
func (r *OrderRepository) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", repository.ErrStoreWrite, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, o := range r.orders {
		if o.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: delete %s: %w", repository.ErrStoreWrite, id, repository.ErrNotFound)
}

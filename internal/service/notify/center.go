// Package notify keeps the operator-facing toasts and the yes/no prompts that
// wait for an answer.
package notify

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/pagne/internal/domain/models"
)

// DefaultMaxToasts bounds the queue when the dashboard is not being viewed.
const DefaultMaxToasts = 20

// Toast is a transient message.
type Toast struct {
	ID        string                  `json:"id"`
	Message   string                  `json:"message"`
	Kind      models.NotificationKind `json:"kind"`
	CreatedAt time.Time               `json:"created_at"`
}

// Confirmation is an open yes/no prompt.
type Confirmation struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

type pendingConfirmation struct {
	Confirmation
	onConfirm func()
	timer     *time.Timer
}

// Center collects toasts and confirmations until the dashboard renders them.
type Center struct {
	mu        sync.Mutex
	toasts    []Toast
	maxToasts int
	pending   map[string]*pendingConfirmation
	logger    *zap.Logger
	now       func() time.Time
}

// NewCenter builds an empty notification center.
func NewCenter(maxToasts int, logger *zap.Logger) *Center {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxToasts <= 0 {
		maxToasts = DefaultMaxToasts
	}
	return &Center{
		maxToasts: maxToasts,
		pending:   make(map[string]*pendingConfirmation),
		logger:    logger,
		now:       time.Now,
	}
}

// Show queues a toast. The oldest toast is dropped once the queue is full.
func (c *Center) Show(message string, kind models.NotificationKind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.toasts = append(c.toasts, Toast{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		CreatedAt: c.now(),
	})
	if over := len(c.toasts) - c.maxToasts; over > 0 {
		c.toasts = append([]Toast(nil), c.toasts[over:]...)
	}
}

// ShowConfirmation opens a prompt that runs onConfirm if confirmed within timeout.
// An unanswered prompt expires silently.
func (c *Center) ShowConfirmation(message string, onConfirm func(), timeout time.Duration) string {
	id := uuid.NewString()

	c.mu.Lock()
	defer c.mu.Unlock()

	p := &pendingConfirmation{
		Confirmation: Confirmation{ID: id, Message: message, ExpiresAt: c.now().Add(timeout)},
		onConfirm:    onConfirm,
	}
	p.timer = time.AfterFunc(timeout, func() { c.expire(id) })
	c.pending[id] = p

	return id
}

// Confirm closes the prompt and runs its action. It reports false for unknown,
// dismissed or expired prompts.
func (c *Center) Confirm(id string) bool {
	p := c.take(id)
	if p == nil {
		return false
	}
	if p.onConfirm != nil {
		p.onConfirm()
	}
	return true
}

// Dismiss closes the prompt without running its action.
func (c *Center) Dismiss(id string) bool {
	return c.take(id) != nil
}

// Drain returns the queued toasts and empties the queue.
func (c *Center) Drain() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.toasts
	c.toasts = nil
	return out
}

// Pending lists the open prompts, soonest to expire first.
func (c *Center) Pending() []Confirmation {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Confirmation, 0, len(c.pending))
	for _, p := range c.pending {
		out = append(out, p.Confirmation)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out
}

func (c *Center) take(id string) *pendingConfirmation {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[id]
	if !ok {
		return nil
	}
	delete(c.pending, id)
	p.timer.Stop()
	return p
}

func (c *Center) expire(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pending[id]; ok {
		delete(c.pending, id)
		c.logger.Debug("confirmation expired", zap.String("id", id))
	}
}

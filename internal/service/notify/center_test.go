package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/pagne/internal/domain/models"
)

func TestCenter_ShowAndDrain(t *testing.T) {
	c := NewCenter(0, nil)

	c.Show("Vente enregistrée !", models.NotifySuccess)
	c.Show("Erreur suppression", models.NotifyError)

	toasts := c.Drain()
	require.Len(t, toasts, 2)
	assert.Equal(t, "Vente enregistrée !", toasts[0].Message)
	assert.Equal(t, models.NotifySuccess, toasts[0].Kind)
	assert.NotEmpty(t, toasts[0].ID)
	assert.Equal(t, models.NotifyError, toasts[1].Kind)

	assert.Empty(t, c.Drain())
}

func TestCenter_ShowDropsOldestWhenFull(t *testing.T) {
	c := NewCenter(2, nil)

	c.Show("one", models.NotifyInfo)
	c.Show("two", models.NotifyInfo)
	c.Show("three", models.NotifyInfo)

	toasts := c.Drain()
	require.Len(t, toasts, 2)
	assert.Equal(t, "two", toasts[0].Message)
	assert.Equal(t, "three", toasts[1].Message)
}

func TestCenter_ConfirmRunsActionOnce(t *testing.T) {
	c := NewCenter(0, nil)
	calls := 0

	id := c.ShowConfirmation("Vraiment supprimer ?", func() { calls++ }, time.Minute)
	require.Len(t, c.Pending(), 1)
	assert.Equal(t, "Vraiment supprimer ?", c.Pending()[0].Message)

	assert.True(t, c.Confirm(id))
	assert.False(t, c.Confirm(id))
	assert.Equal(t, 1, calls)
	assert.Empty(t, c.Pending())
}

func TestCenter_DismissIsNoOp(t *testing.T) {
	c := NewCenter(0, nil)
	called := false

	id := c.ShowConfirmation("Vraiment supprimer ?", func() { called = true }, time.Minute)

	assert.True(t, c.Dismiss(id))
	assert.False(t, c.Confirm(id))
	assert.False(t, called)
}

func TestCenter_TimeoutIsNoOp(t *testing.T) {
	c := NewCenter(0, nil)
	called := false

	id := c.ShowConfirmation("Vraiment supprimer ?", func() { called = true }, 10*time.Millisecond)

	require.Eventually(t, func() bool { return len(c.Pending()) == 0 }, time.Second, 5*time.Millisecond)
	assert.False(t, c.Confirm(id))
	assert.False(t, called)
}

func TestCenter_UnknownConfirmation(t *testing.T) {
	c := NewCenter(0, nil)

	assert.False(t, c.Confirm("missing"))
	assert.False(t, c.Dismiss("missing"))
}

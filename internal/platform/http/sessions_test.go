package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgdevment/service-report/internal/mask"
	"github.com/rgdevment/service-report/internal/service"
)

func newController(t *testing.T) *service.Controller {
	t.Helper()
	builder, err := service.NewPayloadBuilder("+5544999999999", "Clean Pool", mask.Brazil())
	require.NoError(t, err)
	ctrl, err := service.NewController(service.NewValidator(), builder, &MockSender{})
	require.NoError(t, err)
	return ctrl
}

func TestSessionStoreSweep(t *testing.T) {
	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore()
	store.now = func() time.Time { return now }

	stale := store.Add(newController(t))
	fresh := store.Add(newController(t))

	now = now.Add(20 * time.Minute)
	_, ok := store.Get(fresh)
	require.True(t, ok)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, store.Sweep(30*time.Minute))

	_, ok = store.Get(stale)
	assert.False(t, ok)
	_, ok = store.Get(fresh)
	assert.True(t, ok)
}

func TestSessionStoreDeleteClosesController(t *testing.T) {
	store := NewSessionStore()
	ctrl := newController(t)
	id := store.Add(ctrl)

	require.True(t, store.Delete(id))
	_, err := ctrl.SetField("notes", "x")
	assert.ErrorIs(t, err, service.ErrClosed)
}

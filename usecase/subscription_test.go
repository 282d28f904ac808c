package usecase

import (
	"context"
	"testing"
	"time"

	"farmertwin/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextTimesOutWhenIdle(t *testing.T) {
	sub := newSubscription(1)

	start := time.Now()
	_, ok, err := sub.Next(context.Background(), 20*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestNextWakesOnEnqueue(t *testing.T) {
	sub := newSubscription(1)

	go func() {
		time.Sleep(10 * time.Millisecond)
		sub.enqueue(model.Alert{ID: 7})
	}()

	alert, ok, err := sub.Next(context.Background(), time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(7), alert.ID)
}

func TestNextHonoursCancellation(t *testing.T) {
	sub := newSubscription(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := sub.Next(ctx, time.Second)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueueIsFIFO(t *testing.T) {
	sub := newSubscription(1)
	for i := int64(1); i <= 3; i++ {
		sub.enqueue(model.Alert{ID: i})
	}
	require.Equal(t, 3, sub.Pending())

	for i := int64(1); i <= 3; i++ {
		alert, ok, err := sub.Next(context.Background(), time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, i, alert.ID)
	}
}

func TestEnqueueAfterCloseIsDropped(t *testing.T) {
	sub := newSubscription(1)
	sub.close()
	sub.enqueue(model.Alert{ID: 1})
	assert.Equal(t, 0, sub.Pending())
}

package controllable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversByKind(t *testing.T) {
	d := NewDispatcher()
	var values, maxes int
	d.Subscribe(ValueChanged, func(Event) { values++ })
	d.Subscribe(MaxLimitReached, func(Event) { maxes++ })

	d.Emit(Event{Kind: ValueChanged})
	d.Emit(Event{Kind: ValueChanged})
	d.Emit(Event{Kind: MaxLimitReached})
	d.Emit(Event{Kind: MinLimitReached})

	assert.Equal(t, 2, values)
	assert.Equal(t, 1, maxes)
}

func TestDispatcherCancel(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	sub := d.Subscribe(ValueChanged, func(Event) { calls++ })
	require.True(t, sub.Active())
	require.NotEmpty(t, sub.ID())
	require.Equal(t, 1, d.Len())

	sub.Cancel()
	sub.Cancel()
	require.False(t, sub.Active())
	require.Equal(t, 0, d.Len())

	d.Emit(Event{Kind: ValueChanged})
	require.Equal(t, 0, calls)
}

func TestDispatcherCancelDuringEmit(t *testing.T) {
	d := NewDispatcher()
	var order []string
	var second *Subscription
	d.Subscribe(ValueChanged, func(Event) {
		order = append(order, "first")
		second.Cancel()
	})
	second = d.Subscribe(ValueChanged, func(Event) { order = append(order, "second") })

	d.Emit(Event{Kind: ValueChanged})
	require.Equal(t, []string{"first"}, order)
}

func TestEventKindString(t *testing.T) {
	require.Len(t, EventKinds(), 5)
	assert.Equal(t, "value_changed", ValueChanged.String())
	assert.Equal(t, "min_limit_exited", MinLimitExited.String())
	assert.Equal(t, "event(42)", EventKind(42).String())
}

func TestNilSubscriptionCancel(t *testing.T) {
	var s *Subscription
	assert.NotPanics(t, s.Cancel)
	assert.False(t, s.Active())
}

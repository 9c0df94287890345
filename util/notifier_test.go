// util/notifier_test.go
package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stationgate/api/util"
)

func TestNotifierDeliversInRegistrationOrder(t *testing.T) {
	n := util.NewNotifier()

	var calls []string
	n.Subscribe(func() { calls = append(calls, "first") })
	n.Subscribe(func() { calls = append(calls, "second") })
	n.Subscribe(func() { calls = append(calls, "third") })

	n.Notify()
	assert.Equal(t, []string{"first", "second", "third"}, calls)

	n.Notify()
	assert.Equal(t, []string{"first", "second", "third", "first", "second", "third"}, calls)
}

func TestNotifierDisposerIsIdempotent(t *testing.T) {
	n := util.NewNotifier()

	count := 0
	dispose := n.Subscribe(func() { count++ })
	assert.Equal(t, 1, n.Len())

	dispose()
	dispose()
	dispose()
	assert.Equal(t, 0, n.Len())

	n.Notify()
	assert.Equal(t, 0, count)
}

func TestNotifierDisposeRemovesOnlyTarget(t *testing.T) {
	n := util.NewNotifier()

	var calls []string
	n.Subscribe(func() { calls = append(calls, "a") })
	disposeB := n.Subscribe(func() { calls = append(calls, "b") })
	n.Subscribe(func() { calls = append(calls, "c") })

	disposeB()
	n.Notify()
	assert.Equal(t, []string{"a", "c"}, calls)
}

func TestNotifierSubscribeDuringDelivery(t *testing.T) {
	n := util.NewNotifier()

	lateCalls := 0
	n.Subscribe(func() {
		n.Subscribe(func() { lateCalls++ })
	})

	// A callback registered mid-delivery sits out the current transition.
	n.Notify()
	assert.Equal(t, 0, lateCalls)

	n.Notify()
	assert.Equal(t, 1, lateCalls)
}

func TestNotifierUnsubscribeDuringDelivery(t *testing.T) {
	n := util.NewNotifier()

	count := 0
	var dispose func()
	n.Subscribe(func() { dispose() })
	dispose = n.Subscribe(func() { count++ })

	// The snapshot taken at Notify still delivers this transition; the
	// disposer takes effect for the next one.
	n.Notify()
	assert.Equal(t, 1, count)

	n.Notify()
	assert.Equal(t, 1, count)
}

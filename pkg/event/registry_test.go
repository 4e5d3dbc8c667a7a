package event

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(nil)
	require.NoError(t, err)
	return r
}

func TestDispatch_RegistrationOrder(t *testing.T) {
	r := newTestRegistry(t)

	var order []string
	On(r, nil, func(PlayerVisibilityEvent) error {
		order = append(order, "first")
		return nil
	})
	On(r, nil, func(PlayerVisibilityEvent) error {
		order = append(order, "second")
		return nil
	})
	On(r, nil, func(PlayerVisibilityEvent) error {
		order = append(order, "third")
		return nil
	})

	err := Dispatch(r, PlayerVisibilityEvent{PlayerID: uuid.New(), Visible: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestDispatch_ListenerFailureDoesNotStopOthers(t *testing.T) {
	r := newTestRegistry(t)

	errBoom := errors.New("boom")
	errBang := errors.New("bang")
	var order []string
	On(r, nil, func(PlayerVisibilityEvent) error {
		order = append(order, "first")
		return errBoom
	})
	On(r, nil, func(PlayerVisibilityEvent) error {
		order = append(order, "second")
		return nil
	})
	On(r, nil, func(PlayerVisibilityEvent) error {
		order = append(order, "third")
		return errBang
	})

	err := Dispatch(r, PlayerVisibilityEvent{})
	require.Error(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, order)

	var dispatchErr *DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, reflect.TypeOf(PlayerVisibilityEvent{}), dispatchErr.EventType)
	require.Len(t, dispatchErr.Errs, 2)
	assert.Same(t, errBoom, dispatchErr.Errs[0])
	assert.Same(t, errBang, dispatchErr.Errs[1])
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, err, errBang)
}

func TestDispatch_NoListeners(t *testing.T) {
	r := newTestRegistry(t)
	assert.NoError(t, Dispatch(r, MapFreezeEvent{}))
}

func TestUnregister_StopsDelivery(t *testing.T) {
	r := newTestRegistry(t)

	var calls int
	reg := On(r, nil, func(PlayerVisibilityEvent) error {
		calls++
		return nil
	})

	require.NoError(t, Dispatch(r, PlayerVisibilityEvent{}))
	assert.Equal(t, 1, calls)

	reg.Unregister()
	reg.Unregister() // idempotent

	require.NoError(t, Dispatch(r, PlayerVisibilityEvent{}))
	assert.Equal(t, 1, calls)
}

func TestUnregisterAddon(t *testing.T) {
	r := newTestRegistry(t)

	addon := "my-addon"
	var mine, theirs int
	On(r, addon, func(PlayerVisibilityEvent) error { mine++; return nil })
	On(r, addon, func(MapFreezeEvent) error { mine++; return nil })
	On(r, "other-addon", func(PlayerVisibilityEvent) error { theirs++; return nil })

	assert.Equal(t, 2, r.UnregisterAddon(addon))
	assert.Equal(t, 0, r.UnregisterAddon(addon))

	require.NoError(t, Dispatch(r, PlayerVisibilityEvent{}))
	require.NoError(t, Dispatch(r, MapFreezeEvent{}))
	assert.Equal(t, 0, mine)
	assert.Equal(t, 1, theirs)
}

func TestUnregisterAddon_CountsInterfaceListenerOnce(t *testing.T) {
	r := newTestRegistry(t)

	// Attach the interface listener to two concrete dispatchers.
	require.NoError(t, Dispatch(r, MapFreezeEvent{}))
	require.NoError(t, Dispatch(r, MapUnfreezeEvent{}))

	addon := "map-watcher"
	On(r, addon, func(MapEvent) error { return nil })

	assert.Equal(t, 1, r.UnregisterAddon(addon))
}

func TestUnregisterAddon_NonComparableAddon(t *testing.T) {
	r := newTestRegistry(t)

	var calls int
	reg := On(r, []string{"slice-addon"}, func(PlayerVisibilityEvent) error {
		calls++
		return nil
	})
	On(r, "plain", func(PlayerVisibilityEvent) error { return nil })

	// Slices never compare equal, so bulk removal must not match (or
	// panic); the handle remains the only way out.
	assert.Equal(t, 0, r.UnregisterAddon([]string{"slice-addon"}))
	assert.Equal(t, 1, r.UnregisterAddon("plain"))

	reg.Unregister()
	require.NoError(t, Dispatch(r, PlayerVisibilityEvent{}))
	assert.Equal(t, 0, calls)
}

func TestInterfaceListener_ReceivesConcreteEvents(t *testing.T) {
	r := newTestRegistry(t)

	var events []MapEvent
	On(r, nil, func(ev MapEvent) error {
		events = append(events, ev)
		return nil
	})

	// Both dispatchers are created after the listener registered; the
	// new concrete dispatchers must pick it up.
	require.NoError(t, Dispatch(r, MapFreezeEvent{}))
	require.NoError(t, Dispatch(r, MapUnfreezeEvent{}))

	require.Len(t, events, 2)
	assert.IsType(t, MapFreezeEvent{}, events[0])
	assert.IsType(t, MapUnfreezeEvent{}, events[1])
}

func TestInterfaceListener_AttachesToExistingDispatchers(t *testing.T) {
	r := newTestRegistry(t)

	// Create the concrete dispatcher first.
	require.NoError(t, Dispatch(r, MapFreezeEvent{}))

	var calls int
	On(r, nil, func(MapEvent) error {
		calls++
		return nil
	})

	require.NoError(t, Dispatch(r, MapFreezeEvent{}))
	assert.Equal(t, 1, calls)
}

func TestInterfaceListener_UnregisterRemovesEverywhere(t *testing.T) {
	r := newTestRegistry(t)

	var calls int
	reg := On(r, nil, func(MapEvent) error {
		calls++
		return nil
	})

	require.NoError(t, Dispatch(r, MapFreezeEvent{}))
	require.NoError(t, Dispatch(r, MapUnfreezeEvent{}))
	assert.Equal(t, 2, calls)

	reg.Unregister()

	require.NoError(t, Dispatch(r, MapFreezeEvent{}))
	require.NoError(t, Dispatch(r, MapUnfreezeEvent{}))
	assert.Equal(t, 2, calls)
}

func TestInterfaceListener_UnregisterRacesLazyDispatcher(t *testing.T) {
	// Unregister racing the back-fill of a freshly created concrete
	// dispatcher must not resurrect the listener.
	for i := 0; i < 500; i++ {
		r := newTestRegistry(t)

		var calls atomic.Int32
		reg := On(r, nil, func(MapEvent) error {
			calls.Add(1)
			return nil
		})

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			reg.Unregister()
		}()
		go func() {
			defer wg.Done()
			r.DispatcherFor(reflect.TypeOf(MapFreezeEvent{}))
		}()
		wg.Wait()

		require.NoError(t, Dispatch(r, MapFreezeEvent{}))
		require.Zero(t, calls.Load(), "iteration %d: listener invoked after Unregister returned", i)
	}
}

func TestLifecycleEvents(t *testing.T) {
	r := newTestRegistry(t)

	var enabled, disabled int
	On(r, nil, func(EnableEvent) error { enabled++; return nil })
	On(r, nil, func(DisableEvent) error { disabled++; return nil })

	require.NoError(t, Dispatch(r, EnableEvent{}))
	require.NoError(t, Dispatch(r, DisableEvent{}))
	assert.Equal(t, 1, enabled)
	assert.Equal(t, 1, disabled)
}

func TestDispatch_ReentrantRegistration(t *testing.T) {
	r := newTestRegistry(t)

	var lateCalls int
	On(r, nil, func(PlayerVisibilityEvent) error {
		On(r, nil, func(PlayerVisibilityEvent) error {
			lateCalls++
			return nil
		})
		return nil
	})

	// The listener registered mid-dispatch only sees the next dispatch.
	require.NoError(t, Dispatch(r, PlayerVisibilityEvent{}))
	assert.Equal(t, 0, lateCalls)

	require.NoError(t, Dispatch(r, PlayerVisibilityEvent{}))
	assert.Equal(t, 1, lateCalls)
}

func TestRegistration_Accessors(t *testing.T) {
	r := newTestRegistry(t)

	addon := "my-addon"
	reg := On(r, addon, func(MapFreezeEvent) error { return nil })

	assert.Equal(t, addon, reg.Addon())
	assert.Equal(t, reflect.TypeOf(MapFreezeEvent{}), reg.EventType())
}

func TestDispatcherFor(t *testing.T) {
	r := newTestRegistry(t)

	t1 := reflect.TypeOf(MapFreezeEvent{})
	d := r.DispatcherFor(t1)
	require.NotNil(t, d)
	assert.Equal(t, t1, d.EventType())
	assert.Same(t, d, r.DispatcherFor(t1))
	assert.Equal(t, 0, d.Len())

	On(r, nil, func(MapFreezeEvent) error { return nil })
	assert.Equal(t, 1, d.Len())
}

func TestDispatch_Concurrent(t *testing.T) {
	r := newTestRegistry(t)

	var mu sync.Mutex
	calls := 0
	On(r, nil, func(PlayerVisibilityEvent) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = Dispatch(r, PlayerVisibilityEvent{})
		}()
	}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			On(r, nil, func(MapFreezeEvent) error { return nil }).Unregister()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, calls)
}

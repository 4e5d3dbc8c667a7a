package event

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/overmap/overmap/pkg/event"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Registry maps event types to dispatchers and owns the full set of
// registrations so listeners can be removed by handle or by addon.
// A zero Registry is not usable; create one with NewRegistry.
type Registry struct {
	logger *slog.Logger

	// OTEL metrics (no-op unless a global provider is configured)
	dispatched     metric.Int64Counter
	listenerErrors metric.Int64Counter
	registered     metric.Int64UpDownCounter

	mu          sync.RWMutex
	dispatchers map[reflect.Type]*Dispatcher
}

// NewRegistry creates an empty registry. Uses the global OTel meter
// for metrics (no-op if not configured).
func NewRegistry(logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		logger:      logger,
		dispatchers: make(map[reflect.Type]*Dispatcher),
	}

	m := meter()

	var err error

	r.dispatched, err = m.Int64Counter(
		"event.dispatched",
		metric.WithDescription("Total events dispatched"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatched counter: %w", err)
	}

	r.listenerErrors, err = m.Int64Counter(
		"event.listener.errors",
		metric.WithDescription("Total listener invocation failures"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating listener error counter: %w", err)
	}

	r.registered, err = m.Int64UpDownCounter(
		"event.listeners.registered",
		metric.WithDescription("Currently registered listeners"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating registered counter: %w", err)
	}

	return r, nil
}

// Registration is the handle returned when a listener is attached.
// It removes the listener from every dispatcher it was added to.
type Registration struct {
	registry  *Registry
	addon     any
	eventType reflect.Type
	handler   func(any) error

	mu          sync.Mutex
	dispatchers []*Dispatcher
	done        bool
}

// Addon returns the opaque owner value the listener was registered with.
func (reg *Registration) Addon() any { return reg.addon }

// EventType returns the type the listener was registered for. Listeners
// registered for an interface type also receive events of every
// concrete type assignable to it.
func (reg *Registration) EventType() reflect.Type { return reg.eventType }

// Unregister detaches the listener. Safe to call more than once.
func (reg *Registration) Unregister() {
	reg.mu.Lock()
	if reg.done {
		reg.mu.Unlock()
		return
	}
	reg.done = true
	dispatchers := reg.dispatchers
	reg.dispatchers = nil
	reg.mu.Unlock()

	for _, d := range dispatchers {
		d.remove(reg)
	}
	reg.registry.registered.Add(context.Background(), -1)
}

func (reg *Registration) invoke(ev any) error {
	return reg.handler(ev)
}

// attach adds reg to a lazily created dispatcher. The handle lock is
// held across the dispatcher add so a concurrent Unregister either
// sees the new dispatcher in its snapshot or makes attach a no-op;
// an unregistered handle must never reappear on a later dispatch.
func (reg *Registration) attach(d *Dispatcher) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.done {
		return
	}
	reg.dispatchers = append(reg.dispatchers, d)
	d.add(reg)
}

// On registers fn for events of type T. Addon identifies the owner for
// bulk removal via UnregisterAddon; it may be nil. When T is an
// interface, fn receives every dispatched event whose type implements
// it, including types first dispatched after registration.
func On[T any](r *Registry, addon any, fn func(T) error) *Registration {
	return onType(r, addon, typeOf[T](), func(ev any) error {
		return fn(ev.(T))
	})
}

// onType is the untyped core of On, shared with the reflective helper.
// It attaches the listener to the dispatcher for t itself plus, for
// interface types, every existing dispatcher assignable to t.
func onType(r *Registry, addon any, t reflect.Type, handler func(any) error) *Registration {
	reg := &Registration{
		registry:  r,
		addon:     addon,
		eventType: t,
		handler:   handler,
	}

	r.mu.Lock()
	reg.attachLocked(r.dispatcherLocked(t))
	if isSupertype(t) {
		for et, d := range r.dispatchers {
			if et != t && et.AssignableTo(t) {
				reg.attachLocked(d)
			}
		}
	}
	r.mu.Unlock()

	r.registered.Add(context.Background(), 1)
	r.logger.Debug("event listener registered", "eventType", t.String(), "addon", addonLabel(addon))
	return reg
}

// attachLocked is attach without taking the dispatcher lock ordering
// risk during registration; the registry lock already serializes these.
func (reg *Registration) attachLocked(d *Dispatcher) {
	reg.dispatchers = append(reg.dispatchers, d)
	d.add(reg)
}

// Dispatch delivers ev to the listeners registered for T and, when T
// is a concrete type, to listeners registered for any interface type T
// implements. It blocks until every listener has run and returns a
// *DispatchError if any of them failed.
func Dispatch[T any](r *Registry, ev T) error {
	return r.DispatcherFor(typeOf[T]()).Dispatch(ev)
}

// DispatcherFor returns the dispatcher for the given event type,
// creating it on first use. New dispatchers for concrete types are
// back-filled with listeners already registered for interface types
// the event type implements, in their original registration order.
func (r *Registry) DispatcherFor(t reflect.Type) *Dispatcher {
	r.mu.RLock()
	d, ok := r.dispatchers[t]
	r.mu.RUnlock()
	if ok {
		return d
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dispatcherLocked(t)
}

func (r *Registry) dispatcherLocked(t reflect.Type) *Dispatcher {
	if d, ok := r.dispatchers[t]; ok {
		return d
	}
	d := &Dispatcher{registry: r, eventType: t}
	if !isSupertype(t) {
		// Back-fill: listeners on interface types this concrete type
		// implements must see its events too.
		var backfill []*Registration
		for et, existing := range r.dispatchers {
			if isSupertype(et) && t.AssignableTo(et) {
				existing.mu.RLock()
				backfill = append(backfill, existing.listeners...)
				existing.mu.RUnlock()
			}
		}
		for _, reg := range backfill {
			reg.attach(d)
		}
	}
	r.dispatchers[t] = d
	return d
}

// UnregisterListener removes a single registration. Equivalent to
// calling reg.Unregister.
func (r *Registry) UnregisterListener(reg *Registration) {
	reg.Unregister()
}

// UnregisterAddon removes every listener registered with the given
// addon value and returns how many were removed. Addon values are
// matched with ==, so listeners registered under a non-comparable
// addon (a slice, map or func) never match here and can only be
// removed through their Registration handles.
func (r *Registry) UnregisterAddon(addon any) int {
	r.mu.RLock()
	var regs []*Registration
	seen := make(map[*Registration]struct{})
	for _, d := range r.dispatchers {
		d.mu.RLock()
		for _, reg := range d.listeners {
			if sameAddon(reg.addon, addon) {
				if _, dup := seen[reg]; !dup {
					seen[reg] = struct{}{}
					regs = append(regs, reg)
				}
			}
		}
		d.mu.RUnlock()
	}
	r.mu.RUnlock()

	for _, reg := range regs {
		reg.Unregister()
	}
	if len(regs) > 0 {
		r.logger.Debug("addon listeners unregistered", "addon", addonLabel(addon), "count", len(regs))
	}
	return len(regs)
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func isSupertype(t reflect.Type) bool {
	return t.Kind() == reflect.Interface
}

// sameAddon is == guarded against non-comparable dynamic types, which
// would panic in a plain interface comparison.
func sameAddon(a, b any) bool {
	if t := reflect.TypeOf(a); t != nil && t == reflect.TypeOf(b) && !t.Comparable() {
		return false
	}
	return a == b
}

func addonLabel(addon any) string {
	if addon == nil {
		return "<none>"
	}
	return fmt.Sprintf("%T", addon)
}

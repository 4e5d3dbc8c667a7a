// Package event provides a typed publish/subscribe registry between
// host-application occurrences (lifecycle transitions, map freezes,
// player visibility changes) and addon code. Dispatch is synchronous,
// in registration order, with per-listener fault isolation.
package event

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Dispatcher holds the ordered listener list for a single event type.
// Instances are created lazily by a Registry and never destroyed.
type Dispatcher struct {
	registry  *Registry
	eventType reflect.Type

	mu        sync.RWMutex
	listeners []*Registration
}

// EventType returns the event type this dispatcher is bound to.
func (d *Dispatcher) EventType() reflect.Type { return d.eventType }

// Len returns the number of registered listeners.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners)
}

// Dispatch synchronously invokes every listener in registration order.
// A failing listener does not stop the remaining listeners; after all
// have run, the collected failures are returned joined, first failure
// first. Listeners may re-enter the registry: the listener list is
// snapshotted before any listener runs, so re-entrant registration
// takes effect on the next dispatch.
func (d *Dispatcher) Dispatch(ev any) error {
	d.mu.RLock()
	listeners := make([]*Registration, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.RUnlock()

	typeAttr := metric.WithAttributes(attribute.String("event.type", d.eventType.String()))
	d.registry.dispatched.Add(context.Background(), 1, typeAttr)

	var errs []error
	for _, reg := range listeners {
		if err := reg.invoke(ev); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		d.registry.listenerErrors.Add(context.Background(), int64(len(errs)), typeAttr)
		return &DispatchError{EventType: d.eventType, Errs: errs}
	}
	return nil
}

func (d *Dispatcher) add(reg *Registration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, reg)
}

func (d *Dispatcher) remove(reg *Registration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, r := range d.listeners {
		if r == reg {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// DispatchError reports one or more listener failures from a single
// dispatch. The first failure is the primary; Unwrap exposes all of
// them in invocation order.
type DispatchError struct {
	EventType reflect.Type
	Errs      []error
}

func (e *DispatchError) Error() string {
	if len(e.Errs) == 1 {
		return fmt.Sprintf("event: listener for %s failed: %v", e.EventType, e.Errs[0])
	}
	return fmt.Sprintf("event: %d listeners for %s failed, first: %v", len(e.Errs), e.EventType, e.Errs[0])
}

func (e *DispatchError) Unwrap() []error { return e.Errs }

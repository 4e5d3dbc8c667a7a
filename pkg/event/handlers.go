package event

import (
	"fmt"
	"reflect"
	"strings"
)

// RegistrationError reports a handler method that cannot be turned into
// a listener. It is returned at registration time and is unrelated to
// listener failures during dispatch.
type RegistrationError struct {
	Holder reflect.Type
	Method string
	Reason string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("event: cannot register %s.%s: %s", e.Holder, e.Method, e.Reason)
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// RegisterHandlers scans holder for exported methods named Handle* and
// registers each as a listener for its parameter type. A method must
// take exactly one parameter and return nothing or a single error;
// anything else named Handle* fails the whole call with a
// *RegistrationError and registers nothing.
//
// Explicit On registration is the primary mechanism; this helper exists
// for addons that bundle many listeners on one receiver.
func RegisterHandlers(r *Registry, addon any, holder any) ([]*Registration, error) {
	hv := reflect.ValueOf(holder)
	ht := hv.Type()

	var regs []*Registration
	fail := func(method, reason string) ([]*Registration, error) {
		for _, reg := range regs {
			reg.Unregister()
		}
		return nil, &RegistrationError{Holder: ht, Method: method, Reason: reason}
	}

	for i := 0; i < ht.NumMethod(); i++ {
		m := ht.Method(i)
		if !strings.HasPrefix(m.Name, "Handle") {
			continue
		}
		mt := m.Func.Type()
		// mt includes the receiver as parameter 0.
		if mt.NumIn() != 2 {
			return fail(m.Name, fmt.Sprintf("want exactly 1 parameter, have %d", mt.NumIn()-1))
		}
		switch mt.NumOut() {
		case 0, 1:
		default:
			return fail(m.Name, fmt.Sprintf("want at most 1 return value, have %d", mt.NumOut()))
		}
		returnsErr := mt.NumOut() == 1
		if returnsErr && !mt.Out(0).Implements(errType) {
			return fail(m.Name, fmt.Sprintf("return type %s is not error", mt.Out(0)))
		}

		eventType := mt.In(1)
		fn := hv.Method(i)
		reg := onType(r, addon, eventType, func(ev any) error {
			out := fn.Call([]reflect.Value{reflect.ValueOf(ev)})
			if returnsErr && !out[0].IsNil() {
				return out[0].Interface().(error)
			}
			return nil
		})
		regs = append(regs, reg)
	}

	return regs, nil
}

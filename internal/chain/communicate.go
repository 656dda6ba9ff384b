package chain

import (
	"reflect"

	"github.com/jive-vlbi/vlbid/internal/vlbierr"
)

// Communicate reaches into a live step's user-data while the chain is
// running (§4.E "Communication": "communicate(stepid, fn, args...) reaches
// into the live worker's user-data under a per-step mutex"). fn must be a
// func whose first parameter's type is assignable from the step's
// user-data and whose remaining parameters match args positionally; it is
// invoked as fn(userData, args...) via reflection, a Go rendering of
// jive5ab's thunk.h RTTI-checked callable (supplemented from
// original_source/, see DESIGN.md).
//
// A signature mismatch — wrong arity or a non-assignable parameter type —
// is a programmer error (wiring a callback meant for a different step),
// reported as vlbierr.KindProgrammer rather than panicking.
func (c *Chain) Communicate(id StepID, fn any, args ...any) (any, error) {
	if int(id) < 0 || int(id) >= len(c.steps) {
		return nil, vlbierr.New(vlbierr.KindProgrammer, "Chain.Communicate", vlbierr.ErrInvalidFormatString)
	}
	s := c.steps[id]

	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, vlbierr.New(vlbierr.KindProgrammer, "Chain.Communicate", vlbierr.ErrInvalidFormatString)
	}
	ft := fv.Type()
	if ft.IsVariadic() || ft.NumIn() != len(args)+1 {
		return nil, vlbierr.New(vlbierr.KindProgrammer, "Chain.Communicate", vlbierr.ErrInvalidFormatString)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	in := make([]reflect.Value, 0, len(args)+1)
	if err := appendArg(&in, ft.In(0), s.userData); err != nil {
		return nil, err
	}
	for i, a := range args {
		if err := appendArg(&in, ft.In(i+1), a); err != nil {
			return nil, err
		}
	}

	out := fv.Call(in)
	s.userData = in[0].Interface() // the thunk may have mutated its copy of userData in place via a pointer

	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

func appendArg(in *[]reflect.Value, want reflect.Type, got any) error {
	gv := reflect.ValueOf(got)
	if got == nil {
		if want.Kind() != reflect.Ptr && want.Kind() != reflect.Interface && want.Kind() != reflect.Map && want.Kind() != reflect.Slice {
			return vlbierr.New(vlbierr.KindProgrammer, "Chain.Communicate", vlbierr.ErrInvalidFormatString)
		}
		*in = append(*in, reflect.Zero(want))
		return nil
	}
	if !gv.Type().AssignableTo(want) {
		return vlbierr.New(vlbierr.KindProgrammer, "Chain.Communicate", vlbierr.ErrInvalidFormatString)
	}
	*in = append(*in, gv)
	return nil
}

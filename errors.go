package sharc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAnimation is returned when an animation fails validation
	// (negative duration). The package never enters the queue.
	ErrInvalidAnimation = errors.New("sharc: invalid animation")

	// ErrAnimationTypeMismatch is returned when a tween activates with
	// endpoints whose shapes cannot be interpolated against the property.
	ErrAnimationTypeMismatch = errors.New("sharc: animation type mismatch")

	// ErrUnknownProperty is returned by the property accessors for names the
	// node does not carry.
	ErrUnknownProperty = errors.New("sharc: unknown property")
)

// DrawFault is any error or panic escaping a frame: a draw callback, a
// listener, or property application. It stops the loop.
type DrawFault struct {
	Message string
	Stack   string
	Frame   int
	Err     error
}

func (f *DrawFault) Error() string {
	return fmt.Sprintf("sharc: draw fault at frame %d: %s", f.Frame, f.Message)
}

func (f *DrawFault) Unwrap() error { return f.Err }

// newDrawFault converts a recovered panic value or returned error into a DrawFault.
func newDrawFault(v any, frame int, stack []byte) *DrawFault {
	f := &DrawFault{Frame: frame, Stack: string(stack)}
	switch e := v.(type) {
	case *DrawFault:
		return e
	case error:
		f.Err = e
		f.Message = e.Error()
	default:
		f.Message = fmt.Sprint(v)
	}
	return f
}

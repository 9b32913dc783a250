package response

import (
	"io"
	"reflect"

	"golang.org/x/text/language"
)

// Wrapper forwards every Response operation to a wrapped Response. It is the
// base for decorators that want to intercept a few operations and inherit
// passthrough behavior for the rest: compose a Wrapper and override only the
// methods that change.
//
// Wrappers nest, forming a chain that WrapsResponse, WrapsType and As walk.
// The chain is assumed acyclic; installing a cycle makes the walks spin.
type Wrapper struct {
	wrapped Response
}

var _ Response = (*Wrapper)(nil)

// NewWrapper creates a Wrapper forwarding to wrapped. It returns
// ErrNilResponse if wrapped is nil.
func NewWrapper(wrapped Response) (*Wrapper, error) {
	if wrapped == nil {
		return nil, ErrNilResponse
	}
	return &Wrapper{wrapped: wrapped}, nil
}

// Wrapped returns the response this wrapper forwards to.
func (w *Wrapper) Wrapped() Response {
	return w.wrapped
}

// SetWrapped replaces the response this wrapper forwards to. It returns
// ErrNilResponse and keeps the previous response if wrapped is nil.
func (w *Wrapper) SetWrapped(wrapped Response) error {
	if wrapped == nil {
		return ErrNilResponse
	}
	w.wrapped = wrapped
	return nil
}

// SetCharacterEncoding forwards to the wrapped response.
func (w *Wrapper) SetCharacterEncoding(charset string) {
	w.wrapped.SetCharacterEncoding(charset)
}

// CharacterEncoding forwards to the wrapped response.
func (w *Wrapper) CharacterEncoding() string {
	return w.wrapped.CharacterEncoding()
}

// OutputStream forwards to the wrapped response.
func (w *Wrapper) OutputStream() (io.Writer, error) {
	return w.wrapped.OutputStream()
}

// TextWriter forwards to the wrapped response.
func (w *Wrapper) TextWriter() (TextWriter, error) {
	return w.wrapped.TextWriter()
}

// SetContentLength forwards to the wrapped response.
func (w *Wrapper) SetContentLength(n int) {
	w.wrapped.SetContentLength(n)
}

// SetContentLength64 forwards to the wrapped response.
func (w *Wrapper) SetContentLength64(n int64) {
	w.wrapped.SetContentLength64(n)
}

// SetContentType forwards to the wrapped response.
func (w *Wrapper) SetContentType(contentType string) {
	w.wrapped.SetContentType(contentType)
}

// ContentType forwards to the wrapped response.
func (w *Wrapper) ContentType() string {
	return w.wrapped.ContentType()
}

// SetBufferSize forwards to the wrapped response.
func (w *Wrapper) SetBufferSize(n int) {
	w.wrapped.SetBufferSize(n)
}

// BufferSize forwards to the wrapped response.
func (w *Wrapper) BufferSize() int {
	return w.wrapped.BufferSize()
}

// FlushBuffer forwards to the wrapped response.
func (w *Wrapper) FlushBuffer() error {
	return w.wrapped.FlushBuffer()
}

// Committed forwards to the wrapped response.
func (w *Wrapper) Committed() bool {
	return w.wrapped.Committed()
}

// Reset forwards to the wrapped response.
func (w *Wrapper) Reset() error {
	return w.wrapped.Reset()
}

// ResetBuffer forwards to the wrapped response.
func (w *Wrapper) ResetBuffer() error {
	return w.wrapped.ResetBuffer()
}

// SetLocale forwards to the wrapped response.
func (w *Wrapper) SetLocale(tag language.Tag) {
	w.wrapped.SetLocale(tag)
}

// Locale forwards to the wrapped response.
func (w *Wrapper) Locale() language.Tag {
	return w.wrapped.Locale()
}

// unwrapper is satisfied by any decorator exposing its wrapped response,
// Wrapper and everything composing it included. The chain walks below descend
// through it.
type unwrapper interface {
	Wrapped() Response
}

// WrapsResponse reports whether target appears anywhere below this wrapper in
// the chain, compared by identity.
func (w *Wrapper) WrapsResponse(target Response) bool {
	for cur := w.wrapped; ; {
		if cur == target {
			return true
		}
		uw, ok := cur.(unwrapper)
		if !ok {
			return false
		}
		cur = uw.Wrapped()
	}
}

var responseType = reflect.TypeOf((*Response)(nil)).Elem()

// WrapsType reports whether a response of the target's type appears anywhere
// below this wrapper in the chain. The target must be a non-nil pointer to
// either a concrete type or an interface satisfying the Response capability
// set; anything else fails with ErrInvalidTarget before the chain is walked.
func (w *Wrapper) WrapsType(target any) (bool, error) {
	t, err := targetType(target)
	if err != nil {
		return false, err
	}
	for cur := w.wrapped; ; {
		if matchesType(cur, t) {
			return true, nil
		}
		uw, ok := cur.(unwrapper)
		if !ok {
			return false, nil
		}
		cur = uw.Wrapped()
	}
}

// As walks the chain starting at r, wrappers included, and stores the first
// response matching target's type into target, reporting whether one was
// found. Target follows the errors.As convention: a non-nil pointer to a
// concrete type or interface satisfying the Response capability set. An
// invalid target makes As return false without walking.
func As(r Response, target any) bool {
	t, err := targetType(target)
	if err != nil {
		return false
	}
	val := reflect.ValueOf(target).Elem()
	for cur := r; cur != nil; {
		if matchesType(cur, t) {
			val.Set(reflect.ValueOf(cur))
			return true
		}
		uw, ok := cur.(unwrapper)
		if !ok {
			return false
		}
		cur = uw.Wrapped()
	}
	return false
}

// targetType validates an introspection target and returns the type to match
// against. Validation happens once, before any chain walk.
func targetType(target any) (reflect.Type, error) {
	if target == nil {
		return nil, ErrInvalidTarget
	}
	pt := reflect.TypeOf(target)
	if pt.Kind() != reflect.Pointer {
		return nil, ErrInvalidTarget
	}
	t := pt.Elem()
	if t.Kind() == reflect.Interface {
		// The interface must carry the full capability set, the way a
		// sub-interface would.
		if !t.Implements(responseType) {
			return nil, ErrInvalidTarget
		}
		return t, nil
	}
	if !t.Implements(responseType) {
		return nil, ErrInvalidTarget
	}
	return t, nil
}

// matchesType reports whether r's runtime type satisfies t.
func matchesType(r Response, t reflect.Type) bool {
	rt := reflect.TypeOf(r)
	if rt == nil {
		return false
	}
	if t.Kind() == reflect.Interface {
		return rt.Implements(t)
	}
	return rt.AssignableTo(t)
}

// Package response defines a capability-set view of an HTTP response and a
// forwarding wrapper over it. Handlers and middleware program against the
// Response interface; concrete implementations (Buffered) and decorators
// (Wrapper, Recorder) can be layered freely because every layer exposes the
// same capability set.
package response

import (
	"errors"
	"io"

	"golang.org/x/text/language"
)

// DefaultBufferSize is the body buffer size used when none is configured.
const DefaultBufferSize = 8192

var (
	// ErrNilResponse is returned when a wrapper is created over, or pointed
	// at, a nil response.
	ErrNilResponse = errors.New("response: wrapped response must not be nil")

	// ErrInvalidTarget is returned by type introspection when the target is
	// not a non-nil pointer to a type satisfying the Response capability set.
	ErrInvalidTarget = errors.New("response: target type does not satisfy the Response capability set")

	// ErrCommitted is returned by Reset and ResetBuffer once the response
	// headers have been sent.
	ErrCommitted = errors.New("response: response already committed")

	// ErrWriterObtained is returned when both OutputStream and TextWriter are
	// requested for the same response.
	ErrWriterObtained = errors.New("response: output stream and text writer are mutually exclusive")
)

// TextWriter is the character-oriented output of a response.
type TextWriter interface {
	io.Writer
	io.StringWriter
}

// Response is the capability set every response-like object exposes.
//
// OutputStream, TextWriter and FlushBuffer may fail with I/O errors from the
// underlying transport; Reset and ResetBuffer fail with ErrCommitted once the
// response is committed. All other operations are infallible bookkeeping.
//
// A Response is owned by a single request flow and is not safe for concurrent
// use.
type Response interface {
	// SetCharacterEncoding sets the charset reported with the content type.
	SetCharacterEncoding(charset string)
	// CharacterEncoding returns the charset in effect.
	CharacterEncoding() string

	// OutputStream returns the byte-oriented body writer.
	OutputStream() (io.Writer, error)
	// TextWriter returns the character-oriented body writer.
	TextWriter() (TextWriter, error)

	// SetContentLength declares the body length in bytes.
	SetContentLength(n int)
	// SetContentLength64 declares the body length for bodies beyond int range.
	SetContentLength64(n int64)

	// SetContentType sets the media type of the body.
	SetContentType(contentType string)
	// ContentType returns the media type in effect, including the charset
	// parameter when one is set.
	ContentType() string

	// SetBufferSize requests a body buffer size. Implementations may ignore
	// the request once body bytes have been written.
	SetBufferSize(n int)
	// BufferSize returns the body buffer size in effect.
	BufferSize() int

	// FlushBuffer forces buffered content out to the client, committing the
	// response.
	FlushBuffer() error

	// Committed reports whether the status line and headers have been sent.
	Committed() bool

	// Reset clears the body buffer, headers and status. It fails with
	// ErrCommitted once the response is committed.
	Reset() error
	// ResetBuffer clears the body buffer, keeping headers and status. It
	// fails with ErrCommitted once the response is committed.
	ResetBuffer() error

	// SetLocale sets the content language of the response.
	SetLocale(tag language.Tag)
	// Locale returns the content language in effect.
	Locale() language.Tag
}

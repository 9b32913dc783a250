package response

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strconv"

	"golang.org/x/text/language"
)

// Buffered is a Response over an http.ResponseWriter. Body writes are held in
// a fixed-size buffer and the status line and headers are deferred until the
// response commits, so status, content type, charset, content length and
// locale stay mutable while the buffer has room. The response commits on
// FlushBuffer, when the buffer overflows, or when the declared content length
// has been written.
//
// Buffered also implements http.ResponseWriter and http.Flusher, so it can be
// installed in front of any http.Handler.
type Buffered struct {
	w http.ResponseWriter

	buf     bytes.Buffer
	size    int
	written int64

	status    int
	committed bool

	contentType string
	charset     string
	contentLen  int64
	hasLen      bool
	locale      language.Tag

	// 0: no writer handed out, 1: OutputStream, 2: TextWriter
	writerKind int
}

var (
	_ Response            = (*Buffered)(nil)
	_ http.ResponseWriter = (*Buffered)(nil)
	_ http.Flusher        = (*Buffered)(nil)
)

// NewBuffered creates a Buffered response writing through to w. A size of
// zero or less selects DefaultBufferSize.
func NewBuffered(w http.ResponseWriter, size int) *Buffered {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Buffered{
		w:       w,
		size:    size,
		status:  http.StatusOK,
		charset: "utf-8",
		locale:  language.Und,
	}
}

// Header returns the header map of the underlying writer.
func (b *Buffered) Header() http.Header {
	return b.w.Header()
}

// WriteHeader records the status code for commit time. The last call before
// the response commits wins; calls after commit are ignored.
func (b *Buffered) WriteHeader(code int) {
	if b.committed {
		return
	}
	b.status = code
}

// Status returns the status code that was, or will be, sent.
func (b *Buffered) Status() int {
	return b.status
}

// Written returns the number of body bytes accepted so far.
func (b *Buffered) Written() int64 {
	return b.written
}

// Write buffers body bytes, committing the response when the buffer
// overflows. It is the http.ResponseWriter entry point; OutputStream and
// TextWriter funnel into the same path.
func (b *Buffered) Write(p []byte) (int, error) {
	n, err := b.buf.Write(p)
	b.written += int64(n)
	if err != nil {
		return n, err
	}
	if b.buf.Len() >= b.size || (b.hasLen && b.written >= b.contentLen) {
		if err := b.flushData(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// SetCharacterEncoding sets the charset folded into the Content-Type header.
// It has no effect once the text writer has been handed out or the response
// has committed.
func (b *Buffered) SetCharacterEncoding(charset string) {
	if b.committed || b.writerKind == 2 || charset == "" {
		return
	}
	b.charset = charset
}

// CharacterEncoding returns the charset in effect.
func (b *Buffered) CharacterEncoding() string {
	return b.charset
}

// OutputStream returns the byte-oriented body writer. It fails with
// ErrWriterObtained if TextWriter has already been called.
func (b *Buffered) OutputStream() (io.Writer, error) {
	if b.writerKind == 2 {
		return nil, ErrWriterObtained
	}
	b.writerKind = 1
	return (*bodyWriter)(b), nil
}

// TextWriter returns the character-oriented body writer. It fails with
// ErrWriterObtained if OutputStream has already been called. The character
// encoding is fixed from this point on.
func (b *Buffered) TextWriter() (TextWriter, error) {
	if b.writerKind == 1 {
		return nil, ErrWriterObtained
	}
	b.writerKind = 2
	return (*bodyWriter)(b), nil
}

// SetContentLength declares the body length in bytes.
func (b *Buffered) SetContentLength(n int) {
	b.SetContentLength64(int64(n))
}

// SetContentLength64 declares the body length in bytes. The response commits
// as soon as that many bytes have been written.
func (b *Buffered) SetContentLength64(n int64) {
	if b.committed || n < 0 {
		return
	}
	b.contentLen = n
	b.hasLen = true
}

// SetContentType sets the media type of the body. A charset parameter in the
// value also updates the character encoding, as long as the text writer has
// not been handed out.
func (b *Buffered) SetContentType(contentType string) {
	if b.committed {
		return
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		b.contentType = contentType
		return
	}
	b.contentType = mediaType
	if cs := params["charset"]; cs != "" && b.writerKind != 2 {
		b.charset = cs
	}
}

// ContentType returns the media type in effect, charset parameter included.
func (b *Buffered) ContentType() string {
	if b.contentType == "" {
		return ""
	}
	if b.charset == "" {
		return b.contentType
	}
	return mime.FormatMediaType(b.contentType, map[string]string{"charset": b.charset})
}

// SetBufferSize requests a body buffer size. The request is ignored once any
// body bytes have been buffered or the response has committed.
func (b *Buffered) SetBufferSize(n int) {
	if b.committed || b.buf.Len() > 0 || n <= 0 {
		return
	}
	b.size = n
}

// BufferSize returns the body buffer size in effect.
func (b *Buffered) BufferSize() int {
	return b.size
}

// FlushBuffer writes out headers and buffered body bytes, committing the
// response, and flushes the underlying writer when it supports flushing.
func (b *Buffered) FlushBuffer() error {
	if err := b.flushData(); err != nil {
		return err
	}
	if f, ok := b.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// Flush implements http.Flusher. Write errors surface on the next write.
func (b *Buffered) Flush() {
	_ = b.FlushBuffer()
}

// Committed reports whether the status line and headers have been sent.
func (b *Buffered) Committed() bool {
	return b.committed
}

// Reset clears the body buffer, headers, status and content metadata. It
// fails with ErrCommitted once the response is committed.
func (b *Buffered) Reset() error {
	if b.committed {
		return ErrCommitted
	}
	b.buf.Reset()
	b.written = 0
	for k := range b.w.Header() {
		delete(b.w.Header(), k)
	}
	b.status = http.StatusOK
	b.contentType = ""
	b.charset = "utf-8"
	b.contentLen = 0
	b.hasLen = false
	b.locale = language.Und
	b.writerKind = 0
	return nil
}

// ResetBuffer clears the body buffer, keeping headers and status. It fails
// with ErrCommitted once the response is committed.
func (b *Buffered) ResetBuffer() error {
	if b.committed {
		return ErrCommitted
	}
	b.written -= int64(b.buf.Len())
	b.buf.Reset()
	return nil
}

// SetLocale sets the content language sent with the response.
func (b *Buffered) SetLocale(tag language.Tag) {
	if b.committed {
		return
	}
	b.locale = tag
}

// Locale returns the content language in effect.
func (b *Buffered) Locale() language.Tag {
	return b.locale
}

// flushData materializes headers on first call and drains the buffer into
// the underlying writer.
func (b *Buffered) flushData() error {
	if !b.committed {
		h := b.w.Header()
		if ct := b.ContentType(); ct != "" {
			h.Set("Content-Type", ct)
		}
		if b.locale != language.Und {
			h.Set("Content-Language", b.locale.String())
		}
		if b.hasLen {
			h.Set("Content-Length", strconv.FormatInt(b.contentLen, 10))
		}
		b.w.WriteHeader(b.status)
		b.committed = true
	}
	if b.buf.Len() > 0 {
		if _, err := b.w.Write(b.buf.Bytes()); err != nil {
			return err
		}
		b.buf.Reset()
	}
	return nil
}

// bodyWriter is the writer handed out by OutputStream and TextWriter. A
// separate type keeps Buffered itself from satisfying io.StringWriter.
type bodyWriter Buffered

func (bw *bodyWriter) Write(p []byte) (int, error) {
	return (*Buffered)(bw).Write(p)
}

func (bw *bodyWriter) WriteString(s string) (int, error) {
	return (*Buffered)(bw).Write([]byte(s))
}

package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestBufferedDefersCommit(t *testing.T) {
	rr := httptest.NewRecorder()
	b := NewBuffered(rr, 64)

	b.WriteHeader(http.StatusCreated)
	b.SetContentType("text/plain")
	b.SetCharacterEncoding("utf-8")
	b.SetLocale(language.MustParse("en-GB"))

	if _, err := b.Write([]byte("created")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// Nothing reaches the underlying writer until the buffer flushes
	if b.Committed() {
		t.Error("Response should not be committed before flush")
	}
	if rr.Body.Len() != 0 {
		t.Errorf("Expected empty underlying body before flush, got %q", rr.Body.String())
	}

	// Status stays mutable while uncommitted; last call wins
	b.WriteHeader(http.StatusAccepted)

	if err := b.FlushBuffer(); err != nil {
		t.Fatalf("FlushBuffer failed: %v", err)
	}
	if !b.Committed() {
		t.Error("Response should be committed after flush")
	}
	if rr.Code != http.StatusAccepted {
		t.Errorf("Expected status 202, got %d", rr.Code)
	}
	if got := rr.Body.String(); got != "created" {
		t.Errorf("Expected body %q, got %q", "created", got)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/plain; charset=utf-8" {
		t.Errorf("Expected charset folded into Content-Type, got %q", got)
	}
	if got := rr.Header().Get("Content-Language"); got != "en-GB" {
		t.Errorf("Expected Content-Language en-GB, got %q", got)
	}

	// Once committed, header mutation is ignored and resets fail
	b.WriteHeader(http.StatusTeapot)
	b.SetContentType("application/json")
	if rr.Code != http.StatusAccepted {
		t.Error("WriteHeader after commit should be ignored")
	}
	if err := b.Reset(); !errors.Is(err, ErrCommitted) {
		t.Errorf("Expected ErrCommitted from Reset, got %v", err)
	}
	if err := b.ResetBuffer(); !errors.Is(err, ErrCommitted) {
		t.Errorf("Expected ErrCommitted from ResetBuffer, got %v", err)
	}
}

func TestBufferedOverflowCommits(t *testing.T) {
	rr := httptest.NewRecorder()
	b := NewBuffered(rr, 8)

	if _, err := b.Write([]byte("0123456789")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !b.Committed() {
		t.Error("Overflowing the buffer should commit the response")
	}
	if got := rr.Body.String(); got != "0123456789" {
		t.Errorf("Expected overflow to drain the buffer, got %q", got)
	}
}

func TestBufferedContentLengthCommits(t *testing.T) {
	rr := httptest.NewRecorder()
	b := NewBuffered(rr, 1024)
	b.SetContentLength(5)

	if _, err := b.Write([]byte("hello")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !b.Committed() {
		t.Error("Reaching the declared content length should commit the response")
	}
	if got := rr.Header().Get("Content-Length"); got != "5" {
		t.Errorf("Expected Content-Length 5, got %q", got)
	}
}

func TestBufferedReset(t *testing.T) {
	rr := httptest.NewRecorder()
	b := NewBuffered(rr, 1024)

	b.WriteHeader(http.StatusNotFound)
	b.SetContentType("text/html")
	b.Header().Set("X-Extra", "1")
	if _, err := b.Write([]byte("not found")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := b.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if b.Status() != http.StatusOK {
		t.Errorf("Expected status reset to 200, got %d", b.Status())
	}
	if b.ContentType() != "" {
		t.Errorf("Expected content type cleared, got %q", b.ContentType())
	}
	if b.Header().Get("X-Extra") != "" {
		t.Error("Reset should clear headers set on the response")
	}

	if _, err := b.Write([]byte("replacement")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := b.FlushBuffer(); err != nil {
		t.Fatalf("FlushBuffer failed: %v", err)
	}
	if got := rr.Body.String(); got != "replacement" {
		t.Errorf("Expected only post-reset body, got %q", got)
	}
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 after reset, got %d", rr.Code)
	}
}

func TestBufferedResetBufferKeepsHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	b := NewBuffered(rr, 1024)

	b.WriteHeader(http.StatusConflict)
	b.SetContentType("text/plain")
	if _, err := b.Write([]byte("draft")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := b.ResetBuffer(); err != nil {
		t.Fatalf("ResetBuffer failed: %v", err)
	}
	if _, err := b.Write([]byte("final")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := b.FlushBuffer(); err != nil {
		t.Fatalf("FlushBuffer failed: %v", err)
	}

	if rr.Code != http.StatusConflict {
		t.Errorf("ResetBuffer should keep the status, got %d", rr.Code)
	}
	if got := rr.Body.String(); got != "final" {
		t.Errorf("Expected only rewritten body, got %q", got)
	}
	if !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("ResetBuffer should keep headers, got Content-Type %q", rr.Header().Get("Content-Type"))
	}
}

func TestBufferedWriterKinds(t *testing.T) {
	t.Run("StreamThenWriter", func(t *testing.T) {
		b := NewBuffered(httptest.NewRecorder(), 64)
		if _, err := b.OutputStream(); err != nil {
			t.Fatalf("OutputStream failed: %v", err)
		}
		if _, err := b.TextWriter(); !errors.Is(err, ErrWriterObtained) {
			t.Errorf("Expected ErrWriterObtained, got %v", err)
		}
	})

	t.Run("WriterThenStream", func(t *testing.T) {
		b := NewBuffered(httptest.NewRecorder(), 64)
		if _, err := b.TextWriter(); err != nil {
			t.Fatalf("TextWriter failed: %v", err)
		}
		if _, err := b.OutputStream(); !errors.Is(err, ErrWriterObtained) {
			t.Errorf("Expected ErrWriterObtained, got %v", err)
		}
	})

	t.Run("TextWriterFreezesEncoding", func(t *testing.T) {
		b := NewBuffered(httptest.NewRecorder(), 64)
		b.SetCharacterEncoding("iso-8859-1")
		if _, err := b.TextWriter(); err != nil {
			t.Fatalf("TextWriter failed: %v", err)
		}
		b.SetCharacterEncoding("utf-16")
		if got := b.CharacterEncoding(); got != "iso-8859-1" {
			t.Errorf("Encoding should be frozen once the text writer is out, got %q", got)
		}
	})
}

func TestBufferedSetBufferSize(t *testing.T) {
	rr := httptest.NewRecorder()
	b := NewBuffered(rr, 0)

	if got := b.BufferSize(); got != DefaultBufferSize {
		t.Errorf("Expected default buffer size %d, got %d", DefaultBufferSize, got)
	}

	b.SetBufferSize(4096)
	if got := b.BufferSize(); got != 4096 {
		t.Errorf("Expected buffer size 4096, got %d", got)
	}

	// Ignored once body bytes are buffered
	if _, err := b.Write([]byte("x")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	b.SetBufferSize(16)
	if got := b.BufferSize(); got != 4096 {
		t.Errorf("SetBufferSize after writes should be ignored, got %d", got)
	}
}

func TestBufferedContentTypeCharset(t *testing.T) {
	b := NewBuffered(httptest.NewRecorder(), 64)

	b.SetContentType("text/html; charset=iso-8859-1")
	if got := b.CharacterEncoding(); got != "iso-8859-1" {
		t.Errorf("Charset parameter should update the encoding, got %q", got)
	}
	if got := b.ContentType(); got != "text/html; charset=iso-8859-1" {
		t.Errorf("Unexpected content type %q", got)
	}

	b.SetCharacterEncoding("utf-8")
	if got := b.ContentType(); got != "text/html; charset=utf-8" {
		t.Errorf("Expected updated charset in content type, got %q", got)
	}
}

// TestBufferedBehindWrapper retargets a wrapper between two real Buffered
// responses instead of fakes.
func TestBufferedBehindWrapper(t *testing.T) {
	first := NewBuffered(httptest.NewRecorder(), 8192)
	w, err := NewWrapper(first)
	if err != nil {
		t.Fatalf("NewWrapper failed: %v", err)
	}
	if got := w.BufferSize(); got != 8192 {
		t.Errorf("Expected 8192 through the wrapper, got %d", got)
	}

	second := NewBuffered(httptest.NewRecorder(), 4096)
	if err := w.SetWrapped(second); err != nil {
		t.Fatalf("SetWrapped failed: %v", err)
	}
	if got := w.BufferSize(); got != 4096 {
		t.Errorf("Expected 4096 after SetWrapped, got %d", got)
	}
}

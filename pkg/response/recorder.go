package response

import "io"

// Recorder is a Wrapper that counts body bytes and buffer flushes as they
// pass through, leaving every other operation on default forwarding.
type Recorder struct {
	*Wrapper

	bytes   int64
	flushes int
}

var _ Response = (*Recorder)(nil)

// NewRecorder creates a Recorder over wrapped. It returns ErrNilResponse if
// wrapped is nil.
func NewRecorder(wrapped Response) (*Recorder, error) {
	w, err := NewWrapper(wrapped)
	if err != nil {
		return nil, err
	}
	return &Recorder{Wrapper: w}, nil
}

// OutputStream returns the wrapped byte stream with byte counting attached.
func (r *Recorder) OutputStream() (io.Writer, error) {
	out, err := r.Wrapper.OutputStream()
	if err != nil {
		return nil, err
	}
	return countingWriter{out, &r.bytes}, nil
}

// TextWriter returns the wrapped text writer with byte counting attached.
func (r *Recorder) TextWriter() (TextWriter, error) {
	out, err := r.Wrapper.TextWriter()
	if err != nil {
		return nil, err
	}
	return countingWriter{out, &r.bytes}, nil
}

// FlushBuffer forwards the flush and counts it when it succeeds.
func (r *Recorder) FlushBuffer() error {
	if err := r.Wrapper.FlushBuffer(); err != nil {
		return err
	}
	r.flushes++
	return nil
}

// BytesWritten returns the number of body bytes written through the recorder.
func (r *Recorder) BytesWritten() int64 {
	return r.bytes
}

// Flushes returns the number of successful buffer flushes.
func (r *Recorder) Flushes() int {
	return r.flushes
}

type countingWriter struct {
	w io.Writer
	n *int64
}

func (cw countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	*cw.n += int64(n)
	return n, err
}

func (cw countingWriter) WriteString(s string) (int, error) {
	if sw, ok := cw.w.(io.StringWriter); ok {
		n, err := sw.WriteString(s)
		*cw.n += int64(n)
		return n, err
	}
	return cw.Write([]byte(s))
}

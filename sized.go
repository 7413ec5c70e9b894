package reshape

import (
	"io"
)

// SizedContentFunc builds a prefix that depends on the exact payload length.
type SizedContentFunc func(params Params, size int64) (io.Reader, error)

// SizedHeaderWriter writes a header whose content embeds the payload length.
// Every payload byte is held in a SpillBuffer until Close, when the prefix
// is built from the final length, written to the sink and followed by the
// replayed payload. The sink receives exactly len(prefix) + Written() bytes.
type SizedHeaderWriter struct {
	dst    io.Writer
	prefix SizedContentFunc
	params Params
	buf    *SpillBuffer

	closed bool
	err    error
}

// NewSizedHeaderWriter returns a writer that defers the prefix until Close.
// opts configure the spill buffer.
func NewSizedHeaderWriter(w io.Writer, prefix SizedContentFunc, params Params, opts ...SpillOption) *SizedHeaderWriter {
	return &SizedHeaderWriter{
		dst:    w,
		prefix: prefix,
		params: params,
		buf:    NewSpillBuffer(opts...),
	}
}

// Write buffers p. It never writes to the sink.
func (s *SizedHeaderWriter) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.buf.Write(p)
	if err != nil {
		s.err = err
	}
	return n, err
}

// Written returns the number of payload bytes accepted so far.
func (s *SizedHeaderWriter) Written() int64 {
	return s.buf.Len()
}

// Mode reports whether the payload is held in memory or in a temporary file.
func (s *SizedHeaderWriter) Mode() SpillMode {
	return s.buf.Mode()
}

// Close builds the prefix from the payload length, writes prefix and payload
// to the sink, flushes and closes the sink, and releases the buffer.
// The buffer is released and the sink closed on every path.
// Safe to call more than once.
func (s *SizedHeaderWriter) Close() (err error) {
	if s.closed {
		return nil
	}
	s.closed = true

	defer func() {
		if cerr := s.buf.Close(); err == nil {
			err = cerr
		}
	}()
	defer func() {
		if cerr := CloseUnderlying(s.dst); err == nil {
			err = cerr
		}
	}()

	if s.err != nil {
		return s.err
	}
	return s.finish()
}

func (s *SizedHeaderWriter) finish() (err error) {
	r, err := s.prefix(s.params, s.buf.Len())
	if err != nil {
		return newContentError(segmentPrefix, err)
	}
	defer func() {
		if cerr := CloseUnderlying(r); err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(s.dst, r); err != nil {
		return err
	}
	if _, err := s.buf.WriteTo(s.dst); err != nil {
		return err
	}
	if f, ok := s.dst.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

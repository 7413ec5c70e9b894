package reshape

import (
	"fmt"
	"io"
)

// State is the framing phase of a decorated stream.
type State uint8

const (
	StateNew State = iota
	StatePrefix
	StatePayload
	StateSuffix
	StateDone
)

// String returns the lower-case phase name.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StatePrefix:
		return "prefix"
	case StatePayload:
		return "payload"
	case StateSuffix:
		return "suffix"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

const (
	segmentPrefix = "prefix"
	segmentSuffix = "suffix"
)

// ContentFunc builds the bytes of one framing segment from the job's
// parameter bag. It runs lazily, when the segment is first needed.
// A returned reader that implements io.Closer is closed once the segment
// has been consumed, on error, and on Close.
type ContentFunc func(params Params) (io.Reader, error)

// Static returns a ContentFunc producing b for every stream.
func Static(b []byte) ContentFunc {
	return func(Params) (io.Reader, error) {
		return &staticReader{b: b}, nil
	}
}

// staticReader is bytes.Reader without the seeking surface.
type staticReader struct {
	b []byte
	i int
}

func (r *staticReader) Read(p []byte) (int, error) {
	if r.i >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.i:])
	r.i += n
	return n, nil
}

// DecoratedReader frames a source in pull mode. A header has a prefix only;
// an envelope has a prefix and a suffix. Each instance owns its state and
// must wrap exactly one stream.
type DecoratedReader struct {
	src    io.Reader
	prefix ContentFunc
	suffix ContentFunc // nil for a header
	params Params

	state   State
	segment io.Reader
	err     error
	closed  bool
}

// NewHeaderReader returns a reader producing prefix followed by r.
func NewHeaderReader(r io.Reader, prefix ContentFunc, params Params) *DecoratedReader {
	return &DecoratedReader{src: r, prefix: prefix, params: params}
}

// NewEnvelopeReader returns a reader producing prefix, r, then suffix.
func NewEnvelopeReader(r io.Reader, prefix, suffix ContentFunc, params Params) *DecoratedReader {
	return &DecoratedReader{src: r, prefix: prefix, suffix: suffix, params: params}
}

// State returns the current phase.
func (d *DecoratedReader) State() State {
	return d.state
}

// Read implements io.Reader. Once it has returned io.EOF it keeps doing so.
func (d *DecoratedReader) Read(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	if len(p) == 0 {
		return 0, nil
	}

	for {
		switch d.state {
		case StateNew:
			if err := d.open(segmentPrefix, d.prefix); err != nil {
				return 0, err
			}
			d.state = StatePrefix

		case StatePrefix:
			n, err := d.readSegment(p)
			if err == io.EOF {
				d.release()
				d.state = StatePayload
				if n > 0 {
					return n, nil
				}
				continue
			}
			return n, d.fail(err)

		case StatePayload:
			n, err := d.src.Read(p)
			if err == io.EOF {
				if d.suffix == nil {
					d.state = StateDone
				} else {
					if oerr := d.open(segmentSuffix, d.suffix); oerr != nil {
						return n, oerr
					}
					d.state = StateSuffix
				}
				if n > 0 {
					return n, nil
				}
				continue
			}
			return n, err

		case StateSuffix:
			n, err := d.readSegment(p)
			if err == io.EOF {
				d.release()
				d.state = StateDone
				if n > 0 {
					return n, nil
				}
				continue
			}
			return n, d.fail(err)

		default:
			return 0, io.EOF
		}
	}
}

// Available reports how many payload bytes can be read without blocking.
// Framing bytes are never reported: outside the payload phase it answers 0.
// In the payload phase it delegates to the source's Available or Buffered
// method, or answers 0 when the source has neither.
func (d *DecoratedReader) Available() int {
	if d.state != StatePayload {
		return 0
	}
	switch src := d.src.(type) {
	case interface{ Available() int }:
		return src.Available()
	case interface{ Buffered() int }:
		return src.Buffered()
	default:
		return 0
	}
}

// Close releases open segment content and closes the source when it is an
// io.Closer. It may be called in any phase and more than once.
func (d *DecoratedReader) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.state = StateDone

	err := d.releaseErr()
	if cerr := CloseUnderlying(d.src); err == nil {
		err = cerr
	}
	return err
}

// open materializes a segment. Builder failures are sticky.
func (d *DecoratedReader) open(segment string, build ContentFunc) error {
	r, err := build(d.params)
	if err != nil {
		d.err = newContentError(segment, err)
		return d.err
	}
	d.segment = r
	return nil
}

func (d *DecoratedReader) readSegment(p []byte) (int, error) {
	return d.segment.Read(p)
}

// fail releases the segment on a read error. Segment read errors are sticky.
func (d *DecoratedReader) fail(err error) error {
	if err == nil {
		return nil
	}
	d.release()
	d.err = err
	return err
}

func (d *DecoratedReader) release() {
	_ = d.releaseErr()
}

func (d *DecoratedReader) releaseErr() error {
	seg := d.segment
	d.segment = nil
	return CloseUnderlying(seg)
}

// Flusher is implemented by sinks that buffer.
type Flusher interface {
	Flush() error
}

// DecoratedWriter frames a sink in push mode. A header emits its prefix on
// the first write; an envelope additionally emits its suffix on Flush or
// Close. Each instance owns its state and must wrap exactly one stream.
type DecoratedWriter struct {
	dst    io.Writer
	prefix ContentFunc
	suffix ContentFunc // nil for a header
	params Params

	state  State
	err    error
	closed bool
}

// NewHeaderWriter returns a writer emitting prefix ahead of the payload.
func NewHeaderWriter(w io.Writer, prefix ContentFunc, params Params) *DecoratedWriter {
	return &DecoratedWriter{dst: w, prefix: prefix, params: params}
}

// NewEnvelopeWriter returns a writer emitting prefix ahead of the payload
// and suffix after it.
func NewEnvelopeWriter(w io.Writer, prefix, suffix ContentFunc, params Params) *DecoratedWriter {
	return &DecoratedWriter{dst: w, prefix: prefix, suffix: suffix, params: params}
}

// State returns the current phase.
func (d *DecoratedWriter) State() State {
	return d.state
}

// Write implements io.Writer. The first call emits the prefix.
// Writing once an envelope's suffix has been emitted returns ErrWriteAfterSuffix.
func (d *DecoratedWriter) Write(p []byte) (int, error) {
	if d.closed {
		return 0, ErrClosed
	}
	if d.err != nil {
		return 0, d.err
	}
	switch d.state {
	case StateNew:
		if err := d.emitPrefix(); err != nil {
			return 0, err
		}
	case StatePayload:
	default:
		return 0, ErrWriteAfterSuffix
	}

	n, err := d.dst.Write(p)
	if err != nil {
		d.err = err
	}
	return n, err
}

// Flush emits any framing still owed and flushes the sink when it buffers.
// For a header that is the prefix when nothing has been written yet, and the
// payload phase continues. For an envelope it is the prefix if needed and
// the suffix, exactly once; the envelope accepts no further writes.
func (d *DecoratedWriter) Flush() error {
	if d.closed {
		return ErrClosed
	}
	return d.flush()
}

// Close flushes as Flush does and closes the sink when it is an io.Closer.
// It may be called in any phase and more than once; an empty payload is
// still framed.
func (d *DecoratedWriter) Close() error {
	if d.closed {
		return nil
	}
	err := d.flush()
	d.closed = true
	d.state = StateDone
	if cerr := CloseUnderlying(d.dst); err == nil {
		err = cerr
	}
	return err
}

func (d *DecoratedWriter) flush() error {
	if d.err != nil {
		return d.err
	}
	if d.state == StateNew {
		if err := d.emitPrefix(); err != nil {
			return err
		}
	}
	if d.suffix != nil && d.state == StatePayload {
		d.state = StateSuffix
		if err := d.emit(segmentSuffix, d.suffix); err != nil {
			return err
		}
		d.state = StateDone
	}
	if f, ok := d.dst.(Flusher); ok {
		if err := f.Flush(); err != nil {
			d.err = err
			return err
		}
	}
	return nil
}

func (d *DecoratedWriter) emitPrefix() error {
	d.state = StatePrefix
	if err := d.emit(segmentPrefix, d.prefix); err != nil {
		return err
	}
	d.state = StatePayload
	return nil
}

// emit copies one segment to the sink, always releasing the segment content.
func (d *DecoratedWriter) emit(segment string, build ContentFunc) (err error) {
	r, err := build(d.params)
	if err != nil {
		d.err = newContentError(segment, err)
		return d.err
	}
	defer func() {
		if cerr := CloseUnderlying(r); err == nil && cerr != nil {
			err = cerr
			d.err = err
		}
	}()

	if _, err := io.Copy(d.dst, r); err != nil {
		d.err = err
		return err
	}
	return nil
}

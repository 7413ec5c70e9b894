package reshape

import (
	"fmt"
	"io"
)

// Modifier is the contract every pluggable stream modifier satisfies.
// A modifier additionally implements InputModifier, OutputModifier or both;
// the registry records which when the implementation is provided.
type Modifier interface {
	// ContentType returns the MIME type of the bytes the modifier produces
	// (e.g., "application/gzip"), or "" when it keeps the type of its input.
	ContentType() string

	// Extension returns a file-extension hint for the produced bytes
	// (e.g., ".gz"), or "" when the modifier does not change it.
	Extension() string
}

// InputModifier wraps a source in pull mode.
type InputModifier interface {
	Modifier

	// WrapReader returns a reader producing the modified bytes of r.
	// Closing the returned reader closes r when r is an io.Closer.
	WrapReader(r io.Reader, params Params) (io.ReadCloser, error)
}

// OutputModifier wraps a sink in push mode.
type OutputModifier interface {
	Modifier

	// WrapWriter returns a writer that modifies bytes on their way to w.
	// Closing the returned writer finalizes the modification and closes w
	// when w is an io.Closer.
	WrapWriter(w io.Writer, params Params) (io.WriteCloser, error)
}

// Factory builds a modifier instance for one declared parameter.
type Factory func(param Parameter) (Modifier, error)

// Implementation is a concrete modifier that aliases can be bound to.
type Implementation struct {
	// ID is the identifier alias tables refer to (e.g., "gzip").
	ID string

	// Capabilities are the roles the implementation's type supports.
	Capabilities Capabilities

	// New builds an instance for a declared parameter.
	New Factory
}

// Provide describes an implementation whose instances have type M.
// Capabilities are taken from M's method set, so M must be a concrete type;
// an interface type parameter yields no roles.
func Provide[M Modifier](id string, fn func(param Parameter) (M, error)) Implementation {
	return Implementation{
		ID:           id,
		Capabilities: capabilitiesOf[M](),
		New: func(param Parameter) (Modifier, error) {
			m, err := fn(param)
			if err != nil {
				return nil, err
			}
			return m, nil
		},
	}
}

// NoParameter adapts a constructor that takes no parameter, rejecting any
// declaration that supplies one.
func NoParameter[M Modifier](fn func() M) func(Parameter) (M, error) {
	return func(param Parameter) (M, error) {
		if param != "" {
			var zero M
			return zero, fmt.Errorf("%w: takes no parameter, got %q", ErrInvalidParameter, param)
		}
		return fn(), nil
	}
}

// nopWriteCloser gives a plain io.Writer a no-op Close.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NopWriteCloser returns w as an io.WriteCloser. If w already implements
// io.WriteCloser it is returned unchanged.
func NopWriteCloser(w io.Writer) io.WriteCloser {
	if wc, ok := w.(io.WriteCloser); ok {
		return wc
	}
	return nopWriteCloser{w}
}

// ReadCloser returns r as an io.ReadCloser. If r already implements
// io.ReadCloser it is returned unchanged.
func ReadCloser(r io.Reader) io.ReadCloser {
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(r)
}

// CloseUnderlying closes v when it implements io.Closer.
// Modifiers call it from Close to propagate closing down the chain.
func CloseUnderlying(v any) error {
	if c, ok := v.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ChainWriter wraps an encoder-style writer whose Close flushes but does not
// close what it wraps (gzip, base64, lz4). Close finalizes the encoder and
// then closes the underlying stream.
type ChainWriter struct {
	io.WriteCloser
	Next io.Writer
}

// Close finalizes the encoder, then closes Next when it is an io.Closer.
// Both are attempted; the first error wins.
func (c *ChainWriter) Close() error {
	err := c.WriteCloser.Close()
	if cerr := CloseUnderlying(c.Next); err == nil {
		err = cerr
	}
	return err
}

// ChainReader pairs a decoding reader with the source it consumes so closing
// the decoder also closes the source.
type ChainReader struct {
	io.Reader
	Closers []io.Closer
}

// Close closes every closer in order; the first error wins.
func (c *ChainReader) Close() error {
	var first error
	for _, closer := range c.Closers {
		if err := closer.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ChainReaderOf builds a ChainReader over decoded that closes decoder-side
// resources first and the source last.
func ChainReaderOf(decoded io.Reader, src io.Reader, extra ...io.Closer) *ChainReader {
	closers := append([]io.Closer{}, extra...)
	if c, ok := src.(io.Closer); ok {
		closers = append(closers, c)
	}
	return &ChainReader{Reader: decoded, Closers: closers}
}

package reshape

import (
	"bytes"
	"io"
)

// EncoderFunc builds a push-mode encoder writing into w. Closing the encoder
// flushes its trailing bytes into w and must not close w.
type EncoderFunc func(w io.Writer) (io.WriteCloser, error)

const pullChunkSize = 32 * 1024

// EncodingReader runs a push-mode encoder in pull mode without a goroutine.
// Each Read pulls a chunk from the source, feeds it to the encoder and serves
// whatever the encoder produced; at source EOF the encoder is closed so its
// trailer is served before EOF.
type EncodingReader struct {
	src   io.Reader
	enc   io.WriteCloser
	out   bytes.Buffer
	chunk []byte

	finished bool
	err      error
	closed   bool
}

// NewEncodingReader returns a reader producing the encoding of src.
func NewEncodingReader(src io.Reader, newEncoder EncoderFunc) (*EncodingReader, error) {
	r := &EncodingReader{src: src, chunk: make([]byte, pullChunkSize)}
	enc, err := newEncoder(&r.out)
	if err != nil {
		return nil, err
	}
	r.enc = enc
	return r, nil
}

// Read implements io.Reader.
func (r *EncodingReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for r.out.Len() == 0 {
		if r.err != nil {
			return 0, r.err
		}
		if r.finished {
			return 0, io.EOF
		}
		r.fill()
	}
	return r.out.Read(p)
}

// fill moves one source chunk through the encoder.
func (r *EncodingReader) fill() {
	n, err := r.src.Read(r.chunk)
	if n > 0 {
		if _, werr := r.enc.Write(r.chunk[:n]); werr != nil {
			r.err = werr
			return
		}
	}
	switch {
	case err == io.EOF:
		r.finished = true
		if cerr := r.enc.Close(); cerr != nil {
			r.err = cerr
		}
	case err != nil:
		r.err = err
	}
}

// Close releases the encoder if it was not finished and closes the source
// when it is an io.Closer. Safe to call more than once.
func (r *EncodingReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if !r.finished {
		r.finished = true
		_ = r.enc.Close()
	}
	r.out.Reset()
	return CloseUnderlying(r.src)
}

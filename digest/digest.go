// Package digest provides the Digest modifier, an envelope that appends a
// digest of the payload after it:
//
//	<payload>
//	sha256:9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08
//
// The trailer is the algorithm name, a colon, the lowercase hex digest and a
// newline, written on its own line. Nothing is added before the payload.
package digest

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/zoobzio/reshape"
)

// ID is the implementation identifier.
const ID = "digest"

// Trailer is a Digest envelope over one algorithm.
type Trailer struct {
	algorithm Algorithm
	newHash   func() hash.Hash
}

// New returns a trailer for the algorithm the parameter names; empty
// selects sha256.
func New(param reshape.Parameter) (*Trailer, error) {
	name := string(param)
	if name == "" {
		name = string(SHA256)
	}
	algo, fn, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: digest algorithm %q (supported: %v)", reshape.ErrInvalidParameter, param, Algorithms())
	}
	return &Trailer{algorithm: algo, newHash: fn}, nil
}

// Provider returns the implementation.
func Provider() reshape.Implementation {
	return reshape.Provide(ID, New)
}

// Algorithm returns the digest algorithm.
func (t *Trailer) Algorithm() Algorithm {
	return t.algorithm
}

// ContentType returns "": the trailer keeps the payload's type.
func (t *Trailer) ContentType() string {
	return ""
}

// Extension returns "".
func (t *Trailer) Extension() string {
	return ""
}

// WrapReader returns a reader serving r followed by the trailer.
func (t *Trailer) WrapReader(r io.Reader, params reshape.Params) (io.ReadCloser, error) {
	s := t.newState()
	src := reshape.ChainReaderOf(io.TeeReader(r, s), r)
	return reshape.NewEnvelopeReader(src, reshape.Static(nil), s.suffix, params), nil
}

// WrapWriter returns a writer passing payload to w and writing the trailer
// on Flush or Close.
func (t *Trailer) WrapWriter(w io.Writer, params reshape.Params) (io.WriteCloser, error) {
	s := t.newState()
	return &writer{
		DecoratedWriter: reshape.NewEnvelopeWriter(w, reshape.Static(nil), s.suffix, params),
		state:           s,
	}, nil
}

// state accumulates the digest of one stream.
type state struct {
	algorithm Algorithm
	h         hash.Hash
	last      byte
	n         int64
}

func (t *Trailer) newState() *state {
	return &state{algorithm: t.algorithm, h: t.newHash()}
}

func (s *state) Write(p []byte) (int, error) {
	if len(p) > 0 {
		s.last = p[len(p)-1]
		s.n += int64(len(p))
	}
	return s.h.Write(p)
}

// suffix starts the trailer on a new line unless the payload ended with one.
func (s *state) suffix(reshape.Params) (io.Reader, error) {
	var b bytes.Buffer
	if s.n > 0 && s.last != '\n' {
		b.WriteByte('\n')
	}
	b.WriteString(string(s.algorithm))
	b.WriteByte(':')
	b.WriteString(hex.EncodeToString(s.h.Sum(nil)))
	b.WriteByte('\n')
	return &b, nil
}

// writer hashes payload bytes the envelope accepts.
type writer struct {
	*reshape.DecoratedWriter
	state *state
}

func (w *writer) Write(p []byte) (int, error) {
	n, err := w.DecoratedWriter.Write(p)
	_, _ = w.state.Write(p[:n])
	return n, err
}

// Package testing provides test utilities for reshape.
package testing

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"filippo.io/age"
	"github.com/zoobzio/reshape"
	"github.com/zoobzio/reshape/builtin"
)

// Sink is a sink that records every call made on it.
type Sink struct {
	bytes.Buffer

	Writes  int
	Flushes int
	Closes  int

	// FlushErr and CloseErr are returned by Flush and Close when set.
	FlushErr error
	CloseErr error
}

// Write records the call and appends p.
func (s *Sink) Write(p []byte) (int, error) {
	s.Writes++
	return s.Buffer.Write(p)
}

// Flush records the call.
func (s *Sink) Flush() error {
	s.Flushes++
	return s.FlushErr
}

// Close records the call.
func (s *Sink) Close() error {
	s.Closes++
	return s.CloseErr
}

// Source is a string reader that records Close calls.
type Source struct {
	*strings.Reader
	Closes int
}

// NewSource returns a Source serving s.
func NewSource(s string) *Source {
	return &Source{Reader: strings.NewReader(s)}
}

// Close records the call.
func (s *Source) Close() error {
	s.Closes++
	return nil
}

// failingReader serves data and then fails with err.
type failingReader struct {
	data []byte
	err  error
}

// FailingReader returns a reader serving data followed by err.
func FailingReader(data string, err error) io.Reader {
	return &failingReader{data: []byte(data), err: err}
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

// FailingWriter accepts After bytes and then fails every write with Err.
type FailingWriter struct {
	After int
	Err   error

	bytes.Buffer
}

// Write implements io.Writer.
func (w *FailingWriter) Write(p []byte) (int, error) {
	room := w.After - w.Buffer.Len()
	if room >= len(p) {
		return w.Buffer.Write(p)
	}
	if room > 0 {
		_, _ = w.Buffer.Write(p[:room])
		return room, w.Err
	}
	return 0, w.Err
}

// Content counts segment builds and closes of the readers it hands out.
type Content struct {
	Text   string
	Builds int
	Closes int
}

// Func returns a content function serving c.Text.
func (c *Content) Func() reshape.ContentFunc {
	return func(reshape.Params) (io.Reader, error) {
		c.Builds++
		return &contentReader{Reader: strings.NewReader(c.Text), owner: c}, nil
	}
}

type contentReader struct {
	*strings.Reader
	owner *Content
}

func (r *contentReader) Close() error {
	r.owner.Closes++
	return nil
}

// FailingContent returns a content function that fails with err.
func FailingContent(err error) reshape.ContentFunc {
	return func(reshape.Params) (io.Reader, error) {
		return nil, err
	}
}

// ParamContent returns a content function serving the value of key.
func ParamContent(key string) reshape.ContentFunc {
	return func(p reshape.Params) (io.Reader, error) {
		v, err := p.Require(key)
		if err != nil {
			return nil, err
		}
		return strings.NewReader(v), nil
	}
}

// Marker frames a stream in <name> and </name> in both roles. It makes the
// order modifiers are applied in visible in the output.
type Marker struct {
	name string
}

// NewMarker returns a marker named by the parameter, "m" when empty.
func NewMarker(param reshape.Parameter) (*Marker, error) {
	name := string(param)
	if name == "" {
		name = "m"
	}
	return &Marker{name: name}, nil
}

// MarkerProvider returns a Marker implementation under id.
func MarkerProvider(id string) reshape.Implementation {
	return reshape.Provide(id, NewMarker)
}

func (m *Marker) ContentType() string { return "text/x-" + m.name }
func (m *Marker) Extension() string   { return "." + m.name }

func (m *Marker) open() reshape.ContentFunc { return reshape.Static([]byte("<" + m.name + ">")) }
func (m *Marker) end() reshape.ContentFunc  { return reshape.Static([]byte("</" + m.name + ">")) }

// WrapReader implements reshape.InputModifier.
func (m *Marker) WrapReader(r io.Reader, params reshape.Params) (io.ReadCloser, error) {
	return reshape.NewEnvelopeReader(r, m.open(), m.end(), params), nil
}

// WrapWriter implements reshape.OutputModifier.
func (m *Marker) WrapWriter(w io.Writer, params reshape.Params) (io.WriteCloser, error) {
	return reshape.NewEnvelopeWriter(w, m.open(), m.end(), params), nil
}

// OutputMarker is a push-only Marker.
type OutputMarker struct {
	m *Marker
}

// OutputMarkerProvider returns an OutputMarker implementation under id.
func OutputMarkerProvider(id string) reshape.Implementation {
	return reshape.Provide(id, func(param reshape.Parameter) (*OutputMarker, error) {
		m, err := NewMarker(param)
		return &OutputMarker{m: m}, err
	})
}

func (o *OutputMarker) ContentType() string { return o.m.ContentType() }
func (o *OutputMarker) Extension() string   { return o.m.Extension() }

// WrapWriter implements reshape.OutputModifier.
func (o *OutputMarker) WrapWriter(w io.Writer, params reshape.Params) (io.WriteCloser, error) {
	return o.m.WrapWriter(w, params)
}

// Settings returns settings whose spill files go to a per-test directory.
func Settings(tb testing.TB, threshold int64) reshape.Settings {
	tb.Helper()
	return reshape.Settings{SpillThreshold: threshold, SpillDir: tb.TempDir()}
}

// Registry returns the built-in registry with the given settings.
func Registry(tb testing.TB, settings reshape.Settings) *reshape.Registry {
	tb.Helper()
	reg, err := builtin.Registry(context.Background(), settings)
	if err != nil {
		tb.Fatalf("builtin registry: %v", err)
	}
	return reg
}

// Identity returns a fresh age identity for encryption tests.
func Identity(tb testing.TB) *age.X25519Identity {
	tb.Helper()
	id, err := age.GenerateX25519Identity()
	if err != nil {
		tb.Fatalf("generate age identity: %v", err)
	}
	return id
}

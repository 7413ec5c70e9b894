// Package meta provides metadata headers: a record serialized with a
// reshape.Codec and written ahead of the payload.
//
// The record carries the job parameters prefixed with "meta." (prefix
// stripped) and the payload content type from the "content-type" parameter.
// Two modifiers build it:
//
//   - Header, in both roles, writes the record as soon as the stream starts.
//   - SizedHeader, push only, also records the exact payload length. The
//     payload is buffered until Close, spilling to a temporary file beyond
//     the configured threshold.
//
// The declaration parameter names the codec: json (the default), xml, yaml,
// msgpack, cbor or bson. xml+decl is xml preceded by the XML declaration. Text records end with a newline; YAML records end
// with the document end marker.
package meta

import (
	"bytes"
	"fmt"
	"io"

	"github.com/zoobzio/reshape"
)

// Implementation identifiers.
const (
	HeaderID = "meta.header"
	SizedID  = "meta.sized"
)

// Parameter keys.
const (
	EntryPrefix      = "meta."
	ContentTypeParam = "content-type"
)

// record builds the serialized header.
type record struct {
	name string
	f    framing
}

func newRecord(param reshape.Parameter) (record, error) {
	name := string(param)
	if name == "" {
		name = DefaultCodec
	}
	f, ok := codecs[name]
	if !ok {
		return record{}, fmt.Errorf("%w: metadata codec %q (supported: %v)", reshape.ErrInvalidParameter, param, Codecs())
	}
	return record{name: name, f: f}, nil
}

func (r record) build(md reshape.Metadata) (io.Reader, error) {
	data, err := r.f.codec.Marshal(md)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.name, err)
	}
	var b bytes.Buffer
	b.Grow(len(data) + len(r.f.terminator))
	b.Write(data)
	b.WriteString(r.f.terminator)
	return &b, nil
}

func metadata(params reshape.Params) reshape.Metadata {
	md := reshape.NewMetadata(params, EntryPrefix)
	md.ContentType = params.Get(ContentTypeParam)
	return md
}

// Header writes a metadata record ahead of the payload.
type Header struct {
	record
}

// NewHeader returns a header for the codec the parameter names.
func NewHeader(param reshape.Parameter) (*Header, error) {
	r, err := newRecord(param)
	if err != nil {
		return nil, err
	}
	return &Header{record: r}, nil
}

// HeaderProvider returns the Header implementation.
func HeaderProvider() reshape.Implementation {
	return reshape.Provide(HeaderID, NewHeader)
}

// Codec returns the record codec.
func (h *Header) Codec() reshape.Codec {
	return h.f.codec
}

// ContentType returns "": the header keeps the payload's type.
func (h *Header) ContentType() string {
	return ""
}

// Extension returns "".
func (h *Header) Extension() string {
	return ""
}

func (h *Header) prefix(params reshape.Params) (io.Reader, error) {
	return h.build(metadata(params))
}

// WrapReader returns a reader serving the record and then r.
func (h *Header) WrapReader(r io.Reader, params reshape.Params) (io.ReadCloser, error) {
	return reshape.NewHeaderReader(r, h.prefix, params), nil
}

// WrapWriter returns a writer emitting the record before the first payload
// byte reaches w.
func (h *Header) WrapWriter(w io.Writer, params reshape.Params) (io.WriteCloser, error) {
	return reshape.NewHeaderWriter(w, h.prefix, params), nil
}

// SizedHeader writes a metadata record carrying the payload length.
type SizedHeader struct {
	record
	opts []reshape.SpillOption
}

// NewSizedHeader returns a sized header for the codec the parameter names.
// opts configure the spill buffer of every stream it wraps.
func NewSizedHeader(param reshape.Parameter, opts ...reshape.SpillOption) (*SizedHeader, error) {
	r, err := newRecord(param)
	if err != nil {
		return nil, err
	}
	return &SizedHeader{record: r, opts: opts}, nil
}

// SizedProvider returns the SizedHeader implementation. opts configure the
// spill buffers.
func SizedProvider(opts ...reshape.SpillOption) reshape.Implementation {
	return reshape.Provide(SizedID, func(param reshape.Parameter) (*SizedHeader, error) {
		return NewSizedHeader(param, opts...)
	})
}

// Codec returns the record codec.
func (s *SizedHeader) Codec() reshape.Codec {
	return s.f.codec
}

// ContentType returns "": the header keeps the payload's type.
func (s *SizedHeader) ContentType() string {
	return ""
}

// Extension returns "".
func (s *SizedHeader) Extension() string {
	return ""
}

func (s *SizedHeader) prefix(params reshape.Params, size int64) (io.Reader, error) {
	return s.build(metadata(params).WithSize(size))
}

// WrapWriter returns a writer that buffers the payload and writes record
// and payload to w on Close.
func (s *SizedHeader) WrapWriter(w io.Writer, params reshape.Params) (io.WriteCloser, error) {
	return reshape.NewSizedHeaderWriter(w, s.prefix, params, s.opts...), nil
}

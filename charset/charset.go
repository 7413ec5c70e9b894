// Package charset provides the Charset modifier, which transcodes UTF-8
// report output into a named character set.
package charset

import (
	"fmt"
	"io"
	"strings"

	"github.com/zoobzio/reshape"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ID is the implementation identifier.
const ID = "charset"

// ReplaceParam is the bag key that, when "true", substitutes characters
// the target charset cannot represent instead of failing the stream.
const ReplaceParam = "charset.replace"

// Transcoder converts UTF-8 into one target charset.
type Transcoder struct {
	name string
	enc  encoding.Encoding
}

// New returns a transcoder for the charset the parameter names, using the
// WHATWG names and labels (e.g., ISO-8859-1, windows-1252, Shift_JIS).
func New(param reshape.Parameter) (*Transcoder, error) {
	if param == "" {
		return nil, fmt.Errorf("%w: charset name required", reshape.ErrInvalidParameter)
	}
	enc, err := htmlindex.Get(string(param))
	if err != nil {
		return nil, fmt.Errorf("%w: charset %q: %w", reshape.ErrInvalidParameter, param, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = strings.ToLower(string(param))
	}
	return &Transcoder{name: name, enc: enc}, nil
}

// Provider returns the implementation.
func Provider() reshape.Implementation {
	return reshape.Provide(ID, New)
}

// Name returns the canonical charset name.
func (t *Transcoder) Name() string {
	return t.name
}

// ContentType returns text/plain with the charset parameter.
func (t *Transcoder) ContentType() string {
	return "text/plain; charset=" + t.name
}

// Extension returns "": transcoding keeps the file type.
func (t *Transcoder) Extension() string {
	return ""
}

func (t *Transcoder) encoder(params reshape.Params) transform.Transformer {
	e := t.enc.NewEncoder()
	if params.Get(ReplaceParam) == "true" {
		return encoding.ReplaceUnsupported(e)
	}
	return e
}

// WrapWriter returns a writer transcoding into w.
func (t *Transcoder) WrapWriter(w io.Writer, params reshape.Params) (io.WriteCloser, error) {
	return &reshape.ChainWriter{
		WriteCloser: transform.NewWriter(w, t.encoder(params)),
		Next:        w,
	}, nil
}

// WrapReader returns a reader producing the transcoding of r.
func (t *Transcoder) WrapReader(r io.Reader, params reshape.Params) (io.ReadCloser, error) {
	return reshape.ChainReaderOf(transform.NewReader(r, t.encoder(params)), r), nil
}

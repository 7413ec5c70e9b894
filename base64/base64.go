// Package base64 provides the BASE64 output modifier.
//
// BASE64 is push-only: it encodes bytes on their way to the sink and has no
// pull-mode form.
package base64

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/zoobzio/reshape"
)

// ID is the implementation identifier alias tables refer to.
const ID = "base64"

// encodings maps declaration parameters to alphabets.
var encodings = map[string]*base64.Encoding{
	"STD":    base64.StdEncoding,
	"URL":    base64.URLEncoding,
	"RAWSTD": base64.RawStdEncoding,
	"RAWURL": base64.RawURLEncoding,
}

// Encoder encodes the output stream as base64.
type Encoder struct {
	enc *base64.Encoding
}

// New returns an encoder for the named alphabet: STD (the default when
// param is empty), URL, RAWSTD or RAWURL.
func New(param reshape.Parameter) (*Encoder, error) {
	if param == "" {
		return &Encoder{enc: base64.StdEncoding}, nil
	}
	enc, ok := encodings[strings.ToUpper(string(param))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown base64 alphabet %q", reshape.ErrInvalidParameter, param)
	}
	return &Encoder{enc: enc}, nil
}

// Provider returns the implementation for registry construction.
func Provider() reshape.Implementation {
	return reshape.Provide(ID, New)
}

// ContentType returns text/plain: base64 output is ASCII.
func (e *Encoder) ContentType() string {
	return "text/plain"
}

// Extension returns ".b64".
func (e *Encoder) Extension() string {
	return ".b64"
}

// WrapWriter returns a writer encoding into w. Close writes any partially
// filled final quantum and then closes w.
func (e *Encoder) WrapWriter(w io.Writer, _ reshape.Params) (io.WriteCloser, error) {
	return &reshape.ChainWriter{
		WriteCloser: base64.NewEncoder(e.enc, w),
		Next:        w,
	}, nil
}

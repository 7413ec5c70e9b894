// Package cbor provides a CBOR codec for metadata headers.
package cbor

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/zoobzio/reshape"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2): sorted map
// keys, smallest integer encoding, no indefinite-length items.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cbor: encoder initialization failed: " + err.Error())
	}
}

// cborCodec implements reshape.Codec for CBOR.
type cborCodec struct{}

// New returns a CBOR codec. Equal records always encode to equal bytes.
func New() reshape.Codec {
	return &cborCodec{}
}

// Name returns "cbor".
func (c *cborCodec) Name() string {
	return "cbor"
}

// ContentType returns the MIME type for CBOR.
func (c *cborCodec) ContentType() string {
	return "application/cbor"
}

// Marshal encodes v as deterministic CBOR.
func (c *cborCodec) Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func (c *cborCodec) Unmarshal(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}

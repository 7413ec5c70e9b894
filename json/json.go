// Package json provides a JSON codec for metadata headers.
package json

import (
	"encoding/json"

	"github.com/zoobzio/reshape"
)

// jsonCodec implements reshape.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON codec. Output is a single compact line.
func New() reshape.Codec {
	return &jsonCodec{}
}

// Name returns "json".
func (c *jsonCodec) Name() string {
	return "json"
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as compact JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

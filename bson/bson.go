// Package bson provides a BSON codec for metadata headers.
package bson

import (
	"github.com/zoobzio/reshape"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements reshape.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec. BSON documents carry their own length in the
// first four bytes, so a reader can split a BSON header from the payload
// without a delimiter.
func New() reshape.Codec {
	return &bsonCodec{}
}

// Name returns "bson".
func (c *bsonCodec) Name() string {
	return "bson"
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as a BSON document. v must be a struct or map.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}

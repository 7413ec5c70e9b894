// Package msgpack provides a MessagePack codec for metadata headers.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/reshape"
)

// msgpackCodec implements reshape.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec. Struct fields are keyed by their msgpack
// tags and maps are encoded with sorted keys so equal records produce equal
// bytes.
func New() reshape.Codec {
	return &msgpackCodec{}
}

// Name returns "msgpack".
func (c *msgpackCodec) Name() string {
	return "msgpack"
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

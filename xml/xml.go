// Package xml provides an XML codec for metadata headers.
package xml

import (
	"bytes"
	"encoding/xml"

	"github.com/zoobzio/reshape"
)

// xmlCodec implements reshape.Codec for XML.
type xmlCodec struct {
	declaration bool
}

// Option configures the XML codec.
type Option func(*xmlCodec)

// WithDeclaration prepends the standard <?xml ...?> declaration to
// marshaled documents.
func WithDeclaration() Option {
	return func(c *xmlCodec) {
		c.declaration = true
	}
}

// New returns an XML codec.
func New(opts ...Option) reshape.Codec {
	c := &xmlCodec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns "xml".
func (c *xmlCodec) Name() string {
	return "xml"
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil || !c.declaration {
		return data, err
	}
	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(data))
	buf.WriteString(xml.Header)
	buf.Write(data)
	return buf.Bytes(), nil
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}

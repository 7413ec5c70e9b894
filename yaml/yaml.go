// Package yaml provides a YAML codec for metadata headers.
package yaml

import (
	"bytes"

	"github.com/zoobzio/reshape"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements reshape.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec. Marshaled documents open with "---" so a reader
// can find where the header starts.
func New() reshape.Codec {
	return &yamlCodec{}
}

// Name returns "yaml".
func (c *yamlCodec) Name() string {
	return "yaml"
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as a YAML document with two-space indentation.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

package reshape

import (
	"encoding/xml"
	"strings"
)

// Metadata is the record a metadata header carries ahead of the payload.
// Its tags keep the shape stable across every Codec.
type Metadata struct {
	XMLName xml.Name `json:"-" yaml:"-" msgpack:"-" cbor:"-" bson:"-" xml:"header"`

	// ContentType is the MIME type of the payload that follows.
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty" msgpack:"content_type,omitempty" cbor:"content_type,omitempty" bson:"content_type,omitempty" xml:"content-type,attr,omitempty"`

	// Size is the payload length in bytes, present only for sized headers.
	Size *int64 `json:"size,omitempty" yaml:"size,omitempty" msgpack:"size,omitempty" cbor:"size,omitempty" bson:"size,omitempty" xml:"size,attr,omitempty"`

	// Entries are the parameter bag entries selected for the header.
	Entries []MetadataEntry `json:"entries,omitempty" yaml:"entries,omitempty" msgpack:"entries,omitempty" cbor:"entries,omitempty" bson:"entries,omitempty" xml:"entry"`
}

// MetadataEntry is one key/value pair of a Metadata record.
type MetadataEntry struct {
	Key   string `json:"key" yaml:"key" msgpack:"key" cbor:"key" bson:"key" xml:"key,attr"`
	Value string `json:"value" yaml:"value" msgpack:"value" cbor:"value" bson:"value" xml:",chardata"`
}

// NewMetadata builds a record from the bag entries whose keys start with
// prefix, with the prefix stripped. The empty prefix selects every entry.
// Entries are in key order.
func NewMetadata(params Params, prefix string) Metadata {
	var md Metadata
	for _, k := range params.Keys() {
		key, ok := strings.CutPrefix(k, prefix)
		if !ok || key == "" {
			continue
		}
		md.Entries = append(md.Entries, MetadataEntry{Key: key, Value: params.Get(k)})
	}
	return md
}

// WithSize returns a copy of the record carrying size.
func (m Metadata) WithSize(size int64) Metadata {
	m.Size = &size
	return m
}

// Lookup returns the value of the entry named key.
func (m Metadata) Lookup(key string) (string, bool) {
	for _, e := range m.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

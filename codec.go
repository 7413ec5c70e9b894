package reshape

// Codec provides content-type aware marshaling for header content.
// Implementations live in the json, xml, yaml, msgpack, bson and cbor
// subpackages.
type Codec interface {
	// Name returns the short name declarations select the codec by
	// (e.g., "json" in Header(json)).
	Name() string

	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

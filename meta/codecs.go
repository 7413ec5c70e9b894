package meta

import (
	"sort"

	"github.com/zoobzio/reshape"
	"github.com/zoobzio/reshape/bson"
	"github.com/zoobzio/reshape/cbor"
	"github.com/zoobzio/reshape/json"
	"github.com/zoobzio/reshape/msgpack"
	"github.com/zoobzio/reshape/xml"
	"github.com/zoobzio/reshape/yaml"
)

// DefaultCodec is used when a declaration names no codec.
const DefaultCodec = "json"

// framing pairs a codec with the bytes that end its record in the stream.
// Binary formats are self-delimiting and need none.
type framing struct {
	codec      reshape.Codec
	terminator string
}

func builtinCodecs() map[string]framing {
	return map[string]framing{
		"json":     {codec: json.New(), terminator: "\n"},
		"xml":      {codec: xml.New(), terminator: "\n"},
		"xml+decl": {codec: xml.New(xml.WithDeclaration()), terminator: "\n"},
		"yaml":     {codec: yaml.New(), terminator: "...\n"},
		"msgpack":  {codec: msgpack.New()},
		"cbor":     {codec: cbor.New()},
		"bson":     {codec: bson.New()},
	}
}

var codecs = builtinCodecs()

// Codec returns the codec registered under name.
func Codec(name string) (reshape.Codec, bool) {
	f, ok := codecs[name]
	return f.codec, ok
}

// Codecs returns the codec names, sorted.
func Codecs() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

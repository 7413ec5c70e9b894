package cbor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/zoobzio/reshape"
)

func TestNameAndContentType(t *testing.T) {
	c := New()
	if c.Name() != "cbor" {
		t.Errorf("Name() = %q, want %q", c.Name(), "cbor")
	}
	if c.ContentType() != "application/cbor" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/cbor")
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	c := New()

	params := reshape.NewParams(map[string]string{
		"header.report": "daily-sales",
		"header.run":    "42",
		"other":         "ignored",
	})
	original := reshape.NewMetadata(params, "header.").WithSize(1024)
	original.ContentType = "text/csv"

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored reshape.Metadata
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	opts := cmpopts.IgnoreFields(reshape.Metadata{}, "XMLName")
	if diff := cmp.Diff(original, restored, opts); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	c := New()
	v := map[string]string{"b": "2", "a": "1", "c": "3"}

	first, err := c.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := c.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal() error: %v", err)
		}
		if string(again) != string(first) {
			t.Fatalf("Marshal() not deterministic: %x vs %x", again, first)
		}
	}
}

package base64

import (
	"bytes"
	"errors"
	"testing"

	"github.com/zoobzio/reshape"
)

func TestProviderCapabilities(t *testing.T) {
	impl := Provider()
	if impl.ID != ID {
		t.Errorf("ID = %q, want %q", impl.ID, ID)
	}
	if !impl.Capabilities.Has(reshape.WritesOutput) {
		t.Error("base64 should write output")
	}
	if impl.Capabilities.Has(reshape.ReadsInput) {
		t.Error("base64 should be push-only")
	}
}

func TestWrapWriter(t *testing.T) {
	tests := []struct {
		name  string
		param reshape.Parameter
		input string
		want  string
	}{
		{name: "default", input: "ABC", want: "QUJD"},
		{name: "padding", input: "AB", want: "QUI="},
		{name: "raw", param: "RAWSTD", input: "AB", want: "QUI"},
		{name: "url", param: "url", input: "\xfb\xff", want: "-_8="},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := New(tt.param)
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			var sink bytes.Buffer
			w, err := enc.WrapWriter(&sink, reshape.Params{})
			if err != nil {
				t.Fatalf("WrapWriter() error: %v", err)
			}
			if _, err := w.Write([]byte(tt.input)); err != nil {
				t.Fatalf("Write() error: %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close() error: %v", err)
			}
			if sink.String() != tt.want {
				t.Errorf("output = %q, want %q", sink.String(), tt.want)
			}
		})
	}
}

func TestNewRejectsUnknownAlphabet(t *testing.T) {
	_, err := New("BASE32")
	if !errors.Is(err, reshape.ErrInvalidParameter) {
		t.Errorf("New() error = %v, want ErrInvalidParameter", err)
	}
}

func TestMetadata(t *testing.T) {
	enc, _ := New("")
	if enc.ContentType() != "text/plain" {
		t.Errorf("ContentType() = %q", enc.ContentType())
	}
	if enc.Extension() != ".b64" {
		t.Errorf("Extension() = %q", enc.Extension())
	}
}

package digest

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/zeebo/blake3"
	"github.com/zoobzio/reshape"
	"golang.org/x/crypto/blake2b"
)

const helloSHA256 = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func pull(t *testing.T, tr *Trailer, input string) string {
	t.Helper()
	r, err := tr.WrapReader(strings.NewReader(input), reshape.Params{})
	if err != nil {
		t.Fatalf("WrapReader() error: %v", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	return string(out)
}

func push(t *testing.T, tr *Trailer, chunks ...string) string {
	t.Helper()
	var sink bytes.Buffer
	w, err := tr.WrapWriter(&sink, reshape.Params{})
	if err != nil {
		t.Fatalf("WrapWriter() error: %v", err)
	}
	for _, c := range chunks {
		if _, err := io.WriteString(w, c); err != nil {
			t.Fatalf("Write() error: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	return sink.String()
}

func TestTrailer(t *testing.T) {
	tr, err := New("")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	want := "hello\nsha256:" + helloSHA256 + "\n"

	if got := pull(t, tr, "hello"); got != want {
		t.Errorf("pull = %q, want %q", got, want)
	}
	if got := push(t, tr, "hel", "lo"); got != want {
		t.Errorf("push = %q, want %q", got, want)
	}
}

func TestTrailerAfterNewline(t *testing.T) {
	tr, _ := New("sha256")
	got := pull(t, tr, "hello\n")
	if strings.Contains(got, "\n\n") {
		t.Errorf("unexpected blank line in %q", got)
	}
	if !strings.HasPrefix(got, "hello\nsha256:") {
		t.Errorf("got %q", got)
	}
}

func TestEmptyPayload(t *testing.T) {
	tr, _ := New("sha256")
	const emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	want := "sha256:" + emptySHA256 + "\n"
	if got := pull(t, tr, ""); got != want {
		t.Errorf("pull = %q, want %q", got, want)
	}
	if got := push(t, tr); got != want {
		t.Errorf("push = %q, want %q", got, want)
	}
}

func TestAlgorithms(t *testing.T) {
	payload := []byte("ledger export")
	sum512 := sha512.Sum512(payload)
	sum2b := blake2b.Sum256(payload)
	sum3 := blake3.Sum256(payload)

	tests := []struct {
		param reshape.Parameter
		want  string
	}{
		{"SHA512", "sha512:" + hex.EncodeToString(sum512[:])},
		{"blake2b", "blake2b:" + hex.EncodeToString(sum2b[:])},
		{"blake3", "blake3:" + hex.EncodeToString(sum3[:])},
	}

	for _, tt := range tests {
		t.Run(string(tt.param), func(t *testing.T) {
			tr, err := New(tt.param)
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			want := string(payload) + "\n" + tt.want + "\n"
			if got := push(t, tr, string(payload)); got != want {
				t.Errorf("push = %q, want %q", got, want)
			}
		})
	}
}

func TestUnknownAlgorithm(t *testing.T) {
	if _, err := New("md5"); !errors.Is(err, reshape.ErrInvalidParameter) {
		t.Errorf("New(md5) error = %v, want ErrInvalidParameter", err)
	}
}

func TestAlgorithmsSorted(t *testing.T) {
	got := Algorithms()
	want := []Algorithm{BLAKE2b, BLAKE3, SHA256, SHA512}
	if len(got) != len(want) {
		t.Fatalf("Algorithms() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Algorithms()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKeepsContentType(t *testing.T) {
	tr, _ := New("")
	if tr.ContentType() != "" {
		t.Errorf("ContentType() = %q, want empty", tr.ContentType())
	}
}

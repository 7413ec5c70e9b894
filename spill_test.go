package reshape

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSpillBufferModes(t *testing.T) {
	const threshold = 8
	tests := []struct {
		name string
		size int
		want SpillMode
	}{
		{"below", threshold - 1, InMemory},
		{"at", threshold, InMemory},
		{"above", threshold + 1, FileBacked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			b := NewSpillBuffer(WithSpillThreshold(threshold), WithSpillDir(dir))
			payload := strings.Repeat("x", tt.size)
			for i := range payload {
				if _, err := b.Write([]byte{payload[i]}); err != nil {
					t.Fatalf("Write() error: %v", err)
				}
			}
			if b.Mode() != tt.want {
				t.Errorf("Mode() = %s, want %s", b.Mode(), tt.want)
			}
			if b.Len() != int64(tt.size) {
				t.Errorf("Len() = %d, want %d", b.Len(), tt.size)
			}

			var out bytes.Buffer
			if _, err := b.WriteTo(&out); err != nil {
				t.Fatalf("WriteTo() error: %v", err)
			}
			if out.String() != payload {
				t.Error("replay mismatch")
			}

			path := b.Path()
			if (path != "") != (tt.want == FileBacked) {
				t.Errorf("Path() = %q for mode %s", path, b.Mode())
			}
			if err := b.Close(); err != nil {
				t.Fatalf("Close() error: %v", err)
			}
			if path != "" {
				if _, err := os.Stat(path); !os.IsNotExist(err) {
					t.Errorf("spill file %s still exists", path)
				}
			}
			entries, _ := os.ReadDir(dir)
			if len(entries) != 0 {
				t.Errorf("spill dir holds %d entries after Close", len(entries))
			}
		})
	}
}

func TestSpillBufferWritesAfterSpill(t *testing.T) {
	b := NewSpillBuffer(WithSpillThreshold(2), WithSpillDir(t.TempDir()))
	defer b.Close()

	_, _ = b.Write([]byte("abc"))
	var first bytes.Buffer
	_, _ = b.WriteTo(&first)
	_, _ = b.Write([]byte("def"))

	var second bytes.Buffer
	if _, err := b.WriteTo(&second); err != nil {
		t.Fatalf("WriteTo() error: %v", err)
	}
	if first.String() != "abc" || second.String() != "abcdef" {
		t.Errorf("replays = %q, %q", first.String(), second.String())
	}
}

func TestSpillBufferClosed(t *testing.T) {
	b := NewSpillBuffer()
	_ = b.Close()
	if err := b.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	if _, err := b.Write([]byte("x")); err != ErrClosed {
		t.Errorf("Write() error = %v, want ErrClosed", err)
	}
	if _, err := b.WriteTo(&bytes.Buffer{}); err != ErrClosed {
		t.Errorf("WriteTo() error = %v, want ErrClosed", err)
	}
}

func TestSpillBufferOptions(t *testing.T) {
	b := NewSpillBuffer(WithSpillThreshold(-5))
	if b.threshold != DefaultSpillThreshold {
		t.Errorf("negative threshold applied: %d", b.threshold)
	}
	if InMemory.String() != "memory" || FileBacked.String() != "file" {
		t.Error("unexpected mode names")
	}
}

func TestSpillBufferBadDir(t *testing.T) {
	b := NewSpillBuffer(WithSpillThreshold(0), WithSpillDir(t.TempDir()+"/missing"))
	if _, err := b.Write([]byte("x")); err == nil {
		t.Error("expected an error creating the spill file")
	}
	if b.Mode() != InMemory {
		t.Error("failed spill should stay in memory")
	}
}

func TestSpillSignal(t *testing.T) {
	var path string
	events := captureSignal(SignalSpilled, func() {
		b := NewSpillBuffer(WithSpillThreshold(1), WithSpillDir(t.TempDir()))
		_, _ = b.Write([]byte("xy"))
		path = b.Path()
		_ = b.Close()
	})
	if len(events) != 1 {
		t.Fatalf("got %d %s events, want 1", len(events), SignalSpilled.Name())
	}
	if got := KeyPath.ExtractFromFields(events[0].Fields); got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
}

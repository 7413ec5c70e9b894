package reshape

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func lengthPrefix(_ Params, size int64) (io.Reader, error) {
	return strings.NewReader(fmt.Sprintf("%d:", size)), nil
}

func TestSizedHeaderWriter(t *testing.T) {
	sink := &closeCounter{}
	w := NewSizedHeaderWriter(sink, lengthPrefix, Params{})

	for _, chunk := range []string{"hel", "lo"} {
		if _, err := w.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write() error: %v", err)
		}
	}
	if sink.Len() != 0 {
		t.Errorf("sink received %q before Close", sink.String())
	}
	if w.Written() != 5 || w.Mode() != InMemory {
		t.Errorf("Written()=%d Mode()=%s", w.Written(), w.Mode())
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if sink.String() != "5:hello" {
		t.Errorf("sink = %q, want 5:hello", sink.String())
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	if sink.closes != 1 {
		t.Errorf("sink closed %d times, want 1", sink.closes)
	}
	if _, err := w.Write([]byte("x")); !errors.Is(err, ErrClosed) {
		t.Errorf("Write() after Close error = %v, want ErrClosed", err)
	}
}

func TestSizedHeaderWriterSpills(t *testing.T) {
	dir := t.TempDir()
	sink := &closeCounter{}
	w := NewSizedHeaderWriter(sink, lengthPrefix, Params{}, WithSpillThreshold(4), WithSpillDir(dir))
	payload := strings.Repeat("spill", 100)
	if _, err := io.Copy(w, strings.NewReader(payload)); err != nil {
		t.Fatalf("Copy() error: %v", err)
	}
	if w.Mode() != FileBacked {
		t.Fatalf("Mode() = %s, want file", w.Mode())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if want := "500:" + payload; sink.String() != want {
		t.Error("spilled output mismatch")
	}
}

func TestSizedHeaderWriterEmpty(t *testing.T) {
	sink := &closeCounter{}
	w := NewSizedHeaderWriter(sink, lengthPrefix, Params{})
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if sink.String() != "0:" {
		t.Errorf("sink = %q, want 0:", sink.String())
	}
}

func TestSizedHeaderWriterPrefixError(t *testing.T) {
	boom := errors.New("no template")
	sink := &closeCounter{}
	w := NewSizedHeaderWriter(sink, func(Params, int64) (io.Reader, error) { return nil, boom }, Params{})
	_, _ = w.Write([]byte("x"))

	err := w.Close()
	var ce *ContentError
	if !errors.As(err, &ce) || ce.Segment != "prefix" || !errors.Is(err, boom) {
		t.Errorf("Close() error = %v, want prefix ContentError", err)
	}
	if sink.Len() != 0 {
		t.Errorf("sink received %q", sink.String())
	}
	if sink.closes != 1 {
		t.Errorf("sink closed %d times, want 1", sink.closes)
	}
}

func TestSizedHeaderWriterSinkCloseError(t *testing.T) {
	boom := errors.New("upload rejected")
	sink := &closeCounter{err: boom}
	w := NewSizedHeaderWriter(sink, lengthPrefix, Params{})
	_, _ = w.Write([]byte("x"))
	if err := w.Close(); !errors.Is(err, boom) {
		t.Errorf("Close() error = %v, want sink close error", err)
	}
}

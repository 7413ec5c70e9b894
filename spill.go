package reshape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
)

// DefaultSpillThreshold is the number of bytes a SpillBuffer holds in memory
// before it migrates to a temporary file.
const DefaultSpillThreshold = 4 << 20 // 4 MiB

// SpillMode is where a SpillBuffer currently keeps its bytes.
type SpillMode uint8

const (
	InMemory SpillMode = iota
	FileBacked
)

// String returns the mode name.
func (m SpillMode) String() string {
	if m == FileBacked {
		return "file"
	}
	return "memory"
}

// SpillOption configures a SpillBuffer.
type SpillOption func(*SpillBuffer)

// WithSpillThreshold sets the in-memory limit. Values below zero are ignored.
func WithSpillThreshold(n int64) SpillOption {
	return func(b *SpillBuffer) {
		if n >= 0 {
			b.threshold = n
		}
	}
}

// WithSpillDir sets the directory temporary files are created in.
// The empty string means os.TempDir().
func WithSpillDir(dir string) SpillOption {
	return func(b *SpillBuffer) {
		b.dir = dir
	}
}

// WithSpillContext sets the context spill signals are emitted with.
func WithSpillContext(ctx context.Context) SpillOption {
	return func(b *SpillBuffer) {
		b.ctx = ctx
	}
}

// SpillBuffer accumulates bytes in memory and migrates them, once and for
// good, to a temporary file when the total exceeds its threshold.
// A SpillBuffer provides no backpressure: it accepts input until the disk
// is full.
type SpillBuffer struct {
	ctx       context.Context
	threshold int64
	dir       string

	mem     bytes.Buffer
	file    *os.File
	written int64
	closed  bool
}

// NewSpillBuffer returns an empty in-memory buffer.
func NewSpillBuffer(opts ...SpillOption) *SpillBuffer {
	b := &SpillBuffer{
		ctx:       context.Background(),
		threshold: DefaultSpillThreshold,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Mode returns where the bytes live.
func (b *SpillBuffer) Mode() SpillMode {
	if b.file != nil {
		return FileBacked
	}
	return InMemory
}

// Len returns the number of bytes written.
func (b *SpillBuffer) Len() int64 {
	return b.written
}

// Path returns the temporary file path, or "" while in memory.
func (b *SpillBuffer) Path() string {
	if b.file == nil {
		return ""
	}
	return b.file.Name()
}

// Write implements io.Writer.
func (b *SpillBuffer) Write(p []byte) (int, error) {
	if b.closed {
		return 0, ErrClosed
	}
	if b.file == nil && b.written+int64(len(p)) > b.threshold {
		if err := b.spill(); err != nil {
			return 0, err
		}
	}

	var n int
	var err error
	if b.file != nil {
		n, err = b.file.Write(p)
	} else {
		n, err = b.mem.Write(p)
	}
	b.written += int64(n)
	return n, err
}

// spill moves the in-memory bytes to a new temporary file.
func (b *SpillBuffer) spill() error {
	f, err := os.CreateTemp(b.dir, "reshape-spill-*")
	if err != nil {
		return fmt.Errorf("create spill file: %w", err)
	}
	if _, err := f.Write(b.mem.Bytes()); err != nil {
		f.Close()
		b.remove(f.Name())
		return fmt.Errorf("migrate to spill file: %w", err)
	}
	b.mem = bytes.Buffer{}
	b.file = f
	emitSpilled(b.ctx, f.Name(), b.written)
	return nil
}

// WriteTo replays every buffered byte to w in write order.
func (b *SpillBuffer) WriteTo(w io.Writer) (int64, error) {
	if b.closed {
		return 0, ErrClosed
	}
	if b.file == nil {
		n, err := w.Write(b.mem.Bytes())
		return int64(n), err
	}
	if _, err := b.file.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewind spill file: %w", err)
	}
	n, err := io.Copy(w, b.file)
	if err != nil {
		return n, err
	}
	// Leave the file positioned for further writes.
	if _, err := b.file.Seek(0, io.SeekEnd); err != nil {
		return n, fmt.Errorf("seek spill file: %w", err)
	}
	return n, nil
}

// Close discards the buffered bytes and removes the temporary file.
// Removal failure is reported through SignalSpillCleanupFailed, not returned.
// Safe to call more than once.
func (b *SpillBuffer) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.mem = bytes.Buffer{}
	if b.file == nil {
		return nil
	}
	name := b.file.Name()
	err := b.file.Close()
	b.file = nil
	b.remove(name)
	return err
}

func (b *SpillBuffer) remove(name string) {
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		emitSpillCleanupFailed(b.ctx, name, err)
	}
}

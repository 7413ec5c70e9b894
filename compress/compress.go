// Package compress provides the GZIP, ZSTD and LZ4 modifiers.
//
// Each compressor works in both roles. Push mode compresses bytes written
// toward the sink; pull mode compresses bytes read from the source. The
// declaration parameter, when present, selects the compression level.
package compress

import (
	"fmt"
	"io"
	"strconv"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zoobzio/reshape"
)

// Implementation identifiers.
const (
	GzipID = "gzip"
	ZstdID = "zstd"
	LZ4ID  = "lz4"
)

// Compressor compresses a stream with one algorithm at one level.
type Compressor struct {
	contentType string
	extension   string
	newEncoder  reshape.EncoderFunc
}

// ContentType returns the MIME type of the compressed stream.
func (c *Compressor) ContentType() string {
	return c.contentType
}

// Extension returns the file-extension hint of the compressed stream.
func (c *Compressor) Extension() string {
	return c.extension
}

// WrapWriter returns a writer compressing into w. Close writes the
// compressed trailer and then closes w.
func (c *Compressor) WrapWriter(w io.Writer, _ reshape.Params) (io.WriteCloser, error) {
	enc, err := c.newEncoder(w)
	if err != nil {
		return nil, err
	}
	return &reshape.ChainWriter{WriteCloser: enc, Next: w}, nil
}

// WrapReader returns a reader producing the compression of r.
func (c *Compressor) WrapReader(r io.Reader, _ reshape.Params) (io.ReadCloser, error) {
	return reshape.NewEncodingReader(r, c.newEncoder)
}

// NewGzip returns a gzip compressor. The parameter is a level from -2
// (Huffman only) to 9; empty means the default level.
func NewGzip(param reshape.Parameter) (*Compressor, error) {
	level := gzip.DefaultCompression
	if param != "" {
		n, err := strconv.Atoi(string(param))
		if err != nil || n < gzip.HuffmanOnly || n > gzip.BestCompression {
			return nil, fmt.Errorf("%w: gzip level %q", reshape.ErrInvalidParameter, param)
		}
		level = n
	}
	return &Compressor{
		contentType: "application/gzip",
		extension:   ".gz",
		newEncoder: func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriterLevel(w, level)
		},
	}, nil
}

// NewZstd returns a zstd compressor. The parameter is a zstd level from 1
// to 22 or one of fastest, default, better, best.
func NewZstd(param reshape.Parameter) (*Compressor, error) {
	level := zstd.SpeedDefault
	if param != "" {
		if n, err := strconv.Atoi(string(param)); err == nil {
			if n < 1 || n > 22 {
				return nil, fmt.Errorf("%w: zstd level %q", reshape.ErrInvalidParameter, param)
			}
			level = zstd.EncoderLevelFromZstd(n)
		} else {
			ok, named := zstd.EncoderLevelFromString(string(param))
			if !ok {
				return nil, fmt.Errorf("%w: zstd level %q", reshape.ErrInvalidParameter, param)
			}
			level = named
		}
	}
	return &Compressor{
		contentType: "application/zstd",
		extension:   ".zst",
		newEncoder: func(w io.Writer) (io.WriteCloser, error) {
			// A single encoder goroutine keeps output independent of
			// write boundaries.
			return zstd.NewWriter(w, zstd.WithEncoderLevel(level), zstd.WithEncoderConcurrency(1))
		},
	}, nil
}

var lz4Levels = [...]lz4.CompressionLevel{
	lz4.Fast,
	lz4.Level1, lz4.Level2, lz4.Level3,
	lz4.Level4, lz4.Level5, lz4.Level6,
	lz4.Level7, lz4.Level8, lz4.Level9,
}

// NewLZ4 returns an LZ4 frame compressor. The parameter is a level from 0
// (fast) to 9.
func NewLZ4(param reshape.Parameter) (*Compressor, error) {
	level := lz4.Fast
	if param != "" {
		n, err := strconv.Atoi(string(param))
		if err != nil || n < 0 || n >= len(lz4Levels) {
			return nil, fmt.Errorf("%w: lz4 level %q", reshape.ErrInvalidParameter, param)
		}
		level = lz4Levels[n]
	}
	return &Compressor{
		contentType: "application/x-lz4",
		extension:   ".lz4",
		newEncoder: func(w io.Writer) (io.WriteCloser, error) {
			zw := lz4.NewWriter(w)
			if err := zw.Apply(lz4.CompressionLevelOption(level), lz4.ConcurrencyOption(1)); err != nil {
				return nil, fmt.Errorf("lz4: %w", err)
			}
			return zw, nil
		},
	}, nil
}

// Gzip returns the gzip implementation.
func Gzip() reshape.Implementation {
	return reshape.Provide(GzipID, NewGzip)
}

// Zstd returns the zstd implementation.
func Zstd() reshape.Implementation {
	return reshape.Provide(ZstdID, NewZstd)
}

// LZ4 returns the lz4 implementation.
func LZ4() reshape.Implementation {
	return reshape.Provide(LZ4ID, NewLZ4)
}

// Package source opens decoder input: files, stdin, and compressed wrappers.
//
// Compression is detected from magic bytes, never from the file name.
package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/gdsstream/internal/stream"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

const sniffLen = 4

// Source is an opened, decompressed byte stream.
type Source struct {
	io.Reader
	Name        string
	Compression Compression
	closers     []func() error
}

// Open opens path, or stdin for "-", and unwraps any compression.
func Open(path string) (*Source, error) {
	if path == Stdin {
		return Wrap("stdin", os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", stream.ErrUnreadableSource, err)
	}
	src, err := Wrap(path, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.closers = append(src.closers, f.Close)
	return src, nil
}

// Wrap sniffs r and layers a decompressor on it when needed. Closing the
// returned Source does not close r.
func Wrap(name string, r io.Reader) (*Source, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %s: %w", stream.ErrUnreadableSource, name, err)
	}

	src := &Source{Name: name, Reader: br}
	switch {
	case bytes.HasPrefix(magic, magicGzip):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: gzip: %w", stream.ErrUnreadableSource, name, err)
		}
		src.Reader = zr
		src.Compression = CompressionGzip
		src.closers = append(src.closers, zr.Close)
	case bytes.HasPrefix(magic, magicZstd):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: zstd: %w", stream.ErrUnreadableSource, name, err)
		}
		src.Reader = zr
		src.Compression = CompressionZstd
		src.closers = append(src.closers, func() error {
			zr.Close()
			return nil
		})
	case bytes.HasPrefix(magic, magicLZ4):
		src.Reader = lz4.NewReader(br)
		src.Compression = CompressionLZ4
	}
	return src, nil
}

// Close releases decompressors, then the underlying file, in that order.
func (s *Source) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

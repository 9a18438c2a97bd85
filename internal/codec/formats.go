package codec

import (
	"compress/bzip2"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Bzip2 is the format Valve serves replays in.
type Bzip2 struct{}

func (Bzip2) Name() string         { return "bzip2" }
func (Bzip2) Extensions() []string { return []string{".bz2", ".bzip2"} }
func (Bzip2) Magic() []byte        { return []byte("BZh") }

func (Bzip2) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(bzip2.NewReader(r)), nil
}

type Gzip struct{}

func (Gzip) Name() string         { return "gzip" }
func (Gzip) Extensions() []string { return []string{".gz", ".gzip"} }
func (Gzip) Magic() []byte        { return []byte{0x1f, 0x8b} }

func (Gzip) NewReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

type Zstd struct{}

func (Zstd) Name() string         { return "zstd" }
func (Zstd) Extensions() []string { return []string{".zst", ".zstd"} }
func (Zstd) Magic() []byte        { return []byte{0x28, 0xb5, 0x2f, 0xfd} }

func (Zstd) NewReader(r io.Reader) (io.ReadCloser, error) {
	// Single goroutine decoder; one payload is decoded at a time anyway.
	d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return d.IOReadCloser(), nil
}

package codec

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/datallboy/godemo/internal/domain"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return b
}

func gzipBytes(t *testing.T, in []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(in); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zstdBytes(t *testing.T, in []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()
	return enc.EncodeAll(in, nil)
}

func TestOpenDecodesEveryFormat(t *testing.T) {
	plain := readFixture(t, "sample.dem")

	tests := []struct {
		name    string
		payload []byte
		codec   string
	}{
		{"match.dem.bz2", readFixture(t, "sample.dem.bz2"), "bzip2"},
		{"match.dem.gz", gzipBytes(t, plain), "gzip"},
		{"match.dem.zst", zstdBytes(t, plain), "zstd"},
		// Signature wins over a misleading extension
		{"match.dem.bz2", gzipBytes(t, plain), "gzip"},
		// No extension at all, detected from the header
		{"demo_3", zstdBytes(t, plain), "zstd"},
	}

	reg := Default()
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.codec, func(t *testing.T) {
			rc, c, err := reg.Open(tt.name, bytes.NewReader(tt.payload))
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer rc.Close()

			if c.Name() != tt.codec {
				t.Errorf("Expected codec %s, got %s", tt.codec, c.Name())
			}

			got, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if !bytes.Equal(got, plain) {
				t.Errorf("decoded payload differs from original (%d vs %d bytes)", len(got), len(plain))
			}
		})
	}
}

func TestOpenUnsupported(t *testing.T) {
	_, _, err := Default().Open("match.dem", bytes.NewReader([]byte("plain text")))
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}

func TestCorruptStreamFailsOnRead(t *testing.T) {
	payload := readFixture(t, "sample.dem.bz2")
	truncated := payload[:len(payload)/2]

	rc, _, err := Default().Open("match.dem.bz2", bytes.NewReader(truncated))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()

	if _, err := io.ReadAll(rc); err == nil {
		t.Error("expected an error reading a truncated bzip2 stream")
	}
}

func TestGarbageWithExtensionUsesNamedCodec(t *testing.T) {
	rc, c, err := Default().Open("match.dem.bz2", bytes.NewReader([]byte("not compressed at all")))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()

	if c.Name() != "bzip2" {
		t.Errorf("Expected fallback to bzip2, got %s", c.Name())
	}
	if _, err := io.ReadAll(rc); err == nil {
		t.Error("expected bzip2 to reject garbage input")
	}
}

func TestTrimExt(t *testing.T) {
	reg := Default()
	tests := map[string]string{
		"match.dem.bz2": "match.dem",
		"MATCH.DEM.BZ2": "MATCH.DEM",
		"match.dem.zst": "match.dem",
		"match.dem.gz":  "match.dem",
		"match.dem":     "match.dem",
		"demo_0":        "demo_0",
		".bz2":          ".bz2",
	}
	for in, want := range tests {
		if got := reg.TrimExt(in); got != want {
			t.Errorf("TrimExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNames(t *testing.T) {
	names := Default().Names()
	if len(names) != 3 || names[0] != "bzip2" {
		t.Errorf("unexpected codec names %v", names)
	}
}

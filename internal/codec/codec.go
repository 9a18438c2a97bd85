package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/datallboy/godemo/internal/domain"
)

// Codec describes one decompression format.
type Codec interface {
	// Name returns the human-readable name of this codec (e.g. "bzip2")
	Name() string

	// Extensions lists the lower-case file suffixes this codec claims, dot included.
	Extensions() []string

	// Magic returns the leading bytes every stream of this format starts with.
	Magic() []byte

	// NewReader wraps r so reads return decompressed bytes.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// Registry holds the available codecs and picks one per payload.
type Registry struct {
	codecs []Codec
}

// NewRegistry creates a registry from the given codecs. Order matters when two
// codecs claim the same extension.
func NewRegistry(codecs ...Codec) *Registry {
	return &Registry{codecs: codecs}
}

// Default returns a registry with every built-in codec.
func Default() *Registry {
	return NewRegistry(Bzip2{}, Gzip{}, Zstd{})
}

// Names returns the names of the registered codecs
func (r *Registry) Names() []string {
	names := make([]string, len(r.codecs))
	for i, c := range r.codecs {
		names[i] = c.Name()
	}
	return names
}

// ForName returns the codec whose extension matches the file name.
func (r *Registry) ForName(name string) (Codec, bool) {
	lower := strings.ToLower(name)
	for _, c := range r.codecs {
		for _, ext := range c.Extensions() {
			if strings.HasSuffix(lower, ext) {
				return c, true
			}
		}
	}
	return nil, false
}

// ForMagic returns the codec whose signature prefixes header.
func (r *Registry) ForMagic(header []byte) (Codec, bool) {
	for _, c := range r.codecs {
		if m := c.Magic(); len(m) > 0 && bytes.HasPrefix(header, m) {
			return c, true
		}
	}
	return nil, false
}

// TrimExt strips a known codec extension: "match.dem.bz2" becomes "match.dem".
// Names without a known extension are returned unchanged.
func (r *Registry) TrimExt(name string) string {
	c, ok := r.ForName(name)
	if !ok {
		return name
	}
	lower := strings.ToLower(name)
	for _, ext := range c.Extensions() {
		if strings.HasSuffix(lower, ext) && len(name) > len(ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// Open returns a decompressing reader over src. The stream signature wins over
// the file name so a mislabelled payload still decodes; the extension is the
// fallback when the header matches nothing, which lets the codec itself report
// the corruption. Errors wrap domain.ErrUnsupportedFormat when neither matches.
func (r *Registry) Open(name string, src io.Reader) (io.ReadCloser, Codec, error) {
	br := bufio.NewReader(src)

	header, err := br.Peek(maxMagic)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, nil, fmt.Errorf("failed to read stream header: %w", err)
	}

	c, ok := r.ForMagic(header)
	if !ok {
		c, ok = r.ForName(name)
	}
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", name, domain.ErrUnsupportedFormat)
	}

	rc, err := c.NewReader(br)
	if err != nil {
		return nil, c, fmt.Errorf("%s reader: %w", c.Name(), err)
	}
	return rc, c, nil
}

const maxMagic = 4

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/datallboy/godemo/internal/codec"
	"github.com/datallboy/godemo/internal/domain"
	"github.com/datallboy/godemo/internal/infra/logger"
)

const userAgent = "godemo/1.0"

// Client downloads replay payloads and decodes them to disk.
type Client struct {
	HTTP   *http.Client
	Codecs *codec.Registry

	// IdleTimeout aborts a response body that stops delivering bytes.
	IdleTimeout time.Duration

	logger *logger.Logger
}

// NewClient builds a client that gives up when the response headers take
// longer than timeout or the body stalls for timeout. The transfer as a whole
// is not limited. A zero timeout disables both checks.
func NewClient(timeout time.Duration, codecs *codec.Registry, log *logger.Logger) *Client {
	if codecs == nil {
		codecs = codec.Default()
	}
	if log == nil {
		log = logger.NewNop()
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout

	return &Client{
		HTTP:        &http.Client{Transport: transport},
		Codecs:      codecs,
		IdleTimeout: timeout,
		logger:      log,
	}
}

// get issues the request and rejects non-2xx answers. The caller owns the
// body, which is watched for stalls.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	ctx, cancel := context.WithCancelCause(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel(nil)
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		cancel(nil)
		return nil, &domain.FetchError{URL: rawURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		cancel(nil)
		return nil, &domain.FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	c.logger.Debug("GET %s: %s (%d bytes)", rawURL, resp.Status, resp.ContentLength)
	resp.Body = newIdleBody(ctx, cancel, resp.Body, c.IdleTimeout)
	return resp, nil
}

// Download stores the raw body at tmpPath. tmpPath never holds a partial
// payload.
func (c *Client) Download(ctx context.Context, rawURL, tmpPath string) error {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := writeFile(tmpPath, resp.Body); err != nil {
		return &domain.FetchError{URL: rawURL, Err: err}
	}
	return nil
}

// Decompress decodes srcPath into destPath. The source is removed afterwards
// whether or not decoding worked; a failed attempt leaves no output behind.
func (c *Client) Decompress(ctx context.Context, srcPath, destPath string) error {
	defer os.Remove(srcPath)

	if err := ctx.Err(); err != nil {
		return &domain.DecompressError{Path: destPath, Err: err}
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return &domain.DecompressError{Path: destPath, Err: err}
	}
	defer src.Close()

	rc, format, err := c.Codecs.Open(srcPath, src)
	if err != nil {
		return &domain.DecompressError{Path: destPath, Err: err}
	}
	defer rc.Close()

	c.logger.Debug("Decompressing %s with %s", srcPath, format.Name())

	if err := writeFile(destPath, rc); err != nil {
		return &domain.DecompressError{Path: destPath, Err: err}
	}
	return nil
}

// writeFile copies r into a private .part file next to path and renames it
// over path once synced. A failed copy leaves path as it was, and concurrent
// writers of the same path never share a file.
func writeFile(path string, r io.Reader) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.part")
	if err != nil {
		return err
	}
	part := f.Name()

	if err := copySync(f, r); err != nil {
		f.Close()
		os.Remove(part)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(part)
		return err
	}

	if err := os.Rename(part, path); err != nil {
		os.Remove(part)
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return nil
}

func copySync(f *os.File, r io.Reader) error {
	if err := f.Chmod(0644); err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		return err
	}
	return f.Sync()
}

// asFetchError reports whether err came from the network side of a pipeline.
func asFetchError(err error) (*domain.FetchError, bool) {
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

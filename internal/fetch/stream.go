package fetch

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/datallboy/godemo/internal/domain"
)

// FetchAndDecompress streams rawURL through its codec straight into destPath
// without keeping the compressed payload on disk.
//
// The network read and the decode+write run as two goroutines joined by a
// pipe. Whichever fails first closes its end of the pipe with the error, which
// unblocks and stops the other side. destPath is only replaced once the whole
// stream decoded; a failed attempt leaves whatever was there untouched.
func (c *Client) FetchAndDecompress(ctx context.Context, rawURL, destPath string) error {
	pr, pw := io.Pipe()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := c.pump(gctx, rawURL, pw)
		pw.CloseWithError(err)
		return err
	})

	g.Go(func() error {
		err := c.decodeTo(destPath, pr, domain.DeriveFileName(rawURL, 0))
		if err == nil {
			// Trailing bytes after the end of the stream must not block the writer.
			_, _ = io.Copy(io.Discard, pr)
		}
		pr.CloseWithError(err)
		return err
	})

	return g.Wait()
}

// pump copies the response body into w.
func (c *Client) pump(ctx context.Context, rawURL string, w io.Writer) error {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		// The reader side closed the pipe with its own error.
		var de *domain.DecompressError
		if errors.As(err, &de) {
			return de
		}
		return &domain.FetchError{URL: rawURL, Err: err}
	}
	return nil
}

// decodeTo decodes r into destPath. Nothing is written before a codec
// accepted the stream header.
func (c *Client) decodeTo(destPath string, r io.Reader, name string) error {
	rc, _, err := c.Codecs.Open(name, r)
	if err != nil {
		return c.classify(destPath, err)
	}
	defer rc.Close()

	if err := writeFile(destPath, rc); err != nil {
		return c.classify(destPath, err)
	}
	return nil
}

// classify keeps network failures seen through the pipe as FetchErrors and
// turns everything else into a DecompressError.
func (c *Client) classify(destPath string, err error) error {
	if fe, ok := asFetchError(err); ok {
		return fe
	}
	return &domain.DecompressError{Path: destPath, Err: err}
}

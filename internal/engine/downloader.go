package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/datallboy/godemo/internal/domain"
	"github.com/datallboy/godemo/internal/progress"
)

// DownloadOne resolves a share code and streams its replay straight into
// destDir. It returns the path of the decompressed file.
func (o *Orchestrator) DownloadOne(ctx context.Context, code domain.ShareCode, destDir string, rep progress.Reporter) (string, error) {
	rep = progress.OrDiscard(rep)

	if err := validateDir(destDir); err != nil {
		return "", err
	}

	rep.Status(domain.StatusEvent{Status: domain.StatusFetching, Message: "Fetching demo URL..."})

	resolved, err := o.resolver.Resolve(ctx, code)
	if err != nil {
		o.logger.Error("Could not resolve %s: %v", code, err)
		rep.Status(domain.StatusEvent{Status: domain.StatusError, Message: err.Error(), IsError: true})
		return "", err
	}

	rep.Status(domain.StatusEvent{
		Status:  domain.StatusFetching,
		Message: fmt.Sprintf("Successfully fetched demo URL: %s", resolved.URL),
	})

	return o.fetchOne(ctx, resolved.URL, destDir, rep)
}

// Retry downloads a single URL again, usually one a batch reported as failed.
// It shares nothing with running batches.
func (o *Orchestrator) Retry(ctx context.Context, rawURL, destDir string, rep progress.Reporter) (string, error) {
	rep = progress.OrDiscard(rep)

	if err := domain.ValidateURL(rawURL); err != nil {
		return "", err
	}
	if err := validateDir(destDir); err != nil {
		return "", err
	}

	o.logger.Info("Retrying %s", rawURL)
	return o.fetchOne(ctx, rawURL, destDir, rep)
}

// fetchOne runs the single-file pipeline for rawURL and reports the outcome.
func (o *Orchestrator) fetchOne(ctx context.Context, rawURL, destDir string, rep progress.Reporter) (string, error) {
	name := domain.DeriveFileName(rawURL, 0)
	finalPath := filepath.Join(destDir, o.codecs.TrimExt(name))

	rep.Status(domain.StatusEvent{
		Status:  domain.StatusDownloading,
		Message: fmt.Sprintf("Downloading %s...", name),
	})

	err := o.fetcher.FetchAndDecompress(ctx, rawURL, finalPath)
	o.recordOne(ctx, rawURL, finalPath, err)

	if err != nil {
		o.logger.Error("Download of %s failed: %v", rawURL, err)
		rep.Status(domain.StatusEvent{
			Status:   domain.StatusError,
			Message:  err.Error(),
			IsError:  true,
			RetryURL: rawURL,
		})
		return "", err
	}

	rep.Status(domain.StatusEvent{
		Status:  domain.StatusExtracting,
		Message: fmt.Sprintf("Successfully decompressed demo to %s", finalPath),
	})
	rep.Status(domain.StatusEvent{Status: domain.StatusComplete, Message: "Download and decompression complete!"})

	return finalPath, nil
}

func (o *Orchestrator) recordOne(ctx context.Context, rawURL, finalPath string, err error) {
	if o.store == nil {
		return
	}

	entry := &domain.HistoryEntry{
		URL:       rawURL,
		FinalPath: finalPath,
		Status:    domain.TaskDone,
		CreatedAt: time.Now(),
	}
	if err != nil {
		entry.Status = domain.TaskFailed
		entry.Error = err.Error()
	}

	if recErr := o.store.RecordDownload(context.WithoutCancel(ctx), entry); recErr != nil {
		o.logger.Warn("Failed to record %s in history: %v", rawURL, recErr)
	}
}

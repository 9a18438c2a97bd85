package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/datallboy/godemo/internal/app"
	"github.com/datallboy/godemo/internal/codec"
	"github.com/datallboy/godemo/internal/domain"
	"github.com/datallboy/godemo/internal/infra/config"
	"github.com/datallboy/godemo/internal/infra/logger"
	"github.com/datallboy/godemo/internal/progress"
	"github.com/datallboy/godemo/internal/resolver"
)

const tempDirPrefix = ".godemo-tmp-"

// Orchestrator runs share code downloads and URL batches.
type Orchestrator struct {
	resolver resolver.Resolver
	fetcher  app.Fetcher
	store    app.Store
	codecs   *codec.Registry
	logger   *logger.Logger

	workers    int
	maxWorkers int

	// decompressGate admits one staged decompression at a time across all
	// batches of this orchestrator.
	decompressGate *semaphore.Weighted
}

// NewOrchestrator wires the engine from the shared application context.
func NewOrchestrator(ctx *app.Context) *Orchestrator {
	codecs := ctx.Codecs
	if codecs == nil {
		codecs = codec.Default()
	}
	log := ctx.Logger
	if log == nil {
		log = logger.NewNop()
	}
	res := ctx.Resolver
	if res == nil {
		res = resolver.Unavailable{Reason: errors.New("no resolver configured")}
	}

	workers, maxWorkers := config.DefaultWorkers, config.DefaultMaxWorkers
	if ctx.Config != nil {
		workers, maxWorkers = ctx.Config.Download.Workers, ctx.Config.Download.MaxWorkers
	}

	return &Orchestrator{
		resolver:       res,
		fetcher:        ctx.Fetcher,
		store:          ctx.Store,
		codecs:         codecs,
		logger:         log,
		workers:        workers,
		maxWorkers:     maxWorkers,
		decompressGate: semaphore.NewWeighted(1),
	}
}

// RunBatch downloads every URL into destDir with a bounded worker pool. Each
// payload is staged in a temp directory and decoded by a single decompression
// stage. Item failures are reported and never stop the batch; the returned
// error is only set for invalid input or when the temp directory cannot be
// created.
func (o *Orchestrator) RunBatch(ctx context.Context, urls []string, destDir string, workers int, rep progress.Reporter) (*domain.BatchResult, error) {
	rep = progress.OrDiscard(rep)

	if len(urls) == 0 {
		return nil, domain.NewValidationError("urls", "no URLs to download")
	}
	for _, u := range urls {
		if err := domain.ValidateURL(u); err != nil {
			return nil, err
		}
	}
	if err := validateDir(destDir); err != nil {
		return nil, err
	}

	workers = o.clampWorkers(workers, len(urls))
	run := newBatchRun(urls, destDir, o.codecs, rep, o.logger)

	if err := os.MkdirAll(run.tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory %s: %w", run.tempDir, err)
	}

	o.logger.Info("Batch %s: %d URLs, %d workers, saving to %s", run.id, len(urls), workers, destDir)

	queue := newPendingQueue(run.tasks)

	// Sized for every task so a worker never waits on the decompression stage.
	decompress := make(chan *domain.DownloadTask, len(run.tasks))

	stageDone := make(chan struct{})
	go func() {
		defer close(stageDone)
		o.decompressStage(ctx, run, decompress)
	}()

	var wg sync.WaitGroup
	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			o.worker(ctx, id, run, queue, decompress)
		}(w)
	}

	wg.Wait()
	close(decompress)
	<-stageDone

	if err := os.RemoveAll(run.tempDir); err != nil {
		o.logger.Warn("Failed to remove temp directory %s: %v", run.tempDir, err)
	}

	result := run.finish()
	o.recordBatch(ctx, run)
	return result, nil
}

// clampWorkers keeps the pool within [1, min(max, n)]. Zero or less means the
// configured default.
func (o *Orchestrator) clampWorkers(requested, n int) int {
	w := requested
	if w <= 0 {
		w = o.workers
	}
	if o.maxWorkers > 0 && w > o.maxWorkers {
		w = o.maxWorkers
	}
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (o *Orchestrator) recordBatch(ctx context.Context, run *batchRun) {
	if o.store == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	for _, t := range run.tasks {
		entry := &domain.HistoryEntry{
			ID:        t.ID,
			BatchID:   run.id,
			URL:       t.URL,
			FinalPath: t.FinalPath,
			Status:    t.State,
			Error:     t.Error,
			CreatedAt: t.FinishedAt,
		}
		if err := o.store.RecordDownload(ctx, entry); err != nil {
			o.logger.Warn("Failed to record %s in history: %v", t.URL, err)
		}
	}
}

func validateDir(dir string) error {
	if dir == "" {
		return domain.NewValidationError("downloadPath", "no download folder selected")
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return domain.NewValidationError("downloadPath", "folder %s does not exist", dir)
	}
	return nil
}

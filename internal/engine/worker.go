package engine

import (
	"context"

	"github.com/datallboy/godemo/internal/domain"
)

// worker claims tasks until the pending queue is empty. Successful downloads
// are handed to the decompression stage.
func (o *Orchestrator) worker(ctx context.Context, id int, run *batchRun, queue *pendingQueue, decompress chan<- *domain.DownloadTask) {
	for {
		task, ok := queue.Pop()
		if !ok {
			return
		}

		// Once cancelled, drain the queue as failures so the batch still completes.
		if err := ctx.Err(); err != nil {
			run.downloaded(task, &domain.FetchError{URL: task.URL, Err: err})
			continue
		}

		run.claimed(task)
		o.logger.Debug("[worker %d] downloading %s", id, task.URL)

		err := o.fetcher.Download(ctx, task.URL, task.TempPath)
		if err != nil {
			o.logger.Warn("[worker %d] %v", id, err)
		}

		run.downloaded(task, err)
		if err == nil {
			decompress <- task
		}
	}
}

// decompressStage decodes downloaded payloads one by one until the channel is
// closed and drained.
func (o *Orchestrator) decompressStage(ctx context.Context, run *batchRun, decompress <-chan *domain.DownloadTask) {
	for task := range decompress {
		run.decompressing(task)

		if err := o.decompressGate.Acquire(ctx, 1); err != nil {
			// Only fails on cancellation; Decompress would refuse to start anyway.
			run.decompressed(task, &domain.DecompressError{Path: task.FinalPath, Err: err})
			continue
		}

		err := o.fetcher.Decompress(ctx, task.TempPath, task.FinalPath)
		o.decompressGate.Release(1)

		if err != nil {
			o.logger.Warn("%v", err)
		}
		run.decompressed(task, err)
	}
}

package engine

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/datallboy/godemo/internal/codec"
	"github.com/datallboy/godemo/internal/domain"
	"github.com/datallboy/godemo/internal/infra/logger"
	"github.com/datallboy/godemo/internal/progress"
)

// batchRun is the state of one RunBatch call. Counters change and events are
// reported under the same lock, so reporters see counts in order.
type batchRun struct {
	id      string
	destDir string
	tempDir string
	started time.Time

	rep    progress.Reporter
	logger *logger.Logger

	mu    sync.Mutex
	state domain.BatchState
	tasks []*domain.DownloadTask
}

func newBatchRun(urls []string, destDir string, codecs *codec.Registry, rep progress.Reporter, log *logger.Logger) *batchRun {
	id := ksuid.New().String()
	run := &batchRun{
		id:      id,
		destDir: destDir,
		tempDir: filepath.Join(destDir, tempDirPrefix+id),
		started: time.Now(),
		rep:     rep,
		logger:  log,
		state:   domain.BatchState{Total: len(urls)},
		tasks:   make([]*domain.DownloadTask, 0, len(urls)),
	}

	used := make(map[string]bool, len(urls))
	for i, u := range urls {
		name := domain.DeriveFileName(u, i)
		final := uniqueName(codecs.TrimExt(name), i, used)

		run.tasks = append(run.tasks, &domain.DownloadTask{
			ID:        ksuid.New().String(),
			Index:     i,
			URL:       u,
			State:     domain.TaskPending,
			FileName:  name,
			TempPath:  filepath.Join(run.tempDir, fmt.Sprintf("%d-%s", i, name)),
			FinalPath: filepath.Join(destDir, final),
		})
	}
	return run
}

// uniqueName keeps two URLs with the same basename from writing the same file.
func uniqueName(name string, index int, used map[string]bool) string {
	if used[name] {
		ext := filepath.Ext(name)
		name = fmt.Sprintf("%s_%d%s", name[:len(name)-len(ext)], index, ext)
	}
	used[name] = true
	return name
}

func (r *batchRun) claimed(t *domain.DownloadTask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.State = domain.TaskDownloading
}

// downloaded records the end of a download. A failed download is terminal: it
// counts as processed for both stages and never reaches decompression.
func (r *batchRun) downloaded(t *domain.DownloadTask, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.Downloaded++

	if err == nil {
		t.State = domain.TaskDownloaded
		r.state.Queued++
		r.tick(domain.StageDownloading, r.state.Downloaded)
		return
	}

	t.Fail(err)
	r.state.Failed++
	r.state.Decompressed++
	r.tick(domain.StageDownloading, r.state.Downloaded)
	r.tick(domain.StageDecompressing, r.state.Decompressed)
	r.rep.Status(domain.StatusEvent{
		Status:   domain.StatusError,
		Message:  fmt.Sprintf("Failed to download %s: %v", t.FileName, err),
		IsError:  true,
		RetryURL: t.URL,
	})
}

func (r *batchRun) decompressing(t *domain.DownloadTask) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.Queued--
	r.state.InFlight++
	t.State = domain.TaskDecompressing
}

func (r *batchRun) decompressed(t *domain.DownloadTask, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.InFlight--
	r.state.Decompressed++

	if err != nil {
		t.Fail(err)
		r.state.Failed++
		r.tick(domain.StageDecompressing, r.state.Decompressed)
		r.rep.Status(domain.StatusEvent{
			Status:   domain.StatusError,
			Message:  fmt.Sprintf("Failed to decompress %s: %v", t.FileName, err),
			IsError:  true,
			RetryURL: t.URL,
		})
		return
	}

	t.Finish()
	r.tick(domain.StageDecompressing, r.state.Decompressed)
	r.rep.Status(domain.StatusEvent{
		Status:  domain.StatusSuccess,
		Message: fmt.Sprintf("Saved %s", t.FinalPath),
	})
}

func (r *batchRun) tick(stage domain.Stage, current int) {
	r.rep.Progress(domain.ProgressEvent{Stage: stage, Current: current, Total: r.state.Total})
}

// finish reports batch completion and builds the result. It must run once,
// after every worker and the decompression stage returned.
func (r *batchRun) finish() *domain.BatchResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.Complete() {
		r.logger.Error("Batch %s finished with inconsistent counters: %+v", r.id, r.state)
	}

	res := &domain.BatchResult{
		ID:         r.id,
		Total:      r.state.Total,
		Failed:     r.state.Failed,
		Succeeded:  r.state.Total - r.state.Failed,
		Tasks:      r.tasks,
		FailedURLs: make([]string, 0, r.state.Failed),
	}
	for _, t := range r.tasks {
		if t.State == domain.TaskFailed {
			res.FailedURLs = append(res.FailedURLs, t.URL)
		}
	}

	msg := fmt.Sprintf("All downloads finished: %d of %d demos saved to %s", res.Succeeded, res.Total, r.destDir)
	if res.Failed > 0 {
		msg = fmt.Sprintf("%s, %d failed", msg, res.Failed)
	}
	r.rep.Status(domain.StatusEvent{Status: domain.StatusBatchComplete, Message: msg})

	r.logger.Info("Batch %s done in %s: %d ok, %d failed", r.id, time.Since(r.started).Round(time.Millisecond), res.Succeeded, res.Failed)
	return res
}

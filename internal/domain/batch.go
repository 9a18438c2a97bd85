package domain

import "time"

type TaskState string

const (
	TaskPending       TaskState = "pending"
	TaskDownloading   TaskState = "downloading"
	TaskDownloaded    TaskState = "downloaded" // waiting for the decompression stage
	TaskDecompressing TaskState = "decompressing"
	TaskDone          TaskState = "done"
	TaskFailed        TaskState = "failed"
)

// IsTerminal reports whether no further transition can happen.
func (s TaskState) IsTerminal() bool {
	return s == TaskDone || s == TaskFailed
}

// DownloadTask is one URL of a batch plus its derived paths.
type DownloadTask struct {
	ID    string    `json:"id"`
	Index int       `json:"index"`
	URL   string    `json:"url"`
	State TaskState `json:"state"`

	FileName  string `json:"file_name"`  // compressed name from the URL
	TempPath  string `json:"temp_path"`  // compressed payload inside the batch temp dir
	FinalPath string `json:"final_path"` // decompressed output

	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// Fail moves the task into the failed state and keeps the cause.
func (t *DownloadTask) Fail(err error) {
	t.State = TaskFailed
	t.Error = err.Error()
	t.FinishedAt = time.Now()
}

// Finish marks the task done.
func (t *DownloadTask) Finish() {
	t.State = TaskDone
	t.Error = ""
	t.FinishedAt = time.Now()
}

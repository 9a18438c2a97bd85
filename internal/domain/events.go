package domain

// Stage identifies which progress bar an event belongs to.
type Stage string

const (
	StageResolving     Stage = "resolving"
	StageDownloading   Stage = "downloading"
	StageDecompressing Stage = "decompressing"
)

// ProgressEvent is a snapshot emitted every time a stage counter changes.
type ProgressEvent struct {
	Stage   Stage `json:"type"`
	Current int   `json:"current"`
	Total   int   `json:"total"`
}

// Status is the coarse state carried by a StatusEvent.
type Status string

const (
	StatusFetching    Status = "fetching"
	StatusDownloading Status = "downloading"
	StatusExtracting  Status = "extracting"
	StatusSuccess     Status = "success" // one batch item finished
	StatusComplete    Status = "complete"
	StatusError       Status = "error"

	// StatusBatchComplete is emitted exactly once when a batch is over.
	StatusBatchComplete Status = "batch-complete"
)

// StatusEvent is a human readable status line. RetryURL is set when the
// failing item can be retried without resolving its share code again.
type StatusEvent struct {
	Status   Status `json:"status"`
	Message  string `json:"message"`
	IsError  bool   `json:"isError"`
	RetryURL string `json:"retryUrl,omitempty"`
}

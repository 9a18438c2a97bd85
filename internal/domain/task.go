package domain

// BatchState holds the aggregate counters of one batch run. It is owned by the
// orchestrator and only mutated from worker completions.
type BatchState struct {
	Total        int
	Downloaded   int // downloads processed, successful or not
	Decompressed int // items through the decompression stage, including failed downloads
	Failed       int

	Queued   int // downloaded items waiting for the decompression stage
	InFlight int // decompressions currently running (0 or 1)
}

// Complete is true once every task reached a terminal state and nothing is
// waiting for, or inside, the decompression stage.
func (b *BatchState) Complete() bool {
	return b.Downloaded == b.Total && b.Decompressed == b.Total && b.Queued == 0 && b.InFlight == 0
}

// BatchResult summarises a finished batch.
type BatchResult struct {
	ID         string          `json:"id"`
	Total      int             `json:"total"`
	Succeeded  int             `json:"succeeded"`
	Failed     int             `json:"failed"`
	Tasks      []*DownloadTask `json:"tasks"`
	FailedURLs []string        `json:"failed_urls"`
}

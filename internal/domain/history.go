package domain

import "time"

// HistoryEntry is the persisted outcome of one download attempt.
type HistoryEntry struct {
	ID        string    `json:"id"`
	BatchID   string    `json:"batch_id,omitempty"`
	URL       string    `json:"url"`
	FinalPath string    `json:"final_path"`
	Status    TaskState `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryFilter narrows ListDownloads. Zero values mean "any".
type HistoryFilter struct {
	Status TaskState
	Limit  int
}

// PrefDownloadPath is the only preference key the core reads or writes.
const PrefDownloadPath = "downloadPath"

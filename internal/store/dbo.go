package store

import (
	"database/sql"
	"time"

	"github.com/datallboy/godemo/internal/domain"
)

// downloadDBO maps to the downloads table
type downloadDBO struct {
	ID        string         `db:"id"`
	BatchID   sql.NullString `db:"batch_id"`
	URL       string         `db:"url"`
	FinalPath string         `db:"final_path"`
	Status    string         `db:"status"`
	Error     sql.NullString `db:"error"`
	CreatedAt int64          `db:"created_at"` // unix millis
}

// Mapper: DBO to Domain HistoryEntry
func (d *downloadDBO) ToDomain() *domain.HistoryEntry {
	return &domain.HistoryEntry{
		ID:        d.ID,
		BatchID:   d.BatchID.String,
		URL:       d.URL,
		FinalPath: d.FinalPath,
		Status:    domain.TaskState(d.Status),
		Error:     d.Error.String,
		CreatedAt: time.UnixMilli(d.CreatedAt),
	}
}

// Mapper: Domain HistoryEntry to DBO
func (d *downloadDBO) FromDomain(e *domain.HistoryEntry) {
	d.ID = e.ID
	d.BatchID = sql.NullString{String: e.BatchID, Valid: e.BatchID != ""}
	d.URL = e.URL
	d.FinalPath = e.FinalPath
	d.Status = string(e.Status)
	d.Error = sql.NullString{String: e.Error, Valid: e.Error != ""}

	if !e.CreatedAt.IsZero() {
		d.CreatedAt = e.CreatedAt.UnixMilli()
	} else {
		d.CreatedAt = time.Now().UnixMilli()
	}
}

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/segmentio/ksuid"

	"github.com/datallboy/godemo/internal/domain"
)

// RecordDownload persists one download outcome. Entries without an ID get a
// fresh ksuid so history sorts chronologically.
func (s *PersistentStore) RecordDownload(ctx context.Context, entry *domain.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = ksuid.New().String()
	}

	var dbo downloadDBO
	dbo.FromDomain(entry)

	query := `INSERT OR REPLACE INTO downloads (id, batch_id, url, final_path, status, error, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		dbo.ID,
		dbo.BatchID,
		dbo.URL,
		dbo.FinalPath,
		dbo.Status,
		dbo.Error,
		dbo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record download %s: %w", entry.URL, err)
	}
	return nil
}

// ListDownloads returns history entries, newest first. Filtering on failed
// only returns URLs whose latest attempt failed; a later attempt, successful or
// not, supersedes it.
func (s *PersistentStore) ListDownloads(ctx context.Context, filter domain.HistoryFilter) ([]*domain.HistoryEntry, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("SELECT id, batch_id, url, final_path, status, error, created_at FROM downloads")

	if filter.Status != "" {
		sb.WriteString(" WHERE status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Status == domain.TaskFailed {
		sb.WriteString(` AND NOT EXISTS (
			SELECT 1 FROM downloads later
			WHERE later.url = downloads.url
			  AND (later.created_at > downloads.created_at
			       OR (later.created_at = downloads.created_at AND later.id > downloads.id)))`)
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")

	if filter.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list downloads: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.HistoryEntry, 0)
	for rows.Next() {
		var dbo downloadDBO
		if err := rows.Scan(&dbo.ID, &dbo.BatchID, &dbo.URL, &dbo.FinalPath, &dbo.Status, &dbo.Error, &dbo.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, dbo.ToDomain())
	}

	return entries, rows.Err()
}

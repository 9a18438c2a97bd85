package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/datallboy/godemo/internal/domain"
)

// GetResolution returns the cached URL for a share code.
func (s *PersistentStore) GetResolution(ctx context.Context, code domain.ShareCode) (string, bool, error) {
	var url string
	err := s.db.QueryRowContext(ctx, "SELECT url FROM resolutions WHERE share_code = ?", string(code)).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read resolution for %s: %w", code, err)
	}
	return url, true, nil
}

func (s *PersistentStore) PutResolution(ctx context.Context, code domain.ShareCode, url string) error {
	query := `INSERT INTO resolutions (share_code, url, resolved_at) VALUES (?, ?, ?)
              ON CONFLICT(share_code) DO UPDATE SET url = excluded.url, resolved_at = excluded.resolved_at`

	if _, err := s.db.ExecContext(ctx, query, string(code), url, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to save resolution for %s: %w", code, err)
	}
	return nil
}

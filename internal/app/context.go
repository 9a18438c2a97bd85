package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/datallboy/godemo/internal/codec"
	"github.com/datallboy/godemo/internal/domain"
	"github.com/datallboy/godemo/internal/infra/config"
	"github.com/datallboy/godemo/internal/infra/logger"
	"github.com/datallboy/godemo/internal/progress"
	"github.com/datallboy/godemo/internal/resolver"
)

type Store interface {
	GetPreference(ctx context.Context, key string) (string, bool, error)
	SetPreference(ctx context.Context, key, value string) error

	RecordDownload(ctx context.Context, entry *domain.HistoryEntry) error
	ListDownloads(ctx context.Context, filter domain.HistoryFilter) ([]*domain.HistoryEntry, error)
}

type Fetcher interface {
	// Single-file mode: stream, decode and write without a compressed copy on disk
	FetchAndDecompress(ctx context.Context, url, destPath string) error

	// Staged mode: download the compressed payload, decode it later
	Download(ctx context.Context, url, tmpPath string) error
	Decompress(ctx context.Context, srcPath, destPath string) error
}

// Engine is the download core the CLI and the API drive.
type Engine interface {
	DownloadOne(ctx context.Context, code domain.ShareCode, destDir string, rep progress.Reporter) (string, error)
	RunBatch(ctx context.Context, urls []string, destDir string, workers int, rep progress.Reporter) (*domain.BatchResult, error)
	Retry(ctx context.Context, url, destDir string, rep progress.Reporter) (string, error)
}

// Context hold the core environment and shared resources for godemo.
// It acts as the "Single Source of Truth" for the application state.
type Context struct {
	Config *config.Config
	Logger *logger.Logger

	Store    Store
	Resolver resolver.Resolver
	Fetcher  Fetcher
	Codecs   *codec.Registry
	Engine   Engine
}

// NewContext initializes the base environment.
func NewContext(cfg *config.Config, log *logger.Logger) *Context {
	return &Context{
		Config: cfg,
		Logger: log,
		Codecs: codec.Default(),
	}
}

// DownloadDir decides where files go. A non-empty override is what the user
// just picked; it is saved as the new default. Otherwise the saved preference
// wins over the configured directory. The directory must exist.
func (c *Context) DownloadDir(ctx context.Context, override string) (string, error) {
	dir := override

	if dir == "" && c.Store != nil {
		saved, ok, err := c.Store.GetPreference(ctx, domain.PrefDownloadPath)
		if err != nil {
			return "", err
		}
		if ok {
			dir = saved
		}
	}

	if dir == "" {
		dir = c.Config.Download.Dir
	}

	if dir == "" {
		return "", domain.NewValidationError("downloadPath", "no download folder selected")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", domain.NewValidationError("downloadPath", "invalid folder %q: %v", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", domain.NewValidationError("downloadPath", "folder %s does not exist", abs)
	}

	if override != "" && c.Store != nil {
		if err := c.Store.SetPreference(ctx, domain.PrefDownloadPath, abs); err != nil {
			return "", fmt.Errorf("failed to remember download folder: %w", err)
		}
		c.Logger.Debug("Saved download folder %s", abs)
	}

	return abs, nil
}

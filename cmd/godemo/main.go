package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/datallboy/godemo/internal/app"
	"github.com/datallboy/godemo/internal/engine"
	"github.com/datallboy/godemo/internal/fetch"
	"github.com/datallboy/godemo/internal/infra/config"
	"github.com/datallboy/godemo/internal/infra/logger"
	"github.com/datallboy/godemo/internal/platform"
	"github.com/datallboy/godemo/internal/resolver"
	"github.com/datallboy/godemo/internal/store"
)

var (
	cfgFile string
	dirFlag string

	appCtx  *app.Context
	closers []io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "godemo",
	Short:         "Download CS2 match replays from share codes",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return bootstrap()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdown()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config.yaml")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "", "download folder, remembered for next time")
}

func main() {
	// Cancelled on Ctrl+C so running downloads stop claiming new work
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		shutdown()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap builds the application context shared by every command.
func bootstrap() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	log, err := logger.New(cfg.Log.Path, logger.ParseLevel(cfg.Log.Level), cfg.Log.IncludeStdout)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	closers = append(closers, log)

	st, err := store.NewPersistentStore(cfg.Store.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	closers = append(closers, st)

	appCtx = app.NewContext(cfg, log)
	appCtx.Store = st

	// Batches of plain URLs work without the lookup tool
	install, err := platform.LocateResolver(cfg.Resolver.Runtime, cfg.Resolver.Dir, cfg.Resolver.Script)
	if err != nil {
		log.Warn("Share code lookup unavailable: %v", err)
		appCtx.Resolver = resolver.Unavailable{Reason: err}
	} else {
		log.Debug("Using resolver %s %s in %s", install.BinaryPath, install.ScriptPath, install.Dir)
		appCtx.Resolver = resolver.NewProcessResolver(install, cfg.Resolver.Timeout, log)

		if cfg.Resolver.Cache {
			appCtx.Resolver = resolver.NewCached(appCtx.Resolver, st, log)
		}
	}

	appCtx.Fetcher = fetch.NewClient(cfg.Download.Timeout, appCtx.Codecs, log)
	appCtx.Engine = engine.NewOrchestrator(appCtx)

	return nil
}

func shutdown() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i].Close()
	}
	closers = nil
}

// readInput returns the text of the file named by args[0], or stdin when no
// file or "-" is given.
func readInput(args []string) (string, error) {
	var r io.Reader = os.Stdin
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// urlLines returns the non-empty lines of text, skipping # comments.
func urlLines(text string) []string {
	var urls []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls
}

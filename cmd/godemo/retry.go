package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datallboy/godemo/internal/domain"
	"github.com/datallboy/godemo/internal/progress"
)

var retryFailed bool

var retryCmd = &cobra.Command{
	Use:   "retry [url...]",
	Short: "Download failed URLs again without resolving their share codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		urls := args
		if retryFailed {
			entries, err := appCtx.Store.ListDownloads(cmd.Context(), domain.HistoryFilter{Status: domain.TaskFailed})
			if err != nil {
				return err
			}
			for _, e := range entries {
				urls = append(urls, e.URL)
			}
		}

		if len(urls) == 0 {
			return domain.NewValidationError("url", "nothing to retry")
		}

		dir, err := appCtx.DownloadDir(cmd.Context(), dirFlag)
		if err != nil {
			return err
		}

		rep := progress.NewTerminal(os.Stderr, appCtx.Logger)
		var failed int
		for _, u := range dedupe(urls) {
			path, err := appCtx.Engine.Retry(cmd.Context(), u, dir, rep)
			if err != nil {
				failed++
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}

		if failed > 0 {
			return fmt.Errorf("%d retries failed", failed)
		}
		return nil
	},
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func init() {
	retryCmd.Flags().BoolVar(&retryFailed, "failed", false, "retry every failed URL from the history")
	rootCmd.AddCommand(retryCmd)
}

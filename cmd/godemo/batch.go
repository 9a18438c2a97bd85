package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datallboy/godemo/internal/domain"
	"github.com/datallboy/godemo/internal/progress"
)

var (
	batchWorkers int
	batchResolve bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [file|-]",
	Short: "Download a list of replay URLs",
	Long: `Reads one URL per line from a file or stdin and downloads them with a
pool of workers. With --resolve the lines are share codes that are
resolved first. URLs that fail are printed at the end for "godemo retry".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := appCtx.DownloadDir(cmd.Context(), dirFlag)
		if err != nil {
			return err
		}

		var urls []string
		if batchResolve {
			res, err := resolveInput(cmd, args)
			if err != nil {
				return err
			}
			urls = res.URLs()
		} else {
			text, err := readInput(args)
			if err != nil {
				return err
			}
			urls = urlLines(text)
		}

		if len(urls) == 0 {
			return domain.NewValidationError("input", "nothing to download")
		}

		result, err := appCtx.Engine.RunBatch(cmd.Context(), urls, dir, batchWorkers, progress.NewTerminal(os.Stderr, appCtx.Logger))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, t := range result.Tasks {
			if t.State == domain.TaskDone {
				fmt.Fprintln(out, t.FinalPath)
			}
		}

		if result.Failed > 0 {
			fmt.Fprintln(os.Stderr, "Failed URLs:")
			for _, u := range result.FailedURLs {
				fmt.Fprintln(os.Stderr, "  "+u)
			}
			return fmt.Errorf("%d of %d downloads failed", result.Failed, result.Total)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "concurrent downloads (default from config)")
	batchCmd.Flags().BoolVar(&batchResolve, "resolve", false, "input lines are share codes to resolve first")
	rootCmd.AddCommand(batchCmd)
}

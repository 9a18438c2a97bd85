package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datallboy/godemo/internal/domain"
	"github.com/datallboy/godemo/internal/progress"
	"github.com/datallboy/godemo/internal/resolver"
	"github.com/datallboy/godemo/internal/sharecode"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [file|-]",
	Short: "Print the download URL of every share code, one per line",
	Long: `Reads share codes one per line from a file or stdin. Lines without a
valid code are skipped. Found URLs go to stdout so they can be piped
into "godemo batch"; codes that could not be resolved are logged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := resolveInput(cmd, args)
		if err != nil {
			return err
		}

		for _, u := range res.URLs() {
			fmt.Fprintln(cmd.OutOrStdout(), u)
		}

		if len(res.Found) == 0 {
			return fmt.Errorf("none of the %d share codes could be resolved", len(res.NotFound))
		}
		return nil
	},
}

// resolveInput reads share codes and resolves them with a progress bar.
func resolveInput(cmd *cobra.Command, args []string) (*domain.Resolution, error) {
	text, err := readInput(args)
	if err != nil {
		return nil, err
	}

	codes := sharecode.ExtractLines(text)
	if len(codes) == 0 {
		return nil, domain.NewValidationError("input", "no valid share codes found")
	}

	bar := progress.NewTerminal(os.Stderr, appCtx.Logger)
	res := resolver.ResolveAll(cmd.Context(), appCtx.Resolver, codes, func(current, total int) {
		bar.Progress(domain.ProgressEvent{Stage: domain.StageResolving, Current: current, Total: total})
	})

	for _, nf := range res.NotFound {
		appCtx.Logger.Warn("%s: %s", nf.Code, nf.Error)
	}
	appCtx.Logger.Info("Resolved %d of %d share codes", len(res.Found), len(codes))

	return res, nil
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datallboy/godemo/internal/progress"
	"github.com/datallboy/godemo/internal/sharecode"
)

var downloadCmd = &cobra.Command{
	Use:   "download <share code or link>",
	Short: "Resolve one share code and download its replay",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := sharecode.Parse(strings.Join(args, " "))
		if err != nil {
			return err
		}

		dir, err := appCtx.DownloadDir(cmd.Context(), dirFlag)
		if err != nil {
			return err
		}

		path, err := appCtx.Engine.DownloadOne(cmd.Context(), code, dir, progress.NewTerminal(os.Stderr, appCtx.Logger))
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datallboy/godemo/internal/domain"
)

const downloadPathKey = "download-path"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change saved settings",
}

var configGetCmd = &cobra.Command{
	Use:       "get " + downloadPathKey,
	Short:     "Print the saved download folder",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{downloadPathKey},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, ok, err := appCtx.Store.GetPreference(cmd.Context(), domain.PrefDownloadPath)
		if err != nil {
			return err
		}
		if !ok {
			dir = appCtx.Config.Download.Dir
		}
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set " + downloadPathKey + " <dir>",
	Short: "Save the default download folder",
	Args: cobra.MatchAll(cobra.ExactArgs(2), func(cmd *cobra.Command, args []string) error {
		if args[0] != downloadPathKey {
			return fmt.Errorf("unknown setting %q", args[0])
		}
		return nil
	}),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := appCtx.DownloadDir(cmd.Context(), args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

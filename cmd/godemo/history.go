package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/datallboy/godemo/internal/domain"
)

var (
	historyFailed bool
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past downloads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := domain.HistoryFilter{Limit: historyLimit}
		if historyFailed {
			filter.Status = domain.TaskFailed
		}

		entries, err := appCtx.Store.ListDownloads(cmd.Context(), filter)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tSTATUS\tURL\tFILE\tERROR")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Status, e.URL, e.FinalPath, e.Error)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "only show failed downloads")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "maximum number of entries, 0 for all")
	rootCmd.AddCommand(historyCmd)
}

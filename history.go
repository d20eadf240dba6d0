package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/raine/screen-narrator/config"
	"github.com/raine/screen-narrator/internal/storage"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent narrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.DBPath == "" {
			return errors.New("NARRATOR_DB_PATH is not set, history is not recorded")
		}

		store, err := storage.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		narrations, err := store.RecentNarrations(historyLimit)
		if err != nil {
			return err
		}
		return printHistory(cmd, narrations)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of narrations to show")
}

func printHistory(cmd *cobra.Command, narrations []storage.Narration) error {
	if len(narrations) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no narrations yet")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSOURCE\tNARRATION")
	for _, n := range narrations {
		fmt.Fprintf(w, "%s\t%s\t%s\n", n.CreatedAt.Local().Format("2006-01-02 15:04:05"), n.Source, n.Analysis)
	}
	return w.Flush()
}

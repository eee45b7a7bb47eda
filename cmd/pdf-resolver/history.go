// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf-resolver/internal/history"
	"github.com/pdiddy/pdf-resolver/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past resolution outcomes",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent resolutions, newest first",
	RunE:  runHistoryList,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize recorded resolutions per outcome",
	RunE:  runHistoryStats,
}

func init() {
	historyCmd.PersistentFlags().String("db", "", "history database path (default from config history_db)")
	historyListCmd.Flags().Int("limit", 20, "maximum entries to list")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatsCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory(cmd *cobra.Command) (*history.Store, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = viper.GetString("history_db")
	}
	if path == "" {
		return nil, fmt.Errorf("no history database configured (use --db or set history_db)")
	}
	return history.NewStore(path)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "no resolutions recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RESOLVED\tIDENTIFIER\tSTATE\tSOURCE\tDETAIL")
	for _, e := range entries {
		identifier := e.DOI
		if identifier == "" {
			identifier = e.ArxivID
		}
		if identifier == "" {
			identifier = e.Bibcode
		}
		detail := e.SourceURL
		if e.Reason != "" {
			detail = string(e.Reason)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.ResolvedAt.Local().Format(time.DateTime), identifier, e.State, e.SourceType, detail)
	}
	return w.Flush()
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := store.Summary(cmd.Context())
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Fprintln(os.Stdout, "no resolutions recorded")
		return nil
	}

	states := make([]string, 0, len(counts))
	total := 0
	for state, n := range counts {
		states = append(states, string(state))
		total += n
	}
	sort.Strings(states)

	for _, state := range states {
		fmt.Fprintf(os.Stdout, "%-16s %d\n", state, counts[types.AccessState(state)])
	}
	fmt.Fprintf(os.Stdout, "%-16s %d\n", "total", total)
	return nil
}

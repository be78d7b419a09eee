package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/sinais/internal/store"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var all bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent phrase runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				runs, err := st.Runs().ListRecent(limit, !all)
				if err != nil {
					return fmt.Errorf("list runs: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}

				names, err := phraseNames(st)
				if err != nil {
					return err
				}
				headers := []string{"Started", "Phrase", "Accepted", "Duration", "Status"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
				fmt.Fprintln(out, renderTable(out, headers, historyRows(runs, names), aligns))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().BoolVar(&all, "all", false, "Include runs that never completed")
	return cmd
}

func phraseNames(st *store.Store) (map[string]string, error) {
	phrases, err := st.Phrases().List()
	if err != nil {
		return nil, fmt.Errorf("list phrases: %w", err)
	}
	names := make(map[string]string, len(phrases))
	for _, p := range phrases {
		names[p.ID] = p.Name
	}
	return names, nil
}

func historyRows(runs []*store.Run, names map[string]string) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		phrase := names[run.PhraseID]
		if phrase == "" {
			phrase = strings.Join(run.Labels, " ")
		}

		accepted := make([]string, len(run.Accepted))
		for i, a := range run.Accepted {
			accepted[i] = a.Label
		}

		duration, status := "-", "incomplete"
		if run.Completed() {
			duration = run.Duration().Round(100 * time.Millisecond).String()
			status = "complete"
		}

		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			phrase,
			fmt.Sprintf("%s (%d/%d)", strings.Join(accepted, " "), len(run.Accepted), len(run.Labels)),
			duration,
			status,
		})
	}
	return rows
}

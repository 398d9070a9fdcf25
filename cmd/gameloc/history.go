package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/gameloc"
	"github.com/ZaguanLabs/gameloc/store"
)

func (c *cli) historyRepo() (*store.HistoryRepo, error) {
	db, err := c.openStore()
	if err != nil {
		return nil, err
	}
	return store.NewHistoryRepo(db), nil
}

func newHistoryCommand(app *cli) *cobra.Command {
	var limit int
	var batchID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent translation records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := app.historyRepo()
			if err != nil {
				return err
			}

			var records []gameloc.Record
			if batchID != "" {
				records, err = repo.Batch(cmd.Context(), batchID)
			} else {
				records, err = repo.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(app.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}

			if len(records) == 0 {
				app.printf("No history.\n")
				return nil
			}
			t := newTable(app.stdout, "Time", "Loc", "Pair", "Origin", "Score", "Source", "Translation")
			for _, r := range records {
				score := "-"
				if r.ReviewScore != nil {
					score = fmt.Sprintf("%.1f", *r.ReviewScore)
				}
				translation := r.TranslatedText
				if r.Error != "" {
					translation = "error: " + r.Error
				}
				t.AppendRow(table.Row{
					r.CreatedAt.Local().Format(time.DateTime),
					r.Location,
					r.SourceLang + "->" + r.TargetLang,
					origin(r),
					score,
					truncate(r.SourceText, 40),
					truncate(translation, 40),
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of records to show")
	cmd.Flags().StringVar(&batchID, "batch", "", "Show every record of one batch")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newStatsCommand(app *cli) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the translation history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := app.historyRepo()
			if err != nil {
				return err
			}
			st, err := repo.Stats(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(app.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}

			app.printf("Batches:        %d\n", st.Batches)
			app.printf("Units:          %d\n", st.Total)
			app.printf("Failed:         %d\n", st.Failed)
			app.printf("Reviewed:       %d\n", st.Reviewed)
			app.printf("Improved:       %d\n", st.Improved)
			app.printf("Avg elapsed:    %v\n", st.AvgElapsed.Round(time.Millisecond))
			if st.Reviewed > 0 {
				app.printf("Avg score:      %.2f\n", st.AvgReviewScore)
			}
			printCounts(app, "By origin:", st.ByOrigin)
			printCounts(app, "By provider:", st.ByProvider)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func printCounts[K ~string](app *cli, title string, counts map[K]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]K, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	app.printf("%s\n", title)
	for _, k := range keys {
		app.printf("  %-12s %d\n", k, counts[k])
	}
}

func origin(r gameloc.Record) string {
	if r.ProviderName != "" && r.Origin != gameloc.OriginCorrection {
		return string(r.Origin) + "/" + r.ProviderName
	}
	return string(r.Origin)
}

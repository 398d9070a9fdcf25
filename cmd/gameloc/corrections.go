package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/gameloc"
	"github.com/ZaguanLabs/gameloc/correction"
	"github.com/ZaguanLabs/gameloc/store"
)

func newCorrectionsCommand(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "corrections",
		Aliases: []string{"glossary"},
		Short:   "Manage the correction table",
		Long: `Manage the curated corrections that override machine translation.

A correction applies when the source text of a unit matches exactly for the
same language pair. Among several matches the highest priority wins, then the
most recently updated entry.`,
	}

	cmd.AddCommand(
		newCorrectionsListCommand(app),
		newCorrectionsSearchCommand(app),
		newCorrectionsAddCommand(app),
		newCorrectionsRemoveCommand(app),
		newCorrectionsSeedCommand(app),
		newCorrectionsImportCommand(app),
		newCorrectionsExportCommand(app),
	)
	return cmd
}

func (c *cli) correctionRepo() (*store.CorrectionRepo, error) {
	db, err := c.openStore()
	if err != nil {
		return nil, err
	}
	return store.NewCorrectionRepo(db), nil
}

func newCorrectionsListCommand(app *cli) *cobra.Command {
	var from, to string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List corrections, best ranked first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := app.correctionRepo()
			if err != nil {
				return err
			}
			entries, err := repo.List(cmd.Context(), gameloc.NormalizeLanguage(from), gameloc.NormalizeLanguage(to))
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(app.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				app.printf("No corrections.\n")
				return nil
			}
			renderCorrections(app, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Filter by source language")
	cmd.Flags().StringVar(&to, "to", "", "Filter by target language")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderCorrections(app *cli, entries []correction.Entry) {
	t := newTable(app.stdout, "ID", "Pair", "Source", "Translation", "Category", "Priority")
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.ID,
			e.SourceLang + "->" + e.TargetLang,
			truncate(e.SourceText, 40),
			truncate(e.CorrectTranslation, 40),
			e.Category,
			e.Priority,
		})
	}
	t.Render()
}

func newCorrectionsSearchCommand(app *cli) *cobra.Command {
	var from, to string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Find corrections whose source text resembles the query",
		Long: `Rank stored corrections by fuzzy similarity of their source text to the
query, ignoring case and accents. Useful when a correction does not apply
because the unit text differs slightly from the stored entry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := app.correctionRepo()
			if err != nil {
				return err
			}
			entries, err := repo.List(cmd.Context(), gameloc.NormalizeLanguage(from), gameloc.NormalizeLanguage(to))
			if err != nil {
				return err
			}

			matches := searchCorrections(args[0], entries, limit)
			if len(matches) == 0 {
				app.printf("No corrections resemble %q.\n", args[0])
				return nil
			}
			renderCorrections(app, matches)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Filter by source language")
	cmd.Flags().StringVar(&to, "to", "", "Filter by target language")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum matches to show")
	return cmd
}

// searchCorrections returns entries whose source text contains the query's
// characters in order, closest first. Exact matches after folding come first.
func searchCorrections(query string, entries []correction.Entry, limit int) []correction.Entry {
	sources := make([]string, len(entries))
	for i, e := range entries {
		sources[i] = e.SourceText
	}

	ranks := fuzzy.RankFindNormalizedFold(query, sources)
	sort.Stable(ranks)

	out := make([]correction.Entry, 0, len(ranks))
	for _, r := range ranks {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, entries[r.OriginalIndex])
	}
	return out
}

func newCorrectionsAddCommand(app *cli) *cobra.Command {
	var from, to, category string
	var priority int

	cmd := &cobra.Command{
		Use:   "add <source> <translation>",
		Short: "Add or update a correction",
		Example: `  gameloc corrections add "Mana" "法力" --category game_term
  gameloc corrections add "Arthas" "阿尔萨斯" --to zh --category character_name --priority 20`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := correction.ParseCategory(category)
			if err != nil {
				return err
			}
			repo, err := app.correctionRepo()
			if err != nil {
				return err
			}

			e, err := repo.Add(cmd.Context(), correction.Entry{
				SourceText:         args[0],
				CorrectTranslation: args[1],
				SourceLang:         gameloc.NormalizeLanguage(from),
				TargetLang:         gameloc.NormalizeLanguage(to),
				Category:           cat,
				Priority:           priority,
			})
			if err != nil {
				return err
			}
			app.printf("Saved correction %d: %q -> %q (%s->%s)\n", e.ID, e.SourceText, e.CorrectTranslation, e.SourceLang, e.TargetLang)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "en", "Source language")
	cmd.Flags().StringVar(&to, "to", "zh", "Target language")
	cmd.Flags().StringVar(&category, "category", string(correction.CategoryOther), "Category (game_term, ui_text, character_name, other)")
	cmd.Flags().IntVar(&priority, "priority", correction.DefaultPriority, "Priority; higher wins")
	return cmd
}

func newCorrectionsRemoveCommand(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a correction by ID",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			repo, err := app.correctionRepo()
			if err != nil {
				return err
			}
			if err := repo.Delete(cmd.Context(), id); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("correction %d not found", id)
				}
				return err
			}
			app.printf("Removed correction %d\n", id)
			return nil
		},
	}
}

func newCorrectionsSeedCommand(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Store the built-in game terms that are not present yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := app.correctionRepo()
			if err != nil {
				return err
			}
			added, err := repo.Seed(cmd.Context(), correction.DefaultEntries())
			if err != nil {
				return err
			}
			app.printf("Added %d default corrections\n", added)
			return nil
		},
	}
}

func newCorrectionsImportCommand(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Add or update corrections from a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0]) // #nosec G304 - CLI tool reads user-specified files
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
			var entries []correction.Entry
			if err := json.Unmarshal(data, &entries); err != nil {
				return fmt.Errorf("decoding %s: %w", args[0], err)
			}

			repo, err := app.correctionRepo()
			if err != nil {
				return err
			}
			saved := 0
			for i, e := range entries {
				e.ID = 0
				e.SourceLang = gameloc.NormalizeLanguage(e.SourceLang)
				e.TargetLang = gameloc.NormalizeLanguage(e.TargetLang)
				if _, err := repo.Add(cmd.Context(), e); err != nil {
					return fmt.Errorf("entry %d: %w", i+1, err)
				}
				saved++
			}
			app.printf("Imported %d corrections\n", saved)
			return nil
		},
	}
}

func newCorrectionsExportCommand(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.json]",
		Short: "Write every correction as a JSON array",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := app.correctionRepo()
			if err != nil {
				return err
			}
			entries, err := repo.List(cmd.Context(), "", "")
			if err != nil {
				return err
			}

			out := app.stdout
			if len(args) == 1 {
				f, err := os.Create(args[0]) // #nosec G304 - CLI tool writes user-specified files
				if err != nil {
					return fmt.Errorf("creating file: %w", err)
				}
				defer f.Close()
				out = f
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}
}

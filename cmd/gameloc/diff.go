package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/gameloc"
)

func newDiffCommand(app *cli) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "diff <previous> <current>",
		Short: "Show which lines changed since a previous version",
		Long: `Compare two versions of a text file line by line and list the units
that need translation. Lines that only moved are unchanged; a line whose
text changed at the same line number is reported as modified.`,
		Args: cobra.ExactArgs(2),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			oldUnits, err := readUnitsFile(args[0])
			if err != nil {
				return fmt.Errorf("reading previous version: %w", err)
			}
			newUnits, err := readUnitsFile(args[1])
			if err != nil {
				return err
			}

			diff := gameloc.DiffUnits(oldUnits, newUnits)
			if jsonOutput {
				return writeDiffJSON(app, diff, args)
			}
			writeDiffText(app, diff, args)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type diffUnitJSON struct {
	Row  int    `json:"row"`
	Text string `json:"text"`
}

type diffOutput struct {
	PreviousFile     string            `json:"previous_file"`
	CurrentFile      string            `json:"current_file"`
	Stats            gameloc.DiffStats `json:"stats"`
	NeedsTranslation []diffUnitJSON    `json:"needs_translation"`
	Removed          []diffUnitJSON    `json:"removed,omitempty"`
	Modified         []struct {
		Row int    `json:"row"`
		Old string `json:"old"`
		New string `json:"new"`
	} `json:"modified,omitempty"`
}

func writeDiffJSON(app *cli, diff *gameloc.UnitDiff, args []string) error {
	out := diffOutput{
		PreviousFile:     filepath.Base(args[0]),
		CurrentFile:      filepath.Base(args[1]),
		Stats:            diff.Stats(),
		NeedsTranslation: []diffUnitJSON{},
	}
	for _, u := range diff.NeedsTranslation() {
		out.NeedsTranslation = append(out.NeedsTranslation, diffUnitJSON{Row: u.Location.Row, Text: u.SourceText})
	}
	for _, u := range diff.Removed {
		out.Removed = append(out.Removed, diffUnitJSON{Row: u.Location.Row, Text: u.SourceText})
	}
	for _, m := range diff.Modified {
		out.Modified = append(out.Modified, struct {
			Row int    `json:"row"`
			Old string `json:"old"`
			New string `json:"new"`
		}{Row: m.New.Location.Row, Old: m.Old.SourceText, New: m.New.SourceText})
	}

	enc := json.NewEncoder(app.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeDiffText(app *cli, diff *gameloc.UnitDiff, args []string) {
	stats := diff.Stats()
	app.printf("Diff: %s vs %s\n\n", filepath.Base(args[1]), filepath.Base(args[0]))
	app.printf("Summary:\n")
	app.printf("  Unchanged: %d\n", stats.Unchanged)
	app.printf("  Added:     %d\n", stats.Added)
	app.printf("  Removed:   %d\n", stats.Removed)
	app.printf("  Modified:  %d\n\n", stats.Modified)

	if !diff.HasChanges() {
		app.printf("No changes detected. All translations are up to date.\n")
		return
	}

	app.printf("Needs translation: %d units\n\n", len(diff.NeedsTranslation()))
	if len(diff.Added) > 0 {
		app.printf("Added:\n")
		for _, u := range diff.Added {
			app.printf("  + %4d %q\n", u.Location.Row, truncate(u.SourceText, 50))
		}
		app.printf("\n")
	}
	if len(diff.Modified) > 0 {
		app.printf("Modified:\n")
		for _, m := range diff.Modified {
			app.printf("  ~ %4d %q -> %q\n", m.New.Location.Row, truncate(m.Old.SourceText, 30), truncate(m.New.SourceText, 30))
		}
		app.printf("\n")
	}
	if len(diff.Removed) > 0 {
		app.printf("Removed:\n")
		for _, u := range diff.Removed {
			app.printf("  - %4d %q\n", u.Location.Row, truncate(u.SourceText, 50))
		}
		app.printf("\n")
	}
}

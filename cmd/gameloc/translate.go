package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ZaguanLabs/gameloc"
	"github.com/ZaguanLabs/gameloc/cache"
	"github.com/ZaguanLabs/gameloc/store"
)

type translateFlags struct {
	from        string
	to          string
	provider    string
	model       string
	concurrency int
	review      bool
	autoImprove bool
	threshold   float64
	rounds      int
	cacheFile   string
	jsonOutput  bool
	quiet       bool
}

func newTranslateCommand(app *cli) *cobra.Command {
	var f translateFlags

	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Translate text units read from a file or stdin",
		Long: `Translate every non-empty line of the input as one unit.

The unit location is the line number. Translations are written to stdout in
input order; a unit that fails keeps its source text and is reported on
stderr.`,
		Example: `  gameloc translate strings.txt --to zh
  echo "Start Game" | gameloc translate --to ja --provider ollama
  gameloc translate dialog.txt --to zh --review --auto-improve --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.translate(cmd, args, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.from, "from", "en", "Source language code")
	flags.StringVar(&f.to, "to", "zh", "Target language code")
	flags.StringVarP(&f.provider, "provider", "p", "", "Provider (openai, deepseek, qwen, ollama)")
	flags.StringVarP(&f.model, "model", "m", "", "Model name")
	flags.IntVar(&f.concurrency, "concurrency", 0, "Units translated in parallel")
	flags.BoolVar(&f.review, "review", false, "Review every translation")
	flags.BoolVar(&f.autoImprove, "auto-improve", false, "Substitute improved translations below the threshold")
	flags.Float64Var(&f.threshold, "threshold", 0, "Minimum acceptable review score (0-10)")
	flags.IntVar(&f.rounds, "rounds", 0, "Re-reviews allowed after a substitution")
	flags.StringVar(&f.cacheFile, "cache-file", "", "JSON cache file loaded before and saved after the batch")
	flags.BoolVar(&f.jsonOutput, "json", false, "Output results as JSON")
	flags.BoolVarP(&f.quiet, "quiet", "q", false, "Suppress progress output")

	return cmd
}

func (c *cli) translate(cmd *cobra.Command, args []string, f translateFlags) error {
	ctx := cmd.Context()
	changed := cmd.Flags().Changed

	if changed("provider") {
		c.cfg.Provider.Name = f.provider
	}
	if changed("model") {
		c.cfg.Provider.Model = f.model
	}

	opts := c.cfg.BatchOptions()
	if changed("concurrency") {
		opts.Concurrency = f.concurrency
	}
	if changed("review") {
		opts.Review.Enabled = f.review
	}
	if changed("auto-improve") {
		opts.Review.AutoImprove = f.autoImprove
		opts.Review.Enabled = opts.Review.Enabled || f.autoImprove
	}
	if changed("threshold") {
		opts.Review.Threshold = f.threshold
	}
	if changed("rounds") {
		opts.Review.MaxImproveRounds = f.rounds
	}

	units, inputName, err := c.readUnits(args)
	if err != nil {
		return err
	}

	p, err := c.openProvider()
	if err != nil {
		return err
	}
	table, err := c.loadCorrections(ctx)
	if err != nil {
		return err
	}
	tc, err := c.openCache()
	if err != nil {
		return err
	}

	cacheFile := c.cfg.Cache.File
	if changed("cache-file") {
		cacheFile = f.cacheFile
	}
	if cacheFile != "" {
		if err := c.importCache(tc, cacheFile); err != nil {
			return err
		}
	}

	engineOpts := []gameloc.EngineOption{
		gameloc.WithCache(tc),
		gameloc.WithCorrections(table),
		gameloc.WithLogger(c.logger),
		gameloc.WithLanguages(c.cfg.Languages...),
		gameloc.WithReviewRetry(opts.Retry),
	}
	db, err := c.openStore()
	switch {
	case err == nil:
		engineOpts = append(engineOpts, gameloc.WithHistory(store.NewHistoryRepo(db)))
	case !errors.Is(err, errNoDatabase):
		return err
	}
	engine := gameloc.NewEngine(engineOpts...)

	var bar *progressBar
	if !f.quiet {
		fmt.Fprintf(c.stderr, "Translating %s (%d units) %s->%s with %s...\n", inputName, len(units), f.from, f.to, p.Name())
		bar = newProgressBar(c.stderr, inputName, len(units))
		opts.Progress = bar.observe
	}

	start := time.Now()
	pair := gameloc.LanguagePair{Source: f.from, Target: f.to}
	results, batchErr := engine.TranslateBatch(ctx, units, pair, p, opts)
	elapsed := time.Since(start)
	if bar != nil {
		bar.stop()
	}
	if results == nil {
		return batchErr
	}

	if cacheFile != "" {
		if err := cache.NewExporter(tc).ExportToFile(cacheFile, map[string]string{"source": inputName}); err != nil {
			c.logger.Warn("cache export failed", zap.String("path", cacheFile), zap.Error(err))
		}
	}

	if f.jsonOutput {
		err = writeResultsJSON(c.stdout, results, elapsed)
	} else {
		err = c.writeResultsText(results)
	}
	if err != nil {
		return err
	}

	summary := summarizeResults(results)
	if !f.quiet {
		okColor.Fprintf(c.stderr, "Done in %v\n", elapsed.Round(time.Millisecond))
		fmt.Fprintf(c.stderr, "  Corrections:  %d\n", summary.corrections)
		fmt.Fprintf(c.stderr, "  From cache:   %d\n", summary.cached)
		fmt.Fprintf(c.stderr, "  Translated:   %d\n", summary.translated)
		if summary.improved > 0 {
			fmt.Fprintf(c.stderr, "  Improved:     %d\n", summary.improved)
		}
		if summary.failed > 0 {
			errColor.Fprintf(c.stderr, "  Failed:       %d\n", summary.failed)
		}
	}

	if batchErr != nil {
		return batchErr
	}
	if summary.failed > 0 {
		return fmt.Errorf("%d of %d units failed", summary.failed, len(results))
	}
	return nil
}

// readUnits reads the units from the file argument or stdin.
func (c *cli) readUnits(args []string) ([]gameloc.TranslationUnit, string, error) {
	name := "stdin"
	var units []gameloc.TranslationUnit
	var err error
	if len(args) == 0 {
		units, err = parseUnits(c.stdin, name)
	} else {
		name = filepath.Base(args[0])
		units, err = readUnitsFile(args[0])
	}
	if err != nil {
		return nil, "", err
	}
	if len(units) == 0 {
		return nil, "", fmt.Errorf("no text to translate in %s", name)
	}
	return units, name, nil
}

func readUnitsFile(path string) ([]gameloc.TranslationUnit, error) {
	f, err := os.Open(path) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	defer f.Close()
	return parseUnits(f, filepath.Base(path))
}

// parseUnits turns every non-empty line into a unit located at its line
// number.
func parseUnits(r io.Reader, name string) ([]gameloc.TranslationUnit, error) {
	var units []gameloc.TranslationUnit
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	row := 0
	for scanner.Scan() {
		row++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		units = append(units, gameloc.TranslationUnit{
			Location:   gameloc.Location{Row: row, Column: 1},
			SourceText: line,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return units, nil
}

func (c *cli) importCache(tc gameloc.TranslationCache, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	res, err := cache.NewImporter(tc).ImportFromFile(path)
	if err != nil {
		return fmt.Errorf("loading cache file: %w", err)
	}
	c.logger.Debug("cache file loaded",
		zap.String("path", path),
		zap.Int("imported", res.Imported),
		zap.Int("failed", res.Failed),
	)
	return nil
}

func (c *cli) writeResultsText(results []gameloc.TranslationResult) error {
	w := bufio.NewWriter(c.stdout)
	for _, r := range results {
		if r.Failed() {
			warnColor.Fprintf(c.stderr, "%s: %v\n", r.Unit.Location, r.Err)
			fmt.Fprintln(w, r.Unit.SourceText)
			continue
		}
		fmt.Fprintln(w, r.TranslatedText)
	}
	return w.Flush()
}

type resultJSON struct {
	Row         int      `json:"row"`
	Column      int      `json:"column"`
	Source      string   `json:"source"`
	Translation string   `json:"translation,omitempty"`
	Origin      string   `json:"origin,omitempty"`
	Provider    string   `json:"provider,omitempty"`
	Attempts    int      `json:"attempts,omitempty"`
	ElapsedMs   int64    `json:"elapsed_ms"`
	ReviewScore *float64 `json:"review_score,omitempty"`
	Issues      []string `json:"issues,omitempty"`
	Improved    bool     `json:"improved,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// JSONOutput represents the JSON output format.
type JSONOutput struct {
	Results     []resultJSON `json:"results"`
	Total       int          `json:"total"`
	Corrections int          `json:"corrections"`
	Cached      int          `json:"cached"`
	Translated  int          `json:"translated"`
	Improved    int          `json:"improved"`
	Failed      int          `json:"failed"`
	ElapsedMs   int64        `json:"elapsed_ms"`
}

func writeResultsJSON(w io.Writer, results []gameloc.TranslationResult, elapsed time.Duration) error {
	s := summarizeResults(results)
	out := JSONOutput{
		Results:     make([]resultJSON, 0, len(results)),
		Total:       len(results),
		Corrections: s.corrections,
		Cached:      s.cached,
		Translated:  s.translated,
		Improved:    s.improved,
		Failed:      s.failed,
		ElapsedMs:   elapsed.Milliseconds(),
	}

	for _, r := range results {
		rj := resultJSON{
			Row:         r.Unit.Location.Row,
			Column:      r.Unit.Location.Column,
			Source:      r.Unit.SourceText,
			Translation: r.TranslatedText,
			Origin:      string(r.Origin),
			Provider:    r.ProviderName,
			Attempts:    r.Attempts,
			ElapsedMs:   r.Elapsed.Milliseconds(),
			Improved:    r.Improved,
		}
		if r.Review != nil {
			score := r.Review.Score
			rj.ReviewScore = &score
			rj.Issues = r.Review.Issues
		}
		if r.Err != nil {
			rj.Error = r.Err.Error()
		}
		out.Results = append(out.Results, rj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

type resultSummary struct {
	corrections, cached, translated, improved, failed int
}

func summarizeResults(results []gameloc.TranslationResult) resultSummary {
	var s resultSummary
	for _, r := range results {
		if r.Failed() {
			s.failed++
			continue
		}
		switch r.Origin {
		case gameloc.OriginCorrection:
			s.corrections++
		case gameloc.OriginCache:
			s.cached++
		case gameloc.OriginProvider:
			s.translated++
		}
		if r.Improved {
			s.improved++
		}
	}
	return s
}

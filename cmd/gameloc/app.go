package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ZaguanLabs/gameloc"
	"github.com/ZaguanLabs/gameloc/cache"
	"github.com/ZaguanLabs/gameloc/correction"
	"github.com/ZaguanLabs/gameloc/internal/config"
	"github.com/ZaguanLabs/gameloc/internal/logger"
	"github.com/ZaguanLabs/gameloc/provider"
	"github.com/ZaguanLabs/gameloc/store"
)

var errNoDatabase = errors.New("database is disabled (database.path is empty)")

// cli holds the resources shared by every command. They are created lazily
// so commands only open what they use.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool

	cfg     *config.Config
	logger  *zap.Logger
	db      *sql.DB
	closers []func() error
}

func newRootCommand(app *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   gameloc.Name,
		Short: gameloc.Description,
		Long: `gameloc translates game text through AI providers.

Every unit is checked against the correction table first, then the
translation cache, and only then sent to the provider. An optional review
pass scores each translation and can substitute an improved one.

Configuration is read from ./gameloc.yaml (or --config, or GAMELOC_CONFIG)
and environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load()
		},
	}

	root.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "Path to the YAML configuration file")
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newTranslateCommand(app),
		newCorrectionsCommand(app),
		newHistoryCommand(app),
		newStatsCommand(app),
		newDiffCommand(app),
		newProvidersCommand(app),
		newTestProviderCommand(app),
		newVersionCommand(app),
	)
	return root
}

// load reads the configuration and builds the logger.
func (c *cli) load() error {
	if c.cfg != nil {
		return nil
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.Log.Level = "debug"
	}

	l, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, c.stderr)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = l
	return nil
}

func (c *cli) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
	c.closers = nil
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

// openStore opens the SQLite database on first use.
func (c *cli) openStore() (*sql.DB, error) {
	if c.db != nil {
		return c.db, nil
	}
	if c.cfg.Database.Path == "" {
		return nil, errNoDatabase
	}

	db, err := store.Open(c.cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("database opened", zap.String("path", c.cfg.Database.Path))

	c.db = db
	c.closers = append(c.closers, db.Close)
	return db, nil
}

// loadCorrections builds the in-memory correction table. With a database the
// table mirrors the stored entries; without one it holds the defaults only.
func (c *cli) loadCorrections(ctx context.Context) (*correction.Table, error) {
	table := correction.NewTable(correction.WithNormalizer(c.cfg.Normalizer()))

	db, err := c.openStore()
	switch {
	case errors.Is(err, errNoDatabase):
		if c.cfg.Correction.SeedDefaults {
			if _, err := correction.Seed(table, correction.DefaultEntries()); err != nil {
				return nil, err
			}
		}
		return table, nil
	case err != nil:
		return nil, err
	}

	repo := store.NewCorrectionRepo(db)
	if c.cfg.Correction.SeedDefaults {
		added, err := repo.Seed(ctx, correction.DefaultEntries())
		if err != nil {
			return nil, err
		}
		if added > 0 {
			c.logger.Info("default corrections seeded", zap.Int("added", added))
		}
	}

	n, err := repo.LoadInto(ctx, table)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("corrections loaded", zap.Int("entries", n))
	return table, nil
}

// openCache builds the configured translation cache.
func (c *cli) openCache() (gameloc.TranslationCache, error) {
	switch c.cfg.Cache.Backend {
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			URL:       c.cfg.Cache.RedisURL,
			TTL:       c.cfg.Cache.TTL,
			KeyPrefix: c.cfg.Cache.KeyPrefix,
		})
		if err != nil {
			return nil, &gameloc.CacheError{Message: "redis unavailable", Cause: err}
		}
		c.closers = append(c.closers, rc.Close)
		return rc, nil
	default:
		return cache.NewInMemoryCache(c.cfg.Cache.TTL, cache.WithMaxEntries(c.cfg.Cache.MaxEntries)), nil
	}
}

// openProvider builds the configured provider, rate limited when requested.
func (c *cli) openProvider() (gameloc.Provider, error) {
	settings, err := c.cfg.ProviderSettings()
	if err != nil {
		return nil, err
	}

	p, err := provider.New(settings)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("provider ready",
		zap.String("provider", p.Name()),
		zap.String("model", settings.Model),
	)

	if rpm := c.cfg.Provider.RateLimitRPM; rpm > 0 {
		return gameloc.NewRateLimitedProvider(p, gameloc.RateLimitConfig{RequestsPerMinute: rpm}), nil
	}
	return p, nil
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.stdout, format, args...)
}

// Package cmd implements the fa command line: it replays the trading records
// into monthly reports and publishes them for the static site.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/etnz/assets"
	"github.com/etnz/assets/eodhd"
	"github.com/etnz/assets/quotestore"
	"github.com/etnz/assets/yahoo"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// group is a set of subcommands listed together in the help.
type group struct {
	name     string
	commands []subcommands.Command
}

// groups lists every subcommand, in help order.
var groups = []group{
	{"publication", []subcommands.Command{&updateCmd{}, &watchCmd{}}},
	{"reports", []subcommands.Command{
		newReportCmd("summary", "display the account summary"),
		newReportCmd("holdings", "display the open positions"),
		newReportCmd("dividends", "display the trailing dividend income per month"),
		newReportCmd("activity", "display the trades, dividends and contributions of the month"),
	}},
	{"records", []subcommands.Command{&convertCmd{}}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range groups {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "config/fa.yaml", "Path to the configuration file (yaml or toml)")
var logLevel = flag.String("log-level", "", "Log level (debug, info, warn, error), overrides the configuration")

// app holds what every command needs.
type app struct {
	config   *assets.Config
	log      zerolog.Logger
	registry *assets.Registry
}

// setup loads .env, the configuration and the registry.
func setup() (*app, error) {
	_ = godotenv.Load()
	cfg, err := assets.LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	return newApp(cfg, newLogger(cfg.Logging.Level, os.Stderr))
}

func newApp(cfg *assets.Config, log zerolog.Logger) (*app, error) {
	reg, err := assets.LoadRegistry(cfg.Paths.Registry, cfg.HomeCurrency)
	if err != nil {
		return nil, err
	}
	return &app{config: cfg, log: log, registry: reg}, nil
}

// ledger loads the trading records. Rejected rows are logged and skipped.
func (a *app) ledger() (*assets.Ledger, error) {
	l, rejected, err := assets.Decoder{Registry: a.registry}.LoadLedger(a.config.Paths.Ledger)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", a.config.Paths.Ledger, err)
	}
	for _, perr := range rejected {
		a.log.Warn().Int("row", perr.Row).Str("account", perr.Account).Msg(perr.Error())
	}
	a.log.Debug().Int("events", l.Len()).Int("rejected", len(rejected)).Msg("ledger loaded")
	return l, nil
}

// provider returns the configured quote provider. When a store is
// configured, live providers record into it. close releases the store.
func (a *app) provider() (p assets.Provider, close func() error, err error) {
	q := a.config.Quotes
	close = func() error { return nil }

	var store *quotestore.Store
	if q.Store != "" {
		store, err = quotestore.Open(q.Store)
		if err != nil {
			return nil, nil, err
		}
		close = store.Close
	}

	switch q.Provider {
	case assets.ProviderOffline:
		return store, close, nil
	case assets.ProviderEODHD:
		p = eodhd.NewClient(q.APIKey,
			eodhd.WithLogger(a.log),
			eodhd.WithRateLimit(q.RateLimit),
			eodhd.WithCacheDir(q.CacheDir),
		)
	case assets.ProviderYahoo:
		p = yahoo.New(a.log)
	default:
		close()
		return nil, nil, &assets.ConfigError{Key: "quotes.provider", Err: fmt.Errorf("unknown provider %q", q.Provider)}
	}
	if store != nil {
		p = &quotestore.Recorder{Provider: p, Store: store, Log: a.log}
	}
	return p, close, nil
}

// pipeline returns the publication pipeline on p.
func (a *app) pipeline(p assets.Provider) *assets.Pipeline {
	return &assets.Pipeline{
		Config:    a.config,
		Registry:  a.registry,
		Provider:  p,
		Publisher: &assets.Publisher{Dir: a.config.Paths.OutputDir, BuildInfo: a.config.Paths.BuildInfo},
		Log:       a.log,
		Now:       time.Now,
	}
}

// exitStatus logs err and converts it to an exit status.
func exitStatus(log zerolog.Logger, err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	var cerr *assets.ConfigError
	if errors.As(err, &cerr) {
		log.Error().Err(err).Msg("invalid configuration")
		return subcommands.ExitUsageError
	}
	log.Error().Err(err).Msg("failed")
	return subcommands.ExitFailure
}

// setupFailed reports an error that happened before the logger was built.
func setupFailed(w io.Writer, err error) subcommands.ExitStatus {
	fmt.Fprintf(w, "Error: %v\n", err)
	var cerr *assets.ConfigError
	if errors.As(err, &cerr) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

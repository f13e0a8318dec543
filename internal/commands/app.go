package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocket/internal/activity"
	"github.com/cleared-dev/pocket/internal/config"
	"github.com/cleared-dev/pocket/internal/derive"
	"github.com/cleared-dev/pocket/internal/gitops"
	"github.com/cleared-dev/pocket/internal/ledger"
	"github.com/cleared-dev/pocket/internal/logging"
	"github.com/cleared-dev/pocket/internal/render"
	"github.com/cleared-dev/pocket/internal/storage"
)

// now is the clock used for default dates and range cutoffs.
var now = time.Now

// dbFileName is the SQLite database inside the data directory.
const dbFileName = "pocket.db"

const termWidth = 100

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	envFile    string
	logLevel   string
	plain      bool
}

// app is an opened ledger with everything needed to show and change it.
type app struct {
	cfg     *config.Config
	dataDir string
	log     zerolog.Logger
	slot    storage.Slot
	adapter *storage.Adapter
	store   *ledger.Store
	render  *render.Renderer
	out     io.Writer
	plain   bool
}

func openApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir(opts.configPath)
	slot, err := openSlot(cfg, dataDir)
	if err != nil {
		return nil, err
	}

	r, err := render.New(cfg.Display.Currency)
	if err != nil {
		slot.Close()
		return nil, err
	}

	adapter := storage.NewAdapter(slot, cfg.Storage.Key, logger)
	logger.Debug().Str("backend", cfg.Storage.Backend).Str("dir", dataDir).Msg("opened ledger")

	return &app{
		cfg:     cfg,
		dataDir: dataDir,
		log:     logger,
		slot:    slot,
		adapter: adapter,
		store:   ledger.NewStore(adapter, logger),
		render:  r,
		out:     cmd.OutOrStdout(),
		plain:   opts.plain || !logging.IsTerminal(cmd.OutOrStdout()),
	}, nil
}

// loadConfig reads the config file, then .env files, then POCKET_* overrides.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	envFiles := []string{".env"}
	if opts.envFile != "" {
		envFiles = []string{opts.envFile}
	}
	if err := config.LoadEnv(envFiles...); err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openSlot(cfg *config.Config, dataDir string) (storage.Slot, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return storage.NewSQLiteSlot(filepath.Join(dataDir, dbFileName))
	default:
		return storage.NewFileSlot(dataDir)
	}
}

func (a *app) Close() error {
	return a.slot.Close()
}

// show writes markdown to stdout, styled unless output is plain.
func (a *app) show(md string) error {
	out, err := render.Terminal(md, a.plain, termWidth)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(a.out, out)
	return err
}

// rangeOrDefault parses a --range flag, falling back to the configured default.
func (a *app) rangeOrDefault(flag string) (derive.Range, error) {
	if flag == "" {
		return a.cfg.Range(), nil
	}
	return derive.ParseRange(flag)
}

// record versions the data directory when configured and appends to the
// activity log. Failures are logged; the ledger change already happened.
func (a *app) record(action, txnID, details string) {
	entry := activity.Entry{
		Timestamp:     now(),
		Action:        action,
		TransactionID: txnID,
		Details:       details,
	}

	if a.cfg.Git.AutoCommit {
		entry.Commit = a.commit(action + ": " + details)
	}

	if err := activity.Append(a.dataDir, []activity.Entry{entry}); err != nil {
		a.log.Warn().Err(err).Msg("failed to write activity log")
	}
}

func (a *app) commit(message string) string {
	if !gitops.IsRepo(a.dataDir) {
		a.log.Warn().Str("dir", a.dataDir).Msg("auto_commit is on but the data dir is not a git repository")
		return ""
	}
	hash, err := gitops.CommitAll(a.dataDir, "pocket: "+message, a.cfg.Git.AuthorName, a.cfg.Git.AuthorEmail)
	if errors.Is(err, gitops.ErrNothingToCommit) {
		return ""
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to commit ledger")
		return ""
	}
	a.log.Debug().Str("commit", hash).Msg("committed ledger")
	return hash
}

// withApp adapts a function taking an opened app to a cobra RunE.
func withApp(opts *globalOptions, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, opts)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

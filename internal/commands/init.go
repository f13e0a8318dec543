package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocket/internal/activity"
	"github.com/cleared-dev/pocket/internal/config"
	"github.com/cleared-dev/pocket/internal/gitops"
	"github.com/cleared-dev/pocket/internal/storage"
)

type initOptions struct {
	backend  string
	currency string
	git      bool
	force    bool
}

func newInitCommand(opts *globalOptions) *cobra.Command {
	var o initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a config file and an empty ledger",
		Long: "Create pocket.yaml and an empty ledger. With a directory argument the\n" +
			"config is written to <directory>/pocket.yaml instead of --config.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if len(args) > 0 {
				path = filepath.Join(args[0], config.FileName)
			}
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dataDir, err := runInit(absPath, o)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized pocket ledger at %s\n", dataDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&o.backend, "backend", config.BackendFile, "storage backend (file or sqlite)")
	cmd.Flags().StringVar(&o.currency, "currency", "", "display currency, ISO 4217 code")
	cmd.Flags().BoolVar(&o.git, "git", false, "version the data directory with git")
	cmd.Flags().BoolVar(&o.force, "force", false, "overwrite an existing config file")

	return cmd
}

func runInit(configPath string, o initOptions) (string, error) {
	if _, err := os.Stat(configPath); err == nil && !o.force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	cfg.Storage.Backend = o.backend
	if o.currency != "" {
		cfg.Display.Currency = o.currency
	}
	cfg.Git.AutoCommit = o.git
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	if err := config.Save(configPath, cfg); err != nil {
		return "", err
	}

	// Write an empty ledger so the slot exists before the first change.
	dataDir := cfg.DataDir(configPath)
	slot, err := openSlot(cfg, dataDir)
	if err != nil {
		return "", err
	}
	defer slot.Close()
	if err := storage.NewAdapter(slot, cfg.Storage.Key, zerolog.Nop()).Save(nil); err != nil {
		return "", err
	}

	if o.git {
		if err := initGit(dataDir, cfg); err != nil {
			return "", err
		}
	}
	return dataDir, nil
}

func initGit(dataDir string, cfg *config.Config) error {
	// The activity log records commit hashes, so it stays out of history.
	gitignore := activity.FileName + "\n*.tmp\n"
	if err := os.WriteFile(filepath.Join(dataDir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if !gitops.IsRepo(dataDir) {
		if err := gitops.Init(dataDir); err != nil {
			return err
		}
	}

	_, err := gitops.CommitAll(dataDir, "pocket: init", cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil && !errors.Is(err, gitops.ErrNothingToCommit) {
		return fmt.Errorf("initial commit: %w", err)
	}
	return nil
}

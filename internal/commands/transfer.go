package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocket/internal/activity"
	"github.com/cleared-dev/pocket/internal/derive"
	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/importer"
	"github.com/cleared-dev/pocket/internal/input"
	"github.com/cleared-dev/pocket/internal/ledger"
	"github.com/cleared-dev/pocket/internal/storage"
)

func newExportCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the ledger as CSV (or JSON) to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) > 0 && args[0] != "-" {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if asJSON {
				// Insertion order, same layout as the stored ledger.
				data, err := storage.Marshal(a.store.List())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, string(data))
				return err
			}
			return storage.WriteCSV(w, derive.DisplayOrder(a.store.List()))
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the stored JSON layout instead of CSV")

	return cmd
}

func newImportCommand(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add transactions from a CSV file",
		Long: "Add transactions from a CSV file. Rows whose ID is already in the ledger\n" +
			"are skipped, so importing the same file twice is harmless.",
		Args: cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			parser, err := importer.DefaultRegistry().Get(format)
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening import file: %w", err)
				}
				defer f.Close()
				r = f
			}

			candidates, err := parser.Parse(r)
			if err != nil {
				return err
			}

			res := a.importCandidates(candidates)
			if res.added > 0 {
				a.record(activity.ActionImport, "", fmt.Sprintf("%d from %s (%s)", res.added, args[0], parser.Format()))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d, skipped %d duplicates, rejected %d invalid\n",
				res.added, res.duplicates, res.rejected)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pocket", "input format (pocket, chase)")

	return cmd
}

type importResult struct {
	added, duplicates, rejected int
}

func (a *app) importCandidates(candidates []input.Candidate) importResult {
	var res importResult
	for i, c := range candidates {
		txn, err := input.Parse(c, id.New)
		if err != nil {
			res.rejected++
			a.log.Warn().Int("index", i).Err(err).Msg("rejecting import row")
			continue
		}
		err = a.store.Add(txn)
		switch {
		case errors.Is(err, ledger.ErrDuplicateID):
			res.duplicates++
		case err != nil:
			res.rejected++
			a.log.Warn().Int("index", i).Err(err).Msg("rejecting import row")
		default:
			res.added++
		}
	}
	return res
}

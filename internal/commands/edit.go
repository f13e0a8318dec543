package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocket/internal/activity"
	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/input"
	"github.com/cleared-dev/pocket/internal/model"
)

func newAddCommand(opts *globalOptions) *cobra.Command {
	var date, note string

	cmd := &cobra.Command{
		Use:     "add <income|expense> <category> <amount>",
		Short:   "Record a transaction",
		Example: "  pocket add expense Rent 15000 --date 2024-01-10 --note January",
		Args:    cobra.ExactArgs(3),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			if date == "" {
				date = now().Format(model.DateFormat)
			}
			txn, err := input.Parse(input.Candidate{
				Type:     args[0],
				Category: args[1],
				Amount:   args[2],
				Date:     date,
				Note:     note,
			}, id.New)
			if err != nil {
				return err
			}
			if err := a.store.Add(txn); err != nil {
				return err
			}
			a.record(activity.ActionAdd, txn.ID, describe(txn))

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s on %s (%s)\n",
				txn.Type, txn.Category, a.render.Money(txn.Amount), txn.DateString(), id.Short(txn.ID))
			return nil
		}),
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&note, "note", "", "optional note")

	return cmd
}

func newRemoveCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a transaction by ID or unique ID prefix",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			ref := id.Normalize(args[0])
			full, ok, err := a.store.Resolve(ref)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "No transaction %s\n", ref)
				return nil
			}

			txn, _ := a.store.Get(full)
			a.store.Remove(full)
			a.record(activity.ActionRemove, full, describe(txn))

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id.Short(full))
			return nil
		}),
	}
}

func newClearCommand(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every transaction",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			n := a.store.Len()
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to clear.")
				return nil
			}
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete all %d transactions? This cannot be undone. [y/N] ", n)
				if !confirm(cmd) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			a.store.Clear()
			a.record(activity.ActionClear, "", fmt.Sprintf("%d transactions", n))

			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d transactions\n", n)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func confirm(cmd *cobra.Command) bool {
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// describe summarizes a transaction for the activity log and commit messages.
func describe(t model.Transaction) string {
	return fmt.Sprintf("%s %s %s %s", t.Type, t.Category, t.Amount.String(), t.DateString())
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocket/internal/activity"
	"github.com/cleared-dev/pocket/internal/derive"
	"github.com/cleared-dev/pocket/internal/render"
)

func newListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions, most recent first",
		Args:    cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			return a.show(a.render.Table(derive.DisplayOrder(a.store.List())))
		}),
	}
}

func newSummaryCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show total income, expense and balance",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			return a.show(a.render.Summary(derive.Totals(a.store.List())))
		}),
	}
}

func newChartCommand(opts *globalOptions) *cobra.Command {
	var rangeFlag string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Show the running balance over a date range",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			r, err := a.rangeOrDefault(rangeFlag)
			if err != nil {
				return err
			}
			return a.show(a.render.Chart(derive.BalanceChart(a.store.List(), r, now())))
		}),
	}
	addRangeFlag(cmd, &rangeFlag)

	return cmd
}

func newReportCommand(opts *globalOptions) *cobra.Command {
	var rangeFlag string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show summary, transactions and balance chart",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			r, err := a.rangeOrDefault(rangeFlag)
			if err != nil {
				return err
			}
			return a.show(a.render.Report(derive.Build(a.store.List(), r, now())))
		}),
	}
	addRangeFlag(cmd, &rangeFlag)

	return cmd
}

func newCategoriesCommand(opts *globalOptions) *cobra.Command {
	var rangeFlag string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Show totals per category over a date range",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			r, err := a.rangeOrDefault(rangeFlag)
			if err != nil {
				return err
			}
			txns := derive.Filter(a.store.List(), r, now())
			return a.show(a.render.Categories(derive.ByCategory(txns)))
		}),
	}
	addRangeFlag(cmd, &rangeFlag)

	return cmd
}

func newLogCommand(opts *globalOptions) *cobra.Command {
	var last int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent ledger changes",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			entries, err := activity.Read(a.dataDir)
			if err != nil {
				return err
			}
			return a.show(render.Activity(activity.Last(entries, last)))
		}),
	}
	cmd.Flags().IntVarP(&last, "number", "n", 20, "show at most this many entries (0 for all)")

	return cmd
}

func addRangeFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "range", "r", "", "date range: 3m, 6m, 12m or all (default from config)")
}

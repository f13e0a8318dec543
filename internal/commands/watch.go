package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocket/internal/derive"
	"github.com/cleared-dev/pocket/internal/model"
	"github.com/cleared-dev/pocket/internal/storage"
)

const clearScreen = "\033[H\033[2J"

func newWatchCommand(opts *globalOptions) *cobra.Command {
	var rangeFlag string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the report on screen and redraw when the ledger changes",
		Long: "Show the report and redraw it whenever another pocket process changes\n" +
			"the ledger. Type 3m, 6m, 12m or all and press enter to switch the chart\n" +
			"range. Stop with Ctrl-C.",
		Args: cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			r, err := a.rangeOrDefault(rangeFlag)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, r, cmd.InOrStdin())
		}),
	}
	addRangeFlag(cmd, &rangeFlag)

	return cmd
}

// watch redraws the report on every store change until ctx is done.
// Slot changes and range switches are handled on this goroutine only.
func (a *app) watch(ctx context.Context, r derive.Range, in io.Reader) error {
	w, err := storage.Watch(a.slot, a.adapter.Key())
	if err != nil {
		return err
	}
	defer w.Close()

	draw := func(txns []model.Transaction) {
		md := a.render.Report(derive.Build(txns, r, now()))
		if !a.plain {
			fmt.Fprint(a.out, clearScreen)
		}
		if err := a.show(md); err != nil {
			a.log.Warn().Err(err).Msg("failed to draw report")
		}
	}
	cancel := a.store.Subscribe(draw)
	defer cancel()
	draw(a.store.List())

	ranges := readRanges(ctx, in, a)
	changes, errs := w.Changes(), w.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			a.store.Reload()
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			a.log.Warn().Err(err).Msg("watch error")
		case next, ok := <-ranges:
			if !ok {
				ranges = nil
				continue
			}
			r = next
			draw(a.store.List())
		}
	}
}

// readRanges forwards each valid range typed on in. The channel is closed
// at end of input or at the first line read after ctx is done.
//
// A blocking Read cannot be interrupted, so after ctx is done the reading
// goroutine stays parked in Scan until in yields a line, reaches EOF or is
// closed by its owner. Lines read after that are discarded.
func readRanges(ctx context.Context, in io.Reader, a *app) <-chan derive.Range {
	out := make(chan derive.Range)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			if ctx.Err() != nil {
				return
			}
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			r, err := derive.ParseRange(line)
			if err != nil {
				a.log.Warn().Str("input", line).Msg("unknown range, use 3m, 6m, 12m or all")
				continue
			}
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

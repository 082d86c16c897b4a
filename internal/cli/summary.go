package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alecthomas/kong"

	"expensetracker/internal/core"
	"expensetracker/internal/services"
)

const noDataMessage = "No data available for selected period"

type SummaryCmd struct {
	PeriodFlags
}

func (cmd *SummaryCmd) Run(ctx *kong.Context, globals *Globals) error {
	year, month := cmd.resolve()
	if err := core.ValidatePeriod(year, month); err != nil {
		return fail(ctx.Stderr, err)
	}

	sess, err := openSession(context.Background(), ctx.Command(), globals, ctx.Stderr)
	if err != nil {
		return fail(ctx.Stderr, err)
	}
	defer sess.Close()

	return writeSummary(ctx.Stdout, ctx.Stderr, sess.store, year, month, sess.cfg.CurrencySymbol)
}

// writeSummary renders the month's summary, or the no-data message.
func writeSummary(stdout, stderr io.Writer, store *services.ExpenseService, year, month int, currency string) error {
	overview, err := store.MonthlySummary(year, month)
	if errors.Is(err, services.ErrNoData) {
		_, _ = fmt.Fprintln(stdout, noDataMessage)
		return nil
	}
	if err != nil {
		return fail(stderr, err)
	}
	renderSummary(stdout, overview, currency)
	return nil
}

func renderSummary(w io.Writer, o core.MonthOverview, currency string) {
	_, _ = fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Monthly Summary for %d/%d", o.Month, o.Year)))
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Total Spending: %s\n", amountStyle.Render(o.Total.Format(currency)))
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Category Breakdown:")
	for _, c := range o.ByCategory {
		_, _ = fmt.Fprintf(w, "%s: %s\n", c.Name, amountStyle.Render(c.Amount.Format(currency)))
	}
}

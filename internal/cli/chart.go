package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"expensetracker/internal/core"
	"expensetracker/internal/services"
)

const chartWidth = 40

// chartPalette cycles across categories so adjacent slices differ.
var chartPalette = []lipgloss.AdaptiveColor{
	{Light: "#1F77B4", Dark: "#5FAFFF"},
	{Light: "#FF7F0E", Dark: "#FFAF5F"},
	{Light: "#2CA02C", Dark: "#5FD75F"},
	{Light: "#D62728", Dark: "#FF5F87"},
	{Light: "#9467BD", Dark: "#AF87FF"},
	{Light: "#8C564B", Dark: "#D7AF87"},
	{Light: "#E377C2", Dark: "#FF87D7"},
	{Light: "#7F7F7F", Dark: "#BCBCBC"},
}

type ChartCmd struct {
	PeriodFlags
}

func (cmd *ChartCmd) Run(ctx *kong.Context, globals *Globals) error {
	year, month := cmd.resolve()
	if err := core.ValidatePeriod(year, month); err != nil {
		return fail(ctx.Stderr, err)
	}

	sess, err := openSession(context.Background(), ctx.Command(), globals, ctx.Stderr)
	if err != nil {
		return fail(ctx.Stderr, err)
	}
	defer sess.Close()

	overview, err := sess.store.MonthlySummary(year, month)
	if errors.Is(err, services.ErrNoData) {
		_, _ = fmt.Fprintln(ctx.Stdout, noDataMessage)
		return nil
	}
	if err != nil {
		return fail(ctx.Stderr, err)
	}
	renderChart(ctx.Stdout, overview, sess.cfg.CurrencySymbol)
	return nil
}

// renderChart draws each category as a horizontal slice whose length is its
// share of the month's total. Nothing is drawn for an empty breakdown.
func renderChart(w io.Writer, o core.MonthOverview, currency string) {
	shares := o.Shares()
	if len(shares) == 0 {
		_, _ = fmt.Fprintln(w, noDataMessage)
		return
	}

	_, _ = fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Expense Distribution by Category (%d/%d)", o.Month, o.Year)))
	_, _ = fmt.Fprintln(w)

	labelWidth := 0
	for _, s := range shares {
		labelWidth = max(labelWidth, runewidth.StringWidth(s.Name))
	}

	// Stacked bar: the whole month as one line, split by category.
	var stacked strings.Builder
	for i, s := range shares {
		stacked.WriteString(sliceStyle(i).Render(strings.Repeat("█", barLength(s.Percent, chartWidth))))
	}
	_, _ = fmt.Fprintln(w, stacked.String())
	_, _ = fmt.Fprintln(w)

	for i, s := range shares {
		n := barLength(s.Percent, chartWidth)
		bar := sliceStyle(i).Render(strings.Repeat("█", n)) + strings.Repeat(" ", chartWidth-n)
		_, _ = fmt.Fprintf(w, "%s  %s %5.1f%%  %s\n",
			runewidth.FillRight(s.Name, labelWidth),
			bar,
			s.Percent,
			s.Amount.Format(currency),
		)
	}
}

// barLength scales a percentage to width cells; any non-zero share gets at
// least one cell.
func barLength(percent float64, width int) int {
	if math.IsNaN(percent) || percent <= 0 {
		return 0
	}
	if percent >= 100 {
		return width
	}
	n := int(math.Round(percent / 100 * float64(width)))
	if n == 0 && percent > 0 {
		n = 1
	}
	return min(n, width)
}

func sliceStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(chartPalette[i%len(chartPalette)])
}

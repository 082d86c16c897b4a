package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"expensetracker/internal/core"
)

// allCategories is the category value that disables category filtering.
const allCategories = "All"

const maxNotesWidth = 40

type ListCmd struct {
	From     string `help:"Earliest date to include (YYYY-MM-DD)." placeholder:"DATE"`
	To       string `help:"Latest date to include (YYYY-MM-DD)." placeholder:"DATE"`
	Category string `help:"Only show this category (exact match); \"All\" shows every category." default:"All"`
}

func (cmd *ListCmd) Run(ctx *kong.Context, globals *Globals) error {
	filter, err := cmd.filter()
	if err != nil {
		return fail(ctx.Stderr, err)
	}

	sess, err := openSession(context.Background(), ctx.Command(), globals, ctx.Stderr)
	if err != nil {
		return fail(ctx.Stderr, err)
	}
	defer sess.Close()

	expenses := sess.store.Expenses(filter)
	renderExpenses(ctx.Stdout, expenses, sess.cfg.CurrencySymbol)
	return nil
}

// filter translates the flags into a store filter. "All" and an empty
// category both mean no category restriction.
func (cmd *ListCmd) filter() (core.Filter, error) {
	var f core.Filter
	if cmd.From != "" {
		d, err := core.ParseDate(cmd.From)
		if err != nil {
			return f, err
		}
		f.Start = d
	}
	if cmd.To != "" {
		d, err := core.ParseDate(cmd.To)
		if err != nil {
			return f, err
		}
		f.End = d
	}
	if cmd.Category != "" && cmd.Category != allCategories {
		f = f.InCategory(cmd.Category)
	}
	return f, nil
}

func renderExpenses(w io.Writer, expenses []core.Expense, currency string) {
	if len(expenses) == 0 {
		_, _ = fmt.Fprintln(w, dimStyle.Render("No expenses found"))
		return
	}

	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{
			e.Date.String(),
			e.Amount.Format(currency),
			e.Category,
			runewidth.Truncate(e.Notes, maxNotesWidth, "…"),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "Amount", "Category", "Notes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			if col == 1 {
				return style.Align(lipgloss.Right)
			}
			return style
		})

	_, _ = fmt.Fprintln(w, t.String())
	_, _ = fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d expense(s)", len(expenses))))
}

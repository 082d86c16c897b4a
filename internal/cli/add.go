package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"

	"expensetracker/internal/core"
)

type AddCmd struct {
	Amount   string `help:"Amount spent, e.g. 12.50." short:"a"`
	Category string `help:"Category, e.g. Food, Transport, Bills." short:"c"`
	Date     string `help:"Date as YYYY-MM-DD (defaults to today)." short:"d"`
	Notes    string `help:"Free-text note." short:"n"`
}

func (cmd *AddCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()

	sess, err := openSession(runCtx, ctx.Command(), globals, ctx.Stderr)
	if err != nil {
		return fail(ctx.Stderr, err)
	}
	defer sess.Close()

	in := expenseInput{
		Amount:   cmd.Amount,
		Category: cmd.Category,
		Date:     cmd.Date,
		Notes:    cmd.Notes,
	}
	if in.Date == "" {
		in.Date = todayFunc().String()
	}

	if (in.Amount == "" || in.Category == "") && isTerminal() {
		if err := runAddForm(&in, sess.categories()); err != nil {
			return fail(ctx.Stderr, err)
		}
	}

	if err := in.Validate(); err != nil {
		return fail(ctx.Stderr, err)
	}

	e, err := sess.store.AddExpense(runCtx, in.Amount, in.Category, in.Date, in.Notes)
	if err != nil {
		return fail(ctx.Stderr, err)
	}

	printSuccess(ctx.Stdout, "Expense added successfully!")
	printInfof(ctx.Stdout, "%s  %s  %s", e.Date, amountStyle.Render(e.Amount.Format(sess.cfg.CurrencySymbol)), e.Category)
	return nil
}

// runAddForm asks for the expense fields interactively, pre-filled with
// whatever was passed as flags.
func runAddForm(in *expenseInput, categories []string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Amount").
				Placeholder("12.50").
				Value(&in.Amount).
				Validate(fieldValidator("required,notblank,amount", "enter a positive number")),
			huh.NewInput().
				Title("Category").
				Placeholder(core.DefaultCategories[0]).
				Suggestions(categories).
				Value(&in.Category).
				Validate(fieldValidator("required,notblank", "category is required")),
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Value(&in.Date).
				Validate(fieldValidator("required,datetime=2006-01-02", "use YYYY-MM-DD")),
			huh.NewInput().
				Title("Notes").
				Value(&in.Notes),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("failed to read expense: %w", err)
	}
	return nil
}

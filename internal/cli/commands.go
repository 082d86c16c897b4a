package cli

// Globals defines global flags available to all commands. Each one
// overrides the matching environment variable.
type Globals struct {
	File     string `help:"JSON file holding the expenses (EXPENSES_FILE)." type:"path" placeholder:"PATH"`
	Backend  string `help:"Storage backend: json, sqlite or memory (EXPENSES_BACKEND)." placeholder:"NAME"`
	Currency string `help:"Currency symbol used when printing amounts (EXPENSES_CURRENCY)." placeholder:"SYMBOL"`
	Verbose  bool   `help:"Log debug information to stderr." short:"v"`
}

type Commands struct {
	Globals

	Add     AddCmd     `cmd:"" help:"Record a new expense."`
	List    ListCmd    `cmd:"" help:"List expenses, optionally filtered by date range and category."`
	Summary SummaryCmd `cmd:"" help:"Show the total and per-category breakdown for a month."`
	Chart   ChartCmd   `cmd:"" help:"Show how a month's spending is distributed across categories."`
	Watch   WatchCmd   `cmd:"" help:"Show the monthly summary and refresh it whenever the expense file changes."`
}

// PeriodFlags selects a calendar month. Omitted flags mean the current
// year or month; an explicit value is always taken as given.
type PeriodFlags struct {
	Year  *int `help:"Year (defaults to the current year)." placeholder:"YYYY"`
	Month *int `help:"Month 1-12 (defaults to the current month)." placeholder:"M"`
}

func (p PeriodFlags) resolve() (year, month int) {
	today := todayFunc()
	year, month = today.Year(), today.Month()
	if p.Year != nil {
		year = *p.Year
	}
	if p.Month != nil {
		month = *p.Month
	}
	return year, month
}

package core

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// CategoryShare is the fraction of a month's total spent in one category.
type CategoryShare struct {
	Name    string
	Amount  Money
	Percent float64
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Total      Money
	ByCategory []CategoryAmount // sorted by name
}

// Filter selects expenses by inclusive date range and category. A zero
// Start or End leaves that side open; a nil Category matches every category.
type Filter struct {
	Start    Date
	End      Date
	Category *string
}

// InCategory returns a copy of f restricted to an exact category.
func (f Filter) InCategory(category string) Filter {
	f.Category = &category
	return f
}

// Matches reports whether e passes every bound set on f.
func (f Filter) Matches(e Expense) bool {
	if !f.Start.IsEmpty() && e.Date.Before(f.Start.Time) {
		return false
	}
	if !f.End.IsEmpty() && e.Date.After(f.End.Time) {
		return false
	}
	if f.Category != nil && e.Category != *f.Category {
		return false
	}
	return true
}

// Apply returns the expenses matching f in their original order. The result
// is never nil.
func (f Filter) Apply(expenses []Expense) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Summarize totals the expenses dated in year/month. The boolean is false
// when no expense falls in that month.
func Summarize(expenses []Expense, year, month int) (MonthOverview, bool) {
	overview := MonthOverview{Year: year, Month: month}

	sums := make(map[string]Money)
	matched := 0
	for _, e := range expenses {
		if !e.Date.InMonth(year, month) {
			continue
		}
		matched++
		overview.Total = overview.Total.Add(e.Amount)
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}
	if matched == 0 {
		return overview, false
	}

	names := maps.Keys(sums)
	slices.Sort(names)
	overview.ByCategory = make([]CategoryAmount, 0, len(names))
	for _, name := range names {
		overview.ByCategory = append(overview.ByCategory, CategoryAmount{Name: name, Amount: sums[name]})
	}
	return overview, true
}

// Shares returns each category's percentage of the total, in ByCategory order.
func (o MonthOverview) Shares() []CategoryShare {
	shares := make([]CategoryShare, 0, len(o.ByCategory))
	total := o.Total.Float64()
	for _, c := range o.ByCategory {
		var pct float64
		if total > 0 {
			pct = c.Amount.Float64() / total * 100
		}
		shares = append(shares, CategoryShare{Name: c.Name, Amount: c.Amount, Percent: pct})
	}
	return shares
}

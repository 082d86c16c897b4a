package core

import "testing"

func sample() []Expense {
	return []Expense{
		{Date: NewDate(2024, 1, 15), Amount: MustMoney("5"), Category: "Food", Notes: "jan"},
		{Date: NewDate(2024, 2, 10), Amount: MustMoney("7.25"), Category: "Food"},
		{Date: NewDate(2024, 2, 20), Amount: MustMoney("40"), Category: "Bills"},
	}
}

func TestFilterDateRange(t *testing.T) {
	f := Filter{Start: NewDate(2024, 2, 1), End: NewDate(2024, 2, 28)}
	got := f.Apply(sample())
	if len(got) != 2 || got[0].Date.String() != "2024-02-10" || got[1].Date.String() != "2024-02-20" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestFilterBoundsAreInclusive(t *testing.T) {
	f := Filter{Start: NewDate(2024, 1, 15), End: NewDate(2024, 2, 20)}
	if got := f.Apply(sample()); len(got) != 3 {
		t.Fatalf("expected all 3 records, got %d", len(got))
	}
}

func TestFilterOpenBounds(t *testing.T) {
	if got := (Filter{Start: NewDate(2024, 2, 15)}).Apply(sample()); len(got) != 1 {
		t.Fatalf("expected 1 record after start, got %d", len(got))
	}
	if got := (Filter{End: NewDate(2024, 2, 15)}).Apply(sample()); len(got) != 2 {
		t.Fatalf("expected 2 records before end, got %d", len(got))
	}
}

func TestFilterCategory(t *testing.T) {
	got := Filter{}.InCategory("Food").Apply(sample())
	if len(got) != 2 || got[0].Notes != "jan" || got[1].Date.String() != "2024-02-10" {
		t.Fatalf("unexpected result: %+v", got)
	}

	// Exact, case-sensitive match.
	if got := (Filter{}).InCategory("food").Apply(sample()); len(got) != 0 {
		t.Fatalf("expected no match for lower-case category, got %d", len(got))
	}
}

func TestFilterEmptyInputNotNil(t *testing.T) {
	got := Filter{}.Apply(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSummarize(t *testing.T) {
	expenses := []Expense{
		{Date: NewDate(2024, 3, 1), Amount: MustMoney("10.00"), Category: "Food"},
		{Date: NewDate(2024, 3, 5), Amount: MustMoney("25.50"), Category: "Bills"},
		{Date: NewDate(2024, 4, 1), Amount: MustMoney("99"), Category: "Food"},
	}
	ov, ok := Summarize(expenses, 2024, 3)
	if !ok {
		t.Fatalf("expected data for March 2024")
	}
	if !ov.Total.Equal(MustMoney("35.50")) {
		t.Fatalf("unexpected total %s", ov.Total)
	}
	if len(ov.ByCategory) != 2 {
		t.Fatalf("unexpected breakdown %+v", ov.ByCategory)
	}
	// Alphabetical order
	if ov.ByCategory[0].Name != "Bills" || !ov.ByCategory[0].Amount.Equal(MustMoney("25.50")) {
		t.Fatalf("unexpected first category %+v", ov.ByCategory[0])
	}
	if ov.ByCategory[1].Name != "Food" || !ov.ByCategory[1].Amount.Equal(MustMoney("10")) {
		t.Fatalf("unexpected second category %+v", ov.ByCategory[1])
	}
}

func TestSummarizeNoData(t *testing.T) {
	if _, ok := Summarize(nil, 2024, 3); ok {
		t.Fatalf("expected no data for empty collection")
	}
	if _, ok := Summarize(sample(), 2023, 2); ok {
		t.Fatalf("expected no data for a month without expenses")
	}
}

func TestShares(t *testing.T) {
	ov, _ := Summarize([]Expense{
		{Date: NewDate(2024, 3, 1), Amount: MustMoney("25"), Category: "Food"},
		{Date: NewDate(2024, 3, 2), Amount: MustMoney("75"), Category: "Bills"},
	}, 2024, 3)
	shares := ov.Shares()
	if len(shares) != 2 || shares[0].Name != "Bills" || shares[0].Percent != 75 || shares[1].Percent != 25 {
		t.Fatalf("unexpected shares %+v", shares)
	}
}

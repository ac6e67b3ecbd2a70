// Package budget derives the admin console's budget rollups from the
// transactions endpoint payload.
package budget

import "strings"

// Entry mirrors one row of /api/transactions/budgets.
type Entry struct {
	ID       int     `json:"id"`
	Item     string  `json:"item"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Spent    float64 `json:"spent"`
	// Month is the budgeting period in "2006-01" form; empty means
	// undated and passes every month filter.
	Month string `json:"month,omitempty"`
}

// Overrun reports whether spending exceeded the allocation.
func (e Entry) Overrun() bool {
	return e.Spent > e.Amount
}

// OverrunBy returns the amount spent beyond the allocation, zero when within.
func (e Entry) OverrunBy() float64 {
	if !e.Overrun() {
		return 0
	}
	return e.Spent - e.Amount
}

// ForMonth keeps the entries belonging to the given "2006-01" month.
// Undated entries always pass; an empty month passes everything.
func ForMonth(entries []Entry, month string) []Entry {
	if strings.TrimSpace(month) == "" {
		return entries
	}
	var kept []Entry
	for _, entry := range entries {
		if entry.Month == "" || entry.Month == month {
			kept = append(kept, entry)
		}
	}
	return kept
}

// Summary aggregates a budget list for the dashboard tiles.
type Summary struct {
	TotalAllocated float64
	TotalSpent     float64
	Overruns       []Entry
	ByCategory     map[string]CategoryTotals
}

// CategoryTotals carries per-category allocation and spend.
type CategoryTotals struct {
	Allocated float64
	Spent     float64
}

// Summarize folds the entries into overall and per-category totals and
// collects overruns in input order.
func Summarize(entries []Entry) Summary {
	summary := Summary{ByCategory: make(map[string]CategoryTotals)}
	for _, entry := range entries {
		summary.TotalAllocated += entry.Amount
		summary.TotalSpent += entry.Spent

		key := strings.TrimSpace(entry.Category)
		if key == "" {
			key = "uncategorized"
		}
		totals := summary.ByCategory[key]
		totals.Allocated += entry.Amount
		totals.Spent += entry.Spent
		summary.ByCategory[key] = totals

		if entry.Overrun() {
			summary.Overruns = append(summary.Overruns, entry)
		}
	}
	return summary
}

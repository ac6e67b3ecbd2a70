package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cetrics/nexdawn-storefront/internal/budget"
)

var budgetMonth string

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show budget entries and overruns",
	RunE:  runBudget,
}

func init() {
	budgetCmd.Flags().StringVar(&budgetMonth, "month", "", "limit to a month (YYYY-MM)")
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	entries, err := a.client.Budgets(cmd.Context())
	if err != nil {
		return err
	}
	entries = budget.ForMonth(entries, budgetMonth)
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No budget entries")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tCATEGORY\tBUDGET\tSPENT\tOVER")
	for _, e := range entries {
		over := ""
		if e.Overrun() {
			over = fmt.Sprintf("+%.2f", e.OverrunBy())
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%s\n", e.Item, e.Category, e.Amount, e.Spent, over)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	summary := budget.Summarize(entries)
	fmt.Fprintf(cmd.OutOrStdout(), "\nAllocated %.2f, spent %.2f, %d over budget\n",
		summary.TotalAllocated, summary.TotalSpent, len(summary.Overruns))

	categories := make([]string, 0, len(summary.ByCategory))
	for category := range summary.ByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		totals := summary.ByCategory[category]
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %.2f of %.2f\n", category, totals.Spent, totals.Allocated)
	}
	return nil
}

package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cetrics/nexdawn-storefront/internal/adminview"
	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
)

var (
	ordersAdmin  bool
	ordersStatus string
	ordersQuery  string
	ordersSince  string
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders",
	Long: `List your orders, or every order with --admin. The admin view
supports the same status, free-text, and date filters as the dashboard.`,
	RunE: runOrders,
}

var ordersStatusCmd = &cobra.Command{
	Use:   "set-status <order-number> <status>",
	Short: "Update an order's status (admin)",
	Args:  cobra.ExactArgs(2),
	RunE:  runOrdersSetStatus,
}

func init() {
	ordersCmd.Flags().BoolVar(&ordersAdmin, "admin", false, "list all orders (admin)")
	ordersCmd.Flags().StringVar(&ordersStatus, "status", adminview.StatusAll, "filter by status")
	ordersCmd.Flags().StringVar(&ordersQuery, "query", "", "free-text filter")
	ordersCmd.Flags().StringVar(&ordersSince, "since", "", "only orders on/after this date (YYYY-MM-DD)")
	ordersCmd.AddCommand(ordersStatusCmd)
	rootCmd.AddCommand(ordersCmd)
}

func runOrders(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	var orders []adminview.Order
	if ordersAdmin {
		orders, err = a.client.Orders(cmd.Context())
	} else {
		orders, err = a.client.UserOrders(cmd.Context())
	}
	if err != nil {
		return err
	}

	filter := adminview.OrderFilter{Query: ordersQuery, Status: ordersStatus}
	if ordersSince != "" {
		since, err := time.Parse("2006-01-02", ordersSince)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "since must be YYYY-MM-DD")
		}
		filter.Since = since
	}
	filtered := adminview.FilterOrders(orders, filter)

	if len(filtered) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching orders")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tCUSTOMER\tITEMS\tSTATUS\tTOTAL\tPLACED")
	for _, o := range filtered {
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%.2f\t%s\n",
			o.OrderNumber, o.FirstName, o.LastName, o.ItemsSummary,
			o.Status, o.Total, o.CreatedAt.Format("2006-01-02"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if ordersAdmin {
		stats := adminview.OrderStats(orders)
		keys := make([]string, 0, len(stats))
		for k := range stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprint(cmd.OutOrStdout(), "\nCounts:")
		for _, k := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), " %s=%d", k, stats[k])
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func runOrdersSetStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}
	if err := a.client.UpdateOrderStatus(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Order %s is now %s\n", args[0], args[1])
	return nil
}

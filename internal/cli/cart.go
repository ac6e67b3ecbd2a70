package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the persisted cart",
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show cart contents",
	RunE:  runCartList,
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartQuantityCmd = &cobra.Command{
	Use:   "quantity <product-id> <quantity>",
	Short: "Set the quantity of a cart line",
	Args:  cobra.ExactArgs(2),
	RunE:  runCartQuantity,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE:  runCartClear,
}

func init() {
	cartCmd.AddCommand(cartListCmd, cartAddCmd, cartRemoveCmd, cartQuantityCmd, cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product id must be a positive integer")
	}
	return id, nil
}

func runCartList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Cart is empty")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tPRICE\tLINE")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\t%.2f\n",
			item.ID, item.Name, item.Quantity, item.EffectivePrice(),
			item.EffectivePrice()*float64(item.Quantity))
	}
	fmt.Fprintf(w, "\t\t%d\t\t%.2f\n", a.cart.Count(), a.cart.Subtotal())
	return w.Flush()
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	product, err := findProduct(cmd, a, id)
	if err != nil {
		return err
	}
	if err := a.cart.Add(cmd.Context(), product); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (cart has %d items)\n", product.Name, a.cart.Count())
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.cart.Remove(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed product %d\n", id)
	return nil
}

func runCartQuantity(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be an integer")
	}
	if err := a.cart.SetQuantity(cmd.Context(), id, qty); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cart subtotal: %.2f\n", a.cart.Subtotal())
	return nil
}

func runCartClear(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if err := a.cart.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared")
	return nil
}

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cetrics/nexdawn-storefront/internal/catalog"
	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
)

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Manage the persisted wishlist",
}

var wishlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show wishlist contents",
	RunE:  runWishlistList,
}

var wishlistToggleCmd = &cobra.Command{
	Use:   "toggle <product-id>",
	Short: "Add or remove a product from the wishlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runWishlistToggle,
}

var wishlistMoveCmd = &cobra.Command{
	Use:   "move-to-cart",
	Short: "Move every wishlist item into the cart",
	RunE:  runWishlistMove,
}

func init() {
	wishlistCmd.AddCommand(wishlistListCmd, wishlistToggleCmd, wishlistMoveCmd)
	rootCmd.AddCommand(wishlistCmd)
}

// findProduct resolves an id against the live catalog.
func findProduct(cmd *cobra.Command, a *app, id int) (catalog.Product, error) {
	products, err := a.client.Products(cmd.Context(), "")
	if err != nil {
		return catalog.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", id))
}

func runWishlistList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	items := a.wishlist.Items()
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Wishlist is empty")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tADDED")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n",
			item.ID, item.Name, item.EffectivePrice(), item.AddedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func runWishlistToggle(cmd *cobra.Command, args []string) error {
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
	added, err := a.wishlist.Toggle(cmd.Context(), product)
	if err != nil {
		return err
	}
	if added {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to wishlist\n", product.Name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from wishlist\n", product.Name)
	}
	return nil
}

func runWishlistMove(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	moved := len(a.wishlist.Items())
	if moved == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Wishlist is empty")
		return nil
	}
	if err := a.wishlist.MoveAllToCart(cmd.Context(), a.cart); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Moved %d items, cart now holds %d\n", moved, a.cart.Count())
	return nil
}

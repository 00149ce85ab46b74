package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"BriteShop/internal/catalog"
	"BriteShop/internal/profile"
	"BriteShop/internal/shoppinglist"
)

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Print the anonymous profile id for this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id := a.profile.ProfileID(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, id)
			if profile.IsVolatile(id) {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: storage unavailable, this id will not survive a restart")
			}
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the shopping list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printList(cmd.OutOrStdout(), a.lists.List(cmd.Context()))
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var name string
	var price float64

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the list, or bump its quantity",
		Long: `Adds one unit of a product. The product snapshot is fetched from the catalog
unless --name is given, in which case no network call is made.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			meta := shoppinglist.ItemMeta{ProductID: id, Name: name}
			if cmd.Flags().Changed("price") {
				if name == "" {
					return errors.New("--price requires --name")
				}
				if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
					return fmt.Errorf("--price must be a non-negative number, got %v", price)
				}
				meta.EstimatedPrice = &price
			}
			if name == "" && !a.lists.Contains(ctx, id) {
				p, err := a.catalog.GetProduct(ctx, id)
				if err != nil {
					return fmt.Errorf("look up product %s: %w", id, err)
				}
				meta = shoppinglist.MetaFromProduct(p)
			}

			printList(cmd.OutOrStdout(), a.lists.Add(ctx, meta))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "product name, skips the catalog lookup")
	cmd.Flags().Float64Var(&price, "price", 0, "estimated price used with --name")
	return cmd
}

func newQtyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "qty <product-id> <quantity>",
		Short: "Set the quantity of a listed product; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity %q: %w", args[1], err)
			}
			printList(cmd.OutOrStdout(), a.lists.SetQuantity(cmd.Context(), args[0], n))
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <product-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a product from the list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printList(cmd.OutOrStdout(), a.lists.Remove(cmd.Context(), args[0]))
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the shopping list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printList(cmd.OutOrStdout(), a.lists.Clear(cmd.Context()))
			return nil
		},
	}
}

func newTotalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "Print the estimated total of the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			total := shoppinglist.Total(a.lists.List(cmd.Context()))
			fmt.Fprintln(cmd.OutOrStdout(), catalog.FormatPrice(&total, catalog.DefaultCurrency))
			return nil
		},
	}
}

func printList(w io.Writer, l shoppinglist.List) {
	if len(l) == 0 {
		fmt.Fprintln(w, "Your list is empty.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE")
	for _, it := range l {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			it.ProductID, it.Name, it.Quantity,
			catalog.FormatPrice(it.EstimatedPrice, catalog.DefaultCurrency))
	}
	_ = tw.Flush()

	total := shoppinglist.Total(l)
	fmt.Fprintf(w, "%d items, %d units, estimated %s\n",
		len(l), l.Units(), catalog.FormatPrice(&total, catalog.DefaultCurrency))
}

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"BriteShop/internal/catalog"
)

func newSearchCmd(a *app) *cobra.Command {
	var f catalog.Filters

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog",
		Long: `Searches products by name. With no query the filters alone are applied,
so "shopper search --category Dairy" browses a category.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			products, err := a.catalog.Search(cmd.Context(), query, f)
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.Category, "category", "", "category filter")
	cmd.Flags().StringVar(&f.Tag, "tag", "", "tag filter")
	cmd.Flags().StringVar(&f.StoreID, "store", "", "store id filter")
	cmd.Flags().IntVar(&f.Limit, "limit", 0, "maximum results")
	return cmd
}

func newProductCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "product <product-id>",
		Short: "Show a product with its per-store prices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			var p catalog.Product
			var prices []catalog.LocationPrice
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				p, err = a.catalog.GetProduct(ctx, id)
				return err
			})
			g.Go(func() error {
				var err error
				prices, err = a.catalog.ProductPrices(ctx, id)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			printProduct(cmd.OutOrStdout(), p, prices)
			return nil
		},
	}
}

func newStoresCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stores",
		Short: "List stores known to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stores, err := a.catalog.Stores(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRODUCTS")
			for _, s := range stores {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", s.StoreID, s.StoreName, s.ProductCount)
			}
			_ = tw.Flush()
			fmt.Fprintln(w, catalog.FormatStoreCount(len(stores)))
			return nil
		},
	}
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := a.catalog.Categories(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range cats {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func newSubmitCmd(a *app) *cobra.Command {
	var s catalog.ProductSubmission

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Contribute a product price to the catalog",
		Example: `  shopper submit --name "Grace Corned Beef" --store hilo --price 650 \
    --pack-qty 2 --size 340g`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := s.Payload()
			if err != nil {
				return err
			}

			resp, err := a.catalog.AddProduct(cmd.Context(), payload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (product %s at %s)\n", resp.Message, resp.ProductID, resp.StoreID)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&s.Name, "name", "", "product name")
	fl.StringVar(&s.StoreID, "store", "", "store id")
	fl.StringVar(&s.StoreName, "store-name", "", "store display name")
	fl.StringVar(&s.Price, "price", "", "price paid")
	fl.StringVar(&s.Currency, "currency", catalog.DefaultCurrency, "ISO currency code")
	fl.StringVar(&s.Brand, "brand", "", "brand")
	fl.StringVar(&s.Category, "category", "", "category")
	fl.StringVar(&s.SizeHint, "size", "", "size, e.g. 330ml")
	fl.StringVar(&s.PackQty, "pack-qty", "", "units per pack")
	fl.StringVar(&s.ImageURL, "image-url", "", "image URL")
	fl.StringVar(&s.URL, "url", "", "product page URL")
	return cmd
}

func printProducts(w io.Writer, products []catalog.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTORES")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			p.ID, p.Name,
			catalog.FormatPrice(p.EstimatedPrice, catalog.DefaultCurrency),
			catalog.FormatStoreCount(len(p.LocationPrices)))
	}
	_ = tw.Flush()
}

func printProduct(w io.Writer, p catalog.Product, prices []catalog.LocationPrice) {
	fmt.Fprintln(w, p.Name)
	if p.Brand != nil && *p.Brand != "" {
		fmt.Fprintf(w, "Brand: %s\n", *p.Brand)
	}
	if p.Category != nil && *p.Category != "" {
		fmt.Fprintf(w, "Category: %s\n", *p.Category)
	}
	fmt.Fprintf(w, "Estimated: %s\n", catalog.FormatPrice(p.EstimatedPrice, catalog.DefaultCurrency))
	fmt.Fprintf(w, "Available at %s\n", catalog.FormatStoreCount(len(prices)))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, lp := range prices {
		store := lp.LocationID
		if lp.StoreName != nil && *lp.StoreName != "" {
			store = *lp.StoreName
		}
		amount := lp.Amount
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", store, catalog.FormatPrice(&amount, lp.Currency), lp.LastSeenAt)
	}
	_ = tw.Flush()
}

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newProductsCmd(opts *options) *cobra.Command {
	productsCmd := &cobra.Command{
		Use:   "products",
		Short: "Inspect the catalog",
	}

	var oversold bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products with price and stock",
		Long: `List every product. Stock can be negative when more units were sold than
were available; --oversold shows only those products.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := opts.openStore(ctx, cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			products, err := store.ListProducts(ctx)
			if err != nil {
				return err
			}
			if oversold {
				kept := products[:0]
				for _, p := range products {
					if p.Quantity < 0 {
						kept = append(kept, p)
					}
				}
				products = kept
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), products)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tSTRIPE PRICE")
			for _, p := range products {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Price().StringFixed(2), p.Quantity, p.StripePriceID)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().BoolVar(&oversold, "oversold", false, "Only show products with negative stock")

	productsCmd.AddCommand(listCmd)
	return productsCmd
}

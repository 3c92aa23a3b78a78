package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

func newCartCmd(opts *options) *cobra.Command {
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect carts",
	}

	listCmd := &cobra.Command{
		Use:   "list EMAIL",
		Short: "Show the cart of the user with this email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := opts.openStore(ctx, cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			user, err := store.GetUserByEmail(ctx, args[0])
			if err != nil {
				return err
			}
			items, err := store.ListCart(ctx, user.ID)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), struct {
					UserID int64            `json:"userId"`
					Items  []model.CartItem `json:"items"`
					Total  string           `json:"total"`
				}{user.ID, items, model.CartTotal(items).StringFixed(2)})
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRODUCT\tNAME\tQTY\tSUBTOTAL")
			for _, it := range items {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", it.ProductID, it.Name, it.Quantity, it.Subtotal().StringFixed(2))
			}
			fmt.Fprintf(w, "\t\tTOTAL\t%s\n", model.CartTotal(items).StringFixed(2))
			return w.Flush()
		},
	}

	cartCmd.AddCommand(listCmd)
	return cartCmd
}

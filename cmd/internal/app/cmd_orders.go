package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newOrdersCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Track fulfillment of won auctions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newOrdersListCommand(a),
		newOrderActionCommand("pay", "Pay for a won auction", a.Client.Orders.Pay),
		newOrderActionCommand("ship", "Mark an order as shipped", a.Client.Orders.Ship),
		newOrderActionCommand("deliver", "Confirm delivery", a.Client.Orders.Deliver),
	)
	return cmd
}

func newOrdersListCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := a.Client.Orders.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tAUCTION\tAMOUNT\tSTATUS")
			for _, o := range orders {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", o.Key(), o.AuctionID, o.Amount, o.Status)
			}
			return tw.Flush()
		},
	}
}

func newOrderActionCommand(use, short string, action func(ctx context.Context, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <order-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := action(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %s: %s ok\n", args[0], use)
			return nil
		},
	}
}

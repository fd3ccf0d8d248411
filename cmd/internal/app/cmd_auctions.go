package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"curio/cmd/internal/api"
)

func newAuctionsCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auctions",
		Short: "Browse and run auctions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newAuctionsListCommand(a),
		newAuctionsCreateCommand(a),
		newAuctionsGetCommand(a),
		newAuctionsBidCommand(a),
	)
	return cmd
}

func newAuctionsListCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live auctions",
		RunE: func(cmd *cobra.Command, args []string) error {
			auctions, err := a.Client.Auctions.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tCURRENT BID\tSTATUS")
			for _, auc := range auctions {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", auc.Key(), auc.Title, auc.CurrentBid, auc.Status)
			}
			return tw.Flush()
		},
	}
}

func newAuctionsCreateCommand(a *App) *cobra.Command {
	var in api.CreateAuctionInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "List a collectible for auction",
		RunE: func(cmd *cobra.Command, args []string) error {
			auc, err := a.Client.Auctions.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created auction %s (%s) starting at %.2f\n", auc.Title, auc.Key(), auc.StartingBid)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Auction title")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description")
	cmd.Flags().StringVar(&in.Image, "image", "", "Image URL")
	cmd.Flags().StringVar(&in.CardID, "card", "", "Card to list")
	cmd.Flags().Float64Var(&in.StartingBid, "starting-bid", 0, "Starting bid")
	cmd.Flags().IntVar(&in.DurationMin, "duration", 0, "Duration in minutes")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("starting-bid")
	return cmd
}

func newAuctionsGetCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <auction-id>",
		Short: "Show one auction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auc, err := a.Client.Auctions.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", auc.Title, auc.Key())
			if auc.Description != "" {
				fmt.Fprintln(out, auc.Description)
			}
			fmt.Fprintf(out, "current bid: %.2f", auc.CurrentBid)
			if auc.HighestBidderID != "" {
				fmt.Fprintf(out, " (bidder %s)", auc.HighestBidderID)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func newAuctionsBidCommand(a *App) *cobra.Command {
	var amount float64

	cmd := &cobra.Command{
		Use:   "bid <auction-id>",
		Short: "Place a bid over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Client.Auctions.Bid(cmd.Context(), args[0], amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bid %.2f placed on %s\n", amount, args[0])
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Bid amount")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"curio/cmd/internal/views"
)

func newWatchCommand(a *App) *cobra.Command {
	var bid float64

	cmd := &cobra.Command{
		Use:   "watch <auction-id>",
		Short: "Follow an auction live, optionally placing a bid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.Session.Resume(ctx) == nil {
				return errors.New("not signed in")
			}

			auc, err := a.Client.Auctions.Get(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "watching %s, current bid %.2f\n", auc.Title, auc.CurrentBid)

			w := views.NewAuctionWatcher(a.Client, args[0], a.Log)
			if err := w.Start(ctx, a.Channel.Get()); err != nil {
				return err
			}
			defer w.Stop()

			if bid > 0 {
				if err := w.Bid(ctx, bid); err != nil {
					return err
				}
				fmt.Fprintf(out, "bid %.2f placed\n", bid)
			}

			for {
				select {
				case u := <-w.Updates():
					fmt.Fprintf(out, "bid %.2f by %s\n", u.CurrentBid, u.HighestBidderID)
				case e := <-w.Errors():
					fmt.Fprintf(out, "server error: %s\n", e.Message)
				case <-ctx.Done():
					return nil
				}
			}
		},
	}

	cmd.Flags().Float64Var(&bid, "bid", 0, "Place this bid after joining")
	return cmd
}

package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"curio/cmd/internal/api"
)

func newCardsCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage your collectible inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newCardsListCommand(a), newCardsAddCommand(a))
	return cmd
}

func newCardsListCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := a.Client.Cards.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSET\tGRADE")
			for _, c := range cards {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Key(), c.Name, c.SetName, c.Grade)
			}
			return tw.Flush()
		},
	}
}

func newCardsAddCommand(a *App) *cobra.Command {
	var in api.AddCardInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card to your inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.Client.Cards.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added card %s (%s)\n", c.Name, c.Key())
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Card name")
	cmd.Flags().StringVar(&in.SetName, "set", "", "Set name")
	cmd.Flags().StringVar(&in.Grade, "grade", "", "Grading label")
	cmd.Flags().StringVar(&in.Image, "image", "", "Image URL")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

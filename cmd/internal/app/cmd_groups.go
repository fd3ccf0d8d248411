package app

import (
	"fmt"
	"net/http"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"curio/cmd/internal/api"
)

func newGroupsCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Browse and join collector groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newGroupsListCommand(a),
		newGroupsCreateCommand(a),
		newGroupsJoinCommand(a),
	)
	return cmd
}

func newGroupsListCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := a.Client.Groups.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tMEMBERS")
			for _, g := range groups {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", g.Key(), g.Name, g.MemberCount)
			}
			return tw.Flush()
		},
	}
}

func newGroupsCreateCommand(a *App) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.Client.Groups.Create(cmd.Context(), api.CreateGroupInput{
				Name:        name,
				Description: description,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created group %s (%s)\n", g.Name, g.Key())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Group name")
	cmd.Flags().StringVar(&description, "description", "", "Group description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newGroupsJoinCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "join <group-id>",
		Short: "Join a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.Client.Groups.Join(cmd.Context(), args[0])
			// Already being a member is as good as joining.
			if err != nil && !api.IsStatus(err, http.StatusConflict) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "joined group %s\n", args[0])
			return nil
		},
	}
}

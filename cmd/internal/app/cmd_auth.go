package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"curio/cmd/internal/api"
)

func newLoginCommand(a *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Session.Login(cmd.Context(), email, password); err != nil {
				if msg := a.Session.LastError(); msg != "" {
					return errors.New(msg)
				}
				return err
			}
			u := a.Session.User()
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", u.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCommand(a *App) *cobra.Command {
	var username, email, password, plan string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Session.Register(cmd.Context(), username, email, password, plan); err != nil {
				if msg := a.Session.LastError(); msg != "" {
					return errors.New(msg)
				}
				return err
			}
			if u := a.Session.User(); u != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "registered and signed in as %s\n", u.Username)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "registered; run `curio login` to sign in")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Public username")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().StringVar(&plan, "plan", api.DefaultPlan, "Subscription plan")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and discard the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.Session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newWhoamiCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := a.Session.Resume(cmd.Context())
			if u == nil {
				return errors.New("not signed in")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> plan=%s id=%s\n", u.Username, u.Email, u.Plan, u.Key())
			return nil
		},
	}
}

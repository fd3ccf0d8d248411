package app

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"curio/cmd/internal/views"
)

func newChatCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <group-id>",
		Short: "Join a group chat; lines typed on stdin are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.Session.Resume(ctx) == nil {
				return errors.New("not signed in")
			}

			s := views.NewChatSession(a.Client, args[0], a.Log)
			out := cmd.OutOrStdout()

			history, err := s.History(ctx)
			if err != nil {
				return err
			}
			for _, m := range history {
				fmt.Fprintf(out, "[%s] %s\n", senderLabel(m.SenderName, m.SenderID), m.Content)
			}

			if err := s.Start(ctx, a.Channel.Get()); err != nil {
				return err
			}
			defer s.Stop()

			// stdin reader; a closed stdin just stops sending.
			lines := make(chan string)
			go func() {
				defer close(lines)
				sc := bufio.NewScanner(os.Stdin)
				for sc.Scan() {
					lines <- sc.Text()
				}
			}()

			for {
				select {
				case m := <-s.Messages():
					fmt.Fprintf(out, "[%s] %s\n", senderLabel(m.SenderName, m.SenderID), m.Content)
				case line, ok := <-lines:
					if !ok {
						<-ctx.Done()
						return nil
					}
					if strings.TrimSpace(line) == "" {
						continue
					}
					if _, err := s.Send(ctx, line, ""); err != nil {
						fmt.Fprintf(out, "send failed: %v\n", err)
					}
				case <-ctx.Done():
					return nil
				}
			}
		},
	}
}

func senderLabel(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

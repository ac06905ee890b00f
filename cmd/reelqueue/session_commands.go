package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelqueue/internal/ipc"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and control active playback sessions",
	}

	sessionsCmd.AddCommand(newSessionsListCommand(ctx))
	sessionsCmd.AddCommand(newSessionsStopCommand(ctx))

	return sessionsCmd
}

func newSessionsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show what is currently streaming",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Sessions()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(resp.Sessions) == 0 {
					fmt.Fprintln(out, "Nothing is currently streaming")
					return nil
				}
				rows := make([][]string, 0, len(resp.Sessions))
				for _, session := range resp.Sessions {
					title := session.Title
					if session.Show != "" {
						title = fmt.Sprintf("%s - %s", session.Show, session.Title)
					}
					rows = append(rows, []string{title, session.User, session.Player, session.State})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Title", "User", "Player", "State"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newSessionsStopCommand(ctx *commandContext) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "stop <title>",
		Short: "Stop the first session playing a title or show",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.StopSession(args[0], reason)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stopped session %q (user %s)\n",
					resp.Session.Title, resp.Session.User)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Message shown to the viewer")
	return cmd
}

func newResetConnectionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-connection",
		Short: "Bounce the server's remote publish preference",
		Long:  "Toggles the PublishServerOnPlexOnlineKey preference off and back on so remote clients re-resolve their connection to the server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.ResetConnection(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Connection reset; remote clients will re-resolve shortly")
				return nil
			})
		},
	}
}

package main

import (
	"fmt"
	"os/user"
	"strings"

	"github.com/spf13/cobra"

	"reelqueue/internal/ipc"
	"reelqueue/internal/requests"
)

func newRequestCommand(ctx *commandContext) *cobra.Command {
	requestCmd := &cobra.Command{
		Use:   "request",
		Short: "Submit and withdraw media requests",
	}

	requestCmd.AddCommand(newRequestAddCommand(ctx))
	requestCmd.AddCommand(newRequestRemoveCommand(ctx))

	return requestCmd
}

func newRequestAddCommand(ctx *commandContext) *cobra.Command {
	var requestor string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Request a title; it stays queued until it appears on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[0])
			name := strings.TrimSpace(requestor)
			if name == "" {
				name = currentUserName()
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Submit(name, title)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				switch requests.Disposition(resp.Disposition) {
				case requests.DispositionAdmitted:
					fmt.Fprintf(out, "Queued %q for %s\n", title, name)
				case requests.DispositionOnServer:
					fmt.Fprintf(out, "%q is already on the server\n", title)
				case requests.DispositionQueued:
					fmt.Fprintf(out, "%q is already in the request queue\n", title)
				default:
					fmt.Fprintf(out, "Unexpected outcome: %s\n", resp.Disposition)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&requestor, "requestor", "r", "", "Name recorded with the request (defaults to the current user)")
	return cmd
}

func newRequestRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <title>",
		Short: "Withdraw a queued request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[0])
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.Remove(title); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from the queue\n", title)
				return nil
			})
		},
	}
}

func currentUserName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}

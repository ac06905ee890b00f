package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"reelqueue/internal/ipc"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the request queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueReconcileCommand(ctx))
	queueCmd.AddCommand(newQueueExportCommand(ctx))
	queueCmd.AddCommand(newQueueImportCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show queued requests in submission order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.List()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(resp.Requests) == 0 {
					fmt.Fprintln(out, "The request queue is empty")
					return nil
				}
				rows := make([][]string, 0, len(resp.Requests))
				for i, entry := range resp.Requests {
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						entry.Title,
						entry.Requestor,
						formatRequestTime(entry.CreatedAt),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Title", "Requestor", "Requested"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every queued request",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Clear()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d request(s)\n", resp.Removed)
				return nil
			})
		},
	}
}

func newQueueReconcileCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Run a reconciliation pass immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Reconcile()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if resp.Resolved == nil {
					fmt.Fprintln(out, "No queued title is available yet")
					return nil
				}
				fmt.Fprintf(out, "%q is now available; %s has been notified\n",
					resp.Resolved.Title, resp.Resolved.Requestor)
				return nil
			})
		},
	}
}

func newQueueExportCommand(ctx *commandContext) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the queue snapshot to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SnapshotExport(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Snapshot written to %s\n", resp.Path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "Destination for the snapshot (defaults to the data directory)")
	return cmd
}

func newQueueImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Replace the queue contents from a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SnapshotImport(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %d request(s)\n", resp.Restored)
				return nil
			})
		},
	}
}

func formatRequestTime(value string) string {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return parsed.Local().Format("2006-01-02 15:04")
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reelqueue/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var showHealth bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and reconciler status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()

				rows := [][]string{
					{"Running", yesNo(resp.Running)},
					{"PID", strconv.Itoa(resp.PID)},
					{"Queued requests", strconv.Itoa(resp.QueuedCount)},
					{"Reconcile interval", fmt.Sprintf("%ds", resp.IntervalSeconds)},
					{"Requests resolved", strconv.Itoa(resp.Matched)},
					{"Notifications", yesNo(resp.NtfyConfigured)},
					{"Database", resp.DBPath},
					{"Snapshot", resp.SnapshotPath},
				}
				if resp.LastPass != "" {
					rows = append(rows, []string{"Last pass", formatRequestTime(resp.LastPass)})
				}
				if resp.LastError != "" {
					rows = append(rows, []string{"Last error", resp.LastError})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Field", "Value"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				))

				if !showHealth {
					return nil
				}
				health, err := client.DatabaseHealth()
				if err != nil {
					return err
				}
				healthRows := [][]string{
					{"Database exists", yesNo(health.DatabaseExists)},
					{"Database readable", yesNo(health.DatabaseReadable)},
					{"Schema version", strconv.Itoa(health.SchemaVersion)},
					{"Integrity check", yesNo(health.IntegrityCheck)},
					{"Total requests", strconv.Itoa(health.TotalRequests)},
				}
				if health.Error != "" {
					healthRows = append(healthRows, []string{"Error", health.Error})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Database", "Value"},
					healthRows,
					[]columnAlignment{alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showHealth, "health", false, "Include database diagnostics")
	return cmd
}

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the daemon's background processing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.Stop(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Daemon stopped")
				return nil
			})
		},
	}
}

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TestNotification()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				switch {
				case resp.Message != "":
					fmt.Fprintln(out, resp.Message)
				case resp.Sent:
					fmt.Fprintln(out, "Test notification sent")
				default:
					fmt.Fprintln(out, "Notification not sent")
				}
				return nil
			})
		},
	}
}

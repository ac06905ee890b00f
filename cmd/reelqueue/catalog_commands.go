package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reelqueue/internal/ipc"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search the server catalog by keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Search(args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(resp.Items) == 0 {
					fmt.Fprintf(out, "No catalog entries match %q\n", args[0])
					return nil
				}
				fmt.Fprintln(out, renderMediaTable(resp.Items))
				return nil
			})
		},
	}
}

func newSameDirectorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "same-director <title>",
		Short: "List movies sharing a director with the named title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SameDirector(args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Directed by %s:\n", resp.Director)
				if len(resp.Items) == 0 {
					fmt.Fprintln(out, "No other movies found")
					return nil
				}
				fmt.Fprintln(out, renderMediaTable(resp.Items))
				return nil
			})
		},
	}
}

func renderMediaTable(items []ipc.MediaEntry) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		year := ""
		if item.Year > 0 {
			year = strconv.Itoa(item.Year)
		}
		rows = append(rows, []string{item.Title, item.Kind, year, item.Section})
	}
	return renderTable(
		[]string{"Title", "Kind", "Year", "Section"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	)
}

/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/taxdesk/clientsearch/cmd"
	"github.com/taxdesk/clientsearch/internal/errors"
	"github.com/taxdesk/clientsearch/internal/storage"
)

const exportsCommandLong = `List CSV exports recorded in the export journal.

USAGE:
    clientsearch exports [OPTIONS]

OPTIONS:
    --limit <n>              Show at most N exports, newest first (default 20, 0 for all)
    --prune <duration>       Delete journal entries older than the duration (e.g. 720h)
    -h, --help               Show this help`

// NewExportsCmd creates the exports command. open is called after configuration
// has been loaded.
func NewExportsCmd(open func() storage.Journal, messages errors.ErrorHandler) *cobra.Command {
	if open == nil || messages == nil {
		panic("NewExportsCmd: dependencies cannot be nil")
	}

	var limit int
	var prune time.Duration

	exportsCmd := &cobra.Command{
		Use:   "exports",
		Short: "List recorded CSV exports",
		Long:  exportsCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("invalid limit: %d", limit)
			}
			journal := open()
			defer func() { _ = journal.Close() }()
			if storage.IsDisabled(journal) {
				messages.Warning("Export journal is disabled")
				return nil
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if prune > 0 {
				n, err := journal.PruneExports(ctx, time.Now().Add(-prune))
				if err != nil {
					return err
				}
				messages.Success(fmt.Sprintf("Pruned %d exports", n))
			}

			entries, err := journal.ListExports(ctx, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No exports recorded")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%-4d  %-14s  %-8s  %-3s  %6s rows  %s\n",
					e.ID, humanize.Time(e.CreatedAt), e.Screen, e.Category, humanize.Comma(int64(e.Rows)), e.Path)
			}
			return nil
		},
	}
	exportsCmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of exports to show")
	exportsCmd.Flags().DurationVar(&prune, "prune", 0, "Delete entries older than this duration")

	return exportsCmd
}

// exportsCmd represents the exports command
var exportsCmd = NewExportsCmd(openJournal, console)

func init() {
	cmd.RootCmd.AddCommand(exportsCmd)
}

/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/spf13/cobra"
	"github.com/taxdesk/clientsearch/cmd"
	"github.com/taxdesk/clientsearch/internal/tui/app"
)

type tuiRunner interface {
	CreateModel(settings app.Settings) (app.Model, error)
	RunProgram(model app.Model) error
}

const tuiCommandLong = `Interactive terminal UI for client and return search.

USAGE:
    clientsearch tui [OPTIONS]

OPTIONS:
    --screen <name>      clients or returns (default from config)
    --category <cat>     T1, T2 or T3 (default from config)

KEY BINDINGS:
    1/2/3, tab          Switch category
    /                   Search (applied after 500ms or on Enter)
    :                   Command mode
    f                   Filter panel (space toggle, a apply, x reset)
    o                   Cycle location
    x                   Reset all filters
    backspace           Remove the last filter chip
    n/p, [/]            Next/previous page
    h/l, s              Move sort column, cycle sort order
    Enter               Client details
    e                   Export the page to CSV
    r                   Refresh
    q                   Quit`

// NewTUICmd creates the tui command with explicit dependencies.
func NewTUICmd(client tuiRunner) *cobra.Command {
	if client == nil {
		panic("NewTUICmd: client dependency cannot be nil")
	}

	var target targetFlags

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal UI for searching records",
		Long:  tuiCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			screen, category, err := target.resolve(cmd)
			if err != nil {
				return err
			}
			model, err := client.CreateModel(app.Settings{Screen: screen, Category: category})
			if err != nil {
				return err
			}
			return client.RunProgram(model)
		},
	}
	registerTargetFlags(tuiCmd, &target)

	return tuiCmd
}

// tuiCmd represents the tui command
var tuiCmd = NewTUICmd(tuiClient)

func init() {
	cmd.RootCmd.AddCommand(tuiCmd)
}

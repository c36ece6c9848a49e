package main

import (
	"github.com/spf13/cobra"
	"github.com/taxdesk/clientsearch/internal/config"
	"github.com/taxdesk/clientsearch/internal/domain"
)

// targetFlags selects the screen and category a command works on.
type targetFlags struct {
	screen   string
	category string
}

func registerTargetFlags(cmd *cobra.Command, t *targetFlags) {
	cmd.Flags().StringVar(&t.screen, "screen", "", "Screen to search: clients or returns (default from config)")
	cmd.Flags().StringVar(&t.category, "category", "", "Category: T1, T2 or T3 (default from config)")
}

// resolve falls back to default_screen and default_category for flags that
// were not given.
func (t targetFlags) resolve(cmd *cobra.Command) (domain.Screen, domain.Category, error) {
	rawScreen := t.screen
	if !cmd.Flags().Changed("screen") {
		rawScreen = config.Get("default_screen", string(domain.ScreenClients))
	}
	screen, err := domain.ParseScreen(rawScreen)
	if err != nil {
		return "", "", err
	}

	rawCategory := t.category
	if !cmd.Flags().Changed("category") {
		rawCategory = config.Get("default_category", string(domain.DefaultCategory()))
	}
	category, err := domain.ParseCategory(rawCategory)
	if err != nil {
		return "", "", err
	}
	return screen, category, nil
}

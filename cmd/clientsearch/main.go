package main

import (
	"os"

	"github.com/taxdesk/clientsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

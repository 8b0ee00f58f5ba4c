package main

import (
	"os"

	"github.com/budgetcsv-dev/budgetcsv/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

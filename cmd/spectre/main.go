package main

import (
	"os"

	"github.com/inder1991/cluster-incident-agent/cmd/spectre/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

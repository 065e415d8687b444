// Package main is the entry point for the vaultconfig CLI.
package main

import (
	"os"

	"github.com/thoreinstein/vaultconfig/cmd/vaultconfig/commands"
)

func main() {
	os.Exit(commands.Execute())
}

package main

import (
	"github.com/quickepk/quickepk/cmd"

	// Subcommands register themselves with the root command via init().
	_ "github.com/quickepk/quickepk/cmd/cli"
	_ "github.com/quickepk/quickepk/cmd/server"
)

func main() {
	cmd.Execute()
}

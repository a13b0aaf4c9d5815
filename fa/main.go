// Command fa publishes the financial assets reports of a static site from
// its trading records.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/assets/cmd"
	"github.com/google/subcommands"
)

func main() {
	// answers shell completion requests, and exits, when invoked by the shell.
	cmd.Completion().Complete("fa")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

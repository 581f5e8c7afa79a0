// Command cpc is the company profile console.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"github.com/etnz/profiles/cmd"
)

func main() {
	// Values of the .env file never override the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("cannot load .env: %v", err)
	}

	name := path.Base(os.Args[0])
	// Answers the shell when it asks for completions (COMP_LINE is set) and
	// installs the completion when COMP_INSTALL=1.
	cmd.Completion(cmd.Commands).Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()

	if sub := flag.Arg(0); sub != "" && !registered(sub) {
		if found, code := cmd.RunExtension(sub, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func registered(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, c := range cmd.Commands {
		if c.Name() == name {
			return true
		}
	}
	return false
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"wallshift/internal/di"
	"wallshift/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "wallshift.yaml", "path to the configuration file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "mirror the log to stderr")
	flag.Parse()

	app, err := di.InitApp(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wallshift: %s\n", err)
		os.Exit(1)
	}
	defer app.Close()

	command := flag.Arg(0)
	var args []string
	if flag.NArg() > 1 {
		args = flag.Args()[1:]
	}

	if err = app.Run(context.Background(), command, args); err != nil {
		fmt.Fprintf(os.Stderr, "wallshift: %s\n", err)
		app.Close()
		os.Exit(1)
	}
}

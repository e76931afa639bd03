package main

import (
	"flag"
	"fmt"
)

var version = "dev"

func runVersion(a *app, args []string) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(a.stderr, "version takes no arguments")
		return 2
	}
	fmt.Fprintln(a.stdout, version)
	return 0
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/RowanDark/cipherlab/internal/history"
)

func runHistory(a *app, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.stderr, "usage: cipherctl history <list|search|stats|prune> ...")
		return 2
	}
	switch args[0] {
	case "list", "search":
		return runHistoryQuery(a, args[0], args[1:])
	case "stats":
		return runHistoryStats(a, args[1:])
	case "prune":
		return runHistoryPrune(a, args[1:])
	default:
		fmt.Fprintf(a.stderr, "unknown history command %q\n", args[0])
		return 2
	}
}

func runHistoryQuery(a *app, sub string, args []string) int {
	fs := flag.NewFlagSet("history "+sub, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	limit := fs.Int("limit", 20, "maximum number of entries (0 for all)")
	query := fs.String("q", "", "search query (e.g. op:hill outcome:error source:rpc)")
	jsonOut := fs.Bool("json", false, "print entries as JSON lines")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if sub == "search" && strings.TrimSpace(*query) == "" {
		*query = strings.Join(fs.Args(), " ")
	}

	j, err := a.openJournal()
	if err != nil {
		fmt.Fprintf(a.stderr, "open history: %v\n", err)
		return 1
	}
	defer j.Close()

	ctx := context.Background()
	var entries []history.Entry
	if strings.TrimSpace(*query) == "" {
		entries, err = j.List(ctx, *limit)
	} else {
		entries, err = j.Search(ctx, *query, *limit)
	}
	if err != nil {
		fmt.Fprintf(a.stderr, "%s history: %v\n", sub, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(a.stdout)
		for _, e := range entries {
			if err := enc.Encode(e); err != nil {
				fmt.Fprintf(a.stderr, "encode entry: %v\n", err)
				return 1
			}
		}
		return 0
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSOURCE\tOPERATION\tIN\tOUT\tOUTCOME")
	for _, e := range entries {
		outcome := e.Outcome
		if e.ErrorKind != "" {
			outcome += " (" + e.ErrorKind + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n", e.Timestamp.Local().Format(time.DateTime), e.Source, e.Operation, e.InputLen, e.OutputLen, outcome)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(a.stderr, "write output: %v\n", err)
		return 1
	}
	return 0
}

func runHistoryStats(a *app, args []string) int {
	fs := flag.NewFlagSet("history stats", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	j, err := a.openJournal()
	if err != nil {
		fmt.Fprintf(a.stderr, "open history: %v\n", err)
		return 1
	}
	defer j.Close()

	stats, err := j.Summarize(context.Background())
	if err != nil {
		fmt.Fprintf(a.stderr, "summarize history: %v\n", err)
		return 1
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPERATION\tOK\tERRORS")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", s.Operation, s.OK, s.Errors)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(a.stderr, "write output: %v\n", err)
		return 1
	}
	return 0
}

func runHistoryPrune(a *app, args []string) int {
	fs := flag.NewFlagSet("history prune", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	olderThan := fs.Duration("older-than", 30*24*time.Hour, "delete entries older than this")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *olderThan < 0 {
		fmt.Fprintln(a.stderr, "--older-than must not be negative")
		return 2
	}
	j, err := a.openJournal()
	if err != nil {
		fmt.Fprintf(a.stderr, "open history: %v\n", err)
		return 1
	}
	defer j.Close()

	n, err := j.Prune(context.Background(), time.Now().Add(-*olderThan))
	if err != nil {
		fmt.Fprintf(a.stderr, "prune history: %v\n", err)
		return 1
	}
	fmt.Fprintf(a.stdout, "pruned %d entries\n", n)
	return 0
}

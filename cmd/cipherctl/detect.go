package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/RowanDark/cipherlab/internal/cipher"
	"github.com/RowanDark/cipherlab/internal/rpc"
)

func runDetect(a *app, args []string) int {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	jsonOut := fs.Bool("json", false, "print a JSON result document")
	server := fs.String("server", "", "run detection on a cipherd instance at this address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	text, err := readText(fs.Args())
	if err != nil {
		fmt.Fprintf(a.stderr, "read input: %v\n", err)
		return 1
	}

	var results []cipher.DetectionResult
	if *server != "" {
		client, err := rpc.Dial(*server)
		if err != nil {
			return a.fail("detect", err)
		}
		defer client.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		results, err = client.Detect(ctx, text)
		if err != nil {
			return a.failKind("detect", rpc.KindFromStatus(err), err)
		}
	} else {
		results, err = cipher.NewClassicalDetector().Detect(context.Background(), []byte(text))
		if err != nil {
			return a.fail("detect", err)
		}
	}

	if *jsonOut {
		doc, err := detectionDocument(results)
		if err != nil {
			fmt.Fprintf(a.stderr, "encode result: %v\n", err)
			return 1
		}
		fmt.Fprintln(a.stdout, doc)
		return 0
	}
	if len(results) == 0 {
		fmt.Fprintln(a.stdout, "no cipher family matched")
		return 0
	}
	for _, r := range results {
		line := fmt.Sprintf("%-15s %.2f  try %s", r.Family, r.Confidence, r.Operation)
		if r.Period > 0 {
			line += fmt.Sprintf(" (period %d)", r.Period)
		}
		fmt.Fprintln(a.stdout, line)
		fmt.Fprintf(a.stdout, "    %s\n", r.Reasoning)
	}
	return 0
}

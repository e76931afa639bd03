package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/RowanDark/cipherlab/internal/cipher"
	"github.com/RowanDark/cipherlab/internal/rpc"
)

func runOps(a *app, args []string) int {
	fs := flag.NewFlagSet("ops", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	server := fs.String("server", "", "list the operations of a cipherd instance at this address")
	kind := fs.String("type", "", "only list encrypt or decrypt operations")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(a.stderr, "ops takes no arguments")
		return 2
	}
	if *kind != "" && *kind != string(cipher.OperationTypeEncrypt) && *kind != string(cipher.OperationTypeDecrypt) {
		fmt.Fprintf(a.stderr, "--type must be encrypt or decrypt, got %q\n", *kind)
		return 2
	}

	var infos []rpc.OperationInfo
	if *server != "" {
		client, err := rpc.Dial(*server)
		if err != nil {
			return a.fail("ops", err)
		}
		defer client.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		infos, err = client.ListOperations(ctx)
		if err != nil {
			return a.failKind("ops", rpc.KindFromStatus(err), err)
		}
	} else {
		for _, op := range cipher.ListOperations() {
			info := rpc.OperationInfo{Name: op.Name(), Type: string(op.Type()), Description: op.Description()}
			if rev, ok := op.Reverse(); ok {
				info.Inverse = rev.Name()
			}
			infos = append(infos, info)
		}
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tINVERSE\tDESCRIPTION")
	for _, info := range infos {
		if *kind != "" && info.Type != *kind {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Name, info.Type, info.Inverse, info.Description)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(a.stderr, "write output: %v\n", err)
		return 1
	}
	return 0
}

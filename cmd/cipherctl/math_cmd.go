package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/RowanDark/cipherlab/internal/logging"
	"github.com/RowanDark/cipherlab/internal/numtheory"
)

func runInverse(a *app, args []string) int {
	fs := flag.NewFlagSet("inverse", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	nums, err := parseInts(fs.Args(), 2)
	if err != nil {
		fmt.Fprintf(a.stderr, "usage: cipherctl inverse <a> <m>: %v\n", err)
		return 2
	}
	inv, err := numtheory.ModInverse(nums[0], nums[1])
	if err != nil {
		return a.fail("inverse", err)
	}
	fmt.Fprintln(a.stdout, inv)
	return 0
}

func runGCD(a *app, args []string) int {
	fs := flag.NewFlagSet("gcd", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	nums, err := parseInts(fs.Args(), 2)
	if err != nil {
		fmt.Fprintf(a.stderr, "usage: cipherctl gcd <a> <b>: %v\n", err)
		return 2
	}
	g, x, y := numtheory.ExtendedGCD(nums[0], nums[1])
	fmt.Fprintf(a.stdout, "gcd=%d x=%d y=%d\n", g, x, y)
	return 0
}

func runModExp(a *app, args []string) int {
	fs := flag.NewFlagSet("modexp", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	nums, err := parseInts(fs.Args(), 3)
	if err != nil {
		fmt.Fprintf(a.stderr, "usage: cipherctl modexp <base> <exp> <m>: %v\n", err)
		return 2
	}
	r, err := numtheory.ModExp(nums[0], nums[1], nums[2])
	if err != nil {
		return a.fail("modexp", err)
	}
	fmt.Fprintln(a.stdout, r)
	return 0
}

func runCRT(a *app, args []string) int {
	fs := flag.NewFlagSet("crt", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	moduliFlag := fs.String("moduli", "", "comma-separated moduli n_i")
	remaindersFlag := fs.String("remainders", "", "comma-separated remainders r_i")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	moduli, err := parseIntList(*moduliFlag)
	if err != nil {
		fmt.Fprintf(a.stderr, "--moduli: %v\n", err)
		return 2
	}
	remainders, err := parseIntList(*remaindersFlag)
	if err != nil {
		fmt.Fprintf(a.stderr, "--remainders: %v\n", err)
		return 2
	}

	res, err := numtheory.SolveCRT(moduli, remainders)
	if err != nil {
		return a.fail("crt", err)
	}
	if res.Warning != nil {
		fmt.Fprintf(a.stderr, "warning: %v\n", res.Warning)
		a.emit(logging.AuditEvent{
			EventType: logging.EventCRTWarning,
			Operation: "crt",
			Decision:  logging.DecisionInfo,
			Reason:    res.Warning.Error(),
		})
	}
	fmt.Fprintf(a.stdout, "x=%d modulus=%d lcm=%d\n", res.Solution, res.Modulus, res.LCM)
	return 0
}

func parseInts(args []string, want int) ([]int, error) {
	if len(args) != want {
		return nil, fmt.Errorf("expected %d integers, got %d", want, len(args))
	}
	out := make([]int, want)
	for i, arg := range args {
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", arg)
		}
		out[i] = n
	}
	return out, nil
}

func parseIntList(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("is required")
	}
	parts := strings.Split(raw, ",")
	return parseInts(parts, len(parts))
}

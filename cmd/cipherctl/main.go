package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/RowanDark/cipherlab/internal/cipher"
	"github.com/RowanDark/cipherlab/internal/config"
	"github.com/RowanDark/cipherlab/internal/env"
	"github.com/RowanDark/cipherlab/internal/history"
	"github.com/RowanDark/cipherlab/internal/logging"
)

// stdin is read when encrypt, decrypt or detect get no text arguments.
var stdin io.Reader = os.Stdin

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every subcommand needs.
type app struct {
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
	audit  *logging.AuditLogger
}

type command struct {
	run   func(a *app, args []string) int
	usage string
}

var commands = map[string]command{
	"encrypt": {runEncrypt, "encrypt a text with a cipher variant or saved recipe"},
	"decrypt": {runDecrypt, "decrypt a text with a cipher variant or saved recipe"},
	"ops":     {runOps, "list registered operations"},
	"inverse": {runInverse, "modular inverse of a mod m"},
	"crt":     {runCRT, "solve x ≡ r_i (mod n_i) by the Chinese remainder theorem"},
	"gcd":     {runGCD, "greatest common divisor with Bézout coefficients"},
	"modexp":  {runModExp, "modular exponentiation base^exp mod m"},
	"detect":  {runDetect, "guess which cipher family produced a ciphertext"},
	"recipe":  {runRecipe, "manage saved pipelines"},
	"history": {runHistory, "inspect the operation journal"},
	"version": {runVersion, "print the version"},
}

var commandOrder = []string{"encrypt", "decrypt", "ops", "inverse", "crt", "gcd", "modexp", "detect", "recipe", "history", "version"}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	if args[0] == "--version" || args[0] == "-version" {
		fmt.Fprintln(stdout, version)
		return 0
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}

	a, err := newApp(stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	defer a.audit.Close()
	return cmd.run(a, args[1:])
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: cipherctl <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].usage)
	}
}

func newApp(stdout, stderr io.Writer) (*app, error) {
	restore := env.SetLogger(slog.New(slog.NewTextHandler(stderr, nil)))
	defer restore()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(stderr, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	audit := logging.Discard("cipherctl")
	if cfg.AuditLog != "" {
		audit, err = logging.NewAuditLogger("cipherctl", logging.WithoutStdout(), logging.WithFile(cfg.AuditLog))
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
	}
	return &app{cfg: cfg, stdout: stdout, stderr: stderr, logger: logger, audit: audit}, nil
}

func (a *app) defaults() cipher.Defaults {
	return cipher.Defaults{Filler: a.cfg.FillerByte(), Rails: a.cfg.Cipher.Rails}
}

func (a *app) openJournal() (*history.Journal, error) {
	if a.cfg.HistoryPath == "" {
		return nil, errors.New("history is disabled: no history path configured")
	}
	return history.Open(a.cfg.HistoryPath, a.logger)
}

func (a *app) emit(event logging.AuditEvent) {
	if err := a.audit.Emit(event); err != nil {
		a.logger.Warn("audit log error", "error", err)
	}
}

// fail reports err and returns the exit code for its kind.
func (a *app) fail(prefix string, err error) int {
	return a.failKind(prefix, cipher.Classify(err), err)
}

// failKind returns 3 when the key or input was rejected, 2 for an unknown
// operation and 1 otherwise.
func (a *app) failKind(prefix, kind string, err error) int {
	fmt.Fprintf(a.stderr, "%s: %v\n", prefix, err)
	switch kind {
	case cipher.KindMalformedInput, cipher.KindNotInvertible:
		return 3
	case cipher.KindUnknownOperation:
		return 2
	default:
		return 1
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/RowanDark/cipherlab/internal/cipher"
	"github.com/RowanDark/cipherlab/internal/config"
	"github.com/RowanDark/cipherlab/internal/history"
	"github.com/RowanDark/cipherlab/internal/logging"
	obsmetrics "github.com/RowanDark/cipherlab/internal/observability/metrics"
	"github.com/RowanDark/cipherlab/internal/rpc"
)

var version = "dev"

type options struct {
	addr        string
	metricsAddr string
	historyPath string
	noHistory   bool
	defaults    cipher.Defaults
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

// realMain returns the process exit code so deferred cleanup runs before
// main exits.
func realMain(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("cipherd", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", cfg.ServerAddr, "address for the gRPC server to listen on")
	metricsAddr := fs.String("metrics-addr", cfg.MetricsAddr, "address for the Prometheus metrics endpoint (empty to disable)")
	historyPath := fs.String("history", cfg.HistoryPath, "path to the operation journal")
	noHistory := fs.Bool("no-history", false, "do not journal operations")
	showVersion := fs.Bool("version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, version)
		return 0
	}

	logger, err := logging.NewLogger(stderr, "json", cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	slog.SetDefault(logger)

	audit, err := newAuditLogger(cfg.AuditLog)
	if err != nil {
		fmt.Fprintf(stderr, "open audit log: %v\n", err)
		return 1
	}
	defer audit.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{
		addr:        strings.TrimSpace(*addr),
		metricsAddr: strings.TrimSpace(*metricsAddr),
		historyPath: strings.TrimSpace(*historyPath),
		noHistory:   *noHistory,
		defaults:    cipher.Defaults{Filler: cfg.FillerByte(), Rails: cfg.Cipher.Rails},
	}
	if err := run(ctx, opts, logger, audit); err != nil {
		logger.Error("cipherd stopped", "error", err)
		return 1
	}
	return 0
}

func newAuditLogger(path string) (*logging.AuditLogger, error) {
	opts := []logging.Option{}
	if path != "" {
		opts = append(opts, logging.WithoutStdout(), logging.WithFile(path))
	}
	return logging.NewAuditLogger("cipherd", opts...)
}

func run(ctx context.Context, opts options, logger *slog.Logger, audit *logging.AuditLogger) error {
	serverOpts := []rpc.ServerOption{
		rpc.WithLogger(logger),
		rpc.WithAuditLogger(audit),
		rpc.WithDefaults(opts.defaults),
	}
	if !opts.noHistory && opts.historyPath != "" {
		journal, err := history.Open(opts.historyPath, logger)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer journal.Close()
		serverOpts = append(serverOpts, rpc.WithJournal(journal))
	}

	if opts.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", obsmetrics.Handler())
		metricsSrv := &http.Server{Addr: opts.metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "address", opts.metricsAddr, "error", err)
			}
		}()
		logger.Info("metrics ready", "address", opts.metricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("metrics shutdown", "error", err)
			}
		}()
	}

	lis, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", opts.addr, err)
	}
	logger.Info("cipherd listening", "address", lis.Addr().String(), "version", version)
	return serve(ctx, lis, audit, serverOpts...)
}

// serve runs the Cipher service on lis until ctx is cancelled.
func serve(ctx context.Context, lis net.Listener, audit *logging.AuditLogger, serverOpts ...rpc.ServerOption) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(rpc.UnaryServerInterceptor(audit)))
	rpc.RegisterCipherServer(srv, rpc.NewServer(serverOpts...))

	go func() {
		<-ctx.Done()
		done := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			srv.Stop()
		}
	}()

	if err := srv.Serve(lis); err != nil {
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
	return nil
}

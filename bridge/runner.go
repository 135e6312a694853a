package bridge

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/mcprelay/mcprelay/client"
)

// Run parses flags, wires the pipeline and serves the stdio loop until EOF or
// a termination signal. A nil return means a clean shutdown (exit 0); any
// error is an unrecoverable startup failure.
func Run(args []string) error {
	options := &Options{}
	if _, err := flags.ParseArgs(options, args); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, closeLog, err := initLogger(options)
	if err != nil {
		return err
	}
	defer closeLog()

	var fileConfig *Config
	if options.ConfigURL != "" {
		if fileConfig, err = loadConfig(ctx, options.ConfigURL); err != nil {
			return err
		}
	}
	config := options.connectionConfig(fileConfig)

	clientOptions := []client.Option{client.WithLogger(logger)}
	if options.Pooled || (fileConfig != nil && fileConfig.PooledSessions) {
		clientOptions = append(clientOptions, client.WithLifecycle(client.LifecyclePooled))
	}
	// WithToken wraps the transport built from the lifecycle, so it goes last.
	token := options.Token
	if token == "" && fileConfig != nil {
		token = fileConfig.Token
	}
	if token != "" {
		clientOptions = append(clientOptions, client.WithToken(token))
	}
	transport, err := client.New(config, clientOptions...)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	logger.Info("bridge starting", slog.String("url", config.URL))
	service := New(transport, WithLogger(logger), WithRetryConfig(config))
	return service.Run(ctx, os.Stdin, os.Stdout)
}

// initLogger opens the diagnostics log file and builds a session scoped
// logger. Stdout carries protocol frames only, so everything else goes here.
func initLogger(options *Options) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if options.Verbose {
		level = slog.LevelDebug
	}
	if options.LogFile == "" {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return logger, func() {}, nil
	}
	lf, err := os.OpenFile(options.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o666)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open the log file: %w", err)
	}
	log.SetOutput(lf) // redirect the standard log to the file, panics land there
	logger := slog.New(slog.NewTextHandler(lf, &slog.HandlerOptions{Level: level})).
		With(slog.String("session", uuid.New().String()))
	return logger, func() { _ = lf.Close() }, nil
}

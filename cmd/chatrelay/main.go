package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"os/signal"
	"syscall"

	snaprelay "github.com/Atheer-Ganayem/SnapRelay"
	"github.com/Atheer-Ganayem/SnapRelay/logsink"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "failed to load .env:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func command() *cli.Command {
	return &cli.Command{
		Name:  "chatrelay",
		Usage: "WebSocket chat relay",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "0.0.0.0",
				Usage:   "address to listen on",
				Sources: cli.EnvVars("SNAPRELAY_HOST"),
			},
			&cli.StringFlag{
				Name:    "port",
				Value:   "8080",
				Usage:   "TCP port to listen on",
				Sources: cli.EnvVars("SNAPRELAY_PORT"),
			},
			&cli.StringFlag{
				Name:    "log-dir",
				Usage:   "directory for the activity and error logs, the console is used when empty",
				Sources: cli.EnvVars("SNAPRELAY_LOG_DIR"),
			},
			&cli.FloatFlag{
				Name:    "rate",
				Usage:   "user messages per second allowed for each connection, 0 disables limiting",
				Sources: cli.EnvVars("SNAPRELAY_RATE"),
			},
			&cli.BoolFlag{
				Name:    "reassemble",
				Usage:   "buffer partial reads until a whole request or frame is available",
				Sources: cli.EnvVars("SNAPRELAY_REASSEMBLE"),
			},
			&cli.DurationFlag{
				Name:    "write-wait",
				Usage:   "deadline for a single write to a peer",
				Sources: cli.EnvVars("SNAPRELAY_WRITE_WAIT"),
			},
			&cli.BoolFlag{
				Name:    "drop-slow",
				Usage:   "drop messages for peers that cannot keep up instead of disconnecting them",
				Sources: cli.EnvVars("SNAPRELAY_DROP_SLOW"),
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger, closer, err := openLogger(cmd.String("log-dir"))
	if err != nil {
		return fmt.Errorf("failed to open logs: %w", err)
	}
	defer closer.Close()

	opts := &snaprelay.Options{
		Logger:     logger,
		RateLimit:  cmd.Float("rate"),
		Reassemble: cmd.Bool("reassemble"),
		WriteWait:  cmd.Duration("write-wait"),
	}
	if cmd.Bool("drop-slow") {
		opts.BackpressureStrategy = snaprelay.BackpressureDrop
	}

	server := snaprelay.NewServer(opts)
	addr := net.JoinHostPort(cmd.String("host"), cmd.String("port"))

	return server.ListenAndServe(ctx, addr)
}

func openLogger(dir string) (*logsink.Sink, io.Closer, error) {
	if dir == "" {
		return logsink.Console(os.Stdout), io.NopCloser(nil), nil
	}

	return logsink.Open(dir)
}

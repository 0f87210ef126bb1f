package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

type inbound struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type outbound struct {
	Type string `json:"type"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func command() *cli.Command {
	return &cli.Command{
		Name:  "load-test",
		Usage: "connect many clients to a relay and count delivered messages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   "localhost:8080",
				Usage:   "relay address",
				Sources: cli.EnvVars("SNAPRELAY_ADDR"),
			},
			&cli.IntFlag{
				Name:    "clients",
				Value:   50,
				Usage:   "number of concurrent clients",
				Sources: cli.EnvVars("SNAPRELAY_LOAD_CLIENTS"),
			},
			&cli.IntFlag{
				Name:    "messages",
				Value:   20,
				Usage:   "user messages sent by each client",
				Sources: cli.EnvVars("SNAPRELAY_LOAD_MESSAGES"),
			},
			&cli.DurationFlag{
				Name:    "interval",
				Value:   10 * time.Millisecond,
				Usage:   "pause between two messages of a client",
				Sources: cli.EnvVars("SNAPRELAY_LOAD_INTERVAL"),
			},
			&cli.DurationFlag{
				Name:    "wait",
				Value:   5 * time.Second,
				Usage:   "how long to keep reading after the last message",
				Sources: cli.EnvVars("SNAPRELAY_LOAD_WAIT"),
			},
		},
		Action: run,
	}
}

type loadConfig struct {
	url      string
	clients  int
	messages int
	interval time.Duration
	wait     time.Duration
}

// expectedDeliveries is the number of user messages all clients receive
// together: every message is broadcast to every client, its sender included.
func expectedDeliveries(clients, messages int) int64 {
	return int64(clients) * int64(clients) * int64(messages)
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	u := url.URL{Scheme: "ws", Host: cmd.String("addr"), Path: "/"}
	cfg := loadConfig{
		url:      u.String(),
		clients:  cmd.Int("clients"),
		messages: cmd.Int("messages"),
		interval: cmd.Duration("interval"),
		wait:     cmd.Duration("wait"),
	}

	received, failed, elapsed := load(ctx, logger, cfg)

	logger.Info().
		Int("clients", cfg.clients).
		Int64("failed", failed).
		Int64("received", received).
		Int64("expected", expectedDeliveries(cfg.clients, cfg.messages)).
		Dur("elapsed", elapsed).
		Msg("load test finished")

	return nil
}

func load(ctx context.Context, logger zerolog.Logger, cfg loadConfig) (received, failed int64, elapsed time.Duration) {
	var receivedN, failedN atomic.Int64
	var joined sync.WaitGroup
	var done sync.WaitGroup
	start := make(chan struct{})

	for i := range cfg.clients {
		joined.Add(1)
		done.Add(1)
		go func() {
			defer done.Done()

			conn, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.url, nil)
			if err != nil {
				failedN.Add(1)
				joined.Done()
				logger.Error().Err(err).Int("client", i).Msg("failed to dial")
				return
			}
			defer conn.Close()

			name := fmt.Sprintf("client-%d", i)
			if err := conn.WriteJSON(inbound{Type: "login", Content: name}); err != nil {
				failedN.Add(1)
				joined.Done()
				return
			}
			joined.Done()

			go func() {
				for {
					_, data, err := conn.ReadMessage()
					if err != nil {
						return
					}
					var msg outbound
					if json.Unmarshal(data, &msg) == nil && msg.Type == "user" {
						receivedN.Add(1)
					}
				}
			}()

			<-start
			for j := range cfg.messages {
				err := conn.WriteJSON(inbound{Type: "user", Content: fmt.Sprintf("%s message %d", name, j)})
				if err != nil {
					failedN.Add(1)
					return
				}
				time.Sleep(cfg.interval)
			}

			time.Sleep(cfg.wait)
			_ = conn.WriteJSON(inbound{Type: "logout", Content: name})
		}()
	}

	joined.Wait()
	began := time.Now()
	close(start)
	done.Wait()

	return receivedN.Load(), failedN.Load(), time.Since(began) - cfg.wait
}

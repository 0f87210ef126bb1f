package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

var errEmptyName = errors.New("name cannot be empty")

type inbound struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type outbound struct {
	Type     string   `json:"type"`
	From     string   `json:"from"`
	Content  string   `json:"content"`
	UserList []string `json:"user_list"`
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
		Name:  "client",
		Usage: "interactive chat client for a relay",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   "localhost:8080",
				Usage:   "relay address",
				Sources: cli.EnvVars("SNAPRELAY_ADDR"),
			},
			&cli.StringFlag{
				Name:    "name",
				Usage:   "display name",
				Sources: cli.EnvVars("SNAPRELAY_NAME"),
			},
		},
		Action: run,
	}
}

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
}

func run(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.String("name"))
	if name == "" {
		return errEmptyName
	}
	logger := newLogger(os.Stderr)

	u := url.URL{Scheme: "ws", Host: cmd.String("addr"), Path: "/"}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", u.String(), err)
	}
	defer conn.Close()

	go func() {
		if err := printMessages(conn, os.Stdout); err != nil {
			logger.Info().Err(err).Msg("connection closed")
		}
		os.Exit(0)
	}()

	if err := conn.WriteJSON(inbound{Type: "login", Content: name}); err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := conn.WriteJSON(inbound{Type: "user", Content: line}); err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
	}

	return conn.WriteJSON(inbound{Type: "logout", Content: name})
}

func printMessages(conn *websocket.Conn, w io.Writer) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		printMessage(w, data)
	}
}

func printMessage(w io.Writer, data []byte) {
	var msg outbound
	if err := json.Unmarshal(data, &msg); err != nil {
		fmt.Fprintln(w, string(data))
		return
	}

	switch msg.Type {
	case "login":
		fmt.Fprintf(w, "* %s joined (%s)\n", msg.Content, strings.Join(msg.UserList, ", "))
	case "logout":
		fmt.Fprintf(w, "* %s left (%s)\n", msg.Content, strings.Join(msg.UserList, ", "))
	case "user":
		fmt.Fprintf(w, "%s: %s\n", msg.From, msg.Content)
	}
}

// Package logsink is the audit log of a relay server: an activity channel for
// connection lifecycle records and an error channel for failures, both
// written as timestamped JSON lines.
package logsink

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// EventKey is the field holding the record's event name.
const EventKey = "event"

const (
	EventServerStart       = "server_start"
	EventServerStop        = "server_stop"
	EventConnect           = "connect"
	EventDisconnect        = "disconnect"
	EventHandshake         = "handshake"
	EventAcceptFailed      = "accept_failed"
	EventHandshakeRejected = "handshake_rejected"
	EventPollFailed        = "poll_failed"
	EventPayloadDropped    = "payload_dropped"
	EventRateLimited       = "rate_limited"
)

const (
	ActivityFile = "snaprelay_log.log"
	ErrorFile    = "snaprelay_error.log"
)

type Sink struct {
	activity zerolog.Logger
	errors   zerolog.Logger
}

func New(activity, errs io.Writer) *Sink {
	return &Sink{
		activity: zerolog.New(activity).With().Timestamp().Logger(),
		errors:   zerolog.New(errs).With().Timestamp().Logger(),
	}
}

// Console writes both channels in human readable form to w.
func Console(w io.Writer) *Sink {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	return New(cw, cw)
}

// Nop discards every record.
func Nop() *Sink {
	return &Sink{activity: zerolog.Nop(), errors: zerolog.Nop()}
}

// Open appends the two channels to ActivityFile and ErrorFile in dir.
// The returned closer closes both files.
func Open(dir string) (*Sink, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}

	activity, err := openAppend(filepath.Join(dir, ActivityFile))
	if err != nil {
		return nil, nil, err
	}
	errs, err := openAppend(filepath.Join(dir, ErrorFile))
	if err != nil {
		activity.Close()
		return nil, nil, err
	}

	return New(activity, errs), files{activity, errs}, nil
}

// Record starts an activity record for event. Callers add fields and Send it.
func (s *Sink) Record(event string) *zerolog.Event {
	return s.activity.Info().Str(EventKey, event)
}

// Fault starts an error record for event.
func (s *Sink) Fault(event string, err error) *zerolog.Event {
	return s.errors.Error().Err(err).Str(EventKey, event)
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

type files []*os.File

func (fs files) Close() error {
	var errs []error
	for _, f := range fs {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}

package logsink

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(b, &rec))
	return rec
}

func TestRecordAndFaultUseSeparateChannels(t *testing.T) {
	var activity, errs bytes.Buffer
	sink := New(&activity, &errs)

	sink.Record(EventConnect).Str("conn", "c1").Send()
	sink.Fault(EventPayloadDropped, errors.New("bad json")).Str("conn", "c1").Send()

	rec := decode(t, activity.Bytes())
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, EventConnect, rec[EventKey])
	assert.Equal(t, "c1", rec["conn"])
	assert.Contains(t, rec, "time")

	rec = decode(t, errs.Bytes())
	assert.Equal(t, "error", rec["level"])
	assert.Equal(t, EventPayloadDropped, rec[EventKey])
	assert.Equal(t, "bad json", rec["error"])
}

func TestNop(t *testing.T) {
	sink := Nop()
	assert.NotPanics(t, func() {
		sink.Record(EventConnect).Send()
		sink.Fault(EventAcceptFailed, errors.New("x")).Send()
	})
}

func TestConsole(t *testing.T) {
	var out bytes.Buffer
	Console(&out).Record(EventServerStart).Str("addr", "0.0.0.0:8080").Send()

	assert.Contains(t, out.String(), EventServerStart)
	assert.Contains(t, out.String(), "0.0.0.0:8080")
}

func TestOpenAppends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	for range 2 {
		sink, closer, err := Open(dir)
		require.NoError(t, err)
		sink.Record(EventServerStart).Send()
		sink.Fault(EventPollFailed, errors.New("gone")).Send()
		require.NoError(t, closer.Close())
	}

	activity, err := os.ReadFile(filepath.Join(dir, ActivityFile))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(activity), EventServerStart))
	assert.NotContains(t, string(activity), EventPollFailed)

	errs, err := os.ReadFile(filepath.Join(dir, ErrorFile))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(errs), EventPollFailed))
}

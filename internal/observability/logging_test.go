package observability_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbviz/histograms/internal/observability"
)

func TestNewTags(t *testing.T) {
	testCases := []struct {
		name   string
		input  []any
		expect observability.Tags
	}{
		{
			name:   "Tags from slog.Attr",
			input:  []any{slog.Attr{Key: "key1", Value: slog.Int64Value(123)}},
			expect: observability.Tags{"key1": "123"},
		},
		{
			name:   "Tags from string and int",
			input:  []any{"key2", 456},
			expect: observability.Tags{"key2": "456"},
		},
		{
			name:   "Tags from slog.Attr and incomplete pair",
			input:  []any{slog.Attr{Key: "key6", Value: slog.Int64Value(123)}, "key7"},
			expect: observability.Tags{"key6": "123"},
		},
		{
			name:   "Tags from empty input",
			input:  []any{},
			expect: observability.Tags{},
		},
		{
			name: "Other types are skipped",
			input: []any{
				map[string]string{"key9": "value9"},
				"key10",
				10,
			},
			expect: observability.Tags{"key10": "10"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, observability.NewTags(tc.input...))
		})
	}
}

func TestNewNoOpLogger(t *testing.T) {
	logger := observability.NewNoOpLogger()

	assert.NotNil(t, logger.Logger)
	assert.Equal(t, observability.Tags{}, logger.GetTags())

	// Capturing without Sentry only logs.
	logger.CaptureError(errors.New("test error"))
	logger.CaptureWarn("test warning")
	logger.Flush()
}

func TestCaptureErrorLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewCoreLogger(
		slog.New(slog.NewJSONHandler(&buf, nil)),
		&observability.CoreLoggerParams{
			Tags: observability.Tags{"series": "train/weights"},
		},
	)

	logger.CaptureError(errors.New("bad histogram"), "step", 3)

	assert.Contains(t, buf.String(), `"msg":"bad histogram"`)
	assert.Contains(t, buf.String(), `"series":"train/weights"`)
	assert.Contains(t, buf.String(), `"step":3`)
}

// sentryRecorder returns a hub whose events are recorded instead of sent.
func sentryRecorder(t *testing.T) (*sentry.Hub, *[]*sentry.Event) {
	t.Helper()

	var events []*sentry.Event
	hub, err := observability.NewSentryHub(observability.SentryParams{
		DSN: "https://public@sentry.example.com/1",
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			events = append(events, event)
			return nil
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hub)

	return hub, &events
}

func TestCaptureErrorSendsToSentry(t *testing.T) {
	hub, events := sentryRecorder(t)
	logger := observability.NewCoreLogger(
		slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)),
		&observability.CoreLoggerParams{
			Sentry: hub,
			Tags:   observability.Tags{"command": "normalize"},
		},
	)

	logger.CaptureError(errors.New("bad histogram"), "tag", "weights")

	require.Len(t, *events, 1)
	assert.Equal(t, "normalize", (*events)[0].Tags["command"])
	assert.Equal(t, "weights", (*events)[0].Tags["tag"])
}

func TestCaptureIsRateLimited(t *testing.T) {
	hub, events := sentryRecorder(t)
	rateLimiter, err := observability.NewCaptureRateLimiter(8, time.Hour)
	require.NoError(t, err)
	logger := observability.NewCoreLogger(
		slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)),
		&observability.CoreLoggerParams{
			Sentry:      hub,
			RateLimiter: rateLimiter,
		},
	)

	logger.CaptureWarn("same message")
	logger.CaptureWarn("same message")
	logger.CaptureWarn("other message")

	assert.Len(t, *events, 2)
}

func TestNewSentryHub_NoDSN(t *testing.T) {
	hub, err := observability.NewSentryHub(observability.SentryParams{})

	assert.NoError(t, err)
	assert.Nil(t, hub)
}

func TestWithKeepsTags(t *testing.T) {
	logger := observability.NewCoreLogger(
		slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)),
		&observability.CoreLoggerParams{Tags: observability.Tags{"a": "b"}},
	)

	assert.Equal(t, observability.Tags{"a": "b"}, logger.With("c", "d").GetTags())
}

package observability

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

const flushTimeout = 2 * time.Second

type SentryParams struct {
	// DSN is the Sentry project to report to.
	//
	// If empty, no hub is created.
	DSN string

	// Release is the version of the application.
	Release string

	// Environment is the environment the application is running in.
	Environment string

	// BeforeSend is an optional callback to modify or drop events.
	BeforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event
}

// NewSentryHub returns a hub reporting to the configured DSN.
//
// Returns nil without error if no DSN is configured.
func NewSentryHub(params SentryParams) (*sentry.Hub, error) {
	if params.DSN == "" {
		return nil, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              params.DSN,
		AttachStacktrace: true,
		Release:          params.Release,
		Environment:      params.Environment,
		BeforeSend:       params.BeforeSend,
	})
	if err != nil {
		return nil, fmt.Errorf("observability: failed to create sentry client: %v", err)
	}

	return sentry.NewHub(client, sentry.NewScope()), nil
}

package config

import (
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wathbahs/muraji/pkg/adapter/docstore"
)

type DocStore struct {
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	pollTimeout  time.Duration
}

func (x *DocStore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "docstore-url",
			Usage:       "Document store base URL",
			Category:    "DocumentStore",
			Sources:     cli.EnvVars("MURAJI_DOCSTORE_URL"),
			Destination: &x.baseURL,
		},
		&cli.StringFlag{
			Name:        "docstore-api-key",
			Usage:       "Document store API key",
			Category:    "DocumentStore",
			Sources:     cli.EnvVars("MURAJI_DOCSTORE_API_KEY"),
			Destination: &x.apiKey,
		},
		&cli.DurationFlag{
			Name:        "docstore-poll-interval",
			Usage:       "Polling interval while waiting for document indexing",
			Category:    "DocumentStore",
			Sources:     cli.EnvVars("MURAJI_DOCSTORE_POLL_INTERVAL"),
			Value:       2 * time.Second,
			Destination: &x.pollInterval,
		},
		&cli.DurationFlag{
			Name:        "docstore-poll-timeout",
			Usage:       "Maximum wait for document indexing before returning a processing status",
			Category:    "DocumentStore",
			Sources:     cli.EnvVars("MURAJI_DOCSTORE_POLL_TIMEOUT"),
			Value:       30 * time.Second,
			Destination: &x.pollTimeout,
		},
	}
}

func (x DocStore) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", x.baseURL),
		slog.String("secret_api_key", x.apiKey),
		slog.Duration("poll_interval", x.pollInterval),
		slog.Duration("poll_timeout", x.pollTimeout),
	)
}

func (x *DocStore) IsConfigured() bool {
	return x.baseURL != ""
}

func (x *DocStore) Configure() (*docstore.Client, error) {
	return docstore.New(x.baseURL, x.apiKey,
		docstore.WithPollInterval(x.pollInterval),
		docstore.WithPollTimeout(x.pollTimeout),
	)
}

package config

import (
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/wathbahs/muraji/pkg/utils/logging"
)

type Sentry struct {
	dsn string
	env string
}

func (x *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting",
			Category:    "Sentry",
			Sources:     cli.EnvVars("MURAJI_SENTRY_DSN"),
			Destination: &x.dsn,
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Deployment environment reported to Sentry",
			Category:    "Sentry",
			Sources:     cli.EnvVars("MURAJI_SENTRY_ENV"),
			Destination: &x.env,
		},
	}
}

func (x Sentry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", x.dsn != ""),
		slog.String("env", x.env),
	)
}

// Configure initializes the Sentry client. Without a DSN error reporting is
// disabled and only a warning is logged.
func (x *Sentry) Configure() error {
	if x.dsn == "" {
		logging.Default().Warn("Sentry DSN is not set, error reporting disabled")
		return nil
	}

	opts := sentry.ClientOptions{
		Dsn:         x.dsn,
		Environment: x.env,
	}
	if err := sentry.Init(opts); err != nil {
		return goerr.Wrap(err, "failed to initialize sentry")
	}
	return nil
}

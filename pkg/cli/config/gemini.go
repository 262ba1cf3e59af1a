package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/wathbahs/muraji/pkg/adapter/gemini"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
)

type Gemini struct {
	apiKey    string
	projectID string
	location  string
	model     string
}

func (x *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key (uses the Gemini API backend)",
			Category:    "Gemini",
			Sources:     cli.EnvVars("MURAJI_GEMINI_API_KEY"),
			Destination: &x.apiKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project-id",
			Usage:       "Google Cloud project ID (uses the Vertex AI backend with ADC)",
			Category:    "Gemini",
			Sources:     cli.EnvVars("MURAJI_GEMINI_PROJECT_ID"),
			Destination: &x.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Vertex AI location",
			Category:    "Gemini",
			Sources:     cli.EnvVars("MURAJI_GEMINI_LOCATION"),
			Value:       "us-central1",
			Destination: &x.location,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name",
			Category:    "Gemini",
			Sources:     cli.EnvVars("MURAJI_GEMINI_MODEL"),
			Value:       gemini.DefaultModel,
			Destination: &x.model,
		},
	}
}

func (x Gemini) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("secret_api_key", x.apiKey),
		slog.String("project_id", x.projectID),
		slog.String("location", x.location),
		slog.String("model", x.model),
	)
}

func (x *Gemini) IsConfigured() bool {
	return x.apiKey != "" || x.projectID != ""
}

func (x *Gemini) Configure(ctx context.Context) (*gemini.Client, error) {
	switch {
	case x.apiKey != "":
		return gemini.New(ctx, x.apiKey, gemini.WithModel(x.model))
	case x.projectID != "":
		return gemini.NewVertex(ctx, x.projectID, x.location, gemini.WithModel(x.model))
	default:
		return nil, goerr.Wrap(errs.ErrLLMNotConfigured,
			"either --gemini-api-key or --gemini-project-id is required")
	}
}

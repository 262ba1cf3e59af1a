package config

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/wathbahs/muraji/pkg/repository/firestore"
)

type Firestore struct {
	projectID  string
	databaseID string
}

func (x *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore project ID",
			Destination: &x.projectID,
			Category:    "Firestore",
			Sources:     cli.EnvVars("MURAJI_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID",
			Destination: &x.databaseID,
			Category:    "Firestore",
			Sources:     cli.EnvVars("MURAJI_FIRESTORE_DATABASE_ID"),
			Value:       "(default)",
		},
	}
}

func (x Firestore) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project_id", x.projectID),
		slog.String("database_id", x.databaseID),
	)
}

func (x *Firestore) Configure(ctx context.Context) (*firestore.Client, error) {
	return firestore.New(ctx, x.projectID, x.databaseID)
}

// IsConfigured returns true when a Firestore project is set; otherwise the
// server falls back to the in-memory repository.
func (x *Firestore) IsConfigured() bool {
	return x.projectID != ""
}

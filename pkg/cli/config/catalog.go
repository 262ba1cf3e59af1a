package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/wathbahs/muraji/pkg/service/catalog"
)

type Catalog struct {
	dir string
}

func (x *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog-dir",
			Usage:       "Directory of framework library YAML files",
			Category:    "Catalog",
			Sources:     cli.EnvVars("MURAJI_CATALOG_DIR"),
			Destination: &x.dir,
		},
	}
}

func (x Catalog) LogValue() slog.Value {
	return slog.GroupValue(slog.String("dir", x.dir))
}

func (x *Catalog) Configure() (*catalog.Catalog, error) {
	return catalog.Load(x.dir)
}

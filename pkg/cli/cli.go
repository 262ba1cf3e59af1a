package cli

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/wathbahs/muraji/pkg/cli/config"
	"github.com/wathbahs/muraji/pkg/utils/logging"
)

func Run(ctx context.Context, args []string) error {
	var loggerCfg config.Logger
	var closer func()
	app := &cli.Command{
		Name:  "muraji",
		Usage: "compliance audit assistant backend",
		Flags: loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Info("base options", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdAnalyze(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}

func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, flag := range flags {
		result = append(result, flag...)
	}
	return result
}

package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/wathbahs/muraji/pkg/cli/config"
	server "github.com/wathbahs/muraji/pkg/controller/http"
	"github.com/wathbahs/muraji/pkg/domain/interfaces"
	"github.com/wathbahs/muraji/pkg/repository/memory"
	"github.com/wathbahs/muraji/pkg/usecase"
	"github.com/wathbahs/muraji/pkg/utils/logging"
	"github.com/wathbahs/muraji/pkg/utils/safe"
)

func cmdServe() *cli.Command {
	var (
		addr         string
		staticDir    string
		geminiCfg    config.Gemini
		firestoreCfg config.Firestore
		docStoreCfg  config.DocStore
		sentryCfg    config.Sentry
		catalogCfg   config.Catalog
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Aliases:     []string{"a"},
				Sources:     cli.EnvVars("MURAJI_ADDR"),
				Usage:       "Listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "static-dir",
				Sources:     cli.EnvVars("MURAJI_STATIC_DIR"),
				Usage:       "Serve front-end assets from this directory",
				Destination: &staticDir,
			},
		},
		geminiCfg.Flags(),
		firestoreCfg.Flags(),
		docStoreCfg.Flags(),
		sentryCfg.Flags(),
		catalogCfg.Flags(),
	)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the API server",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := logging.From(ctx)
			logger.Info("starting server",
				"addr", addr,
				"gemini", geminiCfg,
				"firestore", firestoreCfg,
				"docstore", docStoreCfg,
				"sentry", sentryCfg,
				"catalog", catalogCfg,
			)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}

			var repo interfaces.Repository
			if firestoreCfg.IsConfigured() {
				fs, err := firestoreCfg.Configure(ctx)
				if err != nil {
					return err
				}
				repo = fs
			} else {
				logger.Warn("Firestore is not configured, sessions will not survive restarts")
				repo = memory.New()
			}
			defer safe.Close(ctx, repo)

			ucOptions := []usecase.Option{
				usecase.WithRepository(repo),
			}

			if geminiCfg.IsConfigured() {
				llm, err := geminiCfg.Configure(ctx)
				if err != nil {
					return err
				}
				ucOptions = append(ucOptions, usecase.WithLanguageModel(llm))
			} else {
				logger.Warn("Gemini is not configured, chat and analyze endpoints will be unavailable")
			}

			if docStoreCfg.IsConfigured() {
				store, err := docStoreCfg.Configure()
				if err != nil {
					return err
				}
				ucOptions = append(ucOptions, usecase.WithDocumentStore(store))
			}

			cat, err := catalogCfg.Configure()
			if err != nil {
				return err
			}
			ucOptions = append(ucOptions, usecase.WithCatalog(cat))

			uc := usecase.New(ucOptions...)

			serverOptions := []server.Options{}
			if staticDir != "" {
				serverOptions = append(serverOptions, server.WithStaticDir(staticDir))
			}

			httpServer := http.Server{
				Addr:              addr,
				Handler:           server.New(uc, serverOptions...),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to listen and serve")
				}
			}()

			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				return err
			case <-sigCtx.Done():
				logger.Info("shutting down server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server")
				}
			}

			return nil
		},
	}
}

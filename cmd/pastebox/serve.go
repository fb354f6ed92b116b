package main

import (
	"context"
	"errors"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pastebox/docs"
	handlers "pastebox/internal/http/handler"
	"pastebox/internal/http/middleware"
	"pastebox/internal/otel"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service, the watcher and the periodic sweep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	if _, err := a.reconciler.BackfillSizes(ctx); err != nil {
		log.Warn().Err(err).Msg("file size backfill failed")
	}
	root, err := a.locator.EnsureRoot(ctx)
	if err != nil {
		return err
	}
	if err := a.watcher.Start(root); err != nil {
		return err
	}
	if n, err := a.reconciler.Sweep(ctx); err != nil {
		log.Warn().Err(err).Msg("startup sweep failed")
	} else if n > 0 {
		log.Info().Int("removed", n).Msg("startup sweep removed records with missing files")
	}

	server, err := newServer(a)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + a.cfg.Port
		log.Info().Str("addr", addr).Str("root", root).Msg("listening")
		return server.Listen(addr)
	})
	g.Go(func() error {
		return a.reconciler.Run(gctx, a.cfg.Storage.SweepInterval())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		return server.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newServer(a *app) (*fiber.App, error) {
	server := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
		BodyLimit:             a.cfg.Storage.BodyLimit(),
		StreamRequestBody:     true,
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(a.registry)
	if err != nil {
		return nil, err
	}

	server.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics"
	})))
	server.Use(middleware.RequestID())
	server.Use(middleware.Logger())
	server.Use(promMiddleware.Handler())

	server.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	handlers.RegisterRoutes(server, a.db, a.services)

	// Swagger UI with dynamic host and scheme
	server.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	return server, nil
}

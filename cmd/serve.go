package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-sync/core/loader"
	"catalog-sync/core/logger"
	"catalog-sync/core/middleware/auth"
	"catalog-sync/core/middleware/rayid"
	syncFeature "catalog-sync/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	_ "catalog-sync/docs/swagger"
)

// @title Catalog Sync API
// @version 1.0
// @description Control plane for the course catalog to HubDB synchronizer.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the control plane server",
	Long:  `Starts the HTTP server to trigger runs, read the last run report and expose metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(contextOrBackground(cmd))
		if err != nil {
			return err
		}
		defer rt.logger.Sync()
		zap.ReplaceGlobals(rt.logger)

		if err := rt.cfg.Server.Validate(); err != nil {
			return err
		}

		app, err := newApp(rt)
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			rt.logger.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			errCh <- app.Listen(rt.cfg.Server.Address())
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-c:
		}

		rt.logger.Info("Shutting down server...")
		timeout := time.Duration(rt.cfg.Server.ShutdownTimeoutSeconds) * time.Second
		return app.ShutdownWithTimeout(timeout)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

// newApp builds the fiber application with middleware, docs, metrics and features.
func newApp(rt *runtime) (*fiber.App, error) {
	logg := rt.logger

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every log line can be traced
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Public routes
	app.Get("/swagger/*", swagger.HandlerDefault)

	public := []string{"/swagger"}
	if rt.cfg.Metrics.Enabled && rt.metrics != nil {
		handler := fasthttpadaptor.NewFastHTTPHandler(rt.metrics.Handler())
		app.Get(rt.cfg.Metrics.Path, func(c *fiber.Ctx) error {
			handler(c.Context())
			return nil
		})
		public = append(public, rt.cfg.Metrics.Path)
	}

	app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey, Skip: public}))

	mgr := loader.NewManager()
	mgr.Register(syncFeature.NewFeature(rt.service, rt.cfg.Sync, logg))

	loaded, err := mgr.LoadAll(app)
	if err != nil {
		return nil, err
	}
	logg.Info("Features loaded", zap.Strings("features", loaded))

	return app, nil
}

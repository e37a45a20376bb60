package sync

import (
	"context"
	"errors"
	"time"

	"catalog-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for sync runs.
type Handler struct {
	service *Service
	logger  *zap.Logger
	timeout time.Duration
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger, timeout time.Duration) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &Handler{service: service, logger: logger, timeout: timeout}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/run", h.HandleRun)
	group.Post("/cleanup", h.HandleCleanup)
	group.Get("/last", h.HandleLast)
}

// HandleRun triggers a full sync.
// @Summary Run Sync
// @Description Mirrors the course catalog into the HubDB table, prunes stale rows and publishes. Concurrent calls share one run.
// @Tags sync
// @Produce json
// @Param dry_run query bool false "Plan and count without writing"
// @Success 200 {object} Report "Run report"
// @Failure 502 {object} map[string]string "Catalog unavailable"
// @Failure 503 {object} map[string]string "HubDB unavailable"
// @Router /sync/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	return h.trigger(c, ModeSync)
}

// HandleCleanup deletes every row of the cleanup tables.
// @Summary Run Cleanup
// @Description Deletes every row of the configured cleanup tables and publishes them. Requires confirm=yes.
// @Tags sync
// @Produce json
// @Param confirm query string true "Must be yes"
// @Param dry_run query bool false "Plan and count without writing"
// @Success 200 {object} Report "Run report"
// @Failure 400 {object} map[string]string "Missing confirmation"
// @Failure 503 {object} map[string]string "HubDB unavailable"
// @Router /sync/cleanup [post]
func (h *Handler) HandleCleanup(c *fiber.Ctx) error {
	if c.Query("confirm") != "yes" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cleanup deletes every row; pass confirm=yes"})
	}
	return h.trigger(c, ModeCleanup)
}

// HandleLast returns the latest finished run.
// @Summary Last Run
// @Description Returns the report of the latest finished run of a mode.
// @Tags sync
// @Produce json
// @Param mode query string false "sync (default) or cleanup"
// @Success 200 {object} Report "Run report"
// @Failure 404 {object} map[string]string "No run recorded"
// @Router /sync/last [get]
func (h *Handler) HandleLast(c *fiber.Ctx) error {
	mode, err := ParseMode(c.Query("mode", string(ModeSync)))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.service.Last(c.UserContext(), mode)
	if errors.Is(err, ErrNoReport) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to read last run", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

func (h *Handler) trigger(c *fiber.Ctx, mode Mode) error {
	l := logger.WithRayID(h.logger, c)
	opts := RunOptions{DryRun: c.QueryBool("dry_run", false)}
	l.Info("Run requested", zap.String("mode", string(mode)), zap.Bool("dry_run", opts.DryRun))

	// Runs are bound to the configured timeout, not to the client connection.
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	report, shared, err := h.service.Trigger(ctx, mode, opts)
	if err != nil {
		l.Error("Run failed", zap.String("mode", string(mode)), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	if shared {
		c.Set("X-Run-Shared", "true")
	}
	return c.JSON(report)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrPrecondition):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, ErrSourceFetch):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

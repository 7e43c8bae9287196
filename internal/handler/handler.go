package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ipresolver/internal/model"
	"ipresolver/internal/resolver"
)

type ResolveService interface {
	Resolve(ctx context.Context, cidr string) (*model.AddressResult, error)
	History(ctx context.Context, limit int) ([]model.Resolution, error)
}

type BatchResolver interface {
	ResolveBatch(ctx context.Context, r io.Reader) ([]model.BatchItem, model.BatchStats, error)
}

type Handler struct {
	service ResolveService
	batch   BatchResolver
	logger  *zap.Logger
}

func NewHandler(service ResolveService, batch BatchResolver, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		batch:   batch,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/v1/first-host", h.FirstHost)
	app.Post("/api/v1/first-host/batch", h.FirstHostBatch)
	app.Get("/api/v1/resolutions", h.Resolutions)
	app.Get("/api/v1/health", h.HealthCheck)
}

func (h *Handler) FirstHost(c *fiber.Ctx) error {
	cidr := c.Query("cidr")
	if cidr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(model.Error{
			Message: "CIDR is required",
		})
	}

	result, err := h.service.Resolve(c.Context(), cidr)
	if err != nil {
		if errors.Is(err, resolver.ErrInvalidCIDR) {
			return c.Status(fiber.StatusBadRequest).JSON(model.Error{
				Message: fmt.Sprintf("Invalid CIDR: %s", cidr),
			})
		}

		h.logger.Error("first host resolution failed",
			zap.String("cidr", cidr),
			zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(model.Error{
			Message: "Failed to resolve first host address",
		})
	}

	return c.JSON(result)
}

func (h *Handler) FirstHostBatch(c *fiber.Ctx) error {
	items, stats, err := h.batch.ResolveBatch(c.Context(), bytes.NewReader(c.Body()))
	if err != nil {
		h.logger.Error("batch resolution failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(model.Error{
			Message: "Failed to resolve batch",
		})
	}

	return c.JSON(model.BatchResponse{
		Results: items,
		Stats:   stats,
	})
}

func (h *Handler) Resolutions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	history, err := h.service.History(c.Context(), limit)
	if err != nil {
		h.logger.Error("listing resolutions failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(model.Error{
			Message: "Failed to list resolutions",
		})
	}

	return c.JSON(history)
}

func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
	})
}

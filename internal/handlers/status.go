package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mediagrab/mediagrab/internal/registry"
)

// StatusHandler serves job state out of the registry
type StatusHandler struct {
	registry *registry.Registry
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(reg *registry.Registry) *StatusHandler {
	return &StatusHandler{
		registry: reg,
	}
}

// GetStatus returns the full job record for an id
func (h *StatusHandler) GetStatus(c *fiber.Ctx) error {
	job, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Download not found",
		})
	}
	return c.JSON(job)
}

// ListDownloads returns a snapshot of every job known to the process
func (h *StatusHandler) ListDownloads(c *fiber.Ctx) error {
	downloads := h.registry.List()
	return c.JSON(fiber.Map{
		"downloads": downloads,
		"total":     len(downloads),
	})
}

// Health reports liveness and the number of jobs mid-download
func (h *StatusHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":           "healthy",
		"timestamp":        time.Now().Format(time.RFC3339),
		"active_downloads": h.registry.ActiveCount(),
	})
}

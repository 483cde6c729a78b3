package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/mediagrab/mediagrab/internal/registry"
	"github.com/mediagrab/mediagrab/internal/runner"
	"github.com/mediagrab/mediagrab/internal/types"
)

// DownloadHandler accepts download requests and hands them to the runner
type DownloadHandler struct {
	registry *registry.Registry
	runner   *runner.Runner
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(reg *registry.Registry, run *runner.Runner) *DownloadHandler {
	return &DownloadHandler{
		registry: reg,
		runner:   run,
	}
}

// DownloadRequest represents the request body
type DownloadRequest struct {
	URL    string `json:"url"`
	Format string `json:"format"`
}

// Handle validates the request, registers the job, and returns 202 before
// any extraction work happens. Validation failures never touch the
// registry.
func (h *DownloadHandler) Handle(c *fiber.Ctx) error {
	platform, err := types.ParsePlatform(c.Params("platform"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var req DownloadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON body",
		})
	}

	if req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "URL is required",
		})
	}

	format, err := types.ParseFormat(req.Format)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if !platform.MatchesURL(req.URL) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("URL must belong to %s", platform),
		})
	}

	job := types.NewJob(platform, req.URL, format)
	if err := h.registry.Create(job); err != nil {
		log.Printf("Failed to register download for %s: %v", req.URL, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to register download",
		})
	}

	h.runner.Start(job)
	log.Printf("Job %s: accepted %s download from %s", job.ID, format, platform)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message":      fmt.Sprintf("%s download started", platform),
		"download_id":  job.ID,
		"status_url":   "/api/status/" + job.ID,
		"download_url": "/api/file/" + job.ID,
	})
}

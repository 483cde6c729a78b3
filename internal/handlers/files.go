package handlers

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/mediagrab/mediagrab/internal/registry"
	"github.com/mediagrab/mediagrab/internal/types"
)

// FileHandler streams finished artifacts from the download directory
type FileHandler struct {
	registry    *registry.Registry
	downloadDir string
}

// NewFileHandler creates a new file handler
func NewFileHandler(reg *registry.Registry, downloadDir string) *FileHandler {
	return &FileHandler{
		registry:    reg,
		downloadDir: downloadDir,
	}
}

// GetFile serves the completed artifact as an attachment. Before
// completion the client gets a 400 with the current status; a completed
// job whose file was already swept gets a 404.
func (h *FileHandler) GetFile(c *fiber.Ctx) error {
	job, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Download not found",
		})
	}

	if job.Status != types.StatusCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":          "Download not finished yet",
			"current_status": job.Status,
		})
	}

	if job.Filename == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "File not found",
		})
	}

	path := filepath.Join(h.downloadDir, job.Filename)
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "File no longer exists on the server",
		})
	}

	return c.Download(path)
}

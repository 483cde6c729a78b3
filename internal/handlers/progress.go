package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/mediagrab/mediagrab/internal/registry"
)

// progressPushInterval is how often a connected client receives the job
// record while the download is running.
const progressPushInterval = 500 * time.Millisecond

// ProgressHandler pushes job state over a WebSocket so clients do not
// have to poll the status endpoint.
type ProgressHandler struct {
	registry *registry.Registry
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(reg *registry.Registry) *ProgressHandler {
	return &ProgressHandler{
		registry: reg,
	}
}

// Handle streams the job record on an interval until the job reaches a
// terminal state or the client goes away.
func (h *ProgressHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	id := c.Params("id")
	connID := uuid.New().String()
	log.Printf("Progress stream %s opened for download %s", connID, id)

	job, err := h.registry.Get(id)
	if err != nil {
		c.WriteJSON(fiber.Map{"error": "Download not found"})
		return
	}
	if err := c.WriteJSON(job); err != nil {
		return
	}
	if job.Status.IsTerminal() {
		return
	}

	ticker := time.NewTicker(progressPushInterval)
	defer ticker.Stop()

	for range ticker.C {
		job, err := h.registry.Get(id)
		if err != nil {
			return
		}
		if err := c.WriteJSON(job); err != nil {
			log.Printf("Progress stream %s: write failed: %v", connID, err)
			return
		}
		if job.Status.IsTerminal() {
			log.Printf("Progress stream %s closed (%s)", connID, job.Status)
			return
		}
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mwhitman/propedge/internal/services"
)

// PipelineHandler exposes manual cycle control.
type PipelineHandler struct {
	scheduler *services.Scheduler
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(scheduler *services.Scheduler) *PipelineHandler {
	return &PipelineHandler{scheduler: scheduler}
}

// Generate triggers a pipeline cycle immediately. Returns 409 when a cycle
// is already in flight; runs are never queued.
func (h *PipelineHandler) Generate(c *gin.Context) {
	season := time.Now().Year()
	if raw := c.Query("season"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid season"})
			return
		}
		season = parsed
	}

	result, err := h.scheduler.TriggerNow(season)
	if err != nil {
		if errors.Is(err, services.ErrCycleInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetStatus reports whether a cycle is currently running.
func (h *PipelineHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"running": h.scheduler.Busy()})
}

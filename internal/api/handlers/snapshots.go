package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mwhitman/propedge/internal/snapshot"
)

// SnapshotHandler serves the persisted pipeline outputs.
type SnapshotHandler struct {
	store *snapshot.Store
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(store *snapshot.Store) *SnapshotHandler {
	return &SnapshotHandler{store: store}
}

// GetGames returns today's schedule snapshot.
func (h *SnapshotHandler) GetGames(c *gin.Context) {
	snap, err := h.store.LoadGames()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no games snapshot available"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetOdds returns the most recent market quote snapshot.
func (h *SnapshotHandler) GetOdds(c *gin.Context) {
	snap, err := h.store.LoadOdds()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no odds snapshot available"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetProps returns the modeled and matched prop snapshot.
func (h *SnapshotHandler) GetProps(c *gin.Context) {
	snap, err := h.store.LoadProps()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no props snapshot available"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetEdges returns the per-game aggregate edge snapshot.
func (h *SnapshotHandler) GetEdges(c *gin.Context) {
	snap, err := h.store.LoadEdges()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no edges snapshot available"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

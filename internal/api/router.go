package api

import (
	"github.com/gin-gonic/gin"

	"github.com/mwhitman/propedge/internal/api/handlers"
	"github.com/mwhitman/propedge/internal/services"
	"github.com/mwhitman/propedge/internal/snapshot"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, store *snapshot.Store, scheduler *services.Scheduler) {
	snapshotHandler := handlers.NewSnapshotHandler(store)
	pipelineHandler := handlers.NewPipelineHandler(scheduler)

	// Snapshot endpoints
	group.GET("/games", snapshotHandler.GetGames)
	group.GET("/odds", snapshotHandler.GetOdds)
	group.GET("/props", snapshotHandler.GetProps)
	group.GET("/edges", snapshotHandler.GetEdges)

	// Pipeline control endpoints
	group.POST("/generate", pipelineHandler.Generate)
	group.GET("/status", pipelineHandler.GetStatus)
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhitman/propedge/internal/models"
	"github.com/mwhitman/propedge/internal/services"
	"github.com/mwhitman/propedge/internal/snapshot"
)

type fakeRunner struct {
	result  *models.RunResult
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeRunner) RunCycle(ctx context.Context, seasonYear int) (*models.RunResult, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	if f.result != nil {
		f.result.Season = seasonYear
	}
	return f.result, f.err
}

func setupTestRouter(t *testing.T, runner services.CycleRunner) (*gin.Engine, *snapshot.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	store, err := snapshot.NewStore(t.TempDir(), logger)
	require.NoError(t, err)
	scheduler := services.NewScheduler(runner, "0 13 * * *", time.Minute, logger)

	router := gin.New()
	SetupRoutes(router.Group("/api/v1"), store, scheduler)
	return router, store
}

func TestGetPropsNotFoundThenOK(t *testing.T) {
	router, store := setupTestRouter(t, &fakeRunner{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/props", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	edge := 0.02
	_, err := store.WriteProps(models.PropsSnapshot{
		GeneratedAt: time.Now().UTC(),
		Props: []models.MatchedProp{
			{Game: "BOS @ NYY", Player: "Aaron Judge", Team: "NYY", Edge: &edge},
		},
	})
	require.NoError(t, err)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/props", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var snap models.PropsSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Props, 1)
	assert.Equal(t, "Aaron Judge", snap.Props[0].Player)
	require.NotNil(t, snap.Props[0].Edge)
	assert.InDelta(t, 0.02, *snap.Props[0].Edge, 1e-9)
}

func TestGetEdgesServesSnapshot(t *testing.T) {
	router, store := setupTestRouter(t, &fakeRunner{})

	_, err := store.WriteEdges(models.EdgesSnapshot{
		GeneratedAt: time.Now().UTC(),
		Edges:       []models.GameEdge{{Game: "BOS @ NYY", AvgPropEdge: 0.015, NumProps: 6}},
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/edges", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var snap models.EdgesSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Edges, 1)
	assert.Equal(t, 6, snap.Edges[0].NumProps)
}

func TestGenerateRunsCycle(t *testing.T) {
	runner := &fakeRunner{result: &models.RunResult{RunID: "test-run", PropCount: 12}}
	router, _ := setupTestRouter(t, runner)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/generate?season=2025", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var result models.RunResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "test-run", result.RunID)
	assert.Equal(t, 2025, result.Season)
	assert.Equal(t, 12, result.PropCount)
}

func TestGenerateRejectsBadSeason(t *testing.T) {
	router, _ := setupTestRouter(t, &fakeRunner{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/generate?season=banana", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateConflictWhileRunning(t *testing.T) {
	runner := &fakeRunner{
		result:  &models.RunResult{RunID: "slow-run"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	router, _ := setupTestRouter(t, runner)

	done := make(chan struct{})
	go func() {
		defer close(done)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/generate", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}()

	<-runner.started
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/generate", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	close(runner.release)
	<-done
}

func TestStatusReportsIdle(t *testing.T) {
	router, _ := setupTestRouter(t, &fakeRunner{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body["running"])
}

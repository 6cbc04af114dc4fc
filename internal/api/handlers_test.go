package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"levelquest/internal/engine"
	"levelquest/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := engine.NewService(db, engine.WithTimezone(time.UTC))
	require.NoError(t, svc.Init(ctx))

	return NewServer(svc, zerolog.Nop())
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHabitLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/habits/", map[string]any{
		"name":     "Morning run",
		"category": "fitness",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var habit struct {
		ID       int64  `json:"id"`
		XPReward int    `json:"xpReward"`
		Name     string `json:"name"`
	}
	decode(t, rec, &habit)
	assert.Equal(t, "Morning run", habit.Name)
	assert.Equal(t, 200, habit.XPReward)

	rec = doJSON(t, srv, http.MethodGet, "/api/habits/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	decode(t, rec, &list)
	require.Len(t, list, 1)

	rec = doJSON(t, srv, http.MethodDelete, "/api/habits/1/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/habits/", nil)
	decode(t, rec, &list)
	assert.Empty(t, list)
}

func TestCreateHabitValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/habits/", map[string]any{
		"category": "fitness",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Message string `json:"message"`
	}
	decode(t, rec, &body)
	assert.Contains(t, body.Message, "name")
}

func TestToggleCompletionEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/habits/", map[string]any{
		"name":     "Run",
		"category": "fitness",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/habits/1/toggle", map[string]any{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		XPGained            int             `json:"xpGained"`
		GoldGained          int             `json:"goldGained"`
		NewLevel            int             `json:"newLevel"`
		LeveledUp           bool            `json:"leveledUp"`
		UnlockedAchievement json.RawMessage `json:"unlockedAchievement"`
	}
	decode(t, rec, &res)
	assert.Equal(t, 200, res.XPGained)
	assert.Equal(t, 25, res.GoldGained)
	assert.Equal(t, 1, res.NewLevel)
	assert.False(t, res.LeveledUp)
	assert.NotEmpty(t, res.UnlockedAchievement, "first_habit should surface")

	// unknown habit
	rec = doJSON(t, srv, http.MethodPost, "/api/habits/42/toggle", map[string]any{
		"completed": true,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		Level     int    `json:"level"`
		CurrentXP int    `json:"currentXp"`
		XPForNext int    `json:"xpForNextLevel"`
		Rank      string `json:"rank"`
	}
	decode(t, rec, &stats)
	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, 0, stats.CurrentXP)
	assert.Equal(t, 1000, stats.XPForNext)
	assert.Equal(t, "Beginner", stats.Rank)
}

func TestGoalCompletionOverAPI(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/goals/", map[string]any{
		"title":    "Ship it",
		"category": "work",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodPatch, "/api/goals/1/", map[string]any{
		"progress": 100,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		XPAwarded int  `json:"xpAwarded"`
		LeveledUp bool `json:"leveledUp"`
		NewLevel  int  `json:"newLevel"`
		Goal      struct {
			Completed bool `json:"completed"`
		} `json:"goal"`
	}
	decode(t, rec, &res)
	assert.Equal(t, 2000, res.XPAwarded)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.NewLevel)
	assert.True(t, res.Goal.Completed)

	// second completion pays nothing
	rec = doJSON(t, srv, http.MethodPatch, "/api/goals/1/", map[string]any{
		"progress": 100,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &res)
	assert.Zero(t, res.XPAwarded)
}

func TestGoalStepsOverAPI(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/goals/", map[string]any{
		"title":    "Learn Go",
		"category": "learning",
		"steps":    []string{"Read the tour"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var goal struct {
		Steps []struct {
			ID string `json:"id"`
		} `json:"steps"`
	}
	decode(t, rec, &goal)
	require.Len(t, goal.Steps, 1)

	rec = doJSON(t, srv, http.MethodPost, "/api/goals/1/steps/"+goal.Steps[0].ID+"/toggle", map[string]any{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		XPAwarded int `json:"xpAwarded"`
		Goal      struct {
			Progress  int  `json:"progress"`
			Completed bool `json:"completed"`
		} `json:"goal"`
	}
	decode(t, rec, &res)
	assert.Equal(t, 100, res.Goal.Progress)
	assert.True(t, res.Goal.Completed)
	assert.Equal(t, 2000, res.XPAwarded)
}

func TestAnalyticsEndpointShape(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/analytics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		DailyData  []any  `json:"dailyData"`
		WeeklyData []any  `json:"weeklyData"`
		StreakData any    `json:"streakData"`
		Overall    string `json:"overallCompletion"`
	}
	decode(t, rec, &report)
	assert.Len(t, report.DailyData, 7)
	assert.Len(t, report.WeeklyData, 4)
	assert.Equal(t, "0.0", report.Overall)
}

func TestAchievementUnlockEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/achievements/first_goal/unlock", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var a struct {
		Key        string  `json:"key"`
		UnlockedAt *string `json:"unlockedAt"`
	}
	decode(t, rec, &a)
	assert.Equal(t, "first_goal", a.Key)
	assert.NotNil(t, a.UnlockedAt)

	// second unlock reports 404, stamp unchanged
	rec = doJSON(t, srv, http.MethodPost, "/api/achievements/first_goal/unlock", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShopEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/shop/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []map[string]any
	decode(t, rec, &items)
	assert.NotEmpty(t, items)

	// broke player cannot buy
	rec = doJSON(t, srv, http.MethodPost, "/api/shop/purchase", map[string]any{
		"itemId": "minor_xp_potion",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	// unknown item
	rec = doJSON(t, srv, http.MethodPost, "/api/shop/use", map[string]any{
		"itemId": "no_such_item",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"levelquest/internal/engine"
	"levelquest/internal/storage"
)

type errorResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Message: message})
}

// respondEngineError maps the engine's error taxonomy to HTTP statuses:
// validation 400, not found 404, insufficient gold 409, everything else 500.
func (s *Server) respondEngineError(w http.ResponseWriter, err error) {
	var ve engine.ValidationError
	var nf engine.NotFoundError
	var ig engine.InsufficientGoldError
	switch {
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &nf):
		respondError(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &ig):
		respondError(w, http.StatusConflict, ig.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// --- stats ---

type statsResponse struct {
	Level        int        `json:"level"`
	CurrentXP    int        `json:"currentXp"`
	XPForNext    int        `json:"xpForNextLevel"`
	TotalXP      int        `json:"totalXp"`
	CurrentGold  int        `json:"currentGold"`
	LifetimeGold int        `json:"lifetimeGold"`
	Rank         string     `json:"rank"`
	Strength     int        `json:"strength"`
	Intelligence int        `json:"intelligence"`
	Vitality     int        `json:"vitality"`
	Agility      int        `json:"agility"`
	Sense        int        `json:"sense"`
	Willpower    int        `json:"willpower"`
	LastLevelUp  *time.Time `json:"lastLevelUp,omitempty"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Status(r.Context())
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	l := st.Ledger
	respondJSON(w, http.StatusOK, statsResponse{
		Level:        l.Level,
		CurrentXP:    l.CurrentXP,
		XPForNext:    st.XPForNext,
		TotalXP:      l.TotalXP,
		CurrentGold:  l.CurrentGold,
		LifetimeGold: l.LifetimeGold,
		Rank:         st.Rank,
		Strength:     l.Strength,
		Intelligence: l.Intelligence,
		Vitality:     l.Vitality,
		Agility:      l.Agility,
		Sense:        l.Sense,
		Willpower:    l.Willpower,
		LastLevelUp:  l.LastLevelUp,
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Analytics(r.Context())
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// --- habits ---

type habitResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	Category       string  `json:"category"`
	Difficulty     int     `json:"difficulty"`
	XPReward       int     `json:"xpReward"`
	DifficultyNote *string `json:"difficultyNote,omitempty"`
	Priority       bool    `json:"priority"`
	Color          string  `json:"color,omitempty"`
	Frequency      string  `json:"frequency"`
	FrequencyDays  []int   `json:"frequencyDays,omitempty"`
	CustomInterval *int    `json:"customInterval,omitempty"`
	Active         bool    `json:"active"`
	CompletedToday bool    `json:"completedToday"`
	DueToday       bool    `json:"dueToday"`
	Streak         int     `json:"streak"`
}

func toHabitResponse(h storage.Habit, completedToday, dueToday bool, streak int) habitResponse {
	return habitResponse{
		ID:             h.ID,
		Name:           h.Name,
		Description:    h.Description,
		Category:       h.Category,
		Difficulty:     h.Difficulty,
		XPReward:       h.XPReward,
		DifficultyNote: h.DifficultyNote,
		Priority:       h.Priority,
		Color:          h.Color,
		Frequency:      h.Frequency,
		FrequencyDays:  h.FrequencyDays,
		CustomInterval: h.CustomInterval,
		Active:         h.Active,
		CompletedToday: completedToday,
		DueToday:       dueToday,
		Streak:         streak,
	}
}

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.ListHabits(r.Context())
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	out := make([]habitResponse, 0, len(list))
	for _, st := range list {
		out = append(out, toHabitResponse(st.Habit, st.CompletedToday, st.DueToday, st.Streak))
	}
	respondJSON(w, http.StatusOK, out)
}

type createHabitRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	Priority       bool   `json:"priority"`
	Color          string `json:"color"`
	Frequency      string `json:"frequency"`
	FrequencyDays  []int  `json:"frequencyDays"`
	CustomInterval int    `json:"customInterval"`
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h, err := s.svc.CreateHabit(r.Context(), engine.CreateHabitInput{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Priority:       req.Priority,
		Color:          req.Color,
		Frequency:      req.Frequency,
		FrequencyDays:  req.FrequencyDays,
		CustomInterval: req.CustomInterval,
	})
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toHabitResponse(*h, false, true, 0))
}

func (s *Server) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid habit id")
		return
	}
	h, err := s.svc.Habit(r.Context(), id)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toHabitResponse(*h, false, true, 0))
}

type updateHabitRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	Category       *string `json:"category"`
	Priority       *bool   `json:"priority"`
	Color          *string `json:"color"`
	Frequency      *string `json:"frequency"`
	FrequencyDays  []int   `json:"frequencyDays"`
	CustomInterval *int    `json:"customInterval"`
	Active         *bool   `json:"active"`
}

func (s *Server) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid habit id")
		return
	}
	var req updateHabitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h, err := s.svc.UpdateHabit(r.Context(), id, storage.HabitUpdate{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Priority:       req.Priority,
		Color:          req.Color,
		Frequency:      req.Frequency,
		FrequencyDays:  req.FrequencyDays,
		CustomInterval: req.CustomInterval,
		Active:         req.Active,
	})
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toHabitResponse(*h, false, true, 0))
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid habit id")
		return
	}
	if err := s.svc.DeleteHabit(r.Context(), id); err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type toggleRequest struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

func (s *Server) handleToggleCompletion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid habit id")
		return
	}
	var req toggleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := s.svc.ToggleCompletion(r.Context(), id, req.Date, req.Completed)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// --- goals ---

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.svc.ListGoals(r.Context())
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponses(goals))
}

type goalResponse struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	Category    string             `json:"category"`
	Deadline    *string            `json:"deadline,omitempty"`
	Progress    int                `json:"progress"`
	Difficulty  int                `json:"difficulty"`
	XPReward    int                `json:"xpReward"`
	Completed   bool               `json:"completed"`
	Priority    bool               `json:"priority"`
	Steps       []storage.GoalStep `json:"steps"`
}

func toGoalResponse(g storage.Goal) goalResponse {
	steps := g.Steps
	if steps == nil {
		steps = []storage.GoalStep{}
	}
	return goalResponse{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Category:    g.Category,
		Deadline:    g.Deadline,
		Progress:    g.Progress,
		Difficulty:  g.Difficulty,
		XPReward:    g.XPReward,
		Completed:   g.Completed,
		Priority:    g.Priority,
		Steps:       steps,
	}
}

func toGoalResponses(goals []storage.Goal) []goalResponse {
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g))
	}
	return out
}

type createGoalRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Deadline    string   `json:"deadline"`
	Priority    bool     `json:"priority"`
	Steps       []string `json:"steps"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := s.svc.CreateGoal(r.Context(), engine.CreateGoalInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Deadline:    req.Deadline,
		Priority:    req.Priority,
		Steps:       req.Steps,
	})
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGoalResponse(*g))
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	g, err := s.svc.Goal(r.Context(), id)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalResponse(*g))
}

type updateGoalRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Deadline    *string `json:"deadline"`
	Priority    *bool   `json:"priority"`
	Progress    *int    `json:"progress"`
	Completed   *bool   `json:"completed"`
}

type goalUpdateResponse struct {
	Goal                goalResponse         `json:"goal"`
	XPAwarded           int                  `json:"xpAwarded"`
	LeveledUp           bool                 `json:"leveledUp"`
	NewLevel            int                  `json:"newLevel"`
	UnlockedAchievement *storage.Achievement `json:"unlockedAchievement,omitempty"`
}

func toGoalUpdateResponse(res *engine.GoalUpdateResult) goalUpdateResponse {
	return goalUpdateResponse{
		Goal:                toGoalResponse(*res.Goal),
		XPAwarded:           res.XPAwarded,
		LeveledUp:           res.LeveledUp,
		NewLevel:            res.NewLevel,
		UnlockedAchievement: res.UnlockedAchievement,
	}
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	var req updateGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := s.svc.UpdateGoal(r.Context(), id, engine.UpdateGoalInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Deadline:    req.Deadline,
		Priority:    req.Priority,
		Progress:    req.Progress,
		Completed:   req.Completed,
	})
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalUpdateResponse(res))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	if err := s.svc.DeleteGoal(r.Context(), id); err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type addStepRequest struct {
	Title          string `json:"title"`
	SuggestedHabit string `json:"suggestedHabit"`
}

func (s *Server) handleAddGoalStep(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	var req addStepRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := s.svc.AddGoalStep(r.Context(), id, req.Title, req.SuggestedHabit)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGoalUpdateResponse(res))
}

type toggleStepRequest struct {
	Completed bool `json:"completed"`
}

func (s *Server) handleToggleGoalStep(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	var req toggleStepRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := s.svc.ToggleGoalStep(r.Context(), id, chi.URLParam(r, "stepId"), req.Completed)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalUpdateResponse(res))
}

// --- achievements ---

func (s *Server) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.ListAchievements(r.Context())
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleListUnlockedAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.ListUnlockedAchievements(r.Context())
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	if list == nil {
		list = []storage.Achievement{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleUnlockAchievement(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.UnlockAchievement(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	if a == nil {
		respondError(w, http.StatusNotFound, "achievement not found or already unlocked")
		return
	}
	respondJSON(w, http.StatusOK, a)
}

func (s *Server) handleCheckAchievements(w http.ResponseWriter, r *http.Request) {
	unlocked, err := s.svc.CheckProgressAchievements(r.Context())
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	if unlocked == nil {
		unlocked = []storage.Achievement{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"unlocked": unlocked})
}

// --- shop ---

func (s *Server) handleShopItems(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, engine.ShopCatalog)
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	inv, err := s.svc.Inventory(r.Context())
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	if inv == nil {
		inv = []engine.InventoryEntry{}
	}
	respondJSON(w, http.StatusOK, inv)
}

type purchaseRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	res, err := s.svc.PurchaseItem(r.Context(), req.ItemID, req.Quantity)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

type useItemRequest struct {
	ItemID string `json:"itemId"`
}

func (s *Server) handleUseItem(w http.ResponseWriter, r *http.Request) {
	var req useItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := s.svc.UseItem(r.Context(), req.ItemID)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

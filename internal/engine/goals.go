package engine

import (
	"context"
	"database/sql"
	"math"
	"strings"
	"time"

	"levelquest/internal/storage"

	"github.com/google/uuid"
)

type CreateGoalInput struct {
	Title       string
	Description string
	Category    string
	Deadline    string // YYYY-MM-DD, optional
	Priority    bool
	Steps       []string
}

// CreateGoal freezes the goal's XP reward from the assessed difficulty, so a
// later catalog change never alters what an in-flight goal pays out.
func (s *Service) CreateGoal(ctx context.Context, in CreateGoalInput) (*storage.Goal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ValidationError{Reason: "goal title is required"}
	}
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" {
		return nil, ValidationError{Reason: "goal category is required"}
	}
	if in.Deadline != "" {
		if _, err := time.ParseInLocation(DayFormat, in.Deadline, s.tz); err != nil {
			return nil, ValidationError{Reason: "deadline must be YYYY-MM-DD"}
		}
	}

	d, _, aerr := s.assessor.AssessGoal(ctx, title, in.Description, in.Deadline)
	if aerr != nil {
		s.log.Warn().Err(aerr).Str("goal", title).Msg("difficulty assessment failed, using default")
	}
	d = assessOrDefault(d, aerr)

	ins := storage.GoalInsert{
		Title:      title,
		Category:   category,
		Difficulty: int(d),
		XPReward:   GoalXPByDifficulty[d],
		Priority:   in.Priority,
	}
	if in.Description != "" {
		desc := in.Description
		ins.Description = &desc
	}
	if in.Deadline != "" {
		dl := in.Deadline
		ins.Deadline = &dl
	}
	for _, st := range in.Steps {
		st = strings.TrimSpace(st)
		if st == "" {
			continue
		}
		ins.Steps = append(ins.Steps, storage.GoalStep{ID: uuid.NewString(), Title: st})
	}

	id, err := s.goals.Insert(ctx, ins)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("id", id).Str("title", title).Int("xpReward", ins.XPReward).Msg("goal created")
	return s.goals.Get(ctx, id)
}

func (s *Service) Goal(ctx context.Context, id int64) (*storage.Goal, error) {
	g, err := s.goals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, notFound("goal", id)
	}
	return g, nil
}

func (s *Service) ListGoals(ctx context.Context) ([]storage.Goal, error) {
	return s.goals.ListAll(ctx)
}

func (s *Service) DeleteGoal(ctx context.Context, id int64) error {
	g, err := s.goals.Get(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return notFound("goal", id)
	}
	return s.goals.Delete(ctx, id)
}

// UpdateGoalInput carries mutable fields; nil means "leave as is".
// Difficulty and the frozen XP reward are not editable.
type UpdateGoalInput struct {
	Title       *string
	Description *string
	Category    *string
	Deadline    *string
	Priority    *bool
	Progress    *int
	Completed   *bool
}

// GoalUpdateResult is the goal after the write plus any reward the update
// triggered. XPAwarded is zero unless this call crossed the completion
// boundary.
type GoalUpdateResult struct {
	Goal                *storage.Goal        `json:"goal"`
	XPAwarded           int                  `json:"xpAwarded"`
	LeveledUp           bool                 `json:"leveledUp"`
	NewLevel            int                  `json:"newLevel"`
	UnlockedAchievement *storage.Achievement `json:"unlockedAchievement,omitempty"`
}

// UpdateGoal applies a partial update. The completion XP pays exactly once,
// on the transition from incomplete to complete; pushing progress back down
// and up again does not pay twice because completed stays latched.
func (s *Service) UpdateGoal(ctx context.Context, id int64, in UpdateGoalInput) (*GoalUpdateResult, error) {
	g, err := s.goals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, notFound("goal", id)
	}

	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, ValidationError{Reason: "goal title is required"}
		}
		g.Title = t
	}
	if in.Description != nil {
		g.Description = in.Description
	}
	if in.Category != nil {
		g.Category = strings.ToLower(strings.TrimSpace(*in.Category))
	}
	if in.Deadline != nil {
		if *in.Deadline != "" {
			if _, err := time.ParseInLocation(DayFormat, *in.Deadline, s.tz); err != nil {
				return nil, ValidationError{Reason: "deadline must be YYYY-MM-DD"}
			}
			g.Deadline = in.Deadline
		} else {
			g.Deadline = nil
		}
	}
	if in.Priority != nil {
		g.Priority = *in.Priority
	}
	if in.Progress != nil {
		if *in.Progress < 0 || *in.Progress > 100 {
			return nil, ValidationError{Reason: "progress must be between 0 and 100"}
		}
		g.Progress = *in.Progress
	}
	if in.Completed != nil {
		g.Completed = *in.Completed
	}

	return s.saveGoal(ctx, g)
}

// AddGoalStep appends a step and recomputes progress from the step ratio.
func (s *Service) AddGoalStep(ctx context.Context, goalID int64, title, suggestedHabit string) (*GoalUpdateResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ValidationError{Reason: "step title is required"}
	}
	g, err := s.goals.Get(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, notFound("goal", goalID)
	}

	g.Steps = append(g.Steps, storage.GoalStep{
		ID:             uuid.NewString(),
		Title:          title,
		SuggestedHabit: suggestedHabit,
	})
	g.Progress = stepProgress(g.Steps)
	return s.saveGoal(ctx, g)
}

// ToggleGoalStep flips one step and rolls the ratio up into progress.
// Checking the last open step completes the goal and pays its XP.
func (s *Service) ToggleGoalStep(ctx context.Context, goalID int64, stepID string, completed bool) (*GoalUpdateResult, error) {
	g, err := s.goals.Get(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, notFound("goal", goalID)
	}

	found := false
	for i := range g.Steps {
		if g.Steps[i].ID == stepID {
			g.Steps[i].Completed = completed
			found = true
			break
		}
	}
	if !found {
		return nil, ValidationError{Reason: "unknown step id: " + stepID}
	}
	g.Progress = stepProgress(g.Steps)
	return s.saveGoal(ctx, g)
}

func stepProgress(steps []storage.GoalStep) int {
	if len(steps) == 0 {
		return 0
	}
	done := 0
	for _, st := range steps {
		if st.Completed {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(steps)) * 100))
}

// saveGoal persists the mutated goal and pays the completion reward when
// this write is the incomplete-to-complete transition. Write and ledger
// update share one transaction.
func (s *Service) saveGoal(ctx context.Context, g *storage.Goal) (*GoalUpdateResult, error) {
	before, err := s.goals.Get(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, notFound("goal", g.ID)
	}

	wasIncomplete := before.Progress < 100 && !before.Completed
	if g.Progress == 100 {
		g.Completed = true
	}
	nowComplete := g.Progress == 100 || g.Completed
	award := wasIncomplete && nowComplete

	s.mu.Lock()
	defer s.mu.Unlock()

	res := &GoalUpdateResult{Goal: g}
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.goals.Update(ctx, tx, g); err != nil {
			return err
		}
		l, err := s.ledger.GetOrCreateMainIn(ctx, tx)
		if err != nil {
			return err
		}
		if award {
			out, err := ApplyReward(l, g.XPReward, 0, StatDeltas{}, s.now())
			if err != nil {
				return err
			}
			if err := s.ledger.Update(ctx, tx, l); err != nil {
				return err
			}
			res.XPAwarded = g.XPReward
			res.LeveledUp = out.LeveledUp
			res.NewLevel = out.NewLevel
			return nil
		}
		res.NewLevel = l.Level
		return nil
	})
	if err != nil {
		return nil, err
	}

	if award {
		s.log.Info().Int64("goal", g.ID).Int("xp", g.XPReward).Msg("goal completed")
		if a, err := s.UnlockAchievement(ctx, KeyFirstGoal); err != nil {
			s.log.Warn().Err(err).Msg("achievement check failed")
		} else if a != nil {
			res.UnlockedAchievement = a
		}
		// Every reached milestone is attempted; only the first win is surfaced.
		for _, m := range LevelMilestones {
			if res.NewLevel < m.Level {
				break
			}
			a, err := s.UnlockAchievement(ctx, m.Key)
			if err != nil {
				s.log.Warn().Err(err).Str("key", m.Key).Msg("achievement check failed")
				continue
			}
			if a != nil && res.UnlockedAchievement == nil {
				res.UnlockedAchievement = a
			}
		}
	}
	return res, nil
}

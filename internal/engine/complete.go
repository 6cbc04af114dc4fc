package engine

import (
	"context"
	"database/sql"
	"time"

	"levelquest/internal/storage"
)

// ToggleResult reports what a completion toggle did. Gains are zero when
// toggling off: rewards already granted are never clawed back.
type ToggleResult struct {
	XPGained            int                  `json:"xpGained"`
	GoldGained          int                  `json:"goldGained"`
	NewLevel            int                  `json:"newLevel"`
	LeveledUp           bool                 `json:"leveledUp"`
	UnlockedAchievement *storage.Achievement `json:"unlockedAchievement,omitempty"`
}

// ToggleCompletion writes the (habit, day) completion record and, when
// turning on, applies the habit's reward to the ledger. The record write and
// the ledger update commit in one transaction. Inactive habits still toggle:
// the schedule is advisory, not a gate.
func (s *Service) ToggleCompletion(ctx context.Context, habitID int64, date string, completed bool) (*ToggleResult, error) {
	if date == "" {
		date = s.Today()
	}
	if _, err := time.ParseInLocation(DayFormat, date, s.tz); err != nil {
		return nil, ValidationError{Reason: "date must be YYYY-MM-DD"}
	}

	h, err := s.habits.Get(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, notFound("habit", habitID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !completed {
		var level int
		err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
			if err := s.completions.Upsert(ctx, tx, habitID, date, false); err != nil {
				return err
			}
			l, err := s.ledger.GetOrCreateMainIn(ctx, tx)
			if err != nil {
				return err
			}
			level = l.Level
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &ToggleResult{NewLevel: level}, nil
	}

	xp, gold, stat, gain := HabitReward(h)
	var out RewardOutcome
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.completions.Upsert(ctx, tx, habitID, date, true); err != nil {
			return err
		}
		l, err := s.ledger.GetOrCreateMainIn(ctx, tx)
		if err != nil {
			return err
		}
		out, err = ApplyReward(l, xp, gold, NewStatDeltas(stat, gain), s.now())
		if err != nil {
			return err
		}
		return s.ledger.Update(ctx, tx, l)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("habit", habitID).Str("date", date).
		Int("xp", xp).Int("gold", gold).Bool("leveledUp", out.LeveledUp).
		Msg("habit completed")

	res := &ToggleResult{
		XPGained:   xp,
		GoldGained: gold,
		NewLevel:   out.NewLevel,
		LeveledUp:  out.LeveledUp,
	}
	res.UnlockedAchievement = s.checkCompletionAchievements(ctx, out.NewLevel)
	return res, nil
}

// checkCompletionAchievements evaluates the triggers a completion can fire:
// first_habit, then level milestones in ascending order. The first unlock
// this call wins is surfaced; later ones stay unlocked but unreported.
func (s *Service) checkCompletionAchievements(ctx context.Context, level int) *storage.Achievement {
	var first *storage.Achievement

	if a, err := s.UnlockAchievement(ctx, KeyFirstHabit); err != nil {
		s.log.Warn().Err(err).Msg("achievement check failed")
	} else if a != nil {
		first = a
	}

	for _, m := range LevelMilestones {
		if level < m.Level {
			break
		}
		a, err := s.UnlockAchievement(ctx, m.Key)
		if err != nil {
			s.log.Warn().Err(err).Str("key", m.Key).Msg("achievement check failed")
			continue
		}
		if a != nil && first == nil {
			first = a
		}
	}
	return first
}

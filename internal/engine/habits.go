package engine

import (
	"context"
	"strings"
	"time"

	"levelquest/internal/storage"
)

type CreateHabitInput struct {
	Name           string
	Description    string
	Category       string
	Priority       bool
	Color          string
	Frequency      string
	FrequencyDays  []int
	CustomInterval int
}

// CreateHabit validates input, asks the assessor for a difficulty and
// freezes the XP reward from it. An assessor failure degrades to
// DefaultDifficulty instead of failing the create.
func (s *Service) CreateHabit(ctx context.Context, in CreateHabitInput) (*storage.Habit, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ValidationError{Reason: "habit name is required"}
	}
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" {
		return nil, ValidationError{Reason: "habit category is required"}
	}
	freq, err := ParseFrequency(in.Frequency)
	if err != nil {
		return nil, err
	}
	if freq == FrequencySpecific && len(in.FrequencyDays) == 0 {
		return nil, ValidationError{Reason: "specific frequency needs at least one weekday"}
	}
	for _, d := range in.FrequencyDays {
		if d < 0 || d > 6 {
			return nil, ValidationError{Reason: "frequency day out of range"}
		}
	}

	d, note, aerr := s.assessor.AssessHabit(ctx, name, category, in.Description)
	if aerr != nil {
		s.log.Warn().Err(aerr).Str("habit", name).Msg("difficulty assessment failed, using default")
		note = ""
	}
	d = assessOrDefault(d, aerr)

	ins := storage.HabitInsert{
		Name:       name,
		Category:   category,
		Difficulty: int(d),
		XPReward:   HabitXPByDifficulty[d],
		Priority:   in.Priority,
		Color:      in.Color,
		Frequency:  string(freq),
	}
	if in.Description != "" {
		desc := in.Description
		ins.Description = &desc
	}
	if note != "" {
		ins.DifficultyNote = &note
	}
	if freq == FrequencySpecific {
		ins.FrequencyDays = in.FrequencyDays
	}
	if freq == FrequencyCustom && in.CustomInterval > 0 {
		iv := in.CustomInterval
		ins.CustomInterval = &iv
	}

	id, err := s.habits.Insert(ctx, ins)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("id", id).Str("name", name).Int("difficulty", int(d)).Msg("habit created")
	return s.habits.Get(ctx, id)
}

// UpdateHabit applies a partial update. Difficulty and the frozen XP reward
// are not editable after creation.
func (s *Service) UpdateHabit(ctx context.Context, id int64, in storage.HabitUpdate) (*storage.Habit, error) {
	h, err := s.habits.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, notFound("habit", id)
	}
	if in.Frequency != nil {
		f, err := ParseFrequency(*in.Frequency)
		if err != nil {
			return nil, err
		}
		fs := string(f)
		in.Frequency = &fs
	}
	if err := s.habits.Update(ctx, id, in); err != nil {
		return nil, err
	}
	return s.habits.Get(ctx, id)
}

// DeleteHabit deactivates a habit; its completion history stays on the log.
func (s *Service) DeleteHabit(ctx context.Context, id int64) error {
	h, err := s.habits.Get(ctx, id)
	if err != nil {
		return err
	}
	if h == nil {
		return notFound("habit", id)
	}
	return s.habits.Delete(ctx, id)
}

func (s *Service) Habit(ctx context.Context, id int64) (*storage.Habit, error) {
	h, err := s.habits.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, notFound("habit", id)
	}
	return h, nil
}

// HabitStatus decorates a habit with its completion state for today and
// schedule metadata. Purely advisory: rewards never depend on DueToday.
type HabitStatus struct {
	storage.Habit
	CompletedToday bool
	DueToday       bool
	Streak         int
}

// ListHabits returns all active habits with today's completion state.
func (s *Service) ListHabits(ctx context.Context) ([]HabitStatus, error) {
	habits, err := s.habits.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	completions, err := s.completions.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := CivilDay(now, s.tz)

	// completed civil days per habit, plus each habit's latest one
	daysByHabit := make(map[int64]map[string]bool)
	lastByHabit := make(map[int64]string)
	for _, c := range completions {
		if !c.Completed {
			continue
		}
		m := daysByHabit[c.HabitID]
		if m == nil {
			m = make(map[string]bool)
			daysByHabit[c.HabitID] = m
		}
		m[c.Date] = true
		if c.Date > lastByHabit[c.HabitID] {
			lastByHabit[c.HabitID] = c.Date
		}
	}

	var out []HabitStatus
	for _, h := range habits {
		if !h.Active {
			continue
		}
		interval := 0
		if h.CustomInterval != nil {
			interval = *h.CustomInterval
		}
		out = append(out, HabitStatus{
			Habit:          h,
			CompletedToday: daysByHabit[h.ID][today],
			DueToday:       DueToday(Frequency(h.Frequency), h.FrequencyDays, interval, lastByHabit[h.ID], now, s.tz),
			Streak:         habitStreak(daysByHabit[h.ID], now, s.tz),
		})
	}
	return out, nil
}

// habitStreak counts consecutive completed days ending today (or yesterday,
// when today has not been logged yet).
func habitStreak(days map[string]bool, now time.Time, loc *time.Location) int {
	if len(days) == 0 {
		return 0
	}
	day := startOfCivilDay(now, loc)
	if !days[day.Format(DayFormat)] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for days[day.Format(DayFormat)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

package engine

import (
	"context"

	"levelquest/internal/storage"
)

// Achievement keys. Triggers reference these, never row IDs.
const (
	KeyFirstHabit     = "first_habit"
	KeyFirstGoal      = "first_goal"
	KeyLevel5         = "level_5"
	KeyLevel10        = "level_10"
	KeyLevel25        = "level_25"
	KeyLevel50        = "level_50"
	KeyLevel100       = "level_100"
	KeyStreak7        = "streak_7"
	KeyStreak30       = "streak_30"
	KeyGold1000       = "gold_1000"
	KeyCompletions100 = "completions_100"
)

// LevelMilestones are checked in ascending order after any level change.
var LevelMilestones = []struct {
	Level int
	Key   string
}{
	{5, KeyLevel5},
	{10, KeyLevel10},
	{25, KeyLevel25},
	{50, KeyLevel50},
	{100, KeyLevel100},
}

// AchievementCatalog is the static definition set seeded at startup.
// Reward fields are display metadata: unlocking never applies them to the
// ledger.
func AchievementCatalog() []storage.AchievementInsert {
	power := func(s string) *string { return &s }
	return []storage.AchievementInsert{
		{
			Key: KeyFirstHabit, Title: "First Steps", Icon: "Footprints",
			Description: "Complete your first habit", Category: "habits", Tier: "bronze",
			XPReward: 50, GoldReward: 10,
		},
		{
			Key: KeyFirstGoal, Title: "Goal Getter", Icon: "Target",
			Description: "Complete your first goal", Category: "goals", Tier: "bronze",
			XPReward: 100, GoldReward: 25,
		},
		{
			Key: KeyStreak7, Title: "Week Warrior", Icon: "Flame",
			Description: "Keep a 7-day streak going", Category: "streaks", Tier: "silver",
			XPReward: 200, GoldReward: 50,
			StatBonus: &storage.StatBonus{Stat: string(StatWillpower), Amount: 1},
		},
		{
			Key: KeyStreak30, Title: "Unbreakable", Icon: "Shield",
			Description: "Keep a 30-day streak going", Category: "streaks", Tier: "gold",
			XPReward: 1000, GoldReward: 250,
			StatBonus: &storage.StatBonus{Stat: string(StatWillpower), Amount: 3},
		},
		{
			Key: KeyLevel5, Title: "Apprentice", Icon: "Sparkles",
			Description: "Reach level 5", Category: "levels", Tier: "bronze",
			XPReward: 100, GoldReward: 25,
		},
		{
			Key: KeyLevel10, Title: "Adept", Icon: "Star",
			Description: "Reach level 10", Category: "levels", Tier: "silver",
			XPReward: 250, GoldReward: 75,
		},
		{
			Key: KeyLevel25, Title: "Veteran", Icon: "Medal",
			Description: "Reach level 25", Category: "levels", Tier: "gold",
			XPReward: 750, GoldReward: 200,
			StatBonus: &storage.StatBonus{Stat: string(StatStrength), Amount: 2},
		},
		{
			Key: KeyLevel50, Title: "Elite", Icon: "Crown",
			Description: "Reach level 50", Category: "levels", Tier: "platinum",
			XPReward: 2000, GoldReward: 500,
			StatBonus: &storage.StatBonus{Stat: string(StatSense), Amount: 3},
		},
		{
			Key: KeyLevel100, Title: "Monarch", Icon: "Gem",
			Description: "Reach level 100", Category: "levels", Tier: "legendary",
			XPReward: 10000, GoldReward: 2500,
			StatBonus:    &storage.StatBonus{Stat: string(StatWillpower), Amount: 5},
			SpecialPower: power("Arise"),
		},
		{
			Key: KeyGold1000, Title: "Gold Hoarder", Icon: "Coins",
			Description: "Earn 1,000 gold over your lifetime", Category: "wealth", Tier: "silver",
			XPReward: 300, GoldReward: 0,
		},
		{
			Key: KeyCompletions100, Title: "Centurion", Icon: "Swords",
			Description: "Log 100 habit completions", Category: "habits", Tier: "gold",
			XPReward: 1000, GoldReward: 150,
			StatBonus: &storage.StatBonus{Stat: string(StatVitality), Amount: 2},
		},
	}
}

// UnlockAchievement stamps unlockedAt if, and only if, it is still null.
// Returns the freshly unlocked achievement when this call won the
// transition, nil when the key is unknown or already unlocked.
func (s *Service) UnlockAchievement(ctx context.Context, key string) (*storage.Achievement, error) {
	won, err := s.achievements.MarkUnlocked(ctx, key, s.now())
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, nil
	}
	a, err := s.achievements.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if a != nil {
		s.log.Info().Str("key", key).Str("tier", a.Tier).Msg("achievement unlocked")
	}
	return a, nil
}

func (s *Service) ListAchievements(ctx context.Context) ([]storage.Achievement, error) {
	return s.achievements.ListAll(ctx)
}

// ListUnlockedAchievements returns won achievements in unlock order.
func (s *Service) ListUnlockedAchievements(ctx context.Context) ([]storage.Achievement, error) {
	return s.achievements.ListUnlocked(ctx)
}

// CheckProgressAchievements evaluates the triggers that depend on aggregate
// state rather than a single event: streaks, lifetime gold and the
// completion count. Callers run it after analytics or on demand; every
// newly won unlock is returned.
func (s *Service) CheckProgressAchievements(ctx context.Context) ([]storage.Achievement, error) {
	l, err := s.ledger.GetOrCreateMain(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.completions.CountCompleted(ctx)
	if err != nil {
		return nil, err
	}

	habits, err := s.habits.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	completions, err := s.completions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	streak := ComputeStreak(habits, completions, s.now(), s.tz)

	type trigger struct {
		key string
		hit bool
	}
	triggers := []trigger{
		{KeyStreak7, streak.CurrentStreak >= 7},
		{KeyStreak30, streak.CurrentStreak >= 30},
		{KeyGold1000, l.LifetimeGold >= 1000},
		{KeyCompletions100, count >= 100},
	}
	for _, m := range LevelMilestones {
		triggers = append(triggers, trigger{m.Key, l.Level >= m.Level})
	}

	var unlocked []storage.Achievement
	for _, t := range triggers {
		if !t.hit {
			continue
		}
		a, err := s.UnlockAchievement(ctx, t.key)
		if err != nil {
			return unlocked, err
		}
		if a != nil {
			unlocked = append(unlocked, *a)
		}
	}
	return unlocked, nil
}

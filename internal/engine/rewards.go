package engine

import (
	"time"

	"levelquest/internal/storage"
)

// Reward tables. Habit rewards scale with difficulty; goal XP is an order of
// magnitude larger because goals are one-shot.
var (
	HabitXPByDifficulty = map[Difficulty]int{
		DifficultyEasy:   100,
		DifficultyMedium: 200,
		DifficultyHard:   300,
	}
	HabitGoldByDifficulty = map[Difficulty]int{
		DifficultyEasy:   10,
		DifficultyMedium: 25,
		DifficultyHard:   50,
	}
	HabitStatGainByDifficulty = map[Difficulty]int{
		DifficultyEasy:   1,
		DifficultyMedium: 2,
		DifficultyHard:   3,
	}
	GoalXPByDifficulty = map[Difficulty]int{
		DifficultyEasy:   1000,
		DifficultyMedium: 2000,
		DifficultyHard:   3000,
	}
)

// StatDeltas is a non-negative increment per character stat.
type StatDeltas struct {
	Strength     int
	Intelligence int
	Vitality     int
	Agility      int
	Sense        int
	Willpower    int
}

// NewStatDeltas returns deltas with a single stat set.
func NewStatDeltas(stat Stat, amount int) StatDeltas {
	var d StatDeltas
	switch stat {
	case StatStrength:
		d.Strength = amount
	case StatIntelligence:
		d.Intelligence = amount
	case StatVitality:
		d.Vitality = amount
	case StatAgility:
		d.Agility = amount
	case StatSense:
		d.Sense = amount
	default:
		d.Willpower = amount
	}
	return d
}

func (d StatDeltas) min() int {
	m := d.Strength
	for _, v := range []int{d.Intelligence, d.Vitality, d.Agility, d.Sense, d.Willpower} {
		if v < m {
			m = v
		}
	}
	return m
}

// RewardOutcome reports what a single ApplyReward call did to the ledger.
type RewardOutcome struct {
	LeveledUp bool
	OldLevel  int
	NewLevel  int
}

// ApplyReward mutates the ledger in place: XP to current and total, gold to
// current (and lifetime when positive), stat deltas, then the level-up loop.
// The loop re-reads the threshold for each new level, so one large grant can
// cross several boundaries. On any error the ledger is left untouched.
//
// Gold may be negative for purchases, but a deduction below zero is rejected
// with InsufficientGoldError rather than clamped.
func ApplyReward(l *storage.Ledger, xp, gold int, stats StatDeltas, now time.Time) (RewardOutcome, error) {
	out := RewardOutcome{OldLevel: l.Level, NewLevel: l.Level}

	if xp < 0 {
		return out, ValidationError{Reason: "negative xp grant"}
	}
	if stats.min() < 0 {
		return out, ValidationError{Reason: "negative stat delta"}
	}
	if gold < 0 && l.CurrentGold+gold < 0 {
		return out, InsufficientGoldError{Required: -gold, Available: l.CurrentGold}
	}

	l.CurrentXP += xp
	l.TotalXP += xp

	l.CurrentGold += gold
	if gold > 0 {
		l.LifetimeGold += gold
	}

	l.Strength += stats.Strength
	l.Intelligence += stats.Intelligence
	l.Vitality += stats.Vitality
	l.Agility += stats.Agility
	l.Sense += stats.Sense
	l.Willpower += stats.Willpower

	for l.CurrentXP >= XPForLevel(l.Level) {
		l.CurrentXP -= XPForLevel(l.Level)
		l.Level++
		out.LeveledUp = true
	}
	out.NewLevel = l.Level
	if out.LeveledUp {
		t := now
		l.LastLevelUp = &t
	}
	return out, nil
}

// HabitReward resolves the reward for completing a habit: the frozen
// xpReward when present, otherwise the difficulty table, plus gold and a
// single difficulty-scaled stat gain chosen by category.
func HabitReward(h *storage.Habit) (xp, gold int, stat Stat, gain int) {
	d := Difficulty(h.Difficulty)
	if !d.IsValid() {
		d = DifficultyEasy
	}
	xp = h.XPReward
	if xp <= 0 {
		xp = HabitXPByDifficulty[d]
	}
	gold = HabitGoldByDifficulty[d]
	stat = StatForCategory(h.Category)
	gain = HabitStatGainByDifficulty[d]
	return xp, gold, stat, gain
}

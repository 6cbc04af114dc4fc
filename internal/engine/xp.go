package engine

import "math"

const (
	// BaseXP is the XP threshold for level 1.
	BaseXP = 1000

	// CompoundRate is the per-level threshold growth (5%, compounding).
	CompoundRate = 0.05
)

// XPForLevel returns the XP needed to clear the given level.
// Level 1 requires BaseXP; level n requires floor(BaseXP * 1.05^(n-1)).
// The floor (not round) matters: any duplicate of this formula in a UI
// must floor the same way or progress bars drift from the ledger.
func XPForLevel(level int) int {
	if level <= 1 {
		return BaseXP
	}
	return int(math.Floor(BaseXP * math.Pow(1+CompoundRate, float64(level-1))))
}

// TotalXPForLevel returns the cumulative XP needed to reach the given level
// from scratch, i.e. the sum of XPForLevel(i) for i in [1, target).
func TotalXPForLevel(target int) int {
	total := 0
	for i := 1; i < target; i++ {
		total += XPForLevel(i)
	}
	return total
}

// LevelFromTotalXP converts cumulative XP to (level, XP within the level,
// threshold of the current level). It walks level by level so it agrees
// with the ledger's own level-up loop for every non-negative input.
func LevelFromTotalXP(totalXP int) (level, currentXP, xpForNext int) {
	level = 1
	remaining := totalXP
	for remaining >= XPForLevel(level) {
		remaining -= XPForLevel(level)
		level++
	}
	return level, remaining, XPForLevel(level)
}

// Rank is a display title derived from level.
type Rank struct {
	MinLevel int
	MaxLevel int
	Title    string
}

var rankTiers = []Rank{
	{1, 10, "Beginner"},
	{11, 25, "Novice Hunter"},
	{26, 40, "Skilled Hunter"},
	{41, 60, "Elite Hunter"},
	{61, 80, "Master Hunter"},
	{81, 99, "S-Rank Hunter"},
	{100, 999, "Shadow Monarch"},
}

// RankForLevel returns the rank title for a level.
func RankForLevel(level int) string {
	for _, r := range rankTiers {
		if level >= r.MinLevel && level <= r.MaxLevel {
			return r.Title
		}
	}
	return "Shadow Monarch"
}

package engine

import "testing"

func TestXPForLevelBase(t *testing.T) {
	if got := XPForLevel(1); got != 1000 {
		t.Fatalf("XPForLevel(1)=%d, want 1000", got)
	}
	if got := XPForLevel(0); got != 1000 {
		t.Fatalf("XPForLevel(0)=%d, want 1000", got)
	}
	if got := XPForLevel(-3); got != 1000 {
		t.Fatalf("XPForLevel(-3)=%d, want 1000", got)
	}
}

func TestXPForLevelCompound(t *testing.T) {
	// floor(1000 * 1.05^(n-1))
	cases := map[int]int{
		2:  1050,
		3:  1102,
		4:  1157,
		5:  1215,
		10: 1551,
	}
	for level, want := range cases {
		if got := XPForLevel(level); got != want {
			t.Fatalf("XPForLevel(%d)=%d, want %d", level, got, want)
		}
	}
}

func TestXPForLevelMonotonic(t *testing.T) {
	prev := XPForLevel(1)
	for level := 2; level <= 200; level++ {
		cur := XPForLevel(level)
		if cur < prev {
			t.Fatalf("XPForLevel(%d)=%d < XPForLevel(%d)=%d", level, cur, level-1, prev)
		}
		prev = cur
	}
}

// LevelFromTotalXP must agree with replaying the same XP through the
// ledger's incremental level-up loop.
func TestLevelFromTotalXPAgreesWithIncremental(t *testing.T) {
	totals := []int{0, 1, 999, 1000, 1050, 2049, 2050, 5000, 123456, 1000000}
	for _, total := range totals {
		level, currentXP, xpForNext := LevelFromTotalXP(total)

		incLevel, remaining := 1, total
		for remaining >= XPForLevel(incLevel) {
			remaining -= XPForLevel(incLevel)
			incLevel++
		}

		if level != incLevel || currentXP != remaining {
			t.Fatalf("LevelFromTotalXP(%d)=(%d,%d), incremental=(%d,%d)",
				total, level, currentXP, incLevel, remaining)
		}
		if xpForNext != XPForLevel(level) {
			t.Fatalf("xpForNext=%d, want XPForLevel(%d)=%d", xpForNext, level, XPForLevel(level))
		}
		if currentXP >= xpForNext {
			t.Fatalf("currentXP %d not below threshold %d", currentXP, xpForNext)
		}
	}
}

func TestTotalXPForLevel(t *testing.T) {
	if got := TotalXPForLevel(1); got != 0 {
		t.Fatalf("TotalXPForLevel(1)=%d, want 0", got)
	}
	if got := TotalXPForLevel(3); got != 2050 {
		t.Fatalf("TotalXPForLevel(3)=%d, want 2050", got)
	}

	level, currentXP, _ := LevelFromTotalXP(TotalXPForLevel(7))
	if level != 7 || currentXP != 0 {
		t.Fatalf("round trip to level 7 gave (%d,%d)", level, currentXP)
	}
}

func TestRankForLevel(t *testing.T) {
	cases := map[int]string{
		1:   "Beginner",
		10:  "Beginner",
		11:  "Novice Hunter",
		99:  "S-Rank Hunter",
		100: "Shadow Monarch",
	}
	for level, want := range cases {
		if got := RankForLevel(level); got != want {
			t.Fatalf("RankForLevel(%d)=%q, want %q", level, got, want)
		}
	}
}

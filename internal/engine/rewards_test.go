package engine

import (
	"errors"
	"testing"
	"time"

	"levelquest/internal/storage"
)

func freshLedger() *storage.Ledger {
	return &storage.Ledger{Key: storage.MainLedgerKey, Level: 1}
}

func TestApplyRewardLevelUpAtBoundary(t *testing.T) {
	l := freshLedger()
	now := time.Now()

	if _, err := ApplyReward(l, 950, 0, StatDeltas{}, now); err != nil {
		t.Fatalf("ApplyReward: %v", err)
	}
	if l.Level != 1 || l.CurrentXP != 950 {
		t.Fatalf("after 950 XP: level=%d currentXP=%d", l.Level, l.CurrentXP)
	}

	out, err := ApplyReward(l, 200, 0, StatDeltas{}, now)
	if err != nil {
		t.Fatalf("ApplyReward: %v", err)
	}
	if !out.LeveledUp || out.NewLevel != 2 {
		t.Fatalf("outcome=%+v, want level up to 2", out)
	}
	if l.Level != 2 || l.CurrentXP != 150 {
		t.Fatalf("after 1150 XP total: level=%d currentXP=%d, want 2/150", l.Level, l.CurrentXP)
	}
	if l.TotalXP != 1150 {
		t.Fatalf("totalXP=%d, want 1150", l.TotalXP)
	}
	if l.LastLevelUp == nil {
		t.Fatalf("lastLevelUp not stamped")
	}
}

func TestApplyRewardMultiLevel(t *testing.T) {
	l := freshLedger()

	out, err := ApplyReward(l, 5000, 0, StatDeltas{}, time.Now())
	if err != nil {
		t.Fatalf("ApplyReward: %v", err)
	}
	// 5000 - 1000 - 1050 - 1102 - 1157 = 691, lands in level 5
	if out.NewLevel != 5 || l.CurrentXP != 691 {
		t.Fatalf("level=%d currentXP=%d, want 5/691", out.NewLevel, l.CurrentXP)
	}
	if l.CurrentXP >= XPForLevel(l.Level) {
		t.Fatalf("currentXP %d not below threshold %d", l.CurrentXP, XPForLevel(l.Level))
	}
}

func TestApplyRewardGoldAndLifetime(t *testing.T) {
	l := freshLedger()

	if _, err := ApplyReward(l, 0, 100, StatDeltas{}, time.Now()); err != nil {
		t.Fatalf("ApplyReward: %v", err)
	}
	if l.CurrentGold != 100 || l.LifetimeGold != 100 {
		t.Fatalf("gold=%d lifetime=%d, want 100/100", l.CurrentGold, l.LifetimeGold)
	}

	// spending reduces current but never lifetime
	if _, err := ApplyReward(l, 0, -40, StatDeltas{}, time.Now()); err != nil {
		t.Fatalf("ApplyReward: %v", err)
	}
	if l.CurrentGold != 60 || l.LifetimeGold != 100 {
		t.Fatalf("gold=%d lifetime=%d, want 60/100", l.CurrentGold, l.LifetimeGold)
	}
}

func TestApplyRewardInsufficientGoldLeavesLedgerUntouched(t *testing.T) {
	l := freshLedger()
	l.CurrentGold = 30
	before := *l

	_, err := ApplyReward(l, 50, -100, StatDeltas{Strength: 1}, time.Now())
	var insufficient InsufficientGoldError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err=%v, want InsufficientGoldError", err)
	}
	if insufficient.Required != 100 || insufficient.Available != 30 {
		t.Fatalf("err detail=%+v", insufficient)
	}
	if *l != before {
		t.Fatalf("ledger mutated on failed deduction: %+v", *l)
	}
}

func TestApplyRewardRejectsNegativeXP(t *testing.T) {
	l := freshLedger()
	before := *l

	_, err := ApplyReward(l, -10, 0, StatDeltas{}, time.Now())
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err=%v, want ValidationError", err)
	}
	if *l != before {
		t.Fatalf("ledger mutated on rejected grant")
	}
}

func TestHabitRewardTables(t *testing.T) {
	h := &storage.Habit{Name: "Run", Category: "fitness", Difficulty: 3, XPReward: 300}
	xp, gold, stat, gain := HabitReward(h)
	if xp != 300 || gold != 50 || stat != StatStrength || gain != 3 {
		t.Fatalf("hard fitness habit reward = (%d,%d,%s,%d)", xp, gold, stat, gain)
	}

	// missing difficulty falls back to easy
	h = &storage.Habit{Name: "Journal", Category: "unknown-cat"}
	xp, gold, stat, gain = HabitReward(h)
	if xp != 100 || gold != 10 || stat != StatWillpower || gain != 1 {
		t.Fatalf("default habit reward = (%d,%d,%s,%d)", xp, gold, stat, gain)
	}
}

func TestStatForCategory(t *testing.T) {
	cases := map[string]Stat{
		"fitness":      StatStrength,
		"Health":       StatVitality,
		"learning":     StatIntelligence,
		"mindfulness":  StatSense,
		"productivity": StatAgility,
		"work":         StatIntelligence,
		"finance":      StatSense,
		"social":       StatAgility,
		"creative":     StatIntelligence,
		"personal":     StatWillpower,
		"gibberish":    StatWillpower,
	}
	for cat, want := range cases {
		if got := StatForCategory(cat); got != want {
			t.Fatalf("StatForCategory(%q)=%s, want %s", cat, got, want)
		}
	}
}

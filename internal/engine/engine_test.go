package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"levelquest/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	svc := NewService(db,
		WithTimezone(time.UTC),
		WithClock(func() time.Time { return testNow }),
	)
	if err := svc.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	return svc
}

func mustCreateHabit(t *testing.T, svc *Service, name, category string) *storage.Habit {
	t.Helper()
	h, err := svc.CreateHabit(context.Background(), CreateHabitInput{Name: name, Category: category})
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}
	return h
}

func TestCreateHabitFreezesReward(t *testing.T) {
	svc := newTestService(t)

	h := mustCreateHabit(t, svc, "Morning run", "fitness")
	if h.Difficulty != int(DefaultDifficulty) {
		t.Fatalf("difficulty=%d, want default %d", h.Difficulty, DefaultDifficulty)
	}
	if h.XPReward != 200 {
		t.Fatalf("xpReward=%d, want 200", h.XPReward)
	}
	if h.Frequency != string(FrequencyDaily) {
		t.Fatalf("frequency=%q, want daily", h.Frequency)
	}
}

func TestToggleCompletionRewardsAndNoClawback(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	h := mustCreateHabit(t, svc, "Morning run", "fitness")
	today := svc.Today()

	res, err := svc.ToggleCompletion(ctx, h.ID, today, true)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if res.XPGained != 200 || res.GoldGained != 25 {
		t.Fatalf("gains=%d/%d, want 200/25", res.XPGained, res.GoldGained)
	}

	l, err := svc.Ledger(ctx)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if l.TotalXP != 200 || l.CurrentGold != 25 || l.Strength != 2 {
		t.Fatalf("ledger after completion: xp=%d gold=%d str=%d", l.TotalXP, l.CurrentGold, l.Strength)
	}

	// toggling off flips the record but keeps the reward
	res, err = svc.ToggleCompletion(ctx, h.ID, today, false)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if res.XPGained != 0 || res.GoldGained != 0 {
		t.Fatalf("toggle off gained %d/%d, want zero", res.XPGained, res.GoldGained)
	}

	c, err := svc.CompletionRepo().Get(ctx, h.ID, today)
	if err != nil {
		t.Fatalf("get completion: %v", err)
	}
	if c == nil || c.Completed {
		t.Fatalf("completion record=%+v, want present and off", c)
	}

	l, _ = svc.Ledger(ctx)
	if l.TotalXP != 200 || l.CurrentGold != 25 {
		t.Fatalf("reward clawed back: xp=%d gold=%d", l.TotalXP, l.CurrentGold)
	}

	// re-toggling on the same day rewards again and keeps one record
	if _, err := svc.ToggleCompletion(ctx, h.ID, today, true); err != nil {
		t.Fatalf("toggle on again: %v", err)
	}
	all, err := svc.CompletionRepo().ListByHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("list completions: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("%d completion rows for one day, want 1", len(all))
	}
}

func TestToggleCompletionUnknownHabit(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ToggleCompletion(context.Background(), 9999, svc.Today(), true)
	var nf NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err=%v, want NotFoundError", err)
	}
}

func TestToggleCompletionBadDate(t *testing.T) {
	svc := newTestService(t)
	h := mustCreateHabit(t, svc, "Read", "learning")

	_, err := svc.ToggleCompletion(context.Background(), h.ID, "18-06-2025", true)
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err=%v, want ValidationError", err)
	}
}

func TestFirstHabitAchievement(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	h := mustCreateHabit(t, svc, "Run", "fitness")

	res, err := svc.ToggleCompletion(ctx, h.ID, svc.Today(), true)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if res.UnlockedAchievement == nil || res.UnlockedAchievement.Key != KeyFirstHabit {
		t.Fatalf("unlocked=%+v, want first_habit", res.UnlockedAchievement)
	}
	if res.UnlockedAchievement.UnlockedAt == nil {
		t.Fatalf("unlockedAt not stamped")
	}

	// second completion must not report it again
	res, err = svc.ToggleCompletion(ctx, h.ID, day(-1), true)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if res.UnlockedAchievement != nil {
		t.Fatalf("unlocked=%+v on repeat, want nil", res.UnlockedAchievement)
	}
}

func TestUnlockAchievementIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.UnlockAchievement(ctx, KeyFirstGoal)
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if a == nil || a.UnlockedAt == nil {
		t.Fatalf("first unlock=%+v", a)
	}
	stamp := *a.UnlockedAt

	// unlocking never applies the reward fields
	l, _ := svc.Ledger(ctx)
	if l.TotalXP != 0 || l.CurrentGold != 0 {
		t.Fatalf("unlock mutated ledger: %+v", l)
	}

	again, err := svc.UnlockAchievement(ctx, KeyFirstGoal)
	if err != nil {
		t.Fatalf("unlock again: %v", err)
	}
	if again != nil {
		t.Fatalf("second unlock=%+v, want nil", again)
	}

	stored, _ := svc.achievements.Get(ctx, KeyFirstGoal)
	if stored.UnlockedAt == nil || !stored.UnlockedAt.Equal(stamp) {
		t.Fatalf("unlockedAt changed: %v vs %v", stored.UnlockedAt, stamp)
	}
}

func TestUnlockUnknownAchievement(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.UnlockAchievement(context.Background(), "no_such_key")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if a != nil {
		t.Fatalf("unlocked %+v for unknown key", a)
	}
}

func TestGoalCompletionAwardsOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	g, err := svc.CreateGoal(ctx, CreateGoalInput{Title: "Ship the project", Category: "work"})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if g.XPReward != 2000 {
		t.Fatalf("xpReward=%d, want 2000 for medium", g.XPReward)
	}

	fifty := 50
	res, err := svc.UpdateGoal(ctx, g.ID, UpdateGoalInput{Progress: &fifty})
	if err != nil {
		t.Fatalf("update to 50: %v", err)
	}
	if res.XPAwarded != 0 {
		t.Fatalf("awarded %d at 50%%, want 0", res.XPAwarded)
	}

	hundred := 100
	res, err = svc.UpdateGoal(ctx, g.ID, UpdateGoalInput{Progress: &hundred})
	if err != nil {
		t.Fatalf("update to 100: %v", err)
	}
	if res.XPAwarded != 2000 {
		t.Fatalf("awarded %d at completion, want 2000", res.XPAwarded)
	}
	if !res.Goal.Completed {
		t.Fatalf("goal not latched completed")
	}
	if res.LeveledUp != true || res.NewLevel != 2 {
		t.Fatalf("level outcome=%v/%d, want up to 2", res.LeveledUp, res.NewLevel)
	}
	if res.UnlockedAchievement == nil || res.UnlockedAchievement.Key != KeyFirstGoal {
		t.Fatalf("unlocked=%+v, want first_goal", res.UnlockedAchievement)
	}

	// dropping progress and completing again must not pay twice
	thirty := 30
	if _, err := svc.UpdateGoal(ctx, g.ID, UpdateGoalInput{Progress: &thirty}); err != nil {
		t.Fatalf("update to 30: %v", err)
	}
	res, err = svc.UpdateGoal(ctx, g.ID, UpdateGoalInput{Progress: &hundred})
	if err != nil {
		t.Fatalf("re-complete: %v", err)
	}
	if res.XPAwarded != 0 {
		t.Fatalf("paid %d twice", res.XPAwarded)
	}

	l, _ := svc.Ledger(ctx)
	if l.TotalXP != 2000 {
		t.Fatalf("totalXP=%d, want 2000", l.TotalXP)
	}
}

func TestGoalStepsRollUpProgress(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	g, err := svc.CreateGoal(ctx, CreateGoalInput{
		Title:    "Learn Go",
		Category: "learning",
		Steps:    []string{"Read the tour", "Build a CLI"},
	})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if len(g.Steps) != 2 || g.Steps[0].ID == "" {
		t.Fatalf("steps=%+v", g.Steps)
	}

	res, err := svc.ToggleGoalStep(ctx, g.ID, g.Steps[0].ID, true)
	if err != nil {
		t.Fatalf("toggle step: %v", err)
	}
	if res.Goal.Progress != 50 || res.XPAwarded != 0 {
		t.Fatalf("progress=%d awarded=%d, want 50/0", res.Goal.Progress, res.XPAwarded)
	}

	res, err = svc.ToggleGoalStep(ctx, g.ID, res.Goal.Steps[1].ID, true)
	if err != nil {
		t.Fatalf("toggle last step: %v", err)
	}
	if res.Goal.Progress != 100 || !res.Goal.Completed {
		t.Fatalf("goal=%+v, want complete", res.Goal)
	}
	if res.XPAwarded != g.XPReward {
		t.Fatalf("awarded=%d, want %d", res.XPAwarded, g.XPReward)
	}

	// adding a step to a completed goal lowers the ratio but never unlatches
	res, err = svc.AddGoalStep(ctx, g.ID, "Write tests", "")
	if err != nil {
		t.Fatalf("add step: %v", err)
	}
	if !res.Goal.Completed {
		t.Fatalf("completed unlatched by new step")
	}
	if res.XPAwarded != 0 {
		t.Fatalf("paid again on step add")
	}
}

func TestShopPurchaseAndUse(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// bankroll via direct ledger write
	l, _ := svc.Ledger(ctx)
	l.CurrentGold = 500
	if err := svc.LedgerRepo().Update(ctx, svc.db, l); err != nil {
		t.Fatalf("fund ledger: %v", err)
	}

	res, err := svc.PurchaseItem(ctx, "minor_xp_potion", 2)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if res.GoldSpent != 300 || res.GoldRemaining != 200 {
		t.Fatalf("purchase=%+v", res)
	}

	// lifetime gold untouched by spending
	l, _ = svc.Ledger(ctx)
	if l.LifetimeGold != 0 {
		t.Fatalf("lifetimeGold=%d, want 0", l.LifetimeGold)
	}

	use, err := svc.UseItem(ctx, "minor_xp_potion")
	if err != nil {
		t.Fatalf("use: %v", err)
	}
	if use.XPGained != 250 {
		t.Fatalf("xpGained=%d, want 250", use.XPGained)
	}

	inv, err := svc.Inventory(ctx)
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if len(inv) != 1 || inv[0].Quantity != 1 {
		t.Fatalf("inventory=%+v, want one potion left", inv)
	}
}

func TestShopPurchaseInsufficientGold(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.PurchaseItem(ctx, "greater_xp_potion", 1)
	var insufficient InsufficientGoldError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err=%v, want InsufficientGoldError", err)
	}

	// nothing written
	l, _ := svc.Ledger(ctx)
	if l.CurrentGold != 0 {
		t.Fatalf("gold=%d after failed purchase", l.CurrentGold)
	}
	inv, _ := svc.Inventory(ctx)
	if len(inv) != 0 {
		t.Fatalf("inventory=%+v after failed purchase", inv)
	}
}

func TestListHabitsStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	h := mustCreateHabit(t, svc, "Run", "fitness")
	if _, err := svc.ToggleCompletion(ctx, h.ID, svc.Today(), true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := svc.ToggleCompletion(ctx, h.ID, day(-1), true); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	list, err := svc.ListHabits(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("%d habits, want 1", len(list))
	}
	st := list[0]
	if !st.CompletedToday || st.Streak != 2 || !st.DueToday {
		t.Fatalf("status=%+v, want completed today with streak 2", st)
	}
}

func TestDeleteHabitKeepsHistory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	h := mustCreateHabit(t, svc, "Run", "fitness")
	if _, err := svc.ToggleCompletion(ctx, h.ID, svc.Today(), true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := svc.DeleteHabit(ctx, h.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	list, err := svc.ListHabits(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("deleted habit still listed: %+v", list)
	}

	cs, err := svc.CompletionRepo().ListByHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("completions: %v", err)
	}
	if len(cs) != 1 {
		t.Fatalf("history lost on delete: %d rows", len(cs))
	}
}

func TestAnalyticsFromService(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	h := mustCreateHabit(t, svc, "Run", "fitness")
	if _, err := svc.ToggleCompletion(ctx, h.ID, svc.Today(), true); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	r, err := svc.Analytics(ctx)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if r.DailyData[6].Percentage != 100 {
		t.Fatalf("today=%+v, want 100%%", r.DailyData[6])
	}
	if r.StreakData.CurrentStreak != 1 {
		t.Fatalf("streak=%d, want 1", r.StreakData.CurrentStreak)
	}
}

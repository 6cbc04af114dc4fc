package engine

import (
	"testing"
	"time"

	"levelquest/internal/storage"
)

var testLoc = time.UTC

// fixed reference instant: Wednesday 2025-06-18, mid-day
var testNow = time.Date(2025, 6, 18, 12, 0, 0, 0, testLoc)

func day(offset int) string {
	return testNow.AddDate(0, 0, offset).Format(DayFormat)
}

func activeHabit(id int64, name, category string) storage.Habit {
	return storage.Habit{ID: id, Name: name, Category: category, Active: true}
}

func completed(habitID int64, date string) storage.Completion {
	return storage.Completion{HabitID: habitID, Date: date, Completed: true}
}

func TestAnalyticsEmptyState(t *testing.T) {
	r := ComputeAnalytics(nil, nil, testNow, testLoc)

	if len(r.DailyData) != 7 || len(r.WeeklyData) != 4 || len(r.MonthlyData) != 12 || len(r.YearlyData) != 5 {
		t.Fatalf("series lengths: %d/%d/%d/%d", len(r.DailyData), len(r.WeeklyData), len(r.MonthlyData), len(r.YearlyData))
	}
	for _, p := range r.DailyData {
		if p.Percentage != 0 || p.Completions != 0 {
			t.Fatalf("nonzero daily point: %+v", p)
		}
	}
	if r.StreakData.CurrentStreak != 0 || r.StreakData.LongestStreak != 0 {
		t.Fatalf("streak=%+v, want zeros", r.StreakData)
	}
	if r.OverallCompletion != "0.0" {
		t.Fatalf("overallCompletion=%q, want 0.0", r.OverallCompletion)
	}
	if r.OverallGrowth != "0.0" {
		t.Fatalf("overallGrowth=%q, want 0.0", r.OverallGrowth)
	}
	if len(r.CategoryBreakdown) != 0 {
		t.Fatalf("breakdown=%+v, want empty", r.CategoryBreakdown)
	}
}

func TestAnalyticsDailySeries(t *testing.T) {
	habits := []storage.Habit{
		activeHabit(1, "Run", "fitness"),
		activeHabit(2, "Read", "learning"),
	}
	completions := []storage.Completion{
		completed(1, day(0)),
		completed(2, day(0)),
		completed(1, day(-1)),
		// toggled off, must not count
		{HabitID: 2, Date: day(-1), Completed: false},
	}

	r := ComputeAnalytics(habits, completions, testNow, testLoc)

	today := r.DailyData[6]
	if today.Percentage != 100 || today.Completions != 2 || today.Total != 2 {
		t.Fatalf("today=%+v, want 100%% 2/2", today)
	}
	yesterday := r.DailyData[5]
	if yesterday.Percentage != 50 || yesterday.Completions != 1 {
		t.Fatalf("yesterday=%+v, want 50%% 1/2", yesterday)
	}
	if r.DailyData[6].Name != "Wed" || r.DailyData[5].Name != "Tue" {
		t.Fatalf("day names: %q %q", r.DailyData[5].Name, r.DailyData[6].Name)
	}
}

func TestAnalyticsStreak(t *testing.T) {
	habits := []storage.Habit{
		activeHabit(1, "Run", "fitness"),
		activeHabit(2, "Read", "learning"),
	}
	// today, -1, -2 at 50%+; -3 below; -5 and -6 form an older run
	completions := []storage.Completion{
		completed(1, day(0)),
		completed(1, day(-1)),
		completed(2, day(-1)),
		completed(1, day(-2)),
		// day(-3): nothing
		completed(1, day(-4)),
		completed(2, day(-4)),
		completed(1, day(-5)),
		completed(1, day(-6)),
	}

	r := ComputeAnalytics(habits, completions, testNow, testLoc)

	if r.StreakData.CurrentStreak != 3 {
		t.Fatalf("currentStreak=%d, want 3", r.StreakData.CurrentStreak)
	}
	if r.StreakData.LongestStreak != 3 {
		t.Fatalf("longestStreak=%d, want 3", r.StreakData.LongestStreak)
	}
	if r.StreakData.TotalCompletions != 8 {
		t.Fatalf("totalCompletions=%d, want 8", r.StreakData.TotalCompletions)
	}
}

func TestAnalyticsTierBoundaries(t *testing.T) {
	cases := []struct {
		rate int
		tier string
	}{
		{0, "critical"},
		{24, "critical"},
		{25, "needs-work"},
		{49, "needs-work"},
		{50, "good"},
		{74, "good"},
		{75, "excellent"},
		{100, "excellent"},
	}
	for _, c := range cases {
		tier, _, suggestion := tierInfo(c.rate)
		if tier != c.tier {
			t.Fatalf("tierInfo(%d)=%q, want %q", c.rate, tier, c.tier)
		}
		if c.tier == "excellent" && suggestion != "" {
			t.Fatalf("excellent tier should have no suggestion, got %q", suggestion)
		}
		if c.tier != "excellent" && suggestion == "" {
			t.Fatalf("tier %q missing suggestion", c.tier)
		}
	}
}

func TestAnalyticsHabitStatsByTimeframe(t *testing.T) {
	habits := []storage.Habit{activeHabit(1, "Run", "fitness")}
	// completed 3 of the last 7 days, including today
	completions := []storage.Completion{
		completed(1, day(0)),
		completed(1, day(-2)),
		completed(1, day(-4)),
	}

	r := ComputeAnalytics(habits, completions, testNow, testLoc)

	dailyStat := r.HabitStatsByTimeframe.Daily[0]
	if dailyStat.CompletionRate != 100 {
		t.Fatalf("daily rate=%d, want 100", dailyStat.CompletionRate)
	}
	weeklyStat := r.HabitStatsByTimeframe.Weekly[0]
	if weeklyStat.CompletionRate != 43 { // round(3/7*100)
		t.Fatalf("weekly rate=%d, want 43", weeklyStat.CompletionRate)
	}
	monthlyStat := r.HabitStatsByTimeframe.Monthly[0]
	if monthlyStat.CompletionRate != 10 { // round(3/30*100)
		t.Fatalf("monthly rate=%d, want 10", monthlyStat.CompletionRate)
	}
	if monthlyStat.Tier != "critical" {
		t.Fatalf("monthly tier=%q, want critical", monthlyStat.Tier)
	}

	// habitStats mirrors the monthly timeframe
	if len(r.HabitStats) != 1 || r.HabitStats[0].CompletionRate != 10 {
		t.Fatalf("habitStats=%+v", r.HabitStats)
	}
}

func TestAnalyticsInactiveHabitsExcluded(t *testing.T) {
	habits := []storage.Habit{
		activeHabit(1, "Run", "fitness"),
		{ID: 2, Name: "Old", Category: "fitness", Active: false},
	}
	completions := []storage.Completion{completed(1, day(0))}

	r := ComputeAnalytics(habits, completions, testNow, testLoc)

	if r.DailyData[6].Total != 1 {
		t.Fatalf("total=%d, want 1 (inactive excluded)", r.DailyData[6].Total)
	}
	if len(r.HabitStatsByTimeframe.Daily) != 1 {
		t.Fatalf("stats for %d habits, want 1", len(r.HabitStatsByTimeframe.Daily))
	}
}

func TestAnalyticsCategoryBreakdown(t *testing.T) {
	habits := []storage.Habit{
		activeHabit(1, "Run", "fitness"),
		activeHabit(2, "Lift", "fitness"),
		activeHabit(3, "Read", "learning"),
	}
	var completions []storage.Completion
	// habit 1 completed 15 of the trailing 30 days, habit 2 none
	for i := 0; i < 15; i++ {
		completions = append(completions, completed(1, day(-i)))
	}
	completions = append(completions, completed(3, day(0)))

	r := ComputeAnalytics(habits, completions, testNow, testLoc)

	byCat := map[string]CategoryStat{}
	for _, c := range r.CategoryBreakdown {
		byCat[c.Category] = c
	}
	fitness := byCat["fitness"]
	if fitness.Count != 2 {
		t.Fatalf("fitness count=%d, want 2", fitness.Count)
	}
	if fitness.CompletionRate != 25 { // round(15/60*100)
		t.Fatalf("fitness rate=%d, want 25", fitness.CompletionRate)
	}
	learning := byCat["learning"]
	if learning.CompletionRate != 3 { // round(1/30*100)
		t.Fatalf("learning rate=%d, want 3", learning.CompletionRate)
	}
}

func TestAnalyticsOverallMetrics(t *testing.T) {
	habits := []storage.Habit{activeHabit(1, "Run", "fitness")}
	// complete every day of the current week so far (Sun..Wed)
	var completions []storage.Completion
	for i := 0; i <= int(testNow.Weekday()); i++ {
		completions = append(completions, completed(1, day(-i)))
	}

	r := ComputeAnalytics(habits, completions, testNow, testLoc)

	// current week: 4 completions over 7 slots
	if r.WeeklyData[3].Completions != 4 {
		t.Fatalf("this week completions=%d, want 4", r.WeeklyData[3].Completions)
	}
	if r.WeeklyProgress != "57" { // round(4/7*100)
		t.Fatalf("weeklyProgress=%q, want 57", r.WeeklyProgress)
	}
	if r.OverallGrowth != "57.0" { // last week was 0
		t.Fatalf("overallGrowth=%q, want 57.0", r.OverallGrowth)
	}
}

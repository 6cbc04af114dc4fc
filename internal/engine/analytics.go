package engine

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"levelquest/internal/storage"
)

// SeriesPoint is one bucket of a completion-rate time series.
type SeriesPoint struct {
	Name        string `json:"name"`
	Percentage  int    `json:"percentage"`
	Completions int    `json:"completions"`
	Total       int    `json:"total"`
}

// HabitStat rates one habit over a lookback window and assigns a tier.
type HabitStat struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	CompletionRate int    `json:"completionRate"`
	Tier           string `json:"tier"`
	TierLabel      string `json:"tierLabel"`
	Suggestion     string `json:"suggestion,omitempty"`
}

// TimeframeStats holds per-habit tiers at the four standard lookbacks.
type TimeframeStats struct {
	Daily   []HabitStat `json:"daily"`
	Weekly  []HabitStat `json:"weekly"`
	Monthly []HabitStat `json:"monthly"`
	Yearly  []HabitStat `json:"yearly"`
}

type StreakData struct {
	CurrentStreak    int `json:"currentStreak"`
	LongestStreak    int `json:"longestStreak"`
	TotalCompletions int `json:"totalCompletions"`
}

type CategoryStat struct {
	Category       string `json:"category"`
	CompletionRate int    `json:"completionRate"`
	Count          int    `json:"count"`
}

// Report is the full analytics snapshot. Every field is recomputed from the
// habit list and completion log on each call; nothing here is cached or
// incrementally maintained.
type Report struct {
	DailyData   []SeriesPoint `json:"dailyData"`
	WeeklyData  []SeriesPoint `json:"weeklyData"`
	MonthlyData []SeriesPoint `json:"monthlyData"`
	YearlyData  []SeriesPoint `json:"yearlyData"`

	OverallGrowth     string `json:"overallGrowth"`
	WeeklyProgress    string `json:"weeklyProgress"`
	OverallCompletion string `json:"overallCompletion"`

	HabitStats            []HabitStat    `json:"habitStats"`
	HabitStatsByTimeframe TimeframeStats `json:"habitStatsByTimeframe"`
	StreakData            StreakData     `json:"streakData"`
	CategoryBreakdown     []CategoryStat `json:"categoryBreakdown"`
}

// Analytics loads state and computes the report as of now.
func (s *Service) Analytics(ctx context.Context) (*Report, error) {
	habits, err := s.habits.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	completions, err := s.completions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeAnalytics(habits, completions, s.now(), s.tz), nil
}

// ComputeAnalytics is the pure aggregation core. Day boundaries come from
// loc, never UTC. Empty state produces zeroed series, not errors: every
// ratio with a zero denominator is 0.
func ComputeAnalytics(habits []storage.Habit, completions []storage.Completion, now time.Time, loc *time.Location) *Report {
	var active []storage.Habit
	for _, h := range habits {
		if h.Active {
			active = append(active, h)
		}
	}
	activeCount := len(active)
	day0 := startOfCivilDay(now, loc)

	// distinct habits completed per civil day, and completed days per habit
	byDay := make(map[string]map[int64]bool)
	byHabit := make(map[int64]map[string]bool)
	totalCompleted := 0
	for _, c := range completions {
		if !c.Completed {
			continue
		}
		totalCompleted++
		if byDay[c.Date] == nil {
			byDay[c.Date] = make(map[int64]bool)
		}
		byDay[c.Date][c.HabitID] = true
		if byHabit[c.HabitID] == nil {
			byHabit[c.HabitID] = make(map[string]bool)
		}
		byHabit[c.HabitID][c.Date] = true
	}
	dayCount := func(d time.Time) int {
		return len(byDay[d.Format(DayFormat)])
	}

	// last 7 days, oldest first
	daily := make([]SeriesPoint, 0, 7)
	for i := 0; i < 7; i++ {
		d := day0.AddDate(0, 0, -(6 - i))
		n := dayCount(d)
		daily = append(daily, SeriesPoint{
			Name:        d.Format("Mon"),
			Percentage:  pct(n, activeCount),
			Completions: n,
			Total:       activeCount,
		})
	}

	// last 4 weeks, anchored so the current week starts on Sunday
	weekly := make([]SeriesPoint, 0, 4)
	for i := 0; i < 4; i++ {
		start := day0.AddDate(0, 0, -((3-i)*7 + int(day0.Weekday())))
		sum, total := 0, 0
		for d := 0; d < 7; d++ {
			sum += dayCount(start.AddDate(0, 0, d))
			total += activeCount
		}
		weekly = append(weekly, SeriesPoint{
			Name:        fmt.Sprintf("Week %d", i+1),
			Percentage:  pct(sum, total),
			Completions: sum,
			Total:       total,
		})
	}

	// last 12 calendar months, current month clipped at today
	monthly := make([]SeriesPoint, 0, 12)
	for i := 0; i < 12; i++ {
		monthStart := time.Date(day0.Year(), day0.Month()-time.Month(11-i), 1, 0, 0, 0, 0, loc)
		monthEnd := monthStart.AddDate(0, 1, 0)
		sum, total := 0, 0
		for d := monthStart; d.Before(monthEnd); d = d.AddDate(0, 0, 1) {
			if d.After(day0) {
				break
			}
			sum += dayCount(d)
			total += activeCount
		}
		monthly = append(monthly, SeriesPoint{
			Name:        monthStart.Format("Jan"),
			Percentage:  pct(sum, total),
			Completions: sum,
			Total:       total,
		})
	}

	// last 5 calendar years; current year's denominator is elapsed days
	yearly := make([]SeriesPoint, 0, 5)
	for i := 0; i < 5; i++ {
		year := day0.Year() - (4 - i)
		n := 0
		prefix := strconv.Itoa(year) + "-"
		for date, habitSet := range byDay {
			if len(date) >= 5 && date[:5] == prefix {
				n += len(habitSet)
			}
		}
		days := 365
		if year == day0.Year() {
			jan1 := time.Date(year, 1, 1, 0, 0, 0, 0, loc)
			days = int(math.Ceil(now.Sub(jan1).Hours() / 24))
			if days < 1 {
				days = 1
			}
		}
		total := days * activeCount
		yearly = append(yearly, SeriesPoint{
			Name:        strconv.Itoa(year),
			Percentage:  pct(n, total),
			Completions: n,
			Total:       total,
		})
	}

	statsFor := func(days int) []HabitStat {
		startStr := day0.AddDate(0, 0, -days+1).Format(DayFormat)
		out := make([]HabitStat, 0, len(active))
		for _, h := range active {
			unique := 0
			for date := range byHabit[h.ID] {
				if date >= startStr {
					unique++
				}
			}
			rate := pct(unique, days)
			if rate > 100 {
				rate = 100
			}
			tier, label, suggestion := tierInfo(rate)
			out = append(out, HabitStat{
				ID:             h.ID,
				Name:           h.Name,
				CompletionRate: rate,
				Tier:           tier,
				TierLabel:      label,
				Suggestion:     suggestion,
			})
		}
		return out
	}
	byTimeframe := TimeframeStats{
		Daily:   statsFor(1),
		Weekly:  statsFor(7),
		Monthly: statsFor(30),
		Yearly:  statsFor(365),
	}

	streak := computeStreak(byDay, activeCount, day0, totalCompleted)

	// category breakdown over the trailing 30 days
	catStart := day0.AddDate(0, 0, -29).Format(DayFormat)
	todayStr := day0.Format(DayFormat)
	var catOrder []string
	catHabits := make(map[string][]int64)
	for _, h := range active {
		if _, seen := catHabits[h.Category]; !seen {
			catOrder = append(catOrder, h.Category)
		}
		catHabits[h.Category] = append(catHabits[h.Category], h.ID)
	}
	breakdown := make([]CategoryStat, 0, len(catOrder))
	for _, cat := range catOrder {
		ids := catHabits[cat]
		unique := 0
		for _, id := range ids {
			for date := range byHabit[id] {
				if date >= catStart && date <= todayStr {
					unique++
				}
			}
		}
		expected := 30 * len(ids)
		rate := pct(unique, expected)
		if rate > 100 {
			rate = 100
		}
		breakdown = append(breakdown, CategoryStat{Category: cat, CompletionRate: rate, Count: len(ids)})
	}

	thisWeek := weekly[3].Percentage
	lastWeek := weekly[2].Percentage
	sumDaily := 0
	for _, d := range daily {
		sumDaily += d.Percentage
	}

	return &Report{
		DailyData:             daily,
		WeeklyData:            weekly,
		MonthlyData:           monthly,
		YearlyData:            yearly,
		OverallGrowth:         fmt.Sprintf("%.1f", float64(thisWeek-lastWeek)),
		WeeklyProgress:        strconv.Itoa(thisWeek),
		OverallCompletion:     fmt.Sprintf("%.1f", float64(sumDaily)/float64(len(daily))),
		HabitStats:            byTimeframe.Monthly,
		HabitStatsByTimeframe: byTimeframe,
		StreakData:            streak,
		CategoryBreakdown:     breakdown,
	}
}

// ComputeStreak derives streaks alone, for callers that do not need the
// full report.
func ComputeStreak(habits []storage.Habit, completions []storage.Completion, now time.Time, loc *time.Location) StreakData {
	return ComputeAnalytics(habits, completions, now, loc).StreakData
}

// computeStreak scans backwards from today. A day counts when at least half
// of the active habits were completed. The current streak stops at the first
// failed day; the longest streak considers the whole 365-day window.
func computeStreak(byDay map[string]map[int64]bool, activeCount int, day0 time.Time, totalCompleted int) StreakData {
	sd := StreakData{TotalCompletions: totalCompleted}
	if activeCount == 0 {
		return sd
	}

	success := func(i int) bool {
		date := day0.AddDate(0, 0, -i).Format(DayFormat)
		return float64(len(byDay[date]))/float64(activeCount) >= 0.5
	}

	for i := 0; i < 365 && success(i); i++ {
		sd.CurrentStreak++
	}
	run := 0
	for i := 364; i >= 0; i-- {
		if success(i) {
			run++
			if run > sd.LongestStreak {
				sd.LongestStreak = run
			}
		} else {
			run = 0
		}
	}
	return sd
}

// pct rounds n/total to a whole percentage; zero denominators produce 0.
func pct(n, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}

// tierInfo buckets a completion rate. The suggestion text for the lower
// tiers is fixed copy shown verbatim in clients.
func tierInfo(rate int) (tier, label, suggestion string) {
	switch {
	case rate < 25:
		return "critical", "Critical",
			"This habit needs immediate attention. Try setting reminders or linking it to an existing routine."
	case rate < 50:
		return "needs-work", "Needs Work",
			"Below 50% completion is a problem. Consider simplifying this habit or breaking it into smaller steps."
	case rate < 75:
		return "good", "Good Progress",
			"You're on track! Focus on consistency to reach the next level."
	default:
		return "excellent", "Excellent", ""
	}
}

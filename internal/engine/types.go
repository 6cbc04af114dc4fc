package engine

import (
	"strings"
	"time"
)

type Stat string

const (
	StatStrength     Stat = "strength"
	StatIntelligence Stat = "intelligence"
	StatVitality     Stat = "vitality"
	StatAgility      Stat = "agility"
	StatSense        Stat = "sense"
	StatWillpower    Stat = "willpower"
)

func (s Stat) IsValid() bool {
	switch s {
	case StatStrength, StatIntelligence, StatVitality, StatAgility, StatSense, StatWillpower:
		return true
	default:
		return false
	}
}

// DefaultStat receives the gain for any category without a mapping.
const DefaultStat Stat = StatWillpower

// statByCategory maps habit/goal categories to the stat they train.
// Kept as a table so new categories are a one-line change.
var statByCategory = map[string]Stat{
	"fitness":      StatStrength,
	"health":       StatVitality,
	"learning":     StatIntelligence,
	"mindfulness":  StatSense,
	"productivity": StatAgility,
	"personal":     StatWillpower,
	"work":         StatIntelligence,
	"finance":      StatSense,
	"social":       StatAgility,
	"creative":     StatIntelligence,
}

// StatForCategory returns the stat trained by a habit category.
// Unknown categories fall back to willpower.
func StatForCategory(category string) Stat {
	if s, ok := statByCategory[strings.ToLower(strings.TrimSpace(category))]; ok {
		return s
	}
	return DefaultStat
}

type Difficulty int

const (
	DifficultyEasy   Difficulty = 1
	DifficultyMedium Difficulty = 2
	DifficultyHard   Difficulty = 3
)

func (d Difficulty) IsValid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

// DefaultDifficulty is used when the assessor is unavailable or returns garbage.
const DefaultDifficulty Difficulty = DifficultyMedium

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekdays Frequency = "weekdays"
	FrequencyWeekends Frequency = "weekends"
	FrequencySpecific Frequency = "specific"
	FrequencyCustom   Frequency = "custom"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekdays, FrequencyWeekends, FrequencySpecific, FrequencyCustom:
		return true
	default:
		return false
	}
}

// ParseFrequency normalizes user input; empty input means daily.
func ParseFrequency(input string) (Frequency, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return FrequencyDaily, nil
	}
	f := Frequency(s)
	if !f.IsValid() {
		return "", ValidationError{Reason: "invalid frequency: " + input}
	}
	return f, nil
}

// DayFormat is the civil-day layout used across the completion log.
const DayFormat = "2006-01-02"

// CivilDay renders t as a calendar day in the reference timezone.
// All "today" boundaries use this, never UTC midnight.
func CivilDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayFormat)
}

// startOfCivilDay returns midnight of t's calendar day in loc.
func startOfCivilDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// DueToday reports whether a habit is scheduled for the day of t.
// Advisory metadata only: completions and rewards are never gated on it.
func DueToday(f Frequency, days []int, customInterval int, lastCompletion string, t time.Time, loc *time.Location) bool {
	dow := int(t.In(loc).Weekday())
	switch f {
	case FrequencyDaily:
		return true
	case FrequencyWeekdays:
		return dow >= 1 && dow <= 5
	case FrequencyWeekends:
		return dow == 0 || dow == 6
	case FrequencySpecific:
		for _, d := range days {
			if d == dow {
				return true
			}
		}
		return false
	case FrequencyCustom:
		if customInterval <= 0 || lastCompletion == "" {
			return true
		}
		last, err := time.ParseInLocation(DayFormat, lastCompletion, loc)
		if err != nil {
			return true
		}
		today, _ := time.ParseInLocation(DayFormat, CivilDay(t, loc), loc)
		return int(today.Sub(last).Hours()/24) >= customInterval
	default:
		return true
	}
}

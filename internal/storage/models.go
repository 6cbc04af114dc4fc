package storage

import "time"

// Ledger is the singleton progression record: level, XP, gold and the six
// character stats. CurrentXP is always strictly below the threshold of Level.
type Ledger struct {
	Key          string
	Level        int
	CurrentXP    int
	TotalXP      int
	CurrentGold  int
	LifetimeGold int

	Strength     int
	Intelligence int
	Vitality     int
	Agility      int
	Sense        int
	Willpower    int

	LastLevelUp *time.Time
}

type Habit struct {
	ID             int64
	Name           string
	Description    *string
	Category       string
	Difficulty     int
	XPReward       int // frozen at creation from difficulty
	DifficultyNote *string
	Priority       bool
	Color          string
	Frequency      string
	FrequencyDays  []int // 0=Sun .. 6=Sat, JSON in sqlite
	CustomInterval *int
	Active         bool
	CreatedAt      time.Time
}

type GoalStep struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Completed      bool   `json:"completed"`
	SuggestedHabit string `json:"suggestedHabit,omitempty"`
}

type Goal struct {
	ID          int64
	Title       string
	Description *string
	Category    string
	Deadline    *string // civil day, YYYY-MM-DD
	Progress    int     // 0..100
	Difficulty  int
	XPReward    int
	Completed   bool
	Priority    bool
	Steps       []GoalStep // JSON in sqlite
	CreatedAt   time.Time
}

// Completion is one (habit, civil day) log entry. Toggling overwrites the
// row rather than appending, so there is at most one per pair.
type Completion struct {
	ID        int64
	HabitID   int64
	Date      string // YYYY-MM-DD
	Completed bool
}

type StatBonus struct {
	Stat   string `json:"stat"`
	Amount int    `json:"amount"`
}

// Achievement rows serialize straight onto the API, hence the tags.
// Reward fields are display metadata; unlocking never applies them.
type Achievement struct {
	ID           int64      `json:"id"`
	Key          string     `json:"key"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Icon         string     `json:"icon"`
	Category     string     `json:"category"`
	Tier         string     `json:"tier"` // bronze, silver, gold, platinum, legendary
	XPReward     int        `json:"xpReward"`
	GoldReward   int        `json:"goldReward"`
	StatBonus    *StatBonus `json:"statBonus,omitempty"` // JSON in sqlite
	SpecialPower *string    `json:"specialPower,omitempty"`
	UnlockedAt   *time.Time `json:"unlockedAt"`
}

type InventoryItem struct {
	ID          int64
	ItemID      string
	Quantity    int
	PurchasedAt time.Time
}

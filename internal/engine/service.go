package engine

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"levelquest/internal/storage"

	"github.com/rs/zerolog"
)

// Service is the gameplay core: every mutating operation routes through it so
// the singleton ledger is only ever touched under s.mu and inside a
// transaction. Reads (lists, analytics) go straight to the repos.
type Service struct {
	db           *sql.DB
	ledger       *storage.LedgerRepo
	habits       *storage.HabitRepo
	goals        *storage.GoalRepo
	completions  *storage.CompletionRepo
	achievements *storage.AchievementRepo
	inventory    *storage.InventoryRepo

	tz       *time.Location
	assessor DifficultyAssessor
	now      func() time.Time
	log      zerolog.Logger

	// serializes ledger read-modify-write cycles
	mu sync.Mutex
}

type Option func(*Service)

// WithTimezone sets the reference timezone used for civil-day boundaries.
func WithTimezone(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.tz = loc
		}
	}
}

// WithAssessor plugs in a difficulty assessor for new habits and goals.
func WithAssessor(a DifficultyAssessor) Option {
	return func(s *Service) {
		if a != nil {
			s.assessor = a
		}
	}
}

// WithClock overrides the time source. Tests use this to pin "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(db *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:           db,
		ledger:       storage.NewLedgerRepo(db),
		habits:       storage.NewHabitRepo(db),
		goals:        storage.NewGoalRepo(db),
		completions:  storage.NewCompletionRepo(db),
		achievements: storage.NewAchievementRepo(db),
		inventory:    storage.NewInventoryRepo(db),
		tz:           time.Local,
		assessor:     StaticAssessor{},
		now:          time.Now,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repo accessors, used by tests for direct reads.
func (s *Service) LedgerRepo() *storage.LedgerRepo         { return s.ledger }
func (s *Service) CompletionRepo() *storage.CompletionRepo { return s.completions }

// Timezone returns the reference timezone for civil-day boundaries.
func (s *Service) Timezone() *time.Location { return s.tz }

// Today returns the current civil day in the reference timezone.
func (s *Service) Today() string { return CivilDay(s.now(), s.tz) }

// Init seeds the achievement catalog. Safe to call on every startup.
func (s *Service) Init(ctx context.Context) error {
	return s.achievements.Seed(ctx, AchievementCatalog())
}

// Ledger returns the singleton progression record, creating it on first use.
func (s *Service) Ledger(ctx context.Context) (*storage.Ledger, error) {
	return s.ledger.GetOrCreateMain(ctx)
}

// LedgerStatus is the ledger plus derived presentation fields.
type LedgerStatus struct {
	Ledger    *storage.Ledger
	XPForNext int
	Rank      string
}

func (s *Service) Status(ctx context.Context) (*LedgerStatus, error) {
	l, err := s.ledger.GetOrCreateMain(ctx)
	if err != nil {
		return nil, err
	}
	return &LedgerStatus{
		Ledger:    l,
		XPForNext: XPForLevel(l.Level),
		Rank:      RankForLevel(l.Level),
	}, nil
}

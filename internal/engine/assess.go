package engine

import "context"

// DifficultyAssessor rates new habits and goals on the 1-3 scale. Production
// wires an LLM-backed implementation; the engine only depends on this
// contract. A failed or out-of-range assessment never fails the create
// operation: callers fall back to DefaultDifficulty.
type DifficultyAssessor interface {
	AssessHabit(ctx context.Context, name, category, description string) (Difficulty, string, error)
	AssessGoal(ctx context.Context, title, description, deadline string) (Difficulty, string, error)
}

// StaticAssessor always answers with a fixed difficulty. The zero value
// rates everything medium, which is also the degraded-mode fallback.
type StaticAssessor struct {
	Difficulty Difficulty
}

func (a StaticAssessor) AssessHabit(context.Context, string, string, string) (Difficulty, string, error) {
	return a.difficulty(), "", nil
}

func (a StaticAssessor) AssessGoal(context.Context, string, string, string) (Difficulty, string, error) {
	return a.difficulty(), "", nil
}

func (a StaticAssessor) difficulty() Difficulty {
	if a.Difficulty.IsValid() {
		return a.Difficulty
	}
	return DefaultDifficulty
}

// assessOrDefault shields create flows from assessor failures.
func assessOrDefault(d Difficulty, err error) Difficulty {
	if err != nil || !d.IsValid() {
		return DefaultDifficulty
	}
	return d
}

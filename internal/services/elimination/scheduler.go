package elimination

import (
	"fmt"
	"log/slog"
)

type setting struct {
	mode  Mode
	value int
}

// Scheduler decides how many players to knock out each round
type Scheduler struct {
	current setting
	saved   *setting
	logger  *slog.Logger
}

// New creates a Scheduler with the given mode
func New(mode Mode, value int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		current: setting{mode: mode, value: value},
		logger:  logger.With(slog.String("component", "elimination")),
	}
}

// Mode returns the active mode
func (s *Scheduler) Mode() Mode {
	return s.current.mode
}

// Value returns the active mode's parameter
func (s *Scheduler) Value() int {
	return s.current.value
}

// IsOverridden reports whether a temporary mode set with Set is active
func (s *Scheduler) IsOverridden() bool {
	return s.saved != nil
}

// Set switches to a temporary mode, remembering the current one for Revert.
// Only one previous mode is kept.
func (s *Scheduler) Set(mode Mode, value int) {
	prev := s.current
	s.saved = &prev
	s.current = setting{mode: mode, value: value}
}

// Revert restores the mode active before the last Set
func (s *Scheduler) Revert() bool {
	if s.saved == nil {
		s.logger.Warn("revert without a saved elimination mode")
		return false
	}
	s.current = *s.saved
	s.saved = nil
	return true
}

// Configure changes the base mode. While a temporary mode is active the change
// takes effect when it is reverted.
func (s *Scheduler) Configure(mode Mode, value int) {
	if s.saved != nil {
		s.saved = &setting{mode: mode, value: value}
		return
	}
	s.current = setting{mode: mode, value: value}
}

// Base returns the mode that applies once any temporary mode is reverted
func (s *Scheduler) Base() (Mode, int) {
	if s.saved != nil {
		return s.saved.mode, s.saved.value
	}
	return s.current.mode, s.current.value
}

// GetEliminationsThisRound returns how many players to knock out in the given
// round with playersLeft still in the knockout
func (s *Scheduler) GetEliminationsThisRound(roundNumber, playersLeft int) int {
	return s.PlanRound(roundNumber, playersLeft).Count
}

// PlanRound computes the eliminations for a round
func (s *Scheduler) PlanRound(roundNumber, playersLeft int) Plan {
	plan := Plan{Mode: s.current.mode, Value: s.current.value}

	switch s.current.mode {
	case ModeNone:
		plan.Count = 1
	case ModeConstant, ModeTiebreaker:
		plan.Count = s.current.value
	case ModeExtra:
		plan.Count = ceilDiv(playersLeft, s.current.value)
	case ModeDynamic:
		plan.Count = s.dynamicCount(roundNumber, playersLeft)
	default:
		s.logger.Error("unknown elimination mode", slog.Int("mode", int(s.current.mode)))
		plan.Count = 1
	}

	if plan.Count < 1 && playersLeft > 1 {
		plan.Count = 1
	}
	return plan
}

// String renders the active mode for display
func (s *Scheduler) String() string {
	return Describe(s.current.mode, s.current.value)
}

// Describe renders a mode and its parameter for display
func Describe(mode Mode, value int) string {
	switch mode {
	case ModeNone:
		return "None"
	case ModeConstant:
		return fmt.Sprintf("Constant (%d)", value)
	case ModeExtra:
		return fmt.Sprintf("Extra (1 per %d)", value)
	case ModeTiebreaker:
		return fmt.Sprintf("Tiebreaker (%d)", value)
	case ModeDynamic:
		return fmt.Sprintf("Dynamic (%d rounds)", value)
	default:
		return "Unknown"
	}
}

func (s *Scheduler) dynamicCount(roundNumber, playersLeft int) int {
	curve, outcome := solveCurve(roundNumber, s.current.value, playersLeft)

	attrs := []any{
		slog.Int("round", roundNumber),
		slog.Int("target_rounds", s.current.value),
		slog.Int("players_left", playersLeft),
	}
	switch outcome {
	case outcomeInfeasible:
		s.logger.Warn("more rounds left than players to knock out, knocking out one per round", attrs...)
	case outcomeApproximate:
		s.logger.Error("elimination curve did not converge, using approximate curve", attrs...)
	case outcomeCompensated:
		s.logger.Debug("elimination curve compensated by one", attrs...)
	}

	if len(curve) == 0 {
		return 0
	}
	return curve[0]
}

// DynamicCurve returns the planned eliminations for every round from
// roundNumber to targetRounds
func DynamicCurve(roundNumber, targetRounds, playersLeft int) []int {
	curve, _ := solveCurve(roundNumber, targetRounds, playersLeft)
	return curve
}

func ceilDiv(a, b int) int {
	if b <= 0 || a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

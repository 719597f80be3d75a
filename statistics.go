package desim

import "errors"

// ErrStatisticNotRegistered is returned by RemoveStatistic when asked to
// deregister a statistic the registry does not hold.
var ErrStatisticNotRegistered = errors.New("desim: statistic not registered")

// AnalyzableStatistic is the interface the core consumes to drive
// precision-based termination (§6, §4.7). The core only ever reads these
// members and calls InitializeForExperiment/Reset/SetSteadyStateEnterTime;
// it never mutates a statistic's numeric state. Estimators, confidence
// intervals and the like are out of scope (§1) and live entirely behind
// this interface.
type AnalyzableStatistic interface {
	// Enabled reports whether this statistic currently participates in
	// the "all statistics reached target precision" termination check.
	Enabled() bool

	// SteadyStateEntered reports whether the statistic considers itself
	// past its warm-up transient.
	SteadyStateEntered() bool

	// SetSteadyStateEnterTime is called exactly once, by the engine, the
	// first time SteadyStateEntered transitions to true, with the
	// simulated time at which that was observed.
	SetSteadyStateEnterTime(t VTimeInSec)

	// TargetRelativePrecision returns the relative-error bound the
	// statistic is aiming for.
	TargetRelativePrecision() float64

	// RelativePrecision returns the statistic's current observed
	// relative error.
	RelativePrecision() float64

	// TargetPrecisionReached reports whether RelativePrecision has met
	// TargetRelativePrecision.
	TargetPrecisionReached() bool

	// InitializeForExperiment resets any experiment-scoped accumulator
	// state. Called when the statistic is registered mid-run.
	InitializeForExperiment()

	// Reset clears the statistic back to its initial state. Called by
	// the engine when preparing a fresh run.
	Reset()
}

// StatisticsRegistry holds the set of statistics an Engine monitors, each
// with a latch bit recording whether its steady state has already been
// observed (§4.7). The latch, not the statistic's own
// SteadyStateEntered(), is what guards the one-time SetSteadyStateEnterTime
// call.
type StatisticsRegistry struct {
	order []AnalyzableStatistic
	latch map[AnalyzableStatistic]bool
}

// NewStatisticsRegistry creates an empty registry.
func NewStatisticsRegistry() *StatisticsRegistry {
	return &StatisticsRegistry{
		latch: make(map[AnalyzableStatistic]bool),
	}
}

// Analyze registers s. Its latch is initialized from s.SteadyStateEntered()
// as-is: if steady state has already been entered by the time of
// registration, the latch starts true but SetSteadyStateEnterTime is never
// retroactively called (§9, third open question — preserved from the
// original dcs::des::engine::analyze_statistic). If running is true (a run
// is in progress), s.InitializeForExperiment() is invoked immediately.
func (r *StatisticsRegistry) Analyze(s AnalyzableStatistic, running bool) {
	if _, already := r.latch[s]; !already {
		r.order = append(r.order, s)
	}

	r.latch[s] = s.SteadyStateEntered()

	if running {
		s.InitializeForExperiment()
	}
}

// Remove deregisters s. It returns ErrStatisticNotRegistered if s was never
// registered (or was already removed).
func (r *StatisticsRegistry) Remove(s AnalyzableStatistic) error {
	if _, ok := r.latch[s]; !ok {
		return ErrStatisticNotRegistered
	}

	delete(r.latch, s)

	for i, registered := range r.order {
		if registered == s {
			r.order = append(r.order[:i], r.order[i+1:]...)

			break
		}
	}

	return nil
}

// RemoveAll deregisters every statistic.
func (r *StatisticsRegistry) RemoveAll() {
	r.order = nil
	r.latch = make(map[AnalyzableStatistic]bool)
}

// Empty reports whether the registry holds no statistics.
func (r *StatisticsRegistry) Empty() bool {
	return len(r.order) == 0
}

// ResetAll calls Reset on every registered statistic.
func (r *StatisticsRegistry) ResetAll() {
	for _, s := range r.order {
		s.Reset()
	}
}

// Monitor advances every statistic's steady-state latch and reports whether
// every enabled statistic has reached its target precision (§4.7). It never
// short-circuits: every statistic must be visited so its latch advances,
// even once the overall answer is already known to be false.
func (r *StatisticsRegistry) Monitor(now VTimeInSec) (allReached bool) {
	if r.Empty() {
		return false
	}

	allReached = true

	for _, s := range r.order {
		if !r.latch[s] && s.SteadyStateEntered() {
			r.latch[s] = true
			s.SetSteadyStateEnterTime(now)
		}

		if s.Enabled() && !s.TargetPrecisionReached() {
			allReached = false
		}
	}

	return allReached
}

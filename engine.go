package desim

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/dcsdes/desim/idgen"
)

// Stable names of the six built-in lifecycle event sources (§6).
const (
	NameBeginOfSim        = "Begin of Simulation"
	NameEndOfSim          = "End of Simulation"
	NameBeforeEventFiring = "Before Event Firing"
	NameAfterEventFiring  = "After Event Firing"
	NameSystemInit        = "System Initialization"
	NameSystemFinal       = "System Finalization"
)

// ErrStopAtTimePast is returned by StopAtTime when asked to stop at a time
// that has already elapsed.
var ErrStopAtTimePast = errors.New("desim: cannot stop the simulation at a past time")

// State is one of the Engine's four lifecycle states (§4.8).
type State int

// The four Engine lifecycle states, re-entrant across successive Run calls.
const (
	StateIdle State = iota
	StatePreparing
	StateRunning
	StateFinalizing
)

// String renders the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePreparing:
		return "Preparing"
	case StateRunning:
		return "Running"
	case StateFinalizing:
		return "Finalizing"
	default:
		return "Unknown"
	}
}

// AnalyzableStatisticFactory is the "do_make_analyzable_statistic"
// extension point (§4.6): it lets a concrete run strategy decide how to
// wrap a raw, caller-supplied statistic value in an analysis-specific
// envelope (e.g. batch means vs. independent replications).
type AnalyzableStatisticFactory interface {
	MakeAnalyzableStatistic(raw any) AnalyzableStatistic
}

// RunStrategy is the "do_run" extension point (§4.6): the policy deciding
// how many replications/batches to execute and how state is reset between
// them. Engine.Run delegates its entire body to the configured strategy.
type RunStrategy interface {
	Run(e *Engine) error
}

// Engine owns the six lifecycle sources, the future-event list, the clock,
// and the statistics registry. One Engine corresponds to one simulation
// run, though it may be re-run by calling Run again (§3, "may be re-run").
type Engine struct {
	el EventList

	beginOfSim  *EventSource
	endOfSim    *EventSource
	beforeFire  *EventSource
	afterFire   *EventSource
	systemInit  *EventSource
	systemFinal *EventSource

	simTime       VTimeInSec
	lastEventTime VTimeInSec
	endOfSimFlag  bool

	numEvents     uint64
	numUserEvents uint64
	nextSeq       uint64

	stats *StatisticsRegistry
	diag  Diagnostic
	ids   idgen.Generator

	strategy RunStrategy

	state State

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex
}

// NewEngine creates a ready-to-run Engine with the default SingleRunStrategy,
// an idgen.New() identifier generator, and a discarding Diagnostic. Use the
// With* methods to customize before the first Run.
func NewEngine() *Engine {
	e := &Engine{
		el:          NewEventList(),
		beginOfSim:  newInternalSource(NameBeginOfSim),
		endOfSim:    newInternalSource(NameEndOfSim),
		beforeFire:  newInternalSource(NameBeforeEventFiring),
		afterFire:   newInternalSource(NameAfterEventFiring),
		systemInit:  newInternalSource(NameSystemInit),
		systemFinal: newInternalSource(NameSystemFinal),
		stats:       NewStatisticsRegistry(),
		diag:        discardDiagnostic{},
		ids:         idgen.New(),
		strategy:    SingleRunStrategy{},
		endOfSimFlag: true,
	}

	return e
}

func newInternalSource(name string) *EventSource {
	s := NewEventSource(name)
	s.internal = true

	return s
}

// WithDiagnostic sets the diagnostic sink and returns the Engine for
// chaining, the same fluent-builder shape as the teacher's
// monitoring.Monitor.WithPortNumber.
func (e *Engine) WithDiagnostic(d Diagnostic) *Engine {
	e.diag = d

	return e
}

// WithIDGenerator overrides the identifier generator used for events
// constructed by the engine (scheduled and immediate).
func (e *Engine) WithIDGenerator(g idgen.Generator) *Engine {
	e.ids = g

	return e
}

// WithRunStrategy overrides the run strategy.
func (e *Engine) WithRunStrategy(s RunStrategy) *Engine {
	e.strategy = s

	return e
}

// Source accessors (§6 "Subscription").

// BeginOfSimEventSource returns the BEGIN_SIM source.
func (e *Engine) BeginOfSimEventSource() *EventSource { return e.beginOfSim }

// EndOfSimEventSource returns the END_SIM source.
func (e *Engine) EndOfSimEventSource() *EventSource { return e.endOfSim }

// BeforeOfEventFiringSource returns the BEFORE_FIRE source.
func (e *Engine) BeforeOfEventFiringSource() *EventSource { return e.beforeFire }

// AfterOfEventFiringSource returns the AFTER_FIRE source.
func (e *Engine) AfterOfEventFiringSource() *EventSource { return e.afterFire }

// SystemInitializationEventSource returns the SYSTEM_INIT source.
func (e *Engine) SystemInitializationEventSource() *EventSource { return e.systemInit }

// SystemFinalizationEventSource returns the SYSTEM_FINAL source.
func (e *Engine) SystemFinalizationEventSource() *EventSource { return e.systemFinal }

// Clock readers (§6).

// SimulatedTime returns the clock's current value.
func (e *Engine) SimulatedTime() VTimeInSec { return e.simTime }

// LastEventTime returns the fire time of the most recently fired event.
func (e *Engine) LastEventTime() VTimeInSec { return e.lastEventTime }

// EndOfSimulation reports whether the run loop considers the simulation
// over.
func (e *Engine) EndOfSimulation() bool { return e.endOfSimFlag }

// NumEvents returns the total number of fired events, including internal
// lifecycle and BEFORE/AFTER wrapper fires (§8 invariant 5).
func (e *Engine) NumEvents() uint64 { return e.numEvents }

// NumUserEvents returns the number of fired events that were not internal
// lifecycle events.
func (e *Engine) NumUserEvents() uint64 { return e.numUserEvents }

// State returns the engine's current lifecycle state (§4.8).
func (e *Engine) State() State { return e.state }

// Diagnostic returns the configured diagnostic sink.
func (e *Engine) Diagnostic() Diagnostic { return e.diag }

// Scheduling contract (§4.3).

// ScheduleEvent schedules a new event on source to fire at time carrying
// payload (which may be nil). Returns nil if source is disabled.
func (e *Engine) ScheduleEvent(source *EventSource, time VTimeInSec, payload any) EventHandle {
	if source == nil {
		panic("desim: schedule_event requires a non-nil source")
	}

	if !source.enabled {
		warnf(e.diag, "scheduling on disabled source %q dropped", source.name)

		return nil
	}

	if time < e.simTime {
		warnf(e.diag, "scheduling %q at %v precedes current time %v; clamped",
			source.name, time, e.simTime)

		time = e.simTime
	}

	evt := &Event{
		id:            e.ids.Generate(),
		source:        source,
		scheduledTime: e.simTime,
		fireTime:      time,
		payload:       payload,
	}

	e.nextSeq++
	evt.setSeq(e.nextSeq)
	e.el.Push(evt)

	return evt
}

// RescheduleEvent moves handle to a new fire time, implemented as
// erase-then-repush (§4.3).
func (e *Engine) RescheduleEvent(handle EventHandle, newTime VTimeInSec) {
	if handle == nil {
		return
	}

	if !handle.source.enabled {
		warnf(e.diag, "rescheduling on disabled source %q dropped", handle.source.name)

		return
	}

	if newTime < e.simTime {
		if handle.fireTime > e.simTime {
			warnf(e.diag, "new fire time %v precedes current time %v; clamped",
				newTime, e.simTime)

			newTime = e.simTime
		} else {
			warnf(e.diag, "new fire time %v precedes current time %v and event already "+
				"lies in the past; not rescheduled", newTime, e.simTime)

			return
		}
	}

	if essentiallyEqual(float64(newTime), float64(handle.fireTime)) {
		warnf(e.diag, "new fire time %v is essentially equal to the current one; not rescheduled",
			newTime)

		return
	}

	e.el.Erase(handle)
	handle.setFireTime(newTime)
	e.nextSeq++
	handle.setSeq(e.nextSeq)
	e.el.Push(handle)
}

// Cancel removes handle from the future-event list. It is not an error if
// the event already fired or was never queued.
func (e *Engine) Cancel(handle EventHandle) {
	if handle == nil {
		return
	}

	e.el.Erase(handle)
}

// StopNow sets end_of_simulation immediately; the run loop exits at the
// next cycle boundary (§4.5). Per the recommended resolution of the open
// question in §9, it does not itself fire END_SIM — that happens as part
// of FinalizeSimulation.
func (e *Engine) StopNow() {
	e.endOfSimFlag = true
}

// StopAtTime schedules the END_SIM source to fire at t. Returns
// ErrStopAtTimePast if t precedes the current simulated time.
func (e *Engine) StopAtTime(t VTimeInSec) error {
	if t < e.simTime {
		return fmt.Errorf("%w: requested %v, now %v", ErrStopAtTimePast, t, e.simTime)
	}

	e.ScheduleEvent(e.endOfSim, t, nil)

	return nil
}

// Statistics (§4.7, §6).

// AnalyzeStatistic registers s with the engine's monitoring loop.
func (e *Engine) AnalyzeStatistic(s AnalyzableStatistic) {
	e.stats.Analyze(s, !e.endOfSimFlag)
}

// RemoveStatistic deregisters s.
func (e *Engine) RemoveStatistic(s AnalyzableStatistic) error {
	return e.stats.Remove(s)
}

// RemoveStatistics deregisters every statistic.
func (e *Engine) RemoveStatistics() {
	e.stats.RemoveAll()
}

// MakeAnalyzableStatistic wraps raw using the configured RunStrategy's
// AnalyzableStatisticFactory and registers the result.
func (e *Engine) MakeAnalyzableStatistic(raw any) AnalyzableStatistic {
	factory, ok := e.strategy.(AnalyzableStatisticFactory)
	if !ok {
		panic(fmt.Sprintf(
			"desim: run strategy %T does not implement AnalyzableStatisticFactory", e.strategy))
	}

	stat := factory.MakeAnalyzableStatistic(raw)
	e.AnalyzeStatistic(stat)

	return stat
}

// Run executes the configured RunStrategy end to end (§4.4). On return,
// end_of_simulation is true and the future-event list is empty.
func (e *Engine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	e.endOfSimFlag = false

	strategy := e.strategy
	if strategy == nil {
		strategy = SingleRunStrategy{}
	}

	err := strategy.Run(e)

	e.endOfSimFlag = true

	if !e.el.Empty() {
		e.el.Clear()
	}

	return err
}

// Advance performs one dispatch cycle: pop-and-fire the earliest event,
// then monitor statistics. No-op if end_of_simulation or the FEL is empty
// (§4.4).
func (e *Engine) Advance() {
	if e.endOfSimFlag || e.el.Empty() {
		return
	}

	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	ctx := &Context{engine: e}

	e.fireNextEvent(ctx)
	e.monitorStatistics()
}

func (e *Engine) fireNextEvent(ctx *Context) {
	evt := e.el.Pop()

	if !evt.source.enabled {
		warnf(e.diag, "event %s on disabled source %q discarded", evt.id, evt.source.name)

		return
	}

	if evt.fireTime < e.simTime {
		panic(fmt.Sprintf(
			"desim: popped event %s with fire_time %v before sim_time %v",
			evt.id, evt.fireTime, e.simTime))
	}

	e.numEvents++
	if !evt.IsInternal() {
		e.numUserEvents++
	}

	e.simTime = evt.fireTime

	if !e.beforeFire.Empty() {
		wrapper := e.makeInternalEvent(e.beforeFire, evt)
		e.beforeFire.Fire(wrapper, ctx)
		e.numEvents++
	}

	evt.source.Fire(evt, ctx)

	if !e.afterFire.Empty() {
		wrapper := e.makeInternalEvent(e.afterFire, evt)
		e.afterFire.Fire(wrapper, ctx)
		e.numEvents++
	}

	e.lastEventTime = evt.fireTime

	if evt.source == e.endOfSim {
		e.endOfSimFlag = true
	}
}

func (e *Engine) makeInternalEvent(source *EventSource, embedded *Event) *Event {
	return &Event{
		id:            e.ids.Generate(),
		source:        source,
		scheduledTime: e.simTime,
		fireTime:      e.simTime,
		embedded:      embedded,
	}
}

func (e *Engine) fireImmediateEvent(source *EventSource, ctx *Context, payload any) {
	evt := &Event{
		id:            e.ids.Generate(),
		source:        source,
		scheduledTime: e.simTime,
		fireTime:      e.simTime,
		payload:       payload,
	}

	if !source.enabled {
		warnf(e.diag, "immediate event on disabled source %q discarded", source.name)

		return
	}

	e.numEvents++
	if !evt.IsInternal() {
		e.numUserEvents++
	}

	if !e.beforeFire.Empty() {
		wrapper := e.makeInternalEvent(e.beforeFire, evt)
		e.beforeFire.Fire(wrapper, ctx)
		e.numEvents++
	}

	evt.source.Fire(evt, ctx)

	if !e.afterFire.Empty() {
		wrapper := e.makeInternalEvent(e.afterFire, evt)
		e.afterFire.Fire(wrapper, ctx)
		e.numEvents++
	}

	e.lastEventTime = e.simTime

	if evt.source == e.endOfSim {
		e.endOfSimFlag = true
	}
}

func (e *Engine) monitorStatistics() {
	if e.stats.Empty() {
		return
	}

	if e.stats.Monitor(e.simTime) {
		e.endOfSimFlag = true
	}
}

// Lifecycle protocol (§4.5), exported so external RunStrategy
// implementations (desim/strategy) can sequence them.

func (e *Engine) reset() {
	e.simTime = 0
	e.lastEventTime = 0
	e.numEvents = 0
	e.numUserEvents = 0
	e.nextSeq = 0
	e.endOfSimFlag = false
	e.el.Clear()
}

// PrepareSimulation resets core state and statistics, then fires BEGIN_SIM
// immediately.
func (e *Engine) PrepareSimulation() {
	e.state = StatePreparing

	e.reset()
	e.stats.ResetAll()

	ctx := &Context{engine: e}
	e.fireImmediateEvent(e.beginOfSim, ctx, nil)
}

// InitializeSimulatedSystem fires SYSTEM_INIT immediately.
func (e *Engine) InitializeSimulatedSystem() {
	ctx := &Context{engine: e}
	e.fireImmediateEvent(e.systemInit, ctx, nil)

	e.state = StateRunning
}

// FinalizeSimulatedSystem fires SYSTEM_FINAL immediately.
func (e *Engine) FinalizeSimulatedSystem() {
	e.state = StateFinalizing

	ctx := &Context{engine: e}
	e.fireImmediateEvent(e.systemFinal, ctx, nil)
}

// FinalizeSimulation ensures end_of_simulation, clears the FEL, and fires
// END_SIM immediately.
func (e *Engine) FinalizeSimulation() {
	if !e.endOfSimFlag {
		e.endOfSimFlag = true
	}

	e.el.Clear()

	ctx := &Context{engine: e}
	e.fireImmediateEvent(e.endOfSim, ctx, nil)

	e.state = StateIdle
}

// Pause prevents the engine from dispatching further events until
// Continue is called. In-flight dispatch completes first.
func (e *Engine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue resumes dispatch after a Pause.
func (e *Engine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// FELEmpty reports whether the future-event list currently holds no
// events. Exposed read-only for external run strategies' loop conditions.
func (e *Engine) FELEmpty() bool {
	return e.el.Empty()
}

// essentiallyEqual compares two reals for "essentially equal" under a
// relative tolerance, the Go equivalent of the original dcs::math
// float_traits<RealT>::essentially_equal used to guard no-op reschedules
// (§4.3).
func essentiallyEqual(a, b float64) bool {
	const epsilon = 1e-9

	diff := math.Abs(a - b)
	if diff <= epsilon {
		return true
	}

	return diff <= epsilon*math.Max(math.Abs(a), math.Abs(b))
}

package desim

// Context is the transient handle passed to a Sink when its EventSource
// fires. It is constructed fresh at the entry of each dispatch cycle and
// is only valid for the duration of that dispatch (§5, "Scoped
// acquisition"); sinks must not retain it past their own Fire call.
//
// Context is the only route back to the Engine available to a sink,
// precisely so that a sink does not need to capture the Engine itself
// (§9, "Cyclic ownership").
type Context struct {
	engine *Engine
}

// Now returns the engine's current simulated time.
func (c *Context) Now() VTimeInSec {
	return c.engine.SimulatedTime()
}

// Schedule schedules a new event on source to fire at time, carrying the
// given payload (which may be nil).
func (c *Context) Schedule(source *EventSource, time VTimeInSec, payload any) EventHandle {
	return c.engine.ScheduleEvent(source, time, payload)
}

// Reschedule moves an already-queued event to a new fire time.
func (c *Context) Reschedule(handle EventHandle, newTime VTimeInSec) {
	c.engine.RescheduleEvent(handle, newTime)
}

// Cancel removes a queued event. It is a no-op if the event already fired
// or was never queued.
func (c *Context) Cancel(handle EventHandle) {
	c.engine.Cancel(handle)
}

// StopNow asks the run loop to exit at the next cycle boundary.
func (c *Context) StopNow() {
	c.engine.StopNow()
}

// StopAtTime schedules the end-of-simulation event at time. Returns
// ErrStopAtTimePast if t precedes the current simulated time.
func (c *Context) StopAtTime(t VTimeInSec) error {
	return c.engine.StopAtTime(t)
}

// AnalyzeStatistic registers a statistic with the engine's monitoring loop.
func (c *Context) AnalyzeStatistic(s AnalyzableStatistic) {
	c.engine.AnalyzeStatistic(s)
}

// RemoveStatistic deregisters a previously registered statistic.
func (c *Context) RemoveStatistic(s AnalyzableStatistic) error {
	return c.engine.RemoveStatistic(s)
}

// Engine returns the owning Engine. Prefer the narrower accessors above;
// this exists for strategies and instrumentation that genuinely need the
// full surface (e.g. desim/strategy, desim/monitor).
func (c *Context) Engine() *Engine {
	return c.engine
}

package desim

// VTimeInSec is simulated time, measured in seconds.
type VTimeInSec float64

// Event is a single entry in the future-event list: an immutable record of
// who will fire it and when, plus an optional opaque payload. Events are
// constructed by the Engine, by ScheduleEvent and by its internal
// immediate-event and BEFORE/AFTER wrapper paths; user code never
// constructs one directly.
//
// Rescheduling is implemented as erase-then-repush (§4.3 of the design),
// which is why FireTime and the tie-break sequence number are mutated by the
// owning Engine through unexported setters rather than being truly
// read-only; sinks only ever see the exported, read-only accessors.
type Event struct {
	id            string
	source        *EventSource
	scheduledTime VTimeInSec
	fireTime      VTimeInSec
	payload       any
	embedded      *Event

	seq       uint64
	heapIndex int
}

// ID returns the engine-assigned identifier of the event.
func (e *Event) ID() string {
	return e.id
}

// Source returns the event source that will fire this event.
func (e *Event) Source() *EventSource {
	return e.source
}

// ScheduledTime returns the simulated time at which the event was scheduled.
func (e *Event) ScheduledTime() VTimeInSec {
	return e.scheduledTime
}

// FireTime returns the simulated time at which the event is due to fire.
func (e *Event) FireTime() VTimeInSec {
	return e.fireTime
}

// Payload returns the opaque, user-supplied data attached to the event, or
// nil if none was given.
func (e *Event) Payload() any {
	return e.payload
}

// Embedded returns the event wrapped by this one, for the internal
// BEFORE_FIRE/AFTER_FIRE wrapper events (§4.4 step 6, 8). It is nil for
// every other event.
func (e *Event) Embedded() *Event {
	return e.embedded
}

// IsInternal reports whether this event belongs to one of the engine's six
// built-in lifecycle sources.
func (e *Event) IsInternal() bool {
	return e.source != nil && e.source.internal
}

func (e *Event) setFireTime(t VTimeInSec) {
	e.fireTime = t
}

func (e *Event) setSeq(seq uint64) {
	e.seq = seq
}

// EventHandle is the identity a caller holds after scheduling an event, used
// to reschedule or cancel it later. It is simply the Event itself: pointer
// identity is what the FEL's erase-by-identity relies on. A nil handle means
// the scheduling attempt was rejected (disabled source).
type EventHandle = *Event

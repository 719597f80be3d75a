package desim

import "reflect"

// Sink is invoked whenever the EventSource it is connected to fires an
// event. Sinks may schedule new events, reschedule or cancel existing ones,
// disable sources, and register or deregister statistics; such mutations
// take effect starting with the next dispatch.
type Sink interface {
	Fire(e *Event, ctx *Context)
}

// SinkFunc adapts a plain function to the Sink interface, the way
// http.HandlerFunc adapts a function to http.Handler. Two SinkFunc values
// are never equal to each other under Disconnect's identity comparison
// (func values are only comparable to nil); give a sink a comparable
// identity (a pointer or a named struct) if it may need to be
// disconnected later.
type SinkFunc func(e *Event, ctx *Context)

// Fire calls f(e, ctx).
func (f SinkFunc) Fire(e *Event, ctx *Context) {
	f(e, ctx)
}

// EventSource is a named publisher of events. It holds an ordered list of
// sinks and an enable flag; a disabled source silently drops scheduling
// attempts and never fires, even if events for it remain queued.
//
// Sinks hold no reference back to their source beyond the one passed into
// Fire; the Engine is reached through the dispatch Context, not by
// capturing it, so that a sink closure does not create an ownership cycle
// with the source it is registered on (§9, "Cyclic ownership").
type EventSource struct {
	name     string
	enabled  bool
	sinks    []Sink
	internal bool
}

// NewEventSource creates an enabled, unnamed-sink EventSource with the given
// diagnostic name.
func NewEventSource(name string) *EventSource {
	return &EventSource{
		name:    name,
		enabled: true,
	}
}

// Name returns the informational name of the source.
func (s *EventSource) Name() string {
	return s.name
}

// Connect appends a sink to the source's ordered sink list.
func (s *EventSource) Connect(sink Sink) {
	s.sinks = append(s.sinks, sink)
}

// Disconnect removes a sink by identity. It is a no-op if the sink is not
// currently connected.
func (s *EventSource) Disconnect(sink Sink) {
	// Values of an uncomparable type (func values, structs holding maps or
	// slices) cannot match by identity, so there is nothing to remove.
	if t := reflect.TypeOf(sink); t != nil && !t.Comparable() {
		return
	}

	for i, connected := range s.sinks {
		if connected == sink {
			s.sinks = append(s.sinks[:i], s.sinks[i+1:]...)

			return
		}
	}
}

// Enable toggles whether the source accepts scheduling attempts and fires.
func (s *EventSource) Enable(enabled bool) {
	s.enabled = enabled
}

// Enabled reports whether the source currently accepts scheduling attempts.
func (s *EventSource) Enabled() bool {
	return s.enabled
}

// Empty reports whether the source has no connected sinks.
func (s *EventSource) Empty() bool {
	return len(s.sinks) == 0
}

// Fire invokes every connected sink, in connection order, with (event, ctx).
// Only the Engine may call Fire.
func (s *EventSource) Fire(event *Event, ctx *Context) {
	for _, sink := range s.sinks {
		sink.Fire(event, ctx)
	}
}

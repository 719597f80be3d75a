// Package tracing provides desim.Sink implementations that observe an
// Engine's dispatch without requiring the domain code under test to be
// aware of tracing at all.
//
// Grounded on the teacher's sim/hooking package (stepcounttracer.go,
// busytimetracer.go, averagetimetracer.go): StepCountTracer generalizes
// TagCountTracer's tag→count map to event-source names, while
// BusyTimeTracer/AverageTimeTracer keep the teacher's
// inflightTasks-keyed-by-ID span tracking, with start/end correlated by a
// caller-supplied key function over the event payload rather than a fixed
// TaskStart/TaskEnd struct pair.
package tracing

import (
	"sync"

	"github.com/dcsdes/desim"
)

// StepCountTracer counts how many times each event source has fired,
// keyed by EventSource.Name. Connect it to Engine.AfterOfEventFiringSource.
type StepCountTracer struct {
	lock   sync.Mutex
	counts map[string]uint64
}

// NewStepCountTracer creates an empty StepCountTracer.
func NewStepCountTracer() *StepCountTracer {
	return &StepCountTracer{counts: make(map[string]uint64)}
}

// Fire implements desim.Sink.
func (t *StepCountTracer) Fire(e *desim.Event, ctx *desim.Context) {
	origin := e.Embedded()
	if origin == nil || origin.Source() == nil {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	t.counts[origin.Source().Name()]++
}

// Count returns the number of times source fired so far.
func (t *StepCountTracer) Count(source string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.counts[source]
}

var _ desim.Sink = (*StepCountTracer)(nil)

// KeyFunc extracts a correlation key from an event's payload, identifying
// which in-flight span a start or end event belongs to.
type KeyFunc func(payload any) string

// BusyTimeTracer accumulates the simulated time between a start event and
// the matching end event, correlated by KeyFunc, the same
// inflightTasks-by-ID technique as the teacher's BusyTimeTracer. Spans
// whose key never closes (no matching end before the run finishes)
// contribute nothing.
type BusyTimeTracer struct {
	key      KeyFunc
	lock     sync.Mutex
	inflight map[string]desim.VTimeInSec
	busyTime desim.VTimeInSec
}

// NewBusyTimeTracer creates a BusyTimeTracer correlating spans with key.
func NewBusyTimeTracer(key KeyFunc) *BusyTimeTracer {
	return &BusyTimeTracer{
		key:      key,
		inflight: make(map[string]desim.VTimeInSec),
	}
}

// StartSink returns the desim.Sink to connect to the domain event source
// that marks a span's start.
func (t *BusyTimeTracer) StartSink() desim.Sink {
	return desim.SinkFunc(func(e *desim.Event, ctx *desim.Context) {
		t.lock.Lock()
		defer t.lock.Unlock()

		t.inflight[t.key(e.Payload())] = ctx.Now()
	})
}

// EndSink returns the desim.Sink to connect to the domain event source
// that marks a span's end. Ends without a matching start are ignored.
func (t *BusyTimeTracer) EndSink() desim.Sink {
	return desim.SinkFunc(func(e *desim.Event, ctx *desim.Context) {
		t.lock.Lock()
		defer t.lock.Unlock()

		key := t.key(e.Payload())

		start, ok := t.inflight[key]
		if !ok {
			return
		}

		t.busyTime += ctx.Now() - start
		delete(t.inflight, key)
	})
}

// BusyTime returns the total simulated time spent across every closed
// span so far.
func (t *BusyTimeTracer) BusyTime() desim.VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.busyTime
}

// AverageTimeTracer tracks the mean span duration, composing a
// BusyTimeTracer with a count of closed spans, grounded on the teacher's
// AverageTimeTracer running-mean accumulator.
type AverageTimeTracer struct {
	busy  *BusyTimeTracer
	lock  sync.Mutex
	count uint64
}

// NewAverageTimeTracer creates an AverageTimeTracer correlating spans with
// key.
func NewAverageTimeTracer(key KeyFunc) *AverageTimeTracer {
	return &AverageTimeTracer{busy: NewBusyTimeTracer(key)}
}

// StartSink returns the desim.Sink to connect to the span-start source.
func (t *AverageTimeTracer) StartSink() desim.Sink {
	return t.busy.StartSink()
}

// EndSink returns the desim.Sink to connect to the span-end source.
func (t *AverageTimeTracer) EndSink() desim.Sink {
	return desim.SinkFunc(func(e *desim.Event, ctx *desim.Context) {
		t.busy.lock.Lock()
		_, open := t.busy.inflight[t.busy.key(e.Payload())]
		t.busy.lock.Unlock()

		t.busy.EndSink().Fire(e, ctx)

		if open {
			t.lock.Lock()
			t.count++
			t.lock.Unlock()
		}
	})
}

// Average returns the mean span duration, or 0 if no span has closed yet.
func (t *AverageTimeTracer) Average() desim.VTimeInSec {
	t.lock.Lock()
	count := t.count
	t.lock.Unlock()

	if count == 0 {
		return 0
	}

	return t.busy.BusyTime() / desim.VTimeInSec(count)
}

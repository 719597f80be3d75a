package desim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dcsdes/desim"
)

// recordingSink appends the payload of every event it fires to order, so
// tests can assert dispatch ordering directly.
type recordingSink struct {
	order *[]any
}

func (s recordingSink) Fire(e *desim.Event, ctx *desim.Context) {
	*s.order = append(*s.order, e.Payload())
}

// thresholdStatistic is a minimal AnalyzableStatistic test double whose
// target precision is considered reached once observe() has been called
// enough times.
type thresholdStatistic struct {
	target    float64
	observed  float64
	steady    bool
	entryTime desim.VTimeInSec
	enabled   bool
}

func newThresholdStatistic(target float64) *thresholdStatistic {
	return &thresholdStatistic{target: target, enabled: true}
}

func (s *thresholdStatistic) Enabled() bool                  { return s.enabled }
func (s *thresholdStatistic) SteadyStateEntered() bool       { return s.steady }
func (s *thresholdStatistic) SetSteadyStateEnterTime(t desim.VTimeInSec) { s.entryTime = t }
func (s *thresholdStatistic) TargetRelativePrecision() float64 { return s.target }
func (s *thresholdStatistic) RelativePrecision() float64       { return s.observed }
func (s *thresholdStatistic) TargetPrecisionReached() bool {
	return s.observed <= s.target
}
func (s *thresholdStatistic) InitializeForExperiment() {}
func (s *thresholdStatistic) Reset()                   {}

var _ = Describe("Engine", func() {
	var e *desim.Engine

	BeforeEach(func() {
		e = desim.NewEngine()
	})

	It("returns immediately from Run when nothing is ever scheduled", func() {
		Expect(e.Run()).To(Succeed())
		Expect(e.EndOfSimulation()).To(BeTrue())
		Expect(e.NumUserEvents()).To(BeZero())
	})

	It("fires same-time events in FIFO scheduling order", func() {
		var order []any

		src := desim.NewEventSource("orders")
		src.Connect(recordingSink{order: &order})

		src.Connect(desim.SinkFunc(func(e *desim.Event, ctx *desim.Context) {}))

		e.BeginOfSimEventSource().Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			ctx.Schedule(src, 1, "first")
			ctx.Schedule(src, 1, "second")
			ctx.Schedule(src, 1, "third")
		}))

		Expect(e.Run()).To(Succeed())
		Expect(order).To(Equal([]any{"first", "second", "third"}))
	})

	It("clamps StopAtTime-scheduled termination to the requested time", func() {
		src := desim.NewEventSource("ticks")

		var fired []desim.VTimeInSec

		src.Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			fired = append(fired, ev.FireTime())

			if ev.FireTime() < 10 {
				ctx.Schedule(src, ev.FireTime()+1, nil)
			}
		}))

		e.BeginOfSimEventSource().Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			ctx.Schedule(src, 1, nil)
			Expect(ctx.StopAtTime(5)).To(Succeed())
		}))

		Expect(e.Run()).To(Succeed())
		Expect(fired).To(Equal([]desim.VTimeInSec{1, 2, 3, 4}))
	})

	It("rejects StopAtTime requests that precede the current simulated time", func() {
		src := desim.NewEventSource("advance")
		src.Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			err := ctx.StopAtTime(0)
			Expect(err).To(MatchError(desim.ErrStopAtTimePast))
			ctx.StopNow()
		}))

		e.BeginOfSimEventSource().Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			ctx.Schedule(src, 5, nil)
		}))

		Expect(e.Run()).To(Succeed())
	})

	It("reschedules a queued event to fire at its new time", func() {
		src := desim.NewEventSource("moved")

		var fireTimes []desim.VTimeInSec
		src.Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			fireTimes = append(fireTimes, ev.FireTime())
		}))

		e.BeginOfSimEventSource().Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			h := ctx.Schedule(src, 10, nil)
			ctx.Reschedule(h, 3)
		}))

		Expect(e.Run()).To(Succeed())
		Expect(fireTimes).To(Equal([]desim.VTimeInSec{3}))
	})

	It("cancels a queued event so it never fires", func() {
		src := desim.NewEventSource("cancelled")

		fired := false
		src.Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			fired = true
		}))

		e.BeginOfSimEventSource().Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			h := ctx.Schedule(src, 1, nil)
			ctx.Cancel(h)
		}))

		Expect(e.Run()).To(Succeed())
		Expect(fired).To(BeFalse())
	})

	It("wraps every user event with BEFORE_FIRE and AFTER_FIRE in order", func() {
		var order []string

		src := desim.NewEventSource("work")
		src.Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			order = append(order, "fire")
		}))

		e.BeforeOfEventFiringSource().Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			order = append(order, "before")
		}))
		e.AfterOfEventFiringSource().Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			order = append(order, "after")
		}))

		e.BeginOfSimEventSource().Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			ctx.Schedule(src, 1, nil)
		}))

		Expect(e.Run()).To(Succeed())
		// The lifecycle events fired immediately are wrapped as well.
		Expect(order).To(Equal([]string{
			"before", "after", // BEGIN_SIM
			"before", "after", // SYSTEM_INIT
			"before", "fire", "after",
			"before", "after", // SYSTEM_FINAL
			"before", "after", // END_SIM
		}))
	})

	It("stops the run once every analyzed statistic reaches its target precision", func() {
		stat := newThresholdStatistic(0.05)
		stat.observed = 1.0
		stat.steady = true

		src := desim.NewEventSource("ticker")

		ticks := 0
		src.Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			ticks++
			stat.observed = 1.0 / float64(ticks)

			if ticks < 100 {
				ctx.Schedule(src, ev.FireTime()+1, nil)
			}
		}))

		e.BeginOfSimEventSource().Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			ctx.Schedule(src, 1, nil)
			ctx.AnalyzeStatistic(stat)
		}))

		Expect(e.Run()).To(Succeed())
		Expect(stat.TargetPrecisionReached()).To(BeTrue())
		Expect(ticks).To(BeNumerically("<", 100))
	})

	It("returns to Idle and produces the same number of fires on a second Run", func() {
		var fireCount int

		src := desim.NewEventSource("repeatable")
		src.Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			fireCount++

			if ev.FireTime() < 3 {
				ctx.Schedule(src, ev.FireTime()+1, nil)
			}
		}))

		e.BeginOfSimEventSource().Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
			ctx.Schedule(src, 1, nil)
		}))

		Expect(e.Run()).To(Succeed())
		Expect(e.State()).To(Equal(desim.StateIdle))
		Expect(fireCount).To(Equal(3))

		fireCount = 0
		Expect(e.Run()).To(Succeed())
		Expect(fireCount).To(Equal(3))
	})
})

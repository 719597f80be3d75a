package desim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dcsdes/desim"
)

var _ = Describe("EventSource", func() {
	It("starts enabled with no connected sinks", func() {
		s := desim.NewEventSource("s")
		Expect(s.Enabled()).To(BeTrue())
		Expect(s.Empty()).To(BeTrue())
		Expect(s.Name()).To(Equal("s"))
	})

	It("invokes connected sinks in connection order", func() {
		s := desim.NewEventSource("s")

		var order []int
		s.Connect(desim.SinkFunc(func(e *desim.Event, ctx *desim.Context) { order = append(order, 1) }))
		s.Connect(desim.SinkFunc(func(e *desim.Event, ctx *desim.Context) { order = append(order, 2) }))
		s.Connect(desim.SinkFunc(func(e *desim.Event, ctx *desim.Context) { order = append(order, 3) }))

		s.Fire(nil, nil)

		Expect(order).To(Equal([]int{1, 2, 3}))
	})

	It("drops a scheduling attempt on a disabled source", func() {
		e := desim.NewEngine()
		s := desim.NewEventSource("s")
		s.Enable(false)

		handle := e.ScheduleEvent(s, 1, nil)
		Expect(handle).To(BeNil())
	})

	It("disconnects a comparable sink without affecting others", func() {
		s := desim.NewEventSource("s")

		fired := map[string]bool{}
		named := &namedSink{name: "a", fired: fired}

		s.Connect(named)
		s.Connect(&namedSink{name: "b", fired: fired})

		s.Disconnect(named)
		s.Fire(nil, nil)

		Expect(fired).To(HaveKey("b"))
		Expect(fired).NotTo(HaveKey("a"))
	})
})

type namedSink struct {
	name  string
	fired map[string]bool
}

func (s namedSink) Fire(e *desim.Event, ctx *desim.Context) {
	s.fired[s.name] = true
}

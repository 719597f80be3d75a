// Package qnet is a minimal open queueing-network demo client for
// desim.Engine: one Poisson arrival source, an optional think-time delay
// station, a single-server FIFO service station, and a sink that records
// each customer's sojourn time.
//
// Grounded on original_source's
// dcs::des::model::qn::network_node_category enum (delay_station,
// source, service_station, sink); this package gives each of those four
// categories a concrete desim.EventSource-based station, which the
// distilled spec's qn model itself never did.
package qnet

import (
	"math"
	"math/rand"
	"sync"

	"github.com/dcsdes/desim"
)

// NodeCategory identifies which of the four original network node roles
// a station plays.
type NodeCategory int

// The four node categories from network_node_category.hpp.
const (
	DelayStationNode NodeCategory = iota
	SourceNode
	ServiceStationNode
	SinkNode
)

type customer struct {
	id       int
	arrival  desim.VTimeInSec
}

// Network is a single open M/M/1-with-optional-think-time queueing
// network built on one desim.Engine.
type Network struct {
	engine *desim.Engine
	rng    *rand.Rand

	arrivalRate desim.VTimeInSec
	serviceRate desim.VTimeInSec
	thinkTime   desim.VTimeInSec

	arrivalSource *desim.EventSource
	delayEndSource *desim.EventSource
	departureSource *desim.EventSource

	lock           sync.Mutex
	queue          []customer
	serverBusy     bool
	nextCustomerID int

	completed     int
	sojournTimeSum desim.VTimeInSec
}

// NewNetwork builds a Network on e with the given mean arrival rate and
// mean service rate (customers per simulated second), and an optional
// mean think-time delay applied before a customer joins the service
// queue (0 disables the delay station). seed makes arrival/service
// sampling reproducible.
func NewNetwork(e *desim.Engine, arrivalRate, serviceRate, thinkTime desim.VTimeInSec, seed int64) *Network {
	n := &Network{
		engine:      e,
		rng:         rand.New(rand.NewSource(seed)),
		arrivalRate: arrivalRate,
		serviceRate: serviceRate,
		thinkTime:   thinkTime,
	}

	n.arrivalSource = desim.NewEventSource("qnet.Arrival")
	n.delayEndSource = desim.NewEventSource("qnet.DelayEnd")
	n.departureSource = desim.NewEventSource("qnet.Departure")

	n.arrivalSource.Connect(desim.SinkFunc(n.onArrival))
	n.delayEndSource.Connect(desim.SinkFunc(n.onDelayEnd))
	n.departureSource.Connect(desim.SinkFunc(n.onDeparture))

	e.BeginOfSimEventSource().Connect(desim.SinkFunc(n.scheduleFirstArrival))

	return n
}

// ArrivalSource is the SourceNode station: it fires once per customer
// arrival.
func (n *Network) ArrivalSource() *desim.EventSource { return n.arrivalSource }

// DelayEndSource is the DelayStationNode station: it fires once a
// customer's think time elapses.
func (n *Network) DelayEndSource() *desim.EventSource { return n.delayEndSource }

// DepartureSource is the SinkNode station: it fires once a customer's
// service completes and it leaves the network.
func (n *Network) DepartureSource() *desim.EventSource { return n.departureSource }

func (n *Network) scheduleFirstArrival(e *desim.Event, ctx *desim.Context) {
	ctx.Schedule(n.arrivalSource, n.sampleInterarrival(), nil)
}

func (n *Network) onArrival(e *desim.Event, ctx *desim.Context) {
	n.lock.Lock()
	n.nextCustomerID++
	c := customer{id: n.nextCustomerID, arrival: ctx.Now()}
	n.lock.Unlock()

	ctx.Schedule(n.arrivalSource, ctx.Now()+n.sampleInterarrival(), nil)

	if n.thinkTime > 0 {
		ctx.Schedule(n.delayEndSource, ctx.Now()+n.thinkTime, c)

		return
	}

	n.enqueue(c, ctx)
}

func (n *Network) onDelayEnd(e *desim.Event, ctx *desim.Context) {
	n.enqueue(e.Payload().(customer), ctx)
}

func (n *Network) enqueue(c customer, ctx *desim.Context) {
	n.lock.Lock()
	defer n.lock.Unlock()

	n.queue = append(n.queue, c)
	n.dispatchLocked(ctx)
}

// dispatchLocked starts service for the head-of-line customer if the
// single server is free. Caller must hold n.lock.
func (n *Network) dispatchLocked(ctx *desim.Context) {
	if n.serverBusy || len(n.queue) == 0 {
		return
	}

	c := n.queue[0]
	n.queue = n.queue[1:]
	n.serverBusy = true

	ctx.Schedule(n.departureSource, ctx.Now()+n.sampleServiceTime(), c)
}

func (n *Network) onDeparture(e *desim.Event, ctx *desim.Context) {
	c := e.Payload().(customer)

	n.lock.Lock()
	n.serverBusy = false
	n.completed++
	n.sojournTimeSum += ctx.Now() - c.arrival
	n.dispatchLocked(ctx)
	n.lock.Unlock()
}

func (n *Network) sampleInterarrival() desim.VTimeInSec {
	return desim.VTimeInSec(-math.Log(1-n.rng.Float64()) / float64(n.arrivalRate))
}

func (n *Network) sampleServiceTime() desim.VTimeInSec {
	return desim.VTimeInSec(-math.Log(1-n.rng.Float64()) / float64(n.serviceRate))
}

// CompletedCustomers returns the number of customers that have departed
// the network so far.
func (n *Network) CompletedCustomers() int {
	n.lock.Lock()
	defer n.lock.Unlock()

	return n.completed
}

// AverageSojournTime returns the mean time customers have spent in the
// network so far, from arrival to departure. Returns 0 if none have
// completed yet.
func (n *Network) AverageSojournTime() desim.VTimeInSec {
	n.lock.Lock()
	defer n.lock.Unlock()

	if n.completed == 0 {
		return 0
	}

	return n.sojournTimeSum / desim.VTimeInSec(n.completed)
}

// QueueLength returns the number of customers currently waiting for
// service (not counting one in service).
func (n *Network) QueueLength() int {
	n.lock.Lock()
	defer n.lock.Unlock()

	return len(n.queue)
}

package desim

// SingleRunStrategy is the default RunStrategy (§4.6): it drives the
// engine through exactly one Preparing->Running->Finalizing->Idle cycle,
// advancing until either end_of_simulation is set or the future-event
// list drains.
//
// It also implements AnalyzableStatisticFactory as a pass-through: raw
// must already satisfy AnalyzableStatistic, since a single run performs
// no batching or replication bookkeeping of its own. This is the
// baseline "do_make_analyzable_statistic" every richer strategy in
// desim/strategy builds on.
type SingleRunStrategy struct{}

// Run implements RunStrategy.
func (SingleRunStrategy) Run(e *Engine) error {
	e.PrepareSimulation()
	e.InitializeSimulatedSystem()

	for !e.EndOfSimulation() && !e.FELEmpty() {
		e.Advance()
	}

	e.FinalizeSimulatedSystem()
	e.FinalizeSimulation()

	return nil
}

// MakeAnalyzableStatistic implements AnalyzableStatisticFactory.
func (SingleRunStrategy) MakeAnalyzableStatistic(raw any) AnalyzableStatistic {
	stat, ok := raw.(AnalyzableStatistic)
	if !ok {
		panic("desim: SingleRunStrategy requires raw to already implement AnalyzableStatistic")
	}

	return stat
}

var _ RunStrategy = SingleRunStrategy{}
var _ AnalyzableStatisticFactory = SingleRunStrategy{}

// Package strategy provides additional RunStrategy implementations for
// the independent-replications and batch-means experiment designs
// described alongside the single-run default (§4.6).
package strategy

import (
	"errors"

	"github.com/dcsdes/desim"
)

// ErrReplicationsAborted is returned by ReplicationsStrategy.Run when its
// Detector reports Aborted.
var ErrReplicationsAborted = errors.New("strategy: replications detector aborted the experiment")

// ReplicationDetector decides, after each completed replication, whether
// enough replications have been run. Grounded on the original's
// dcs::des::replications::constant_num_replications_detector: Detect
// feeds it a running estimate and standard deviation, Detected reports
// whether the target replication count is now known, Aborted reports an
// unrecoverable failure to converge, and EstimatedNumber returns the
// detector's current best guess at the total replication count required.
type ReplicationDetector interface {
	Detect(replicationsSoFar int, estimate, stddev float64) bool
	Detected() bool
	Aborted() bool
	EstimatedNumber() int
	Reset()
}

// ConstantReplicationsDetector always reports Detected and never Aborted:
// the replication count is fixed in advance rather than adaptively
// estimated. This is a direct port of the original's stub implementation,
// which exists so that a fixed-count experiment can use the same
// ReplicationDetector extension point as an adaptive one.
type ConstantReplicationsDetector struct {
	numReplications int
}

// NewConstantReplicationsDetector creates a detector fixed at n
// replications.
func NewConstantReplicationsDetector(n int) *ConstantReplicationsDetector {
	return &ConstantReplicationsDetector{numReplications: n}
}

// Detect always reports true; the count is constant, not estimated from
// the data.
func (d *ConstantReplicationsDetector) Detect(int, float64, float64) bool { return true }

// Detected always returns true.
func (d *ConstantReplicationsDetector) Detected() bool { return true }

// Aborted always returns false.
func (d *ConstantReplicationsDetector) Aborted() bool { return false }

// EstimatedNumber returns the fixed replication count.
func (d *ConstantReplicationsDetector) EstimatedNumber() int { return d.numReplications }

// Reset is a no-op: there is no accumulated state to discard.
func (d *ConstantReplicationsDetector) Reset() {}

var _ ReplicationDetector = (*ConstantReplicationsDetector)(nil)

// ReplicationObserver is notified after each replication completes, and
// supplies the running estimate/stddev a ReplicationDetector needs.
type ReplicationObserver interface {
	ObserveReplication(e *desim.Engine, replicationIndex int)
	EstimateAndStdDev() (estimate, stddev float64)
}

// ReplicationsStrategy is a RunStrategy that repeats the single-run
// prepare/initialize/advance-loop/finalize cycle across independent
// replications, deferring to Detector to decide when enough have run.
type ReplicationsStrategy struct {
	Detector ReplicationDetector
	Observer ReplicationObserver
}

// Run implements desim.RunStrategy.
func (r ReplicationsStrategy) Run(e *desim.Engine) error {
	if r.Detector == nil {
		return errors.New("strategy: ReplicationsStrategy requires a Detector")
	}

	r.Detector.Reset()

	replication := 0

	for {
		runOneReplication(e)
		replication++

		if r.Observer != nil {
			r.Observer.ObserveReplication(e, replication-1)
		}

		var estimate, stddev float64
		if r.Observer != nil {
			estimate, stddev = r.Observer.EstimateAndStdDev()
		}

		r.Detector.Detect(replication, estimate, stddev)

		if r.Detector.Aborted() {
			return ErrReplicationsAborted
		}

		if r.Detector.Detected() && replication >= r.Detector.EstimatedNumber() {
			break
		}
	}

	return nil
}

// MakeAnalyzableStatistic implements desim.AnalyzableStatisticFactory as a
// pass-through: raw must already implement desim.AnalyzableStatistic. Per-
// replication aggregation is the ReplicationObserver's responsibility, not
// the statistic's.
func (r ReplicationsStrategy) MakeAnalyzableStatistic(raw any) desim.AnalyzableStatistic {
	stat, ok := raw.(desim.AnalyzableStatistic)
	if !ok {
		panic("strategy: ReplicationsStrategy requires raw to already implement desim.AnalyzableStatistic")
	}

	return stat
}

func runOneReplication(e *desim.Engine) {
	e.PrepareSimulation()
	e.InitializeSimulatedSystem()

	for !e.EndOfSimulation() && !e.FELEmpty() {
		e.Advance()
	}

	e.FinalizeSimulatedSystem()
	e.FinalizeSimulation()
}

// BatchObserver is notified at each batch boundary of a BatchMeansStrategy
// run, once WarmupBatches have elapsed.
type BatchObserver interface {
	ObserveBatch(e *desim.Engine, batchIndex int)
}

// BatchMeansStrategy is a RunStrategy that executes a single continuous
// run (no reset between batches, unlike ReplicationsStrategy) and calls
// Observer at fixed simulated-time intervals, discarding the first
// WarmupBatches as transient.
type BatchMeansStrategy struct {
	BatchLength   desim.VTimeInSec
	WarmupBatches int
	Observer      BatchObserver
}

// Run implements desim.RunStrategy.
func (b BatchMeansStrategy) Run(e *desim.Engine) error {
	if b.BatchLength <= 0 {
		return errors.New("strategy: BatchMeansStrategy requires a positive BatchLength")
	}

	e.PrepareSimulation()
	e.InitializeSimulatedSystem()

	nextBoundary := b.BatchLength
	batchIndex := 0

	for !e.EndOfSimulation() && !e.FELEmpty() {
		e.Advance()

		for e.SimulatedTime() >= nextBoundary && !e.EndOfSimulation() {
			if batchIndex >= b.WarmupBatches && b.Observer != nil {
				b.Observer.ObserveBatch(e, batchIndex)
			}

			batchIndex++
			nextBoundary += b.BatchLength
		}
	}

	e.FinalizeSimulatedSystem()
	e.FinalizeSimulation()

	return nil
}

// MakeAnalyzableStatistic implements desim.AnalyzableStatisticFactory as a
// pass-through, the same rationale as ReplicationsStrategy's.
func (b BatchMeansStrategy) MakeAnalyzableStatistic(raw any) desim.AnalyzableStatistic {
	stat, ok := raw.(desim.AnalyzableStatistic)
	if !ok {
		panic("strategy: BatchMeansStrategy requires raw to already implement desim.AnalyzableStatistic")
	}

	return stat
}

var _ desim.RunStrategy = ReplicationsStrategy{}
var _ desim.AnalyzableStatisticFactory = ReplicationsStrategy{}
var _ desim.RunStrategy = BatchMeansStrategy{}
var _ desim.AnalyzableStatisticFactory = BatchMeansStrategy{}

// Package desim implements the core of a discrete-event simulation engine:
// a future-event list ordered by (fire_time, sequence_number), named event
// sources with ordered sinks, the six built-in lifecycle sources, and the
// run loop that couples event dispatch to a statistics registry for
// precision-driven termination.
//
// Statistics, run strategies beyond the default single run, and domain
// models are external collaborators; desim treats them as data or small
// interfaces and never implements them itself. See the desim/strategy,
// desim/stats and desim/demo packages for examples built on top of this
// core.
package desim

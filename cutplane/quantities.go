// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/nsopt/nsopt/vec"
)

// Quantities is the shared mutable state of one solve: the current and trial
// iterates, the search direction, the point set of bundle candidates, the
// trust-region and stationarity radii, counters and the CPU budget. It is
// owned by the outer loop and lent to one strategy at a time; nothing mutates
// it concurrently.
type Quantities struct {
	problem                      Problem
	evaluateFunctionWithGradient bool

	currentIterate *Iterate
	trialIterate   *Iterate
	direction      *vec.Vector
	pointSet       []*Iterate

	numberOfVariables int

	trustRegionRadius  float64
	stationarityRadius float64

	trustRegionUpdateFactor  float64
	stationarityUpdateFactor float64

	iterationCounter      int
	innerIterationCounter int
	qpIterationCounter    int
	totalInnerIterations  int
	totalQPIterations     int
	functionEvaluations   int
	gradientEvaluations   int

	directionComputationTime time.Duration
	startTime                time.Time
	cpuTimeLimit             time.Duration

	log zerolog.Logger
}

// NewQuantities creates the shared state for one problem.
func NewQuantities(p Problem) *Quantities {
	return &Quantities{
		problem:           p,
		numberOfVariables: p.Dimension(),
		log:               zerolog.Nop(),
	}
}

// AddOptions registers the state-owned options.
func (q *Quantities) AddOptions(o *Options) {
	o.AddFloat("cpu_time_limit", 1e+04, 0.0, 1e+50,
		"Wall-clock budget in seconds for the entire solve.")
	o.AddFloat("stationarity_radius_initial", 1e-01, 0.0, 1e+50,
		"Initial stationarity radius.")
	o.AddFloat("trust_region_radius_initial", 1e+00, 0.0, 1e+50,
		"Initial trust region radius.")
	o.AddFloat("stationarity_radius_update_factor", 1e-01, 0.0, 1.0,
		"Factor applied to the stationarity radius on a radii update.")
	o.AddFloat("trust_region_radius_update_factor", 1e-01, 0.0, 1.0,
		"Factor applied to the trust region radius on a radii update.")
}

// SetOptions reads the state-owned options.
func (q *Quantities) SetOptions(o *Options) {
	q.cpuTimeLimit = time.Duration(o.Float("cpu_time_limit") * float64(time.Second))
	q.stationarityRadius = o.Float("stationarity_radius_initial")
	q.trustRegionRadius = o.Float("trust_region_radius_initial")
	q.stationarityUpdateFactor = o.Float("stationarity_radius_update_factor")
	q.trustRegionUpdateFactor = o.Float("trust_region_radius_update_factor")
}

// Initialize installs the starting point and resets all counters and timers.
func (q *Quantities) Initialize(x0 []float64) {
	q.currentIterate = NewIterate(vec.Of(x0...))
	q.trialIterate = q.currentIterate
	q.direction = vec.New(q.numberOfVariables)
	q.pointSet = q.pointSet[:0]
	q.evaluateFunctionWithGradient = false
	if _, ok := q.problem.(ObjectiveGradienter); ok {
		q.evaluateFunctionWithGradient = true
	}
	q.iterationCounter = 0
	q.innerIterationCounter = 0
	q.qpIterationCounter = 0
	q.totalInnerIterations = 0
	q.totalQPIterations = 0
	q.functionEvaluations = 0
	q.gradientEvaluations = 0
	q.directionComputationTime = 0
	q.startTime = time.Now()
}

// SetLogger attaches a diagnostics logger.
func (q *Quantities) SetLogger(log zerolog.Logger) { q.log = log }

// CurrentIterate returns the current iterate 𝐱ₖ.
func (q *Quantities) CurrentIterate() *Iterate { return q.currentIterate }

// TrialIterate returns the most recent probe point.
func (q *Quantities) TrialIterate() *Iterate { return q.trialIterate }

// SetTrialIterate replaces the trial iterate.
func (q *Quantities) SetTrialIterate(it *Iterate) { q.trialIterate = it }

// SetTrialIterateToCurrentIterate resets the trial iterate to 𝐱ₖ.
func (q *Quantities) SetTrialIterateToCurrentIterate() { q.trialIterate = q.currentIterate }

// AcceptTrialIterate makes the trial iterate current.
func (q *Quantities) AcceptTrialIterate() { q.currentIterate = q.trialIterate }

// Direction returns the direction vector owned by the state.
func (q *Quantities) Direction() *vec.Vector { return q.direction }

// PointSet returns the bundle candidates visited so far.
func (q *Quantities) PointSet() []*Iterate { return q.pointSet }

// AddToPointSet appends an iterate to the point set. The point set takes
// shared ownership of the iterate and its gradient vector.
func (q *Quantities) AddToPointSet(it *Iterate) { q.pointSet = append(q.pointSet, it) }

// SetPointSet replaces the point set, for point-set update strategies.
func (q *Quantities) SetPointSet(points []*Iterate) { q.pointSet = points }

// NumberOfVariables returns n.
func (q *Quantities) NumberOfVariables() int { return q.numberOfVariables }

// EvaluateFunctionWithGradient reports whether the oracle evaluates the
// objective and subgradient jointly.
func (q *Quantities) EvaluateFunctionWithGradient() bool { return q.evaluateFunctionWithGradient }

// TrustRegionRadius returns Δ.
func (q *Quantities) TrustRegionRadius() float64 { return q.trustRegionRadius }

// StationarityRadius returns ρ.
func (q *Quantities) StationarityRadius() float64 { return q.stationarityRadius }

// SetRadii overrides both radii, for callers managing them directly.
func (q *Quantities) SetRadii(trustRegion, stationarity float64) {
	q.trustRegionRadius = trustRegion
	q.stationarityRadius = stationarity
}

// UpdateRadii applies the configured decrease factors to both radii.
func (q *Quantities) UpdateRadii() {
	q.trustRegionRadius *= q.trustRegionUpdateFactor
	q.stationarityRadius *= q.stationarityUpdateFactor
}

// IterationCounter returns the outer iteration count.
func (q *Quantities) IterationCounter() int { return q.iterationCounter }

// IncrementIterationCounter advances the outer iteration count.
func (q *Quantities) IncrementIterationCounter() { q.iterationCounter++ }

// InnerIterationCounter returns the inner iteration count of the running
// direction computation.
func (q *Quantities) InnerIterationCounter() int { return q.innerIterationCounter }

// QPIterationCounter returns the QP iteration count of the running direction
// computation.
func (q *Quantities) QPIterationCounter() int { return q.qpIterationCounter }

// ResetInnerIterationCounter zeroes the inner iteration count.
func (q *Quantities) ResetInnerIterationCounter() { q.innerIterationCounter = 0 }

// ResetQPIterationCounter zeroes the QP iteration count.
func (q *Quantities) ResetQPIterationCounter() { q.qpIterationCounter = 0 }

// IncrementInnerIterationCounter advances the inner iteration count by k.
func (q *Quantities) IncrementInnerIterationCounter(k int) { q.innerIterationCounter += k }

// IncrementQPIterationCounter advances the QP iteration count by k.
func (q *Quantities) IncrementQPIterationCounter(k int) { q.qpIterationCounter += k }

// IncrementTotalInnerIterationCounter folds the running inner count into the
// solve total.
func (q *Quantities) IncrementTotalInnerIterationCounter() {
	q.totalInnerIterations += q.innerIterationCounter
}

// IncrementTotalQPIterationCounter folds the running QP count into the solve
// total.
func (q *Quantities) IncrementTotalQPIterationCounter() {
	q.totalQPIterations += q.qpIterationCounter
}

// TotalInnerIterations returns the inner iterations across the solve.
func (q *Quantities) TotalInnerIterations() int { return q.totalInnerIterations }

// TotalQPIterations returns the QP iterations across the solve.
func (q *Quantities) TotalQPIterations() int { return q.totalQPIterations }

// FunctionEvaluations returns the objective evaluation count.
func (q *Quantities) FunctionEvaluations() int { return q.functionEvaluations }

// GradientEvaluations returns the gradient evaluation count.
func (q *Quantities) GradientEvaluations() int { return q.gradientEvaluations }

// DirectionComputationTime returns the elapsed time spent in direction
// computations.
func (q *Quantities) DirectionComputationTime() time.Duration { return q.directionComputationTime }

// IncrementDirectionComputationTime adds elapsed direction-computation time.
func (q *Quantities) IncrementDirectionComputationTime(d time.Duration) {
	q.directionComputationTime += d
}

// StartTime returns when the solve began.
func (q *Quantities) StartTime() time.Time { return q.startTime }

// CPUTimeLimit returns the wall-clock budget.
func (q *Quantities) CPUTimeLimit() time.Duration { return q.cpuTimeLimit }

// IterationHeader returns the header for the iterate columns of the trace.
func (q *Quantities) IterationHeader() string {
	return " Iter.   Objective    St. Rad.  Tr. Rad."
}

// IterationNullValues returns the blank template for the iterate columns.
func (q *Quantities) IterationNullValues() string {
	return " -----  ----------  --------- ---------"
}

// PrintIteration emits the iterate columns of the trace.
func (q *Quantities) PrintIteration(r *Reporter) {
	objective := 0.0
	if q.currentIterate != nil && q.currentIterate.ObjectiveEvaluated() {
		objective = q.currentIterate.Objective()
	}
	r.Printf(ReportPerIteration, " %5d  %+.3e  %+.2e %+.2e",
		q.iterationCounter, objective, q.stationarityRadius, q.trustRegionRadius)
}

func (q *Quantities) reportEvaluationError(what string, err error) {
	e := q.log.Debug().Str("evaluation", what)
	if err != nil {
		e = e.Err(err)
	}
	e.Msg("oracle evaluation failed")
}

// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"math"
)

// BasicTermination raises the radii-update flag when the QP model indicates
// stationarity at the scale of the current stationarity radius, and declares
// the solve complete once the radius has shrunk to its final tolerance.
type BasicTermination struct {
	radiusUpdateTolerance   float64
	stationarityRadiusFinal float64

	updateRadiiDC bool
	updateRadii   bool
	terminate     bool
}

// NewBasicTermination creates the strategy with zeroed options; call
// SetOptions before use.
func NewBasicTermination() *BasicTermination { return &BasicTermination{} }

// Name implements Strategy.
func (t *BasicTermination) Name() string { return "basic" }

// AddOptions implements Strategy.
func (t *BasicTermination) AddOptions(o *Options) {
	o.AddFloat("radius_update_tolerance", 1e-01, 0.0, math.MaxFloat64,
		"Stationarity measure below this factor times the stationarity "+
			"radius triggers a radii update.")
	o.AddFloat("stationarity_radius_final", 1e-06, 0.0, math.MaxFloat64,
		"The solve terminates at a model-stationary point once the "+
			"stationarity radius is at or below this value.")
}

// SetOptions implements Strategy.
func (t *BasicTermination) SetOptions(o *Options) {
	t.radiusUpdateTolerance = o.Float("radius_update_tolerance")
	t.stationarityRadiusFinal = o.Float("stationarity_radius_final")
}

// Initialize implements Strategy.
func (t *BasicTermination) Initialize(o *Options, q *Quantities, r *Reporter) {
	t.updateRadiiDC = false
	t.updateRadii = false
	t.terminate = false
}

// IterationHeader implements Strategy.
func (t *BasicTermination) IterationHeader() string { return "" }

// IterationNullValues implements Strategy.
func (t *BasicTermination) IterationNullValues() string { return "" }

// stationarityMeasure is the scale of the model's certificate of
// nonstationarity: the larger of the dual combination norm and the primal
// step norm.
func stationarityMeasure(s *Strategies) float64 {
	qp := s.QPSolver
	return math.Sqrt(math.Max(qp.CombinationTranslatedNorm2Squared(), qp.PrimalSolutionNorm2Squared()))
}

// CheckConditionsDirectionComputation implements TerminationStrategy.
func (t *BasicTermination) CheckConditionsDirectionComputation(o *Options, q *Quantities, r *Reporter, s *Strategies) {
	t.updateRadiiDC = s.QPSolver.Status() == QPSuccess &&
		stationarityMeasure(s) < t.radiusUpdateTolerance*q.StationarityRadius()
}

// UpdateRadiiDirectionComputation implements TerminationStrategy.
func (t *BasicTermination) UpdateRadiiDirectionComputation() bool { return t.updateRadiiDC }

// CheckConditions implements TerminationStrategy.
func (t *BasicTermination) CheckConditions(o *Options, q *Quantities, r *Reporter, s *Strategies) {
	stationary := s.QPSolver.Status() == QPSuccess &&
		stationarityMeasure(s) < t.radiusUpdateTolerance*q.StationarityRadius()
	t.updateRadii = stationary || t.updateRadiiDC
	t.terminate = t.updateRadii && q.StationarityRadius() <= t.stationarityRadiusFinal
}

// UpdateRadii implements TerminationStrategy.
func (t *BasicTermination) UpdateRadii() bool { return t.updateRadii }

// Terminate implements TerminationStrategy.
func (t *BasicTermination) Terminate() bool { return t.terminate }

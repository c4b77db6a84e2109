// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"math"
)

// ProximityUpdate prunes the point set between outer iterations: points
// farther than a factor times the stationarity radius from the new iterate
// are dropped, and the set is capped at a maximum size by discarding its
// oldest entries.
type ProximityUpdate struct {
	envelopeFactor float64
	sizeMaximum    int
}

// NewProximityUpdate creates the strategy with zeroed options; call
// SetOptions before use.
func NewProximityUpdate() *ProximityUpdate { return &ProximityUpdate{} }

// Name implements Strategy.
func (p *ProximityUpdate) Name() string { return "proximity" }

// AddOptions implements Strategy.
func (p *ProximityUpdate) AddOptions(o *Options) {
	o.AddFloat("point_set_envelope_factor", 5e+00, 0.0, math.MaxFloat64,
		"Points farther than this factor times the stationarity radius from "+
			"the current iterate are dropped from the point set.")
	o.AddInt("point_set_size_maximum", 1000, 0, math.MaxInt,
		"Maximum number of points retained; oldest are dropped first.")
}

// SetOptions implements Strategy.
func (p *ProximityUpdate) SetOptions(o *Options) {
	p.envelopeFactor = o.Float("point_set_envelope_factor")
	p.sizeMaximum = o.Int("point_set_size_maximum")
}

// Initialize implements Strategy.
func (p *ProximityUpdate) Initialize(o *Options, q *Quantities, r *Reporter) {}

// IterationHeader implements Strategy.
func (p *ProximityUpdate) IterationHeader() string { return "" }

// IterationNullValues implements Strategy.
func (p *ProximityUpdate) IterationNullValues() string { return "" }

// UpdatePointSet implements PointSetUpdateStrategy.
func (p *ProximityUpdate) UpdatePointSet(o *Options, q *Quantities, r *Reporter, s *Strategies) {
	current := q.CurrentIterate()
	envelope := p.envelopeFactor * q.StationarityRadius()

	points := q.PointSet()
	kept := points[:0]
	for _, point := range points {
		if point == current {
			continue
		}
		difference := current.Vector().LinearCombination(1.0, -1.0, point.Vector())
		if difference.NormInf() <= envelope {
			kept = append(kept, point)
		}
	}
	if len(kept) > p.sizeMaximum {
		kept = kept[len(kept)-p.sizeMaximum:]
	}
	q.SetPointSet(kept)
}

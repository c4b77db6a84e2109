// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"math"

	"github.com/nsopt/nsopt/vec"
)

// Iterate is a visited point together with its lazily evaluated objective
// value and subgradient. Iterates are shared: the point set owns them across
// outer iterations while the bundle holds non-owning references to their
// gradient vectors.
type Iterate struct {
	vector *vec.Vector

	objective          float64
	gradient           *vec.Vector
	objectiveEvaluated bool
	gradientEvaluated  bool
}

// NewIterate wraps a position vector. The iterate takes ownership of x.
func NewIterate(x *vec.Vector) *Iterate {
	return &Iterate{vector: x}
}

// Vector returns the position.
func (it *Iterate) Vector() *vec.Vector { return it.vector }

// Objective returns the cached objective value. Only meaningful after a
// successful EvaluateObjective.
func (it *Iterate) Objective() float64 { return it.objective }

// Gradient returns the cached subgradient vector. Only meaningful after a
// successful EvaluateGradient.
func (it *Iterate) Gradient() *vec.Vector { return it.gradient }

// ObjectiveEvaluated reports whether the objective value is cached.
func (it *Iterate) ObjectiveEvaluated() bool { return it.objectiveEvaluated }

// GradientEvaluated reports whether the subgradient is cached.
func (it *Iterate) GradientEvaluated() bool { return it.gradientEvaluated }

// EvaluateObjective evaluates and caches 𝒇 at the iterate, returning whether
// the evaluation succeeded. Repeated calls reuse the cache.
func (it *Iterate) EvaluateObjective(q *Quantities) bool {
	if it.objectiveEvaluated {
		return true
	}
	f, err := q.problem.Objective(it.vector.Values())
	q.functionEvaluations++
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		q.reportEvaluationError("objective", err)
		return false
	}
	it.objective = f
	it.objectiveEvaluated = true
	return true
}

// EvaluateGradient evaluates and caches a subgradient at the iterate,
// returning whether the evaluation succeeded.
func (it *Iterate) EvaluateGradient(q *Quantities) bool {
	if it.gradientEvaluated {
		return true
	}
	if it.gradient == nil {
		it.gradient = vec.New(it.vector.Length())
	}
	err := q.problem.Gradient(it.vector.Values(), it.gradient.Values())
	q.gradientEvaluations++
	if err != nil || !allFinite(it.gradient.Values()) {
		q.reportEvaluationError("gradient", err)
		return false
	}
	it.gradientEvaluated = true
	return true
}

// EvaluateObjectiveAndGradient evaluates both quantities, jointly when the
// problem supports it.
func (it *Iterate) EvaluateObjectiveAndGradient(q *Quantities) bool {
	if it.objectiveEvaluated && it.gradientEvaluated {
		return true
	}
	og, ok := q.problem.(ObjectiveGradienter)
	if !ok {
		return it.EvaluateObjective(q) && it.EvaluateGradient(q)
	}
	if it.gradient == nil {
		it.gradient = vec.New(it.vector.Length())
	}
	f, err := og.ObjectiveAndGradient(it.vector.Values(), it.gradient.Values())
	q.functionEvaluations++
	q.gradientEvaluations++
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || !allFinite(it.gradient.Values()) {
		q.reportEvaluationError("objective and gradient", err)
		return false
	}
	it.objective = f
	it.objectiveEvaluated = true
	it.gradientEvaluated = true
	return true
}

// LinearCombination creates a fresh, unevaluated iterate at a·𝐱 + b·𝐯
// where 𝐱 is this iterate's position.
func (it *Iterate) LinearCombination(a, b float64, v *vec.Vector) *Iterate {
	return NewIterate(it.vector.LinearCombination(a, b, v))
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

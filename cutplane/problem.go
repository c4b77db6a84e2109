// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"math"
)

// Problem is the user's oracle for a nonsmooth objective 𝒇 : ℝⁿ → ℝ.
// Gradient must yield an element of the subdifferential ∂𝒇(𝐱); at points of
// differentiability that is the gradient itself.
type Problem interface {
	// Dimension returns the number of variables n.
	Dimension() int
	// Objective evaluates 𝒇(𝐱).
	Objective(x []float64) (float64, error)
	// Gradient writes a subgradient at 𝐱 into g.
	Gradient(x, g []float64) error
}

// ObjectiveGradienter is implemented by problems whose oracle returns the
// objective value and a subgradient in a single call. The solver evaluates
// jointly whenever the problem provides it.
type ObjectiveGradienter interface {
	ObjectiveAndGradient(x, g []float64) (float64, error)
}

// Funcs adapts plain functions to Problem. When Grad is nil a central
// finite-difference subgradient is substituted, which is only appropriate
// away from kinks.
type Funcs struct {
	N    int
	Obj  func(x []float64) (float64, error)
	Grad func(x, g []float64) error
}

// Dimension implements Problem.
func (f *Funcs) Dimension() int { return f.N }

// Objective implements Problem.
func (f *Funcs) Objective(x []float64) (float64, error) { return f.Obj(x) }

// Gradient implements Problem, falling back to central differences.
func (f *Funcs) Gradient(x, g []float64) error {
	if f.Grad != nil {
		return f.Grad(x, g)
	}
	return centralDifference(f.Obj, x, g)
}

// centralDifference fills g with (𝒇(𝐱+h·𝐞ᵢ) − 𝒇(𝐱−h·𝐞ᵢ)) / 2h using a
// stepsize of ∛ε scaled by the coordinate magnitude.
func centralDifference(obj func(x []float64) (float64, error), x, g []float64) error {
	const cbrtEps = 6.0554544523933429e-06
	work := make([]float64, len(x))
	copy(work, x)
	for i := range x {
		h := cbrtEps * math.Max(1, math.Abs(x[i]))
		work[i] = x[i] + h
		fp, err := obj(work)
		if err != nil {
			return err
		}
		work[i] = x[i] - h
		fm, err := obj(work)
		if err != nil {
			return err
		}
		work[i] = x[i]
		g[i] = (fp - fm) / (2 * h)
	}
	return nil
}

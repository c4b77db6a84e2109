// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nsopt/nsopt/vec"
)

func searchRig(t *testing.T, p Problem, x0, direction []float64) (*WeakWolfeSearch, *Options, *Quantities, *Reporter, *Strategies) {
	t.Helper()
	s := NewStrategies()
	o := NewOptions()
	(&Quantities{}).AddOptions(o)
	s.AddOptions(o)

	q := NewQuantities(p)
	q.SetOptions(o)
	q.Initialize(x0)
	s.SetOptions(o)
	r := NewReporter(nil, ReportNone, zerolog.Nop())
	s.Initialize(o, q, r)

	require.True(t, q.CurrentIterate().EvaluateObjective(q))
	require.True(t, q.CurrentIterate().EvaluateGradient(q))
	q.Direction().CopyFrom(vec.Of(direction...))

	return s.LineSearch.(*WeakWolfeSearch), o, q, r, s
}

func TestWeakWolfeQuadratic(t *testing.T) {
	p := &Funcs{
		N:    1,
		Obj:  func(x []float64) (float64, error) { return x[0] * x[0], nil },
		Grad: func(x, g []float64) error { g[0] = 2 * x[0]; return nil },
	}
	ls, o, q, r, s := searchRig(t, p, []float64{2}, []float64{-4})

	ls.RunLineSearch(o, q, r, s)

	require.Equal(t, SearchSuccess, ls.Status())
	require.InDelta(t, 0.5, ls.Stepsize(), 1e-12)
	require.InDelta(t, 0.0, q.TrialIterate().Vector().At(0), 1e-12)
	require.Less(t, q.TrialIterate().Objective(), q.CurrentIterate().Objective())
}

func TestWeakWolfeAcceptsUnitStep(t *testing.T) {
	// Along -∇f from x=1 on |x| the unit step lands at the minimizer.
	ls, o, q, r, s := searchRig(t, absValue(), []float64{1}, []float64{-1})

	ls.RunLineSearch(o, q, r, s)

	require.Equal(t, SearchSuccess, ls.Status())
	require.Equal(t, 1.0, ls.Stepsize())
	require.Equal(t, 0.0, q.TrialIterate().Objective())
}

func TestWeakWolfeNotDescent(t *testing.T) {
	// The direction points uphill and every probe increases f.
	p := &Funcs{
		N:    1,
		Obj:  func(x []float64) (float64, error) { return x[0], nil },
		Grad: func(x, g []float64) error { g[0] = 1; return nil },
	}
	ls, o, q, r, s := searchRig(t, p, []float64{0}, []float64{1})

	ls.RunLineSearch(o, q, r, s)

	require.Equal(t, SearchNotDescent, ls.Status())
	require.Zero(t, ls.Stepsize())
}

func TestWeakWolfeSettlesForBestDecrease(t *testing.T) {
	// Every probe (stepsizes 1, 2, 4) lands right of the kink at −0.3, where
	// the curvature condition fails and the stepsize doubles; after three
	// probes the budget is spent and the search settles for the best decrease.
	p := &Funcs{
		N:   1,
		Obj: func(x []float64) (float64, error) { return math.Abs(x[0] + 0.3), nil },
		Grad: func(x, g []float64) error {
			if x[0]+0.3 >= 0 {
				g[0] = 1
			} else {
				g[0] = -1
			}
			return nil
		},
	}
	ls, o, q, r, s := searchRig(t, p, []float64{0.7}, []float64{-0.2})
	require.NoError(t, o.Set("line_search_iteration_limit", 3))
	s.SetOptions(o)

	ls.RunLineSearch(o, q, r, s)

	require.Equal(t, SearchSuccess, ls.Status())
	require.Equal(t, 4.0, ls.Stepsize())
	require.Less(t, q.TrialIterate().Objective(), q.CurrentIterate().Objective())
}

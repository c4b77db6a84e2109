// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func maxQ(n int) Problem {
	return &Funcs{
		N: n,
		Obj: func(x []float64) (float64, error) {
			f := 0.0
			for _, v := range x {
				f = math.Max(f, v*v)
			}
			return f, nil
		},
		Grad: func(x, g []float64) error {
			best, f := 0, 0.0
			for i, v := range x {
				if v*v > f {
					best, f = i, v*v
				}
				g[i] = 0
			}
			g[best] = 2 * x[best]
			return nil
		},
	}
}

func TestFitAbsoluteValue(t *testing.T) {
	cfg := Config{}
	optimizer, err := cfg.New()
	require.NoError(t, err)

	result := optimizer.Fit(absValue(), []float64{1})

	require.True(t, result.OK)
	require.Equal(t, SolveStationary, result.Status)
	require.LessOrEqual(t, result.F, 1e-06)
	require.LessOrEqual(t, math.Abs(result.X[0]), 1e-06)
	require.Positive(t, result.NumFunEval)
	require.Positive(t, result.NumGradEval)
}

func TestFitMaxQ(t *testing.T) {
	cfg := Config{Options: map[string]any{"iteration_limit": 300}}
	optimizer, err := cfg.New()
	require.NoError(t, err)

	const n = 5
	x0 := make([]float64, n)
	for i := range x0 {
		x0[i] = 1 + float64(i)/n
	}
	p := maxQ(n)
	f0, err := p.Objective(x0)
	require.NoError(t, err)

	result := optimizer.Fit(p, x0)

	require.NotEqual(t, SolveEvaluationFailure, result.Status)
	require.NotEqual(t, SolveDirectionFailure, result.Status)
	require.Less(t, result.F, f0/4)

	for i := 1; i < len(result.History); i++ {
		require.LessOrEqual(t, result.History[i], result.History[i-1]+1e-12)
	}
}

func TestFitRosenMax(t *testing.T) {
	cfg := Config{Options: map[string]any{"iteration_limit": 300}}
	optimizer, err := cfg.New()
	require.NoError(t, err)

	result := optimizer.Fit(rosenMax(), []float64{1, 1})

	require.NotEqual(t, SolveEvaluationFailure, result.Status)
	require.NotEqual(t, SolveDirectionFailure, result.Status)
	require.LessOrEqual(t, result.F, 0.1)
}

func TestFitCPUTimeLimitResignalled(t *testing.T) {
	cfg := Config{Options: map[string]any{"cpu_time_limit": 0.0}}
	optimizer, err := cfg.New()
	require.NoError(t, err)

	result := optimizer.Fit(absValue(), []float64{1})
	require.Equal(t, SolveCPUTimeLimit, result.Status)
	require.False(t, result.OK)
}

func TestFitUnknownOptionRejected(t *testing.T) {
	cfg := Config{Options: map[string]any{"no_such_option": 1}}
	_, err := cfg.New()
	require.ErrorIs(t, err, ErrUnknownOption)
}

func TestFitDimensionMismatchPanics(t *testing.T) {
	cfg := Config{}
	optimizer, err := cfg.New()
	require.NoError(t, err)
	require.Panics(t, func() { optimizer.Fit(absValue(), []float64{1, 2}) })
}

func TestFitTraceContainsHeader(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Output: &buf, Level: ReportPerIteration}
	optimizer, err := cfg.New()
	require.NoError(t, err)

	optimizer.Fit(absValue(), []float64{1})

	out := buf.String()
	require.True(t, strings.Contains(out, "In. Its.  QP Pts.  QP Its. QP   QP KKT    |Step|   |Step|_H"))
	require.True(t, strings.Contains(out, "Iter."))
}

func TestFitJointEvaluationOracle(t *testing.T) {
	p := &jointAbs{}
	cfg := Config{}
	optimizer, err := cfg.New()
	require.NoError(t, err)

	result := optimizer.Fit(p, []float64{1})
	require.True(t, result.OK)
	require.LessOrEqual(t, result.F, 1e-06)
	require.Positive(t, result.NumGradEval)
}

// jointAbs evaluates |x| and its sign subgradient in a single oracle call.
type jointAbs struct{}

func (*jointAbs) Dimension() int { return 1 }

func (*jointAbs) Objective(x []float64) (float64, error) { return math.Abs(x[0]), nil }

func (*jointAbs) Gradient(x, g []float64) error {
	g[0] = sign(x[0])
	return nil
}

func (*jointAbs) ObjectiveAndGradient(x, g []float64) (float64, error) {
	g[0] = sign(x[0])
	return math.Abs(x[0]), nil
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutplane

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fixedQP reports a fixed stationarity state for termination tests.
type fixedQP struct {
	stubQP
	combSq float64
	primSq float64
}

func (f *fixedQP) CombinationTranslatedNorm2Squared() float64 { return f.combSq }
func (f *fixedQP) PrimalSolutionNorm2Squared() float64        { return f.primSq }

func terminationRig(t *testing.T, qp QPSolver) (*BasicTermination, *Options, *Quantities, *Reporter, *Strategies) {
	t.Helper()
	s := NewStrategies()
	s.QPSolver = qp
	o := NewOptions()
	(&Quantities{}).AddOptions(o)
	s.AddOptions(o)

	q := NewQuantities(absValue())
	q.SetOptions(o)
	q.Initialize([]float64{1})
	s.SetOptions(o)
	r := NewReporter(nil, ReportNone, zerolog.Nop())
	s.Initialize(o, q, r)
	return s.Termination.(*BasicTermination), o, q, r, s
}

func TestTerminationRaisesRadiiUpdate(t *testing.T) {
	qp := &fixedQP{combSq: 1e-08, primSq: 1e-08}
	qp.status = QPSuccess
	term, o, q, r, s := terminationRig(t, qp)
	q.SetRadii(1.0, 1.0)

	term.CheckConditionsDirectionComputation(o, q, r, s)
	require.True(t, term.UpdateRadiiDirectionComputation())

	term.CheckConditions(o, q, r, s)
	require.True(t, term.UpdateRadii())
	require.False(t, term.Terminate())
}

func TestTerminationQuietWhenNonstationary(t *testing.T) {
	qp := &fixedQP{combSq: 1.0, primSq: 1.0}
	qp.status = QPSuccess
	term, o, q, r, s := terminationRig(t, qp)
	q.SetRadii(1.0, 1.0)

	term.CheckConditionsDirectionComputation(o, q, r, s)
	require.False(t, term.UpdateRadiiDirectionComputation())

	term.CheckConditions(o, q, r, s)
	require.False(t, term.UpdateRadii())
	require.False(t, term.Terminate())
}

func TestTerminationIgnoresFailedQP(t *testing.T) {
	qp := &fixedQP{combSq: 0, primSq: 0}
	qp.status = QPFailure
	term, o, q, r, s := terminationRig(t, qp)
	q.SetRadii(1.0, 1.0)

	term.CheckConditionsDirectionComputation(o, q, r, s)
	require.False(t, term.UpdateRadiiDirectionComputation())
}

func TestTerminationCompletesAtFinalRadius(t *testing.T) {
	qp := &fixedQP{combSq: 0, primSq: 0}
	qp.status = QPSuccess
	term, o, q, r, s := terminationRig(t, qp)
	q.SetRadii(1e-07, 1e-07)

	term.CheckConditions(o, q, r, s)
	require.True(t, term.UpdateRadii())
	require.True(t, term.Terminate())
}

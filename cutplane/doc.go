// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cutplane implements a cutting-plane (bundle) method for nonsmooth,
// possibly nonconvex unconstrained minimization.
//
// Given an oracle for 𝒇 : ℝⁿ → ℝ and one subgradient per point, the solver
// iterates: a direction computation builds a piecewise-linear model of 𝒇
// from a bundle of downshifted subgradient linearizations and solves QP
// subproblems over it inside a trust region, a weak-Wolfe line search picks
// the stepsize, and BFGS-style updates shape the QP's quadratic term. The
// stationarity radius governs which visited points contribute cuts; both it
// and the trust-region radius shrink as the iterates approach stationarity.
//
// All components behind the direction computation — the QP solver, the
// termination tests, the line search, the Hessian and point-set updates —
// are pluggable strategies; the defaults live in this package.
package cutplane

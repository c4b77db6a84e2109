// Copyright ©2026 nsopt. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command nsopt runs the bundle solver on built-in nonsmooth test problems.
package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/nsopt/nsopt/cutplane"
)

var log zerolog.Logger

func init() {
	viper.SetEnvPrefix("nsopt")
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String("log-level", "warn", "Logging level")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	solveCmd.Flags().String("problem", "absval", "Problem to solve: absval, maxq or rosenmax")
	solveCmd.Flags().Int("n", 10, "Problem dimension (absval and rosenmax are fixed)")
	solveCmd.Flags().Float64("x0", 1.0, "Initial value for every variable")
	solveCmd.Flags().Int("iters", 200, "Outer iteration limit")
	solveCmd.Flags().Bool("trace", false, "Print the per-inner-iteration trace")
	solveCmd.Flags().String("plot", "", "Write a convergence plot PNG to this path")
	_ = viper.BindPFlag("problem", solveCmd.Flags().Lookup("problem"))
	_ = viper.BindPFlag("n", solveCmd.Flags().Lookup("n"))
	_ = viper.BindPFlag("x0", solveCmd.Flags().Lookup("x0"))
	_ = viper.BindPFlag("iters", solveCmd.Flags().Lookup("iters"))
	_ = viper.BindPFlag("trace", solveCmd.Flags().Lookup("trace"))
	_ = viper.BindPFlag("plot", solveCmd.Flags().Lookup("plot"))

	rootCmd.AddCommand(solveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "nsopt",
	Short: "Nonsmooth optimization with a cutting-plane bundle method",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := zerolog.ParseLevel(viper.GetString("log_level"))
		if err != nil {
			level = zerolog.WarnLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run the solver on a built-in test problem",
	RunE: func(cmd *cobra.Command, args []string) error {
		problem, x0, err := buildProblem(viper.GetString("problem"), viper.GetInt("n"), viper.GetFloat64("x0"))
		if err != nil {
			return err
		}

		level := cutplane.ReportPerIteration
		if viper.GetBool("trace") {
			level = cutplane.ReportPerInnerIteration
		}

		cfg := cutplane.Config{
			Output:  os.Stdout,
			Level:   level,
			Log:     log,
			Options: map[string]any{"iteration_limit": viper.GetInt("iters")},
		}
		optimizer, err := cfg.New()
		if err != nil {
			return err
		}

		result := optimizer.Fit(problem, x0)

		fmt.Printf("status      : %s\n", result.Status)
		fmt.Printf("objective   : %+.6e\n", result.F)
		fmt.Printf("iterations  : %d outer, %d inner, %d QP\n", result.NumIter, result.NumInner, result.NumQP)
		fmt.Printf("evaluations : %d objective, %d subgradient\n", result.NumFunEval, result.NumGradEval)

		if path := viper.GetString("plot"); path != "" {
			if err := plotHistory(result.History, path); err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("wrote convergence plot")
		}
		return nil
	},
}

func buildProblem(name string, n int, x0 float64) (cutplane.Problem, []float64, error) {
	switch strings.ToLower(name) {
	case "absval":
		// 𝒇(x) = |x|
		start := []float64{x0}
		return &cutplane.Funcs{
			N:   1,
			Obj: func(x []float64) (float64, error) { return math.Abs(x[0]), nil },
			Grad: func(x, g []float64) error {
				g[0] = sign(x[0])
				return nil
			},
		}, start, nil
	case "maxq":
		// 𝒇(𝐱) = 𝚖𝚊𝚡ᵢ xᵢ²
		start := make([]float64, n)
		for i := range start {
			start[i] = x0 + float64(i)/float64(n)
		}
		return &cutplane.Funcs{
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
		}, start, nil
	case "rosenmax":
		// 𝒇(𝐱) = 𝚖𝚊𝚡(x₁, x₂, −x₁−x₂)
		start := []float64{x0, x0}
		return &cutplane.Funcs{
			N: 2,
			Obj: func(x []float64) (float64, error) {
				return math.Max(x[0], math.Max(x[1], -x[0]-x[1])), nil
			},
			Grad: func(x, g []float64) error {
				g[0], g[1] = 0, 0
				switch f := math.Max(x[0], math.Max(x[1], -x[0]-x[1])); {
				case f == x[0]:
					g[0] = 1
				case f == x[1]:
					g[1] = 1
				default:
					g[0], g[1] = -1, -1
				}
				return nil
			},
		}, start, nil
	}
	return nil, nil, fmt.Errorf("unknown problem %q", name)
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

func plotHistory(history []float64, path string) error {
	p := plot.New()
	p.Title.Text = "Convergence"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Objective"

	points := make(plotter.XYs, len(history))
	for i, f := range history {
		points[i].X = float64(i + 1)
		points[i].Y = f
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	p.Add(line)
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

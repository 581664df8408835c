package walksat

import (
	"context"
)

// Options bundles every tunable surface of a search: how long to try, when
// to stop, which heuristic to run, and the noise/freebie/tabu knobs that
// configure it (spec.md §6). Zero-value Options.Heuristic selects
// HeuristicRandom (the CLI defaults to best), and Cutoff/Tries must be set
// by the caller (the CLI gives them defaults).
type Options struct {
	Seed int64

	Cutoff  int64 // max flips per try
	Tries   int64 // max tries (numrun)
	NumSol  int64 // stop after this many solutions found (numsol)
	Target  int   // a try succeeds once NumFalse() <= Target

	Superlinear bool // scale Cutoff by the Luby sequence across tries

	InitLits []int32 // optional fixed initial literals, applied every try

	Heuristic HeuristicParams
	Noise     NoiseOptions

	Debug bool // enable full invariant recomputation after every flip
}

// NoiseOptions configures the NoiseState built for a Solver.
type NoiseOptions struct {
	WalkProb float64
	Adaptive bool
	Phi      float64
	Theta    float64
}

// Result is everything a completed Run reports back: whether a solution
// was found, the best assignment ever seen even when none was, and basic
// counters (spec.md §4.7).
type Result struct {
	Solved bool

	// Solution is the satisfying assignment, 1-indexed, set only if Solved.
	Solution []bool

	// LowAssignment is the assignment with the fewest unsatisfied clauses
	// seen across every try, 1-indexed; LowFalse is that count.
	LowAssignment []bool
	LowFalse      int

	NumTry        int64
	NumSuccessTry int64
	NumFlip       int64
	Aborted       bool // Run returned early due to context cancellation
}

// Solver runs repeated WalkSAT tries against a fixed Formula.
type Solver struct {
	formula *Formula
	opts    Options
}

// NewSolver builds a Solver for formula under opts. Formula is shared
// read-only across every try.
func NewSolver(formula *Formula, opts Options) *Solver {
	return &Solver{formula: formula, opts: opts}
}

// Run drives the try/restart loop of spec.md §4.6: repeatedly initializes a
// fresh SearchState, flips until the try succeeds or its cutoff expires, and
// stops once NumSol solutions are found, Tries tries are exhausted, or ctx
// is cancelled. Cancellation is checked at flip boundaries only, so Run
// always returns with a consistent SearchState rather than mid-flip.
func (sv *Solver) Run(ctx context.Context) (*Result, error) {
	o := &sv.opts
	needMake := o.Heuristic.Heuristic == HeuristicGSAT ||
		o.Heuristic.Heuristic == HeuristicNovelty ||
		o.Heuristic.Heuristic == HeuristicRNovelty ||
		o.Heuristic.MaxFreebie
	needFreebie := o.Heuristic.MaxFreebie

	rng := NewRng(o.Seed)
	noise := NewNoiseState(o.Noise.WalkProb, o.Noise.Adaptive, o.Noise.Phi, o.Noise.Theta)

	result := &Result{LowFalse: -1}

	checkCancelled := func() bool {
		select {
		case <-ctx.Done():
			return true
		default:
			return false
		}
	}

	var numTry int64
	for !checkCancelled() && result.NumSuccessTry < o.NumSol && numTry < o.Tries {
		numTry++
		result.NumTry = numTry

		state := NewSearchState(sv.formula, needMake, needFreebie)
		state.Debug = o.Debug
		if err := state.Initialize(rng, o.InitLits); err != nil {
			return result, err
		}

		cutoff := o.Cutoff
		if o.Superlinear {
			cutoff = o.Cutoff * Luby(numTry)
		}
		noise.StartTry(sv.formula.NumClauses)
		phase := newAlternatePhase()

		if result.LowFalse < 0 || state.NumFalse() < result.LowFalse {
			result.LowFalse = state.NumFalse()
			result.LowAssignment = append([]bool(nil), state.Assignment...)
		}

		for state.NumFalse() > o.Target && state.NumFlip < cutoff {
			if checkCancelled() {
				result.Aborted = true
				break
			}

			var v int32
			if fv, ok := PickFreebie(state, &o.Heuristic, rng); ok {
				v = fv
			} else {
				v = Select(state, &o.Heuristic, &phase, noise.Numerator, rng)
			}
			if err := state.Flip(v); err != nil {
				return result, err
			}
			noise.AfterFlip(state.NumFalse())

			if result.LowFalse < 0 || state.NumFalse() < result.LowFalse {
				result.LowFalse = state.NumFalse()
				result.LowAssignment = append([]bool(nil), state.Assignment...)
			}
		}
		result.NumFlip += state.NumFlip

		if state.NumFalse() <= o.Target {
			result.Solved = true
			result.Solution = append([]bool(nil), state.Assignment...)
			result.NumSuccessTry++
		}

		if result.Aborted {
			break
		}
	}

	return result, nil
}

// SeedOrClock returns seed if non-zero, otherwise a seed derived from the
// clock, matching the reference's default of seeding from gettimeofday when
// no -seed flag is given.
func SeedOrClock(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return SeedFromClock()
}

// Command walksat runs the stochastic local-search SAT solver over a
// DIMACS CNF formula read from a file or standard input.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/ngrant/walksat"
)

var log = logrus.New()

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("walksat", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		fmt.Fprintln(os.Stderr, fs.FlagUsages())
	}

	var (
		seed        int64
		cutoffStr   string
		triesStr    string
		numSol      int64
		target      int
		status      bool
		superlinear bool
		initFile    string
		outFile     string
		printSol    bool
		printSolCNF bool
		debug       bool

		heuristic     string
		tabuLength    int64
		plus          bool
		altWalk       int64
		altGreedy     int64

		walkProb     float64
		noiseStr     string
		nofreebie    bool
		maxfreebie   bool
		freebieNoise float64
		adaptive     bool
		phi, theta   float64
	)

	fs.Int64Var(&seed, "seed", 0, "seed the PRNG with N (0 picks a clock-derived seed)")
	fs.StringVar(&cutoffStr, "cutoff", "100000", "bound on the number of flips per try; suffix K/M/B for thousands/millions/billions")
	fs.StringVar(&triesStr, "tries", "10", "bound on the number of tries (alias --restart)")
	fs.StringVar(&triesStr, "restart", "10", "alias for --tries")
	fs.Int64Var(&numSol, "numsol", math.MaxInt64, "stop after finding N solutions (default: run out the tries budget)")
	fs.IntVar(&target, "target", 0, "a try succeeds once N or fewer clauses are unsatisfied")
	fs.BoolVar(&status, "status", false, "exit nonzero if no solution is found")
	fs.BoolVar(&superlinear, "super", false, "scale the per-try cutoff by the Luby sequence across tries")
	fs.StringVar(&initFile, "init", "", "initialize literals listed in FILE, others randomly")
	fs.StringVar(&outFile, "out", "", "write the solution as signed literals to FILE")
	fs.BoolVar(&printSol, "sol", false, "print the satisfying assignment to standard output")
	fs.BoolVar(&printSolCNF, "solcnf", false, "print the satisfying assignment to standard output in DIMACS v-line format")
	fs.BoolVar(&debug, "debug", false, "recompute every invariant from scratch after each flip")

	fs.StringVar(&heuristic, "heuristic", "best", "variable-selection heuristic: random, best (alias walksat), gsat, tabu, novelty, rnovelty, alternate, bigflip")
	fs.Int64Var(&tabuLength, "tabu-length", 10, "tabu list length, used when --heuristic=tabu")
	fs.BoolVar(&plus, "plus", false, "novelty+/rnovelty+: occasionally pick a uniformly random literal")
	fs.Int64Var(&altWalk, "alternate-walk", 10, "walk-phase flip count for alternate/bigflip")
	fs.Int64Var(&altGreedy, "alternate-greedy", 10, "greedy-phase flip count for alternate/bigflip")

	fs.Float64Var(&walkProb, "walkprob", 0.5, "walk probability R in [0,1] (alias --wp)")
	fs.Float64Var(&walkProb, "wp", 0.5, "alias for --walkprob")
	fs.StringVar(&noiseStr, "noise", "", "set walk probability to N/M (M defaults to 100); overrides --walkprob")
	fs.BoolVar(&nofreebie, "nofreebie", false, "disable the freebie (zero-break, positive-make) shortcut")
	fs.BoolVar(&maxfreebie, "maxfreebie", false, "check the freebie list before running the heuristic")
	fs.Float64Var(&freebieNoise, "freebie-noise", 0.0, "probability in [0,1] of skipping an available freebie")
	fs.BoolVar(&adaptive, "adaptivehh", false, "adjust walk probability adaptively (Holger Hoos method)")
	fs.Float64Var(&phi, "phi", 0.20, "adaptive noise phi parameter")
	fs.Float64Var(&theta, "theta", 0.20, "adaptive noise theta parameter")

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fs.Usage()
		return exitCode(walksat.NewUsageError("%s", err))
	}

	var in *os.File
	if fs.NArg() >= 1 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return exitCode(walksat.NewUsageError("%s", err))
		}
		defer f.Close()
		in = f
	} else {
		in = os.Stdin
	}

	cutoff, err := walksat.ParseCutoff(cutoffStr)
	if err != nil {
		return exitCode(err)
	}
	tries, err := walksat.ParseCutoff(triesStr)
	if err != nil {
		return exitCode(err)
	}

	name := fs.Arg(0)
	if name == "" {
		name = "<stdin>"
	}
	numVars, rawClauses, err := walksat.ParseDIMACS(name, in)
	if err != nil {
		return exitCode(err)
	}
	formula, err := walksat.NewFormula(numVars, rawClauses)
	if err != nil {
		return exitCode(err)
	}
	log.WithFields(logrus.Fields{
		"vars":    formula.NumVars,
		"clauses": formula.NumClauses,
	}).Info("loaded formula")

	var initLits []int32
	if initFile != "" {
		f, err := os.Open(initFile)
		if err != nil {
			return exitCode(walksat.NewUsageError("%s", err))
		}
		defer f.Close()
		initLits, err = walksat.ParseAssignment(initFile, f, formula.NumVars)
		if err != nil {
			return exitCode(err)
		}
	}

	hp, err := heuristicParams(heuristic, tabuLength, plus, altWalk, altGreedy)
	if err != nil {
		return exitCode(err)
	}
	hp.NoFreebie = nofreebie
	hp.MaxFreebie = maxfreebie
	hp.FreebieNoise = int(freebieNoise * 100000)

	if noiseStr != "" {
		walkProb, err = parseNoise(noiseStr)
		if err != nil {
			return exitCode(err)
		}
	}

	opts := walksat.Options{
		Seed:        walksat.SeedOrClock(seed),
		Cutoff:      cutoff,
		Tries:       tries,
		NumSol:      numSol,
		Target:      target,
		Superlinear: superlinear,
		InitLits:    initLits,
		Heuristic:   *hp,
		Noise: walksat.NoiseOptions{
			WalkProb: walkProb,
			Adaptive: adaptive,
			Phi:      phi,
			Theta:    theta,
		},
		Debug: debug,
	}

	ctx, cancel := installSignalHandler()
	defer cancel()

	solver := walksat.NewSolver(formula, opts)
	result, err := solver.Run(ctx)
	if err != nil {
		if ie, ok := err.(*walksat.InvariantError); ok {
			log.WithField("state", pretty.Sprint(result)).Fatal(ie)
		}
		return exitCode(err)
	}

	log.WithFields(logrus.Fields{
		"tries": result.NumTry,
		"flips": result.NumFlip,
		"solved": result.Solved,
	}).Info("search finished")

	if !result.Solved {
		fmt.Println("ASSIGNMENT NOT FOUND")
		if status {
			return 1
		}
		return 0
	}

	if printSolCNF {
		walksat.WriteSolCNF(os.Stdout, result.Solution)
		return 0
	}
	if printSol {
		fmt.Println("SAT")
		walksat.WriteSolutionFile(os.Stdout, result.Solution)
	} else {
		fmt.Println("SAT")
	}
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return exitCode(walksat.NewUsageError("%s", err))
		}
		defer f.Close()
		if err := walksat.WriteSolutionFile(f, result.Solution); err != nil {
			return exitCode(walksat.NewUsageError("%s", err))
		}
	}
	return 0
}

// heuristicParams translates the --heuristic selector and its companion
// flags into a walksat.HeuristicParams, the Go-idiomatic replacement for
// the reference's cascade of mutually exclusive boolean flags.
func heuristicParams(name string, tabuLength int64, plus bool, altWalk, altGreedy int64) (*walksat.HeuristicParams, error) {
	p := &walksat.HeuristicParams{PlusFlag: plus, TabuLength: tabuLength, AlternateWalk: altWalk, AlternateGreedy: altGreedy}
	switch name {
	case "random":
		p.Heuristic = walksat.HeuristicRandom
	case "best", "walksat":
		p.Heuristic = walksat.HeuristicBest
	case "gsat":
		p.Heuristic = walksat.HeuristicGSAT
	case "tabu":
		p.Heuristic = walksat.HeuristicTabu
	case "novelty":
		p.Heuristic = walksat.HeuristicNovelty
	case "rnovelty":
		p.Heuristic = walksat.HeuristicRNovelty
	case "alternate":
		p.Heuristic = walksat.HeuristicAlternate
		p.BigFlip = false
	case "bigflip":
		p.Heuristic = walksat.HeuristicBigFlip
		p.BigFlip = true
	default:
		return nil, walksat.NewUsageError("unknown heuristic %q", name)
	}
	return p, nil
}

// parseNoise parses "-noise N [M]" syntax as a single string argument "N"
// or "N/M", returning N/M as a probability (M defaults to 100).
func parseNoise(s string) (float64, error) {
	parts := strings.Fields(strings.ReplaceAll(s, "/", " "))
	n, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, walksat.NewUsageError("bad --noise argument: %s", err)
	}
	m := 100.0
	if len(parts) > 1 {
		m, err = strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0, walksat.NewUsageError("bad --noise argument: %s", err)
		}
	}
	return n / m, nil
}

// installSignalHandler returns a context cancelled on the first SIGINT and
// exits the process immediately on a second, matching the reference's
// handle_interrupt: the first interrupt asks the current try to wind down
// at its next flip boundary, the second is urgent.
func installSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT)
	go func() {
		if _, ok := <-sig; !ok {
			return
		}
		log.Warn("interrupt received, finishing current try")
		cancel()
		if _, ok := <-sig; ok {
			log.Warn("second interrupt received, exiting immediately")
			os.Exit(130)
		}
	}()
	return ctx, func() {
		signal.Stop(sig)
		close(sig)
		cancel()
	}
}

func exitCode(err error) int {
	switch e := err.(type) {
	case *walksat.UsageError:
		log.Error(e)
		return 2
	case *walksat.ValidationError:
		log.Error(e)
		return 1
	case *walksat.InvariantError:
		log.Fatal(e)
		return 1
	default:
		log.Error(err)
		return 1
	}
}

const usageText = `walksat: a stochastic local-search SAT solver.

Usage:

  walksat [flags] [input.cnf]

Reads a single DIMACS CNF formula from input.cnf, or from standard input
if no file is given, and searches for a satisfying assignment.

`

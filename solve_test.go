package walksat

import (
	"context"
	"fmt"
	"testing"
)

// TestSolveTrivialSAT is scenario 1 from spec.md §8.
func TestSolveTrivialSAT(t *testing.T) {
	f := mustFormula(t, 1, [][]int32{{1}})
	sv := NewSolver(f, Options{
		Seed:   1,
		Cutoff: 100,
		Tries:  1,
		NumSol: 1,
		Target: 0,
		Heuristic: HeuristicParams{Heuristic: HeuristicBest},
	})
	result, err := sv.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !result.Solved {
		t.Fatal("expected a solution on try 1")
	}
	if !result.Solution[1] {
		t.Fatalf("solution[1] = %v, want true", result.Solution[1])
	}
}

// TestSolveTrivialUNSAT is scenario 2 from spec.md §8.
func TestSolveTrivialUNSAT(t *testing.T) {
	f := mustFormula(t, 1, [][]int32{{1}, {-1}})
	sv := NewSolver(f, Options{
		Seed:   2,
		Cutoff: 100,
		Tries:  5,
		NumSol: 1,
		Target: 0,
		Heuristic: HeuristicParams{Heuristic: HeuristicBest},
	})
	result, err := sv.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Solved {
		t.Fatal("expected no solution; formula is unsatisfiable")
	}
	if result.NumTry != 5 {
		t.Fatalf("NumTry = %d, want all 5 tries exhausted", result.NumTry)
	}
}

// TestSolveQueens is scenario 3 from spec.md §8: the 4-queens encoding (16
// variables, 80 clauses) must be satisfiable, and the satisfying
// assignment's true variables must form a valid placement (exactly one
// queen per row, no shared column or diagonal).
func TestSolveQueens(t *testing.T) {
	const n = 4
	f := mustFormula(t, n*n, queensClauses(n))
	sv := NewSolver(f, Options{
		Seed:   4,
		Cutoff: 10000,
		Tries:  10,
		NumSol: 1,
		Target: 0,
		Heuristic: HeuristicParams{Heuristic: HeuristicBest},
		Noise:     NoiseOptions{WalkProb: 0.5},
	})
	result, err := sv.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !result.Solved {
		t.Fatal("expected 4-queens to be satisfiable within budget")
	}
	if err := validateQueens(n, result.Solution); err != nil {
		t.Fatal(err)
	}
}

// queensClauses builds the n-queens CNF described in
// cmd/makequeens: one variable per square, one clause per row requiring a
// queen, and clauses forbidding two queens sharing a row, column, or
// diagonal.
func queensClauses(n int) [][]int32 {
	sq := func(row, col int) int32 { return int32(n*(row-1) + col) }
	var clauses [][]int32
	for row := 1; row <= n; row++ {
		cls := make([]int32, 0, n)
		for col := 1; col <= n; col++ {
			cls = append(cls, sq(row, col))
		}
		clauses = append(clauses, cls)
	}
	for row := 1; row <= n; row++ {
		for i := 1; i < n; i++ {
			for k := i + 1; k <= n; k++ {
				clauses = append(clauses, []int32{-sq(row, i), -sq(row, k)})
			}
		}
	}
	for col := 1; col <= n; col++ {
		for j := 1; j < n; j++ {
			for k := j + 1; k <= n; k++ {
				clauses = append(clauses, []int32{-sq(j, col), -sq(k, col)})
			}
		}
	}
	for col := 1; col < n; col++ {
		for row := 1; row < n; row++ {
			for k := 1; col+k <= n && row+k <= n; k++ {
				clauses = append(clauses, []int32{-sq(row, col), -sq(row+k, col+k)})
			}
		}
	}
	for col := 2; col <= n; col++ {
		for row := 1; row < n; row++ {
			for k := 1; col-k >= 1 && row+k <= n; k++ {
				clauses = append(clauses, []int32{-sq(row, col), -sq(row+k, col-k)})
			}
		}
	}
	return clauses
}

func validateQueens(n int, solution []bool) error {
	rowOf := map[int]int{}
	colOf := map[int]int{}
	var placed [][2]int
	for row := 1; row <= n; row++ {
		found := -1
		for col := 1; col <= n; col++ {
			v := n*(row-1) + col
			if solution[v] {
				if found != -1 {
					return fmt.Errorf("row %d has more than one queen", row)
				}
				found = col
			}
		}
		if found == -1 {
			return fmt.Errorf("row %d has no queen", row)
		}
		rowOf[row] = found
		colOf[found] = row
		placed = append(placed, [2]int{row, found})
	}
	for i := range placed {
		for j := i + 1; j < len(placed); j++ {
			r1, c1 := placed[i][0], placed[i][1]
			r2, c2 := placed[j][0], placed[j][1]
			if c1 == c2 {
				return fmt.Errorf("queens at rows %d and %d share column %d", r1, r2, c1)
			}
			if abs(r1-r2) == abs(c1-c2) {
				return fmt.Errorf("queens at (%d,%d) and (%d,%d) share a diagonal", r1, c1, r2, c2)
			}
		}
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

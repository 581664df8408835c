package walksat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func mustFormula(t *testing.T, numVars int, clauses [][]int32) *Formula {
	t.Helper()
	f, err := NewFormula(numVars, clauses)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// TestFlipIdempotent checks that flip(v) twice in a row restores every
// derived array to its exact pre-flip contents (spec.md §8).
func TestFlipIdempotent(t *testing.T) {
	f := mustFormula(t, 4, [][]int32{
		{1, 2, -3},
		{-1, 3, 4},
		{2, -4},
		{-2, 3, -4},
	})
	s := NewSearchState(f, true, true)
	s.Debug = true
	rng := NewRng(7)
	if err := s.Initialize(rng, nil); err != nil {
		t.Fatal(err)
	}

	snapshot := snapshotState(s)

	if err := s.Flip(2); err != nil {
		t.Fatalf("first flip: %v", err)
	}
	if err := s.Flip(2); err != nil {
		t.Fatalf("second flip: %v", err)
	}

	after := snapshotState(s)
	// NumFlip and LastFlip advance even on a round trip; everything else
	// must return exactly to where it started.
	snapshot.numFlip = after.numFlip
	snapshot.lastFlip = after.lastFlip
	if diff := cmp.Diff(snapshot, after, cmp.AllowUnexported(stateSnapshot{}), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("state mismatch after flip(v); flip(v) (-want +got):\n%s", diff)
	}
}

// TestFlipMaintainsInvariants runs the Best heuristic over a run of flips
// with debug invariant checking on, relying on checkInvariants (the
// full-recomputation-equivalence property of spec.md §8) to catch any
// incremental bookkeeping bug.
func TestFlipMaintainsInvariants(t *testing.T) {
	f := mustFormula(t, 6, [][]int32{
		{1, 2, 3},
		{-1, 2, -3},
		{1, -2, 4},
		{-4, 5, 6},
		{-5, -6, 1},
		{2, -5, 3},
		{-2, 4, -6},
	})
	rng := NewRng(99)
	s := NewSearchState(f, true, true)
	s.Debug = true
	if err := s.Initialize(rng, nil); err != nil {
		t.Fatal(err)
	}
	phase := newAlternatePhase()
	params := &HeuristicParams{Heuristic: HeuristicBest}
	for i := 0; i < 500; i++ {
		if s.NumFalse() == 0 {
			break
		}
		v := Select(s, params, &phase, 20000, rng)
		if err := s.Flip(v); err != nil {
			t.Fatalf("flip %d: %v", i, err)
		}
	}
}

type stateSnapshot struct {
	assignment   []bool
	trueLitCount []int32
	unsatList    []int32
	whereUnsat   []int32
	breakCount   []int32
	makeCount    []int32
	freebieList  []int32
	whereFreebie []int32
	numFlip      int64
	lastFlip     []int64
}

func snapshotState(s *SearchState) stateSnapshot {
	return stateSnapshot{
		assignment:   append([]bool(nil), s.Assignment...),
		trueLitCount: append([]int32(nil), s.TrueLitCount...),
		unsatList:    append([]int32(nil), s.UnsatList...),
		whereUnsat:   append([]int32(nil), s.WhereUnsat...),
		breakCount:   append([]int32(nil), s.BreakCount...),
		makeCount:    append([]int32(nil), s.MakeCount...),
		freebieList:  append([]int32(nil), s.FreebieList...),
		whereFreebie: append([]int32(nil), s.WhereFreebie...),
		numFlip:      s.NumFlip,
		lastFlip:     append([]int64(nil), s.LastFlip...),
	}
}

// TestFreebieScenario is scenario 4 from spec.md §8: {x,y} ∧ {x,-y} started
// at x=0,y=0 makes x a zero-break, positive-make freebie, and flipping it
// satisfies both clauses.
func TestFreebieScenario(t *testing.T) {
	f := mustFormula(t, 2, [][]int32{
		{1, 2},
		{1, -2},
	})
	s := NewSearchState(f, true, true)
	rng := NewRng(1)
	if err := s.Initialize(rng, []int32{-1, -2}); err != nil {
		t.Fatal(err)
	}
	if s.BreakCount[1] != 0 {
		t.Fatalf("BreakCount[x]=%d, want 0", s.BreakCount[1])
	}
	if s.MakeCount[1] <= 0 {
		t.Fatalf("MakeCount[x]=%d, want > 0", s.MakeCount[1])
	}
	if !s.onFreebieList(1) {
		t.Fatalf("x should be on the freebie list")
	}
	if err := s.Flip(1); err != nil {
		t.Fatal(err)
	}
	if s.NumFalse() != 0 {
		t.Fatalf("NumFalse()=%d after flipping the freebie, want 0", s.NumFalse())
	}
}

package walksat

import "testing"

func newTestState(t *testing.T, trackMake, trackFreebie bool) (*SearchState, *Formula) {
	t.Helper()
	f := mustFormula(t, 3, [][]int32{
		{1, 2, -3},
		{-1, 3},
		{2, -3},
	})
	s := NewSearchState(f, trackMake, trackFreebie)
	rng := NewRng(42)
	if err := s.Initialize(rng, nil); err != nil {
		t.Fatal(err)
	}
	return s, f
}

func TestPickRandomStaysInClause(t *testing.T) {
	f := mustFormula(t, 3, [][]int32{{1, 2, -3}})
	s := NewSearchState(f, false, false)
	s.UnsatList = []int32{0}
	rng := NewRng(1)
	for i := 0; i < 20; i++ {
		v := pickRandom(s, rng)
		if v < 1 || v > 3 {
			t.Fatalf("pickRandom returned out-of-range variable %d", v)
		}
	}
}

func TestArgminBreakTies(t *testing.T) {
	f := mustFormula(t, 2, [][]int32{{1, 2}})
	s := NewSearchState(f, false, false)
	s.BreakCount[1] = 3
	s.BreakCount[2] = 3
	best, bestValue := argminBreak(s, f.Clauses[0].Lits)
	if bestValue != 3 {
		t.Fatalf("bestValue = %d, want 3", bestValue)
	}
	if len(best) != 2 {
		t.Fatalf("best = %v, want both tied variables", best)
	}
}

// TestPickNoveltyPrefersYoungestAlternative sets up a clause whose best
// (highest make-minus-break) candidate is also its most recently flipped
// variable, checks that novelScores reports best, secondBest, and youngest
// correctly, and checks that pickNovelty, which on best == youngest chooses
// between the two with the noise probability, returns one of them.
func TestPickNoveltyPrefersYoungestAlternative(t *testing.T) {
	s, f := newTestState(t, true, false)
	s.UnsatList = []int32{0}
	cls := f.Clauses[0].Lits // {1, 2, -3}
	s.MakeCount[1], s.MakeCount[2], s.MakeCount[3] = 5, 3, 1
	s.BreakCount[1], s.BreakCount[2], s.BreakCount[3] = 0, 0, 0
	s.LastFlip[1] = 100 // var 1 scores best (diff=5) and is youngest
	s.LastFlip[2] = 1
	s.LastFlip[3] = 2
	s.NumFlip = 1 // avoid the every-100th-flip random shortcut

	best, secondBest, _, _, youngest := novelScores(s, cls)
	if best != 1 || youngest != 1 {
		t.Fatalf("novelScores best=%d youngest=%d, want both 1", best, youngest)
	}
	if secondBest != 2 {
		t.Fatalf("novelScores secondBest=%d, want 2", secondBest)
	}

	params := &HeuristicParams{Heuristic: HeuristicNovelty}
	rng := NewRng(4)
	v := pickNovelty(s, params, 0, rng)
	if v != 1 && v != 2 {
		t.Fatalf("pickNovelty returned %d, want best(1) or secondBest(2)", v)
	}
}

// TestTabuHonorsLength is scenario 5 from spec.md §8: a variable flipped at
// step k must not be selected by the tabu heuristic at steps k+1..k+3
// unless the MAXATTEMPT fallback fires. All three candidates tie on break
// count, so the only thing that can explain pickTabu excluding var 1 is the
// tabu test itself.
func TestTabuHonorsLength(t *testing.T) {
	f := mustFormula(t, 3, [][]int32{{1, 2, 3}})
	s := NewSearchState(f, false, false)
	s.NumFlip = 10
	s.BreakCount[1], s.BreakCount[2], s.BreakCount[3] = 5, 5, 5
	s.LastFlip[1] = 8 // 10-8=2 <= TabuLength(3): tabu
	s.LastFlip[2] = 5 // 10-5=5 > 3: not tabu
	s.LastFlip[3] = 4 // 10-4=6 > 3: not tabu
	s.UnsatList = []int32{0}

	params := &HeuristicParams{Heuristic: HeuristicTabu, TabuLength: 3}
	rng := NewRng(3)
	for i := 0; i < 20; i++ {
		v := pickTabu(s, params, 0, rng)
		if v == 1 {
			t.Fatalf("pickTabu returned the tabu variable 1 with fresh non-tabu alternatives available")
		}
	}
}

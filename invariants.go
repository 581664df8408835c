package walksat

// checkInvariants recomputes every derived array from scratch against the
// current Assignment and compares it to the incrementally maintained state,
// implementing the full-recomputation-equivalence property of spec.md §8.
// It never mutates s.
func (s *SearchState) checkInvariants() error {
	f := s.formula

	trueLitCount := make([]int32, f.NumClauses)
	breakCount := make([]int32, f.NumVars+1)
	var makeCount []int32
	if s.TrackMake {
		makeCount = make([]int32, f.NumVars+1)
	}
	unsat := map[int32]bool{}

	for ci := range f.Clauses {
		cls := f.Clauses[ci].Lits
		var count int32
		var supporter int32
		for _, lit := range cls {
			if s.literalTrue(lit) {
				count++
				supporter = lit
			}
		}
		trueLitCount[ci] = count
		switch count {
		case 0:
			unsat[int32(ci)] = true
			if s.TrackMake {
				for _, lit := range cls {
					u := abs32(lit)
					makeCount[u]++
				}
			}
		case 1:
			breakCount[abs32(supporter)]++
		}
	}

	for ci, got := range s.TrueLitCount {
		if got != trueLitCount[ci] {
			return NewInvariantError("clause %d: TrueLitCount=%d, want %d", ci, got, trueLitCount[ci])
		}
	}

	if len(s.UnsatList) != len(unsat) {
		return NewInvariantError("UnsatList has %d entries, want %d", len(s.UnsatList), len(unsat))
	}
	for _, ci := range s.UnsatList {
		if !unsat[ci] {
			return NewInvariantError("clause %d in UnsatList but satisfied", ci)
		}
		if s.WhereUnsat[ci] < 0 || int(s.WhereUnsat[ci]) >= len(s.UnsatList) || s.UnsatList[s.WhereUnsat[ci]] != ci {
			return NewInvariantError("clause %d: WhereUnsat inconsistent with UnsatList", ci)
		}
	}
	for ci := 0; ci < f.NumClauses; ci++ {
		if !unsat[int32(ci)] && s.WhereUnsat[ci] != -1 {
			return NewInvariantError("clause %d: satisfied but WhereUnsat=%d, want -1", ci, s.WhereUnsat[ci])
		}
	}

	for v := 1; v <= f.NumVars; v++ {
		if s.BreakCount[v] != breakCount[v] {
			return NewInvariantError("var %d: BreakCount=%d, want %d", v, s.BreakCount[v], breakCount[v])
		}
		if s.TrackMake && s.MakeCount[v] != makeCount[v] {
			return NewInvariantError("var %d: MakeCount=%d, want %d", v, s.MakeCount[v], makeCount[v])
		}
	}

	if s.TrackFreebie {
		want := map[int32]bool{}
		for v := int32(1); v <= int32(f.NumVars); v++ {
			if breakCount[v] == 0 && makeCount[v] > 0 {
				want[v] = true
			}
		}
		if len(s.FreebieList) != len(want) {
			return NewInvariantError("FreebieList has %d entries, want %d", len(s.FreebieList), len(want))
		}
		for _, v := range s.FreebieList {
			if !want[v] {
				return NewInvariantError("var %d on FreebieList but break=%d make=%d", v, breakCount[v], makeCount[v])
			}
			if s.WhereFreebie[v] < 0 || s.FreebieList[s.WhereFreebie[v]] != v {
				return NewInvariantError("var %d: WhereFreebie inconsistent with FreebieList", v)
			}
		}
	}

	// Position-0 convention: every singly-satisfied clause's supporter
	// must sit at index 0.
	for ci := range f.Clauses {
		if trueLitCount[ci] != 1 {
			continue
		}
		cls := f.Clauses[ci].Lits
		if !s.literalTrue(cls[0]) {
			return NewInvariantError("clause %d is singly-satisfied but position 0 is not the supporter", ci)
		}
	}

	return nil
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

package walksat

// Flip toggles Assignment[v] and restores every invariant in spec.md §3,
// reading and writing only the clauses that contain v. It is the only
// mutator of derived state and runs in time proportional to the number of
// clauses mentioning v, never the whole formula (spec.md §4.2).
func (s *SearchState) Flip(v int32) error {
	f := s.formula
	s.LastFlip[v] = s.NumFlip

	// litOld is the literal of v that was true before the flip; litNew is
	// the one that becomes true.
	var litOld, litNew int32
	if s.Assignment[v] {
		litOld, litNew = v, -v
	} else {
		litOld, litNew = -v, v
	}
	s.Assignment[v] = !s.Assignment[v]

	// Clauses losing a true literal: those containing litOld, which was
	// true and is now false.
	for _, ci := range f.occurrences(litOld) {
		s.TrueLitCount[ci]--
		switch s.TrueLitCount[ci] {
		case 0:
			s.WhereUnsat[ci] = int32(len(s.UnsatList))
			s.UnsatList = append(s.UnsatList, ci)
			s.BreakCount[v]--
			s.maybeJoinFreebieList(v)
			if s.TrackMake {
				for _, lit := range f.Clauses[ci].Lits {
					u := lit
					if u < 0 {
						u = -u
					}
					s.MakeCount[u]++
					if s.TrackFreebie && s.BreakCount[u] == 0 && !s.onFreebieList(u) {
						s.addToFreebieList(u)
					}
				}
			}
		case 1:
			u := soleSupporter(f.Clauses[ci].Lits, s)
			uv := u
			if uv < 0 {
				uv = -uv
			}
			s.BreakCount[uv]++
			s.maybeLeaveFreebieList(uv)
			swapToFront(f.Clauses[ci].Lits, u)
		}
	}

	// Clauses gaining a true literal.
	for _, ci := range f.occurrences(litNew) {
		s.TrueLitCount[ci]++
		switch s.TrueLitCount[ci] {
		case 1:
			last := len(s.UnsatList) - 1
			pos := s.WhereUnsat[ci]
			moved := s.UnsatList[last]
			s.UnsatList[pos] = moved
			s.WhereUnsat[moved] = pos
			s.UnsatList = s.UnsatList[:last]
			s.WhereUnsat[ci] = -1
			s.BreakCount[v]++
			s.maybeLeaveFreebieList(v)
			swapToFront(f.Clauses[ci].Lits, litNew)
			if s.TrackMake {
				for _, lit := range f.Clauses[ci].Lits {
					u := lit
					if u < 0 {
						u = -u
					}
					s.MakeCount[u]--
					if s.TrackFreebie && s.onFreebieList(u) && s.MakeCount[u] == 0 {
						s.removeFromFreebieList(u)
					}
				}
			}
		case 2:
			u := otherSupporter(f.Clauses[ci].Lits, s, v)
			uv := u
			if uv < 0 {
				uv = -uv
			}
			s.BreakCount[uv]--
			s.maybeJoinFreebieList(uv)
		}
	}

	s.NumFlip++
	if s.Debug {
		if err := s.checkInvariants(); err != nil {
			return err
		}
	}
	return nil
}

// soleSupporter scans cls for the single literal currently true under s and
// returns it. Called only when TrueLitCount for this clause has just
// settled at 1.
func soleSupporter(cls []int32, s *SearchState) int32 {
	for _, lit := range cls {
		if s.literalTrue(lit) {
			return lit
		}
	}
	panic("walksat: no supporter found in singly-satisfied clause")
}

// otherSupporter scans cls for the true literal whose variable isn't v.
// Called only when TrueLitCount has just settled at 2, so exactly one such
// literal (besides v's) exists.
func otherSupporter(cls []int32, s *SearchState, v int32) int32 {
	for _, lit := range cls {
		u := lit
		if u < 0 {
			u = -u
		}
		if u != v && s.literalTrue(lit) {
			return lit
		}
	}
	panic("walksat: no other supporter found in doubly-satisfied clause")
}

// swapToFront moves lit into position 0 of cls, preserving the rest of the
// order otherwise. This is the trick spec.md §3/§9 calls out as load
// bearing: it makes "the sole supporter of c" locatable in O(1) the next
// time this clause needs its supporter found.
func swapToFront(cls []int32, lit int32) {
	if cls[0] == lit {
		return
	}
	for i, l := range cls {
		if l == lit {
			cls[0], cls[i] = cls[i], cls[0]
			return
		}
	}
}

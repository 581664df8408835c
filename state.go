package walksat

// SearchState holds every piece of mutable, per-try derived state: the
// current assignment plus the invariants the flip engine maintains under
// it (spec.md §3). It is a plain value owned by the driver — never a
// process-wide global — so that embedding the solver as a library and
// running many tries in sequence (or, one day, concurrently) is safe.
type SearchState struct {
	formula *Formula

	// Assignment[v] is the current truth value of variable v. Index 0 is
	// unused; variables are 1..NumVars.
	Assignment []bool

	TrueLitCount []int32
	UnsatList    []int32
	WhereUnsat   []int32

	BreakCount []int32
	MakeCount  []int32 // nil unless TrackMake

	LastFlip []int64

	FreebieList  []int32
	WhereFreebie []int32 // nil unless TrackFreebie

	TrackMake    bool
	TrackFreebie bool

	NumFlip int64

	// Debug enables a full invariant recomputation after every Flip,
	// returning an *InvariantError on mismatch instead of silently
	// trusting the incremental update. Off by default: production search
	// never pays the recomputation cost.
	Debug bool
}

// NewSearchState allocates a SearchState sized for formula. trackMake and
// trackFreebie control whether the make-count array and freebie list are
// maintained; heuristics that don't need them (Random, Best without
// maxfreebie) skip the bookkeeping entirely.
func NewSearchState(formula *Formula, trackMake, trackFreebie bool) *SearchState {
	n := formula.NumVars
	s := &SearchState{
		formula:      formula,
		Assignment:   make([]bool, n+1),
		TrueLitCount: make([]int32, formula.NumClauses),
		UnsatList:    make([]int32, 0, formula.NumClauses),
		WhereUnsat:   make([]int32, formula.NumClauses),
		BreakCount:   make([]int32, n+1),
		LastFlip:     make([]int64, n+1),
		TrackMake:    trackMake,
		TrackFreebie: trackFreebie,
	}
	if trackMake {
		s.MakeCount = make([]int32, n+1)
	}
	if trackFreebie {
		s.WhereFreebie = make([]int32, n+1)
		s.FreebieList = make([]int32, 0, n)
	}
	return s
}

// NumFalse is the number of currently unsatisfied clauses.
func (s *SearchState) NumFalse() int { return len(s.UnsatList) }

func (s *SearchState) onFreebieList(v int32) bool { return s.WhereFreebie[v] != -1 }

func (s *SearchState) addToFreebieList(v int32) {
	s.WhereFreebie[v] = int32(len(s.FreebieList))
	s.FreebieList = append(s.FreebieList, v)
}

func (s *SearchState) removeFromFreebieList(v int32) {
	where := s.WhereFreebie[v]
	s.WhereFreebie[v] = -1
	last := len(s.FreebieList) - 1
	if int(where) != last {
		moved := s.FreebieList[last]
		s.FreebieList[where] = moved
		s.WhereFreebie[moved] = where
	}
	s.FreebieList = s.FreebieList[:last]
}

// maybeJoinFreebieList adds v to the freebie list if it now qualifies
// (break=0, make>0) and isn't already on it.
func (s *SearchState) maybeJoinFreebieList(v int32) {
	if !s.TrackFreebie {
		return
	}
	if s.BreakCount[v] == 0 && s.MakeCount[v] > 0 && !s.onFreebieList(v) {
		s.addToFreebieList(v)
	}
}

// maybeLeaveFreebieList removes v from the freebie list if it no longer
// qualifies.
func (s *SearchState) maybeLeaveFreebieList(v int32) {
	if !s.TrackFreebie {
		return
	}
	if s.onFreebieList(v) && !(s.BreakCount[v] == 0 && s.MakeCount[v] > 0) {
		s.removeFromFreebieList(v)
	}
}

// Initialize randomizes the assignment, applies initLits (signed literals
// from an init file: positive sets the variable true, negative sets it
// false; unmentioned variables keep their randomized value), and rebuilds
// every derived array from scratch (spec.md §4.3).
func (s *SearchState) Initialize(rng *Rng, initLits []int32) error {
	f := s.formula
	n := f.NumVars

	for v := 1; v <= n; v++ {
		s.Assignment[v] = rng.Bool()
		s.LastFlip[v] = -int64(v) - 1000
		s.BreakCount[v] = 0
		if s.TrackMake {
			s.MakeCount[v] = 0
		}
	}

	for _, lit := range initLits {
		v := lit
		if v < 0 {
			v = -v
		}
		if int(v) > n || v == 0 {
			return NewValidationError("", "init assignment references variable %d outside 1..%d", v, n)
		}
		s.Assignment[v] = lit > 0
	}

	for i := range s.TrueLitCount {
		s.TrueLitCount[i] = 0
	}
	s.UnsatList = s.UnsatList[:0]

	for ci := range f.Clauses {
		cls := f.Clauses[ci].Lits
		var trueLit int32
		count := int32(0)
		for _, lit := range cls {
			if s.literalTrue(lit) {
				count++
				trueLit = lit
			}
		}
		s.TrueLitCount[ci] = count
		switch count {
		case 0:
			s.WhereUnsat[ci] = int32(len(s.UnsatList))
			s.UnsatList = append(s.UnsatList, int32(ci))
			if s.TrackMake {
				for _, lit := range cls {
					v := lit
					if v < 0 {
						v = -v
					}
					s.MakeCount[v]++
				}
			}
		case 1:
			v := trueLit
			if v < 0 {
				v = -v
			}
			s.BreakCount[v]++
			s.WhereUnsat[ci] = -1
			swapToFront(cls, trueLit)
		default:
			s.WhereUnsat[ci] = -1
		}
	}

	if s.TrackFreebie {
		s.FreebieList = s.FreebieList[:0]
		for v := int32(1); v <= int32(n); v++ {
			s.WhereFreebie[v] = -1
		}
		for v := int32(1); v <= int32(n); v++ {
			if s.MakeCount[v] > 0 && s.BreakCount[v] == 0 {
				s.addToFreebieList(v)
			}
		}
	}

	s.NumFlip = 0
	return nil
}

// literalTrue reports whether lit is satisfied by the current assignment.
func (s *SearchState) literalTrue(lit int32) bool {
	v := lit
	if v < 0 {
		v = -v
	}
	return s.Assignment[v] == (lit > 0)
}

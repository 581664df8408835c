package walksat

// Clause is one disjunction of literals. Lits is ordered; Flip swaps the
// sole satisfying literal into position 0 whenever the clause transitions
// to having exactly one true literal (spec.md §3), so the ordering mutates
// over the life of a search even though the multiset of literals never
// does.
type Clause struct {
	Lits []int32
}

// Formula is the immutable (aside from clause-literal reordering) CNF
// problem a Solver searches over. It is built once by NewFormula and shared
// read-only across every try.
type Formula struct {
	NumVars     int
	NumClauses  int
	Clauses     []Clause
	LongestClause int

	// Occurrences[lit+NumVars] lists, in clause-index order, every clause
	// containing literal lit. Backed by one contiguous allocation sliced
	// per literal, mirroring the reference's single calloc'd occurrence
	// pool (spec.md §5, §9) rather than NumVars*2+1 independent slices.
	Occurrences    [][]int32
	NumOccurrences []int32
}

// occIndex maps a literal in [-numVars, numVars] (excluding 0) to its slot
// in Occurrences/NumOccurrences.
func occIndex(lit int32, numVars int) int { return int(lit) + numVars }

// NewFormula validates and builds a Formula from a raw clause list, each
// clause a sequence of non-zero signed literals. It fails if any clause is
// empty, any literal is zero, or any literal's absolute value exceeds
// numVars.
func NewFormula(numVars int, rawClauses [][]int32) (*Formula, error) {
	if numVars < 0 {
		return nil, NewValidationError("", "negative variable count %d", numVars)
	}
	f := &Formula{
		NumVars:    numVars,
		NumClauses: len(rawClauses),
		Clauses:    make([]Clause, len(rawClauses)),
	}

	numLiterals := 0
	counts := make([]int32, 2*numVars+1)
	for ci, cls := range rawClauses {
		if len(cls) == 0 {
			return nil, NewValidationError("", "clause %d is empty", ci)
		}
		lits := make([]int32, len(cls))
		for j, lit := range cls {
			if lit == 0 {
				return nil, NewValidationError("", "clause %d contains a zero literal", ci)
			}
			v := lit
			if v < 0 {
				v = -v
			}
			if int(v) > numVars {
				return nil, NewValidationError("", "clause %d references variable %d, but formula has %d variables", ci, v, numVars)
			}
			lits[j] = lit
			counts[occIndex(lit, numVars)]++
			numLiterals++
		}
		if len(lits) > f.LongestClause {
			f.LongestClause = len(lits)
		}
		f.Clauses[ci] = Clause{Lits: lits}
	}

	// Single contiguous pool for every occurrence list, sliced by literal.
	pool := make([]int32, numLiterals)
	f.Occurrences = make([][]int32, 2*numVars+1)
	f.NumOccurrences = make([]int32, 2*numVars+1)
	offset := 0
	for idx := range f.Occurrences {
		n := counts[idx]
		f.Occurrences[idx] = pool[offset : offset : offset+int(n)]
		offset += int(n)
	}
	for ci := range f.Clauses {
		for _, lit := range f.Clauses[ci].Lits {
			idx := occIndex(lit, numVars)
			f.Occurrences[idx] = append(f.Occurrences[idx], int32(ci))
			f.NumOccurrences[idx]++
		}
	}
	return f, nil
}

// occurrences returns the clause indices containing lit.
func (f *Formula) occurrences(lit int32) []int32 {
	return f.Occurrences[occIndex(lit, f.NumVars)]
}

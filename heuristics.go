package walksat

import "math"

// Heuristic selects one of the seven interchangeable variable-selection
// strategies from spec.md §4.4. It is a tagged variant chosen once per try
// (HeuristicParams.Heuristic), dispatched with a switch in Select rather
// than through a per-flip virtual call, per the design note in spec.md §9.
type Heuristic int

const (
	HeuristicRandom Heuristic = iota
	HeuristicBest             // WalkSAT/SKC
	HeuristicGSAT
	HeuristicTabu
	HeuristicNovelty
	HeuristicRNovelty
	HeuristicAlternate
	HeuristicBigFlip
)

// denominator is the fixed fractional-probability base used throughout the
// heuristic suite and the noise controller (spec.md §4.4).
const denominator = 100000

// sentinelMin is the "very negative" sentinel used to force the first
// Novelty/R-novelty candidate to become best and the second to become
// secondBest, per the open question in spec.md §9. Chosen so that
// subtracting two sentinel-derived diffs never overflows int32/int.
const sentinelMin = math.MinInt32 / 2

// HeuristicParams bundles every heuristic's tunable knobs. Only the fields
// relevant to the selected Heuristic are consulted.
type HeuristicParams struct {
	Heuristic Heuristic

	NoFreebie bool // disables the always-take-a-zero-break-move shortcut

	TabuLength int64

	PlusFlag bool // novelty+/r-novelty+ random-dip variant

	AlternateWalk    int64
	AlternateGreedy  int64
	BigFlip          bool // true selects the bigflip phase-choice rule, false the strict alternate rule

	MaxFreebie      bool
	FreebieNoise    int // in [0, denominator]; 0 disables skipping
}

// alternatePhase is the per-try mutable state backing the Alternate and
// BigFlip heuristics: a remaining-flip counter and whether the current
// phase is "walk" (as opposed to "greedy"). It is reset at the start of
// every try via newAlternatePhase, which forces a phase decision on the
// very first pick by setting remaining to zero (mirroring the reference's
// alternate_run_remaining = 0 in init()).
type alternatePhase struct {
	walk      bool
	remaining int64
}

// newAlternatePhase returns the initial per-try phase state. walk starts
// true so that Alternate's first toggle (walk = !walk) lands on the greedy
// phase first, exactly as the reference's alternate_greedy_state starting
// at FALSE and toggling to TRUE on the first call.
func newAlternatePhase() alternatePhase {
	return alternatePhase{walk: true}
}

// Select picks the next variable to flip given the current search state,
// noise numerator, and rng. Select always draws its own unsat clause;
// freebie preemption is a separate step (PickFreebie) that the caller runs
// first.
func Select(s *SearchState, p *HeuristicParams, phase *alternatePhase, numerator int, rng *Rng) int32 {
	switch p.Heuristic {
	case HeuristicRandom:
		return pickRandom(s, rng)
	case HeuristicBest:
		return pickBest(s, p, numerator, rng)
	case HeuristicGSAT:
		return pickGSAT(s, numerator, rng)
	case HeuristicTabu:
		return pickTabu(s, p, numerator, rng)
	case HeuristicNovelty:
		return pickNovelty(s, p, numerator, rng)
	case HeuristicRNovelty:
		return pickRNovelty(s, p, numerator, rng)
	case HeuristicAlternate, HeuristicBigFlip:
		return pickAlternate(s, p, phase, numerator, rng)
	default:
		panic("walksat: unknown heuristic")
	}
}

// PickFreebie preempts the configured heuristic: if maxfreebie is active and
// the freebie list is non-empty, with probability 1-freebienoise the
// heuristic is bypassed and a uniform freebie variable is returned instead.
// ok is false if preemption did not fire and the caller should run Select.
func PickFreebie(s *SearchState, p *HeuristicParams, rng *Rng) (v int32, ok bool) {
	if !p.MaxFreebie || len(s.FreebieList) == 0 {
		return 0, false
	}
	if p.FreebieNoise != 0 && rng.Intn(denominator) <= p.FreebieNoise {
		return 0, false
	}
	return s.FreebieList[rng.Intn(len(s.FreebieList))], true
}

func randomUnsatClause(s *SearchState, rng *Rng) int32 {
	return s.UnsatList[rng.Intn(len(s.UnsatList))]
}

func pickRandom(s *SearchState, rng *Rng) int32 {
	ci := randomUnsatClause(s, rng)
	cls := s.formula.Clauses[ci].Lits
	return abs32(cls[rng.Intn(len(cls))])
}

// argminBreak scans cls and returns the set of variables tying for the
// minimum BreakCount, plus that minimum value.
func argminBreak(s *SearchState, cls []int32) (best []int32, bestValue int32) {
	bestValue = math.MaxInt32
	for _, lit := range cls {
		v := abs32(lit)
		bc := s.BreakCount[v]
		if bc <= bestValue {
			if bc < bestValue {
				best = best[:0]
			}
			bestValue = bc
			best = append(best, v)
		}
	}
	return best, bestValue
}

func pickBest(s *SearchState, p *HeuristicParams, numerator int, rng *Rng) int32 {
	ci := randomUnsatClause(s, rng)
	cls := s.formula.Clauses[ci].Lits
	best, bestValue := argminBreak(s, cls)
	if (p.NoFreebie || bestValue > 0) && rng.Chance(numerator, denominator) {
		return abs32(cls[rng.Intn(len(cls))])
	}
	return best[rng.Intn(len(best))]
}

func pickGSAT(s *SearchState, numerator int, rng *Rng) int32 {
	ci := randomUnsatClause(s, rng)
	cls := s.formula.Clauses[ci].Lits
	bestValue := int32(math.MaxInt32)
	var best []int32
	for _, lit := range cls {
		v := abs32(lit)
		delta := s.BreakCount[v] - s.MakeCount[v]
		if delta <= bestValue {
			if delta < bestValue {
				best = best[:0]
			}
			bestValue = delta
			best = append(best, v)
		}
	}
	if rng.Chance(numerator, denominator) {
		return abs32(cls[rng.Intn(len(cls))])
	}
	return best[rng.Intn(len(best))]
}

func pickAlternate(s *SearchState, p *HeuristicParams, phase *alternatePhase, numerator int, rng *Rng) int32 {
	if phase.remaining == 0 {
		if p.BigFlip {
			if rng.Chance(numerator, denominator) {
				phase.walk = true
				phase.remaining = p.AlternateWalk
			} else {
				phase.walk = false
				phase.remaining = p.AlternateGreedy
			}
		} else {
			phase.walk = !phase.walk
			if phase.walk {
				phase.remaining = p.AlternateWalk
			} else {
				phase.remaining = p.AlternateGreedy
			}
		}
	}

	ci := randomUnsatClause(s, rng)
	cls := s.formula.Clauses[ci].Lits
	best, bestValue := argminBreak(s, cls)
	phase.remaining--

	if (p.NoFreebie || bestValue > 0) && phase.walk {
		return abs32(cls[rng.Intn(len(cls))])
	}
	if !p.BigFlip && bestValue > 0 && numerator > 0 && rng.ChanceLE(numerator, denominator) {
		return abs32(cls[rng.Intn(len(cls))])
	}
	return best[rng.Intn(len(best))]
}

func novelScores(s *SearchState, cls []int32) (best, secondBest int32, bestDiff, secondBestDiff int32, youngest int32) {
	youngestBirthdate := int64(sentinelMin)
	bestDiff = sentinelMin
	secondBestDiff = sentinelMin

	for _, lit := range cls {
		v := abs32(lit)
		diff := s.MakeCount[v] - s.BreakCount[v]
		birthdate := s.LastFlip[v]
		if birthdate > youngestBirthdate {
			youngestBirthdate = birthdate
			youngest = v
		}
		if diff > bestDiff || (diff == bestDiff && s.LastFlip[v] < s.LastFlip[best]) {
			secondBest = best
			secondBestDiff = bestDiff
			best = v
			bestDiff = diff
		} else if diff > secondBestDiff || (diff == secondBestDiff && s.LastFlip[v] < s.LastFlip[secondBest]) {
			secondBest = v
			secondBestDiff = diff
		}
	}
	return best, secondBest, bestDiff, secondBestDiff, youngest
}

func pickNovelty(s *SearchState, p *HeuristicParams, numerator int, rng *Rng) int32 {
	ci := randomUnsatClause(s, rng)
	cls := s.formula.Clauses[ci].Lits
	if len(cls) == 1 {
		return abs32(cls[0])
	}

	if p.PlusFlag {
		if rng.ChanceLE(oneFixedPercent, denominator) {
			return abs32(cls[rng.Intn(len(cls))])
		}
	} else if s.NumFlip%100 == 0 {
		return abs32(cls[rng.Intn(len(cls))])
	}

	best, secondBest, _, _, youngest := novelScores(s, cls)
	if best != youngest {
		return best
	}
	if rng.ChanceLE(numerator, denominator) {
		return secondBest
	}
	return best
}

// oneFixedPercent mirrors the reference's ONE_PERCENT constant: exactly one
// percent of denominator.
const oneFixedPercent = 1000

func pickRNovelty(s *SearchState, p *HeuristicParams, numerator int, rng *Rng) int32 {
	ci := randomUnsatClause(s, rng)
	cls := s.formula.Clauses[ci].Lits
	if len(cls) == 1 {
		return abs32(cls[0])
	}

	if p.PlusFlag {
		if rng.ChanceLE(oneFixedPercent, denominator) {
			return abs32(cls[rng.Intn(len(cls))])
		}
	} else if s.NumFlip%100 == 0 {
		return abs32(cls[rng.Intn(len(cls))])
	}

	best, secondBest, bestDiff, secondBestDiff, youngest := novelScores(s, cls)
	if best != youngest {
		return best
	}

	diffdiff := bestDiff - secondBestDiff
	if diffdiff <= 0 {
		panic("walksat: r-novelty invariant violated: diffdiff <= 0")
	}

	half := denominator / 2
	switch {
	case numerator*2 < denominator && diffdiff > 1:
		return best
	case numerator*2 < denominator && diffdiff == 1:
		if rng.Chance(2*numerator, denominator) {
			return secondBest
		}
		return best
	case diffdiff == 1: // numerator*2 >= denominator
		return secondBest
	default: // numerator*2 >= denominator && diffdiff > 1
		if rng.Chance(2*(numerator-half), denominator) {
			return secondBest
		}
		return best
	}
}

const maxTabuAttempts = 10

func pickTabu(s *SearchState, p *HeuristicParams, numerator int, rng *Rng) int32 {
	var best, bestTabu, any []int32

	for attempt := 0; attempt < maxTabuAttempts; attempt++ {
		ci := randomUnsatClause(s, rng)
		cls := s.formula.Clauses[ci].Lits

		best = best[:0]
		bestTabu = bestTabu[:0]
		any = any[:0]
		bestValue := int32(math.MaxInt32)
		bestTabuValue := int32(math.MaxInt32)

		for _, lit := range cls {
			v := abs32(lit)
			bc := s.BreakCount[v]
			notTabu := s.NumFlip-s.LastFlip[v] > p.TabuLength
			if bc <= bestTabuValue && notTabu {
				if bc < bestTabuValue {
					bestTabu = bestTabu[:0]
				}
				bestTabuValue = bc
				bestTabu = append(bestTabu, v)
			}
			if bc <= bestValue {
				if bc < bestValue {
					best = best[:0]
				}
				bestValue = bc
				best = append(best, v)
			}
			if notTabu {
				any = append(any, v)
			}
		}

		if bestValue == 0 && !p.NoFreebie {
			if len(bestTabu) > 0 {
				return bestTabu[rng.Intn(len(bestTabu))]
			}
			return best[rng.Intn(len(best))]
		}

		last := attempt == maxTabuAttempts-1
		if numerator > 0 && rng.Chance(numerator, denominator) {
			if len(any) > 0 {
				return any[rng.Intn(len(any))]
			}
			if last {
				return abs32(cls[rng.Intn(len(cls))])
			}
		} else {
			if len(bestTabu) > 0 {
				return bestTabu[rng.Intn(len(bestTabu))]
			}
			if last {
				return best[rng.Intn(len(best))]
			}
		}
	}
	panic("walksat: tabu heuristic exhausted attempts without a pick")
}

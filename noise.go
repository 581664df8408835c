package walksat

// NoiseState tracks the walk-probability numerator used by every heuristic
// and, when Adaptive is set, the Holger Hoos adaptive-noise controller that
// drives it (spec.md §4.5, grounded in the adaptive block of
// update_statistics_end_flip in the reference implementation).
//
// "An Adaptive Noise Mechanism for WalkSAT (Corrected)." Holger H. Hoos.
type NoiseState struct {
	Numerator int // current walk probability, as numerator/denominator

	Adaptive bool
	Phi      float64
	Theta    float64

	numClauses      int
	stagnationTimer int
	lastObjective   int
}

// NewNoiseState builds a NoiseState at the given fixed walk probability
// (walkProb in [0,1]); if adaptive is true, phi and theta govern the Hoos
// controller and walkProb is ignored in favor of starting at 0 noise, per
// the reference's "start adaptive search at 0 noise" comment.
func NewNoiseState(walkProb float64, adaptive bool, phi, theta float64) *NoiseState {
	n := &NoiseState{Adaptive: adaptive, Phi: phi, Theta: theta}
	if adaptive {
		n.Numerator = 0
	} else {
		n.Numerator = int(walkProb * denominator)
	}
	return n
}

// sentinelBig mirrors the reference's BIG: an objective that every real
// numFalse count beats, forcing the first post-flip comparison to register
// as an improvement.
const sentinelBig = 1 << 30

// StartTry resets per-try adaptive bookkeeping. Called once at the
// beginning of every try, mirroring the reference's init().
func (n *NoiseState) StartTry(numClauses int) {
	n.numClauses = numClauses
	if !n.Adaptive {
		return
	}
	n.Numerator = 0
	n.stagnationTimer = int(float64(numClauses) * n.Theta)
	n.lastObjective = sentinelBig
}

// AfterFlip updates the adaptive controller from the new number of
// unsatisfied clauses. No-op when the controller isn't adaptive.
//
// On improvement, the walk probability is nudged down (numerator *=
// 1-phi/2) and the stagnation timer restarts. Otherwise the stagnation
// timer counts down; once it expires without improvement, the walk
// probability is nudged up (numerator += (denominator-numerator)*phi) and
// the timer restarts against the current objective.
func (n *NoiseState) AfterFlip(numFalse int) {
	if !n.Adaptive {
		return
	}
	if numFalse < n.lastObjective {
		n.lastObjective = numFalse
		n.stagnationTimer = int(float64(n.numClauses) * n.Theta)
		n.Numerator = int((1.0 - n.Phi/2.0) * float64(n.Numerator))
		return
	}
	n.stagnationTimer--
	if n.stagnationTimer <= 0 {
		n.lastObjective = numFalse
		n.stagnationTimer = int(float64(n.numClauses) * n.Theta)
		n.Numerator = n.Numerator + int(float64(denominator-n.Numerator)*n.Phi)
	}
}

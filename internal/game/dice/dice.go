// Package dice provides the randomness abstraction shared by combat, the turn
// engine and content tables, plus small dice expressions ("1d5", "-1d10") used
// to express randomized event values.
package dice

import "fmt"

// Source is the randomness provider for every random decision in the game.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollResult holds the audit trail for a single expression evaluation.
//
// Postcondition: Total() == sign * sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "-1d10"
	Dice       []int  // individual die results
	Negative   bool   // dice sum is subtracted rather than added
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the signed sum of all die results plus the modifier.
func (r RollResult) Total() int {
	sum := 0
	for _, d := range r.Dice {
		sum += d
	}
	if r.Negative {
		sum = -sum
	}
	return sum + r.Modifier
}

// String returns a human-readable audit string in the format:
//
//	"-1d10 → -[7] +0 = -7"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	sign := ""
	if r.Negative {
		sign = "-"
	}
	return fmt.Sprintf("%s → %s%v %+d = %d", r.Expression, sign, r.Dice, r.Modifier, r.Total())
}

// Between returns a uniformly distributed int in the closed range [lo, hi].
//
// Precondition: src must be non-nil; lo <= hi.
func Between(src Source, lo, hi int) int {
	if hi < lo {
		panic(fmt.Sprintf("dice: Between called with lo=%d > hi=%d", lo, hi))
	}
	return lo + src.Intn(hi-lo+1)
}

// Pick returns a uniformly chosen index into a collection of length n.
//
// Precondition: n > 0.
func Pick(src Source, n int) int {
	return src.Intn(n)
}

package dice

// Roll evaluates an Expression using the given Source. When src is a *Roller
// the result is logged through it.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count; expr.Min() <= Total() <= expr.Max().
func Roll(expr Expression, src Source) RollResult {
	if r, ok := src.(*Roller); ok {
		return r.Roll(expr)
	}
	return roll(expr, src)
}

func roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{
		Expression: expr.Raw,
		Dice:       rolled,
		Negative:   expr.Negative,
		Modifier:   expr.Modifier,
	}
}

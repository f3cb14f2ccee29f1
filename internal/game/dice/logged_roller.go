package dice

import "go.uber.org/zap"

// Roller wraps a Source and a logger. It satisfies Source itself so it can be
// handed to the combat resolver and turn engine, giving a debug-level audit of
// every random decision a turn makes.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn draws from the wrapped source and logs the draw at debug level.
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	if ce := r.logger.Check(zap.DebugLevel, "random draw"); ce != nil {
		ce.Write(zap.Int("n", n), zap.Int("value", v))
	}
	return v
}

// Roll evaluates expr against the wrapped source and logs the result at debug
// level. Individual dice are not logged as separate draws.
//
// Precondition: expr must come from Parse.
func (r *Roller) Roll(expr Expression) RollResult {
	result := roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

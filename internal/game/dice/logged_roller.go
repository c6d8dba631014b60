package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// Every roll is logged at debug level with the dice drawn and the kept total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// RollAggregate evaluates the aggregate policy and logs the result.
func (r *Roller) RollAggregate(upperBound, count int, adv Advantage) (RollResult, error) {
	res, err := RollAggregate(r.src, upperBound, count, adv)
	if err != nil {
		return RollResult{}, err
	}
	r.logger.Debug("dice roll",
		zap.Int("sides", res.Sides),
		zap.Int("count", res.Count),
		zap.Stringer("advantage", res.Advantage),
		zap.Ints("dice", res.Dice),
		zap.Int("total", res.Total),
	)
	return res, nil
}

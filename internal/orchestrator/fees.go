package orchestrator

import "context"

// resolveFeeRate implements the precedence from spec §4.9: the fee
// oracle's 1-block estimate wins if present and positive; otherwise the
// ordinals provider's own estimate; otherwise the caller's hint; otherwise
// 0, meaning "let the provider choose its own default".
func (e *Engine) resolveFeeRate(ctx context.Context, hint float64) float64 {
	if e.cfg.FeeOracle != nil {
		rate, err := e.cfg.FeeOracle.EstimateFeeRate(ctx, 1)
		if err == nil && rate > 0 {
			return rate
		}
		e.logger.Printf("fee oracle returned no usable rate (rate=%v err=%v), falling back", rate, err)
	}
	if e.cfg.OrdinalsProvider != nil {
		rate, err := e.cfg.OrdinalsProvider.EstimateFee(ctx, 1)
		if err == nil && rate > 0 {
			return rate
		}
		e.logger.Printf("ordinals provider returned no usable fee estimate (rate=%v err=%v), falling back", rate, err)
	}
	if hint > 0 {
		return hint
	}
	return 0
}

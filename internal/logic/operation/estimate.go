package operation

import (
	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/logic/fee"
	"klend-client-sol/internal/svc"
)

type FeeEstimate struct {
	Signatures       int    `yaml:"signatures"`
	ComputeUnitLimit uint64 `yaml:"compute_unit_limit"`
	ComputeUnitPrice uint64 `yaml:"compute_unit_price"`
	Lamports         uint64 `yaml:"lamports"`
}

// EstimateFee 未配置 compute budget 时按默认 limit / price 估算
func EstimateFee(s *svc.ServiceContext, numSignatures int) FeeEstimate {
	cb := s.Config.ComputeBudget
	limit := consts.DefaultComputeUnitLimit
	if cb.UnitLimit > 0 {
		limit = uint64(cb.UnitLimit)
	}
	price := consts.DefaultComputeUnitPrice
	if cb.UnitPrice > 0 {
		price = cb.UnitPrice
	}
	return FeeEstimate{
		Signatures:       numSignatures,
		ComputeUnitLimit: limit,
		ComputeUnitPrice: price,
		Lamports:         fee.EstimateWithLimit(numSignatures, limit, price),
	}
}

// EstimatePlanFee 签名数 = fee payer + plan 中的额外签名者
func EstimatePlanFee(s *svc.ServiceContext, plan *Plan) FeeEstimate {
	return EstimateFee(s, 1+len(plan.Signers))
}

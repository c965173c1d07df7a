package fee

import (
	"github.com/blocto/solana-go-sdk/program/compute_budget"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/pkg/errs"
)

// Estimate 客户端侧的费用估算，仅用于预算与展示，实际费用以链上为准
// total = numSignatures * 5000 + 200000 * (computeUnitPrice 或 1000)
func Estimate(numSignatures int, computeUnitPrice *uint64) uint64 {
	price := consts.DefaultComputeUnitPrice
	if computeUnitPrice != nil {
		price = *computeUnitPrice
	}
	return EstimateWithLimit(numSignatures, consts.DefaultComputeUnitLimit, price)
}

// EstimateWithLimit 与 Estimate 相同，但使用显式的 compute unit limit
func EstimateWithLimit(numSignatures int, computeUnitLimit, computeUnitPrice uint64) uint64 {
	if numSignatures < 0 {
		numSignatures = 0
	}
	return uint64(numSignatures)*consts.BaseSignatureFee + computeUnitLimit*computeUnitPrice
}

// ComputeBudgetInstructions limit / price 为 0 时对应指令省略
func ComputeBudgetInstructions(limit uint32, price uint64) ([]instruction.Instruction, error) {
	if limit > consts.MaxComputeUnitLimit {
		return nil, errs.InvalidArgument("compute unit limit %d exceeds %d", limit, consts.MaxComputeUnitLimit)
	}
	var ixs []instruction.Instruction
	if limit > 0 {
		ixs = append(ixs, instruction.FromSdk(compute_budget.SetComputeUnitLimit(compute_budget.SetComputeUnitLimitParam{
			Units: limit,
		})))
	}
	if price > 0 {
		ixs = append(ixs, instruction.FromSdk(compute_budget.SetComputeUnitPrice(compute_budget.SetComputeUnitPriceParam{
			MicroLamports: price,
		})))
	}
	return ixs, nil
}

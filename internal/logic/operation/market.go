package operation

import (
	"context"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/resolver"
	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/types"
	"klend-client-sol/internal/signer"
	"klend-client-sol/internal/svc"
)

type InitLendingMarketParams struct {
	QuoteCurrency string // 例如 "USD"
}

type InitLendingMarketResult struct {
	LendingMarket types.Pubkey      `yaml:"lending_market"`
	Result        *submitter.Result `yaml:"result"`
}

// createAccount 由 fee payer 出资创建归属 klend 程序的新账户
func createAccount(ctx context.Context, s *svc.ServiceContext, account types.Pubkey, space uint64) (instruction.Instruction, error) {
	lamports, err := s.Rent.MinimumBalanceForRentExemption(ctx, space)
	if err != nil {
		return instruction.Instruction{}, err
	}
	return instruction.FromSdk(system.CreateAccount(system.CreateAccountParam{
		From:     common.PublicKey(s.Signer.PublicKey()),
		New:      common.PublicKey(account),
		Owner:    common.PublicKey(s.ProgramID),
		Lamports: lamports,
		Space:    space,
	})), nil
}

func BuildInitLendingMarket(ctx context.Context, s *svc.ServiceContext, p InitLendingMarketParams, market submitter.Signer) (*Plan, error) {
	quote, err := instruction.QuoteCurrencyFromString(p.QuoteCurrency)
	if err != nil {
		return nil, err
	}
	accounts, err := s.Resolver.InitLendingMarket(s.Signer.PublicKey(), market.PublicKey())
	if err != nil {
		return nil, err
	}
	create, err := createAccount(ctx, s, market.PublicKey(), 8+consts.LendingMarketSize)
	if err != nil {
		return nil, err
	}
	ix, err := instruction.NewInitLendingMarketInstruction(s.ProgramID, &accounts, &instruction.InitLendingMarketArgs{QuoteCurrency: quote})
	if err != nil {
		return nil, err
	}
	return &Plan{
		Name:         "init_lending_market",
		Instructions: []instruction.Instruction{create, ix},
		Signers:      []submitter.Signer{market},
	}, nil
}

// InitLendingMarket 用一次性 keypair 创建市场账户，签名者成为市场 owner
func InitLendingMarket(ctx context.Context, s *svc.ServiceContext, p InitLendingMarketParams) (*InitLendingMarketResult, error) {
	market := signer.NewEphemeral()
	plan, err := BuildInitLendingMarket(ctx, s, p, market)
	if err != nil {
		return nil, err
	}
	res, err := execute(ctx, s, plan)
	return &InitLendingMarketResult{LendingMarket: market.PublicKey(), Result: res}, err
}

type InitReserveParams struct {
	LendingMarket         types.Pubkey
	LiquidityMint         types.Pubkey
	LiquidityTokenProgram types.Pubkey // 为空时使用 SPL Token
}

type InitReserveResult struct {
	Reserve types.Pubkey      `yaml:"reserve"`
	Result  *submitter.Result `yaml:"result"`
}

func BuildInitReserve(ctx context.Context, s *svc.ServiceContext, p InitReserveParams, reserve submitter.Signer) (*Plan, error) {
	accounts, err := s.Resolver.InitReserve(ctx, resolver.InitReserveParams{
		Owner:                 s.Signer.PublicKey(),
		LendingMarket:         p.LendingMarket,
		Reserve:               reserve.PublicKey(),
		LiquidityMint:         p.LiquidityMint,
		LiquidityTokenProgram: p.LiquidityTokenProgram,
	})
	if err != nil {
		return nil, err
	}
	create, err := createAccount(ctx, s, reserve.PublicKey(), 8+consts.ReserveSize)
	if err != nil {
		return nil, err
	}
	ix, err := instruction.NewInitReserveInstruction(s.ProgramID, &accounts)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Name:         "init_reserve",
		Instructions: []instruction.Instruction{create, ix},
		Signers:      []submitter.Signer{reserve},
	}, nil
}

// InitReserve 只有市场 owner 可以执行，初始流动性从 owner 的 ATA 扣除
func InitReserve(ctx context.Context, s *svc.ServiceContext, p InitReserveParams) (*InitReserveResult, error) {
	reserve := signer.NewEphemeral()
	plan, err := BuildInitReserve(ctx, s, p, reserve)
	if err != nil {
		return nil, err
	}
	res, err := execute(ctx, s, plan)
	return &InitReserveResult{Reserve: reserve.PublicKey(), Result: res}, err
}

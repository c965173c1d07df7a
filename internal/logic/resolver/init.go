package resolver

import (
	"context"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/pda"
	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/types"
	"klend-client-sol/internal/tools"
)

// InitLendingMarket market 为本次交易新建的 keypair 地址，无需拉取状态
func (r *Resolver) InitLendingMarket(owner, market types.Pubkey) (instruction.InitLendingMarketAccounts, error) {
	authority, err := r.marketAuthority(market)
	if err != nil {
		return instruction.InitLendingMarketAccounts{}, err
	}
	return instruction.InitLendingMarketAccounts{
		LendingMarketOwner:     owner,
		LendingMarket:          market,
		LendingMarketAuthority: authority,
	}, nil
}

type InitReserveParams struct {
	Owner         types.Pubkey
	LendingMarket types.Pubkey
	Reserve       types.Pubkey
	LiquidityMint types.Pubkey
	// LiquidityTokenProgram 为 zero 时按 SPL Token 处理
	LiquidityTokenProgram types.Pubkey
}

// InitReserve 市场必须已存在；初始流动性从 owner 的 ATA 转入
func (r *Resolver) InitReserve(ctx context.Context, p InitReserveParams) (instruction.InitReserveAccounts, error) {
	var out instruction.InitReserveAccounts
	if consts.IsUnset(p.LiquidityMint) {
		return out, errs.InvalidArgument("liquidity mint is required")
	}
	if _, err := r.reader.LendingMarket(ctx, p.LendingMarket); err != nil {
		return out, err
	}

	tokenProgram := p.LiquidityTokenProgram
	if tokenProgram.IsZero() {
		tokenProgram = consts.TokenProgram
	}
	if !tools.IsSPLTokenProgram(tokenProgram) {
		return out, errs.InvalidArgument("unsupported liquidity token program %s", tokenProgram)
	}

	authority, err := r.marketAuthority(p.LendingMarket)
	if err != nil {
		return out, err
	}
	supply, err := pda.ReserveLiquiditySupply(r.programID, p.LendingMarket, p.LiquidityMint)
	if err != nil {
		return out, err
	}
	feeVault, err := pda.ReserveFeeVault(r.programID, p.LendingMarket, p.LiquidityMint)
	if err != nil {
		return out, err
	}
	collMint, err := pda.ReserveCollateralMint(r.programID, p.LendingMarket, p.LiquidityMint)
	if err != nil {
		return out, err
	}
	collSupply, err := pda.ReserveCollateralSupply(r.programID, p.LendingMarket, p.LiquidityMint)
	if err != nil {
		return out, err
	}
	source, err := userTokenAccount(p.Owner, p.LiquidityMint, tokenProgram)
	if err != nil {
		return out, err
	}

	return instruction.InitReserveAccounts{
		LendingMarketOwner:      p.Owner,
		LendingMarket:           p.LendingMarket,
		LendingMarketAuthority:  authority,
		Reserve:                 p.Reserve,
		ReserveLiquidityMint:    p.LiquidityMint,
		ReserveLiquiditySupply:  supply,
		FeeReceiver:             feeVault,
		ReserveCollateralMint:   collMint,
		ReserveCollateralSupply: collSupply,
		InitialLiquiditySource:  source,
		LiquidityTokenProgram:   tokenProgram,
		CollateralTokenProgram:  consts.TokenProgram,
	}, nil
}

// InitUserMetadata referrer 为 referrer 的 owner 地址，存在时推导其 user metadata
func (r *Resolver) InitUserMetadata(owner, feePayer types.Pubkey, referrer types.OptionalPubkey) (instruction.InitUserMetadataAccounts, error) {
	metadata, err := pda.UserMetadata(r.programID, owner)
	if err != nil {
		return instruction.InitUserMetadataAccounts{}, err
	}
	referrerMetadata := types.Absent()
	if ref, ok := referrer.Get(); ok {
		addr, err := pda.UserMetadata(r.programID, ref)
		if err != nil {
			return instruction.InitUserMetadataAccounts{}, err
		}
		referrerMetadata = types.Present(addr)
	}
	return instruction.InitUserMetadataAccounts{
		Owner:                owner,
		FeePayer:             feePayer,
		UserMetadata:         metadata,
		ReferrerUserMetadata: referrerMetadata,
	}, nil
}

type InitObligationParams struct {
	Owner         types.Pubkey
	FeePayer      types.Pubkey
	LendingMarket types.Pubkey
	Tag           uint8
	Id            uint8
	Seed1         types.Pubkey
	Seed2         types.Pubkey
}

func (r *Resolver) InitObligation(p InitObligationParams) (instruction.InitObligationAccounts, error) {
	obligation, err := pda.Obligation(r.programID, p.Tag, p.Id, p.Owner, p.LendingMarket, p.Seed1, p.Seed2)
	if err != nil {
		return instruction.InitObligationAccounts{}, err
	}
	metadata, err := pda.UserMetadata(r.programID, p.Owner)
	if err != nil {
		return instruction.InitObligationAccounts{}, err
	}
	return instruction.InitObligationAccounts{
		ObligationOwner:   p.Owner,
		FeePayer:          p.FeePayer,
		Obligation:        obligation,
		LendingMarket:     p.LendingMarket,
		Seed1Account:      p.Seed1,
		Seed2Account:      p.Seed2,
		OwnerUserMetadata: metadata,
	}, nil
}

package operation

import (
	"context"

	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/logic/pda"
	"klend-client-sol/internal/logic/resolver"
	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/types"
	"klend-client-sol/internal/svc"
)

type InitUserMetadataParams struct {
	Referrer        types.OptionalPubkey // referrer 的 owner 地址
	UserLookupTable types.Pubkey
}

func BuildInitUserMetadata(s *svc.ServiceContext, p InitUserMetadataParams) (*Plan, error) {
	ix, err := initUserMetadataInstruction(s, p)
	if err != nil {
		return nil, err
	}
	return &Plan{Name: "init_user_metadata", Instructions: []instruction.Instruction{ix}}, nil
}

func initUserMetadataInstruction(s *svc.ServiceContext, p InitUserMetadataParams) (instruction.Instruction, error) {
	owner := s.Signer.PublicKey()
	accounts, err := s.Resolver.InitUserMetadata(owner, owner, p.Referrer)
	if err != nil {
		return instruction.Instruction{}, err
	}
	return instruction.NewInitUserMetadataInstruction(s.ProgramID, &accounts, &instruction.InitUserMetadataArgs{
		UserLookupTable: p.UserLookupTable,
	})
}

func InitUserMetadata(ctx context.Context, s *svc.ServiceContext, p InitUserMetadataParams) (*submitter.Result, error) {
	plan, err := BuildInitUserMetadata(s, p)
	if err != nil {
		return nil, err
	}
	return execute(ctx, s, plan)
}

type InitObligationParams struct {
	LendingMarket types.Pubkey
	Tag           uint8
	Id            uint8
	Seed1         types.Pubkey
	Seed2         types.Pubkey
	// Referrer 仅在需要同时创建 user metadata 时生效
	Referrer types.OptionalPubkey
}

type InitObligationResult struct {
	Obligation types.Pubkey      `yaml:"obligation"`
	Result     *submitter.Result `yaml:"result"`
}

// BuildInitObligation user metadata 不存在时在同一笔交易里先创建
func BuildInitObligation(ctx context.Context, s *svc.ServiceContext, p InitObligationParams) (*Plan, types.Pubkey, error) {
	owner := s.Signer.PublicKey()
	accounts, err := s.Resolver.InitObligation(resolver.InitObligationParams{
		Owner:         owner,
		FeePayer:      owner,
		LendingMarket: p.LendingMarket,
		Tag:           p.Tag,
		Id:            p.Id,
		Seed1:         p.Seed1,
		Seed2:         p.Seed2,
	})
	if err != nil {
		return nil, types.Pubkey{}, err
	}

	plan := &Plan{Name: "init_obligation"}
	metadata, err := pda.UserMetadata(s.ProgramID, owner)
	if err != nil {
		return nil, types.Pubkey{}, err
	}
	exists, err := s.Reader.Exists(ctx, metadata)
	if err != nil {
		return nil, types.Pubkey{}, err
	}
	if !exists {
		ix, err := initUserMetadataInstruction(s, InitUserMetadataParams{Referrer: p.Referrer})
		if err != nil {
			return nil, types.Pubkey{}, err
		}
		plan.Instructions = append(plan.Instructions, ix)
	}

	ix, err := instruction.NewInitObligationInstruction(s.ProgramID, &accounts, &instruction.InitObligationArgs{Tag: p.Tag, Id: p.Id})
	if err != nil {
		return nil, types.Pubkey{}, err
	}
	plan.Instructions = append(plan.Instructions, ix)
	return plan, accounts.Obligation, nil
}

func InitObligation(ctx context.Context, s *svc.ServiceContext, p InitObligationParams) (*InitObligationResult, error) {
	plan, obligation, err := BuildInitObligation(ctx, s, p)
	if err != nil {
		return nil, err
	}
	res, err := execute(ctx, s, plan)
	return &InitObligationResult{Obligation: obligation, Result: res}, err
}

package submitter

import (
	"fmt"

	sdktypes "github.com/blocto/solana-go-sdk/types"

	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/types"
)

// sign 按消息中签名账户的顺序签名，第一个签名（fee payer）即交易签名
func sign(msg sdktypes.Message, signers []Signer) (sdktypes.Transaction, types.Signature, error) {
	data, err := msg.Serialize()
	if err != nil {
		return sdktypes.Transaction{}, types.Signature{}, fmt.Errorf("serialize message: %w", err)
	}

	byKey := make(map[types.Pubkey]Signer, len(signers))
	for _, s := range signers {
		byKey[s.PublicKey()] = s
	}

	required := int(msg.Header.NumRequireSignatures)
	if required > len(msg.Accounts) {
		return sdktypes.Transaction{}, types.Signature{}, errs.InvalidArgument("message requires %d signatures but has %d accounts", required, len(msg.Accounts))
	}
	sigs := make([]sdktypes.Signature, 0, required)
	for i := 0; i < required; i++ {
		key := types.Pubkey(msg.Accounts[i])
		signer, ok := byKey[key]
		if !ok {
			return sdktypes.Transaction{}, types.Signature{}, errs.InvalidArgument("missing signer for %s", key)
		}
		raw, err := signer.Sign(data)
		if err != nil {
			return sdktypes.Transaction{}, types.Signature{}, fmt.Errorf("sign with %s: %w", key, err)
		}
		sigs = append(sigs, raw)
	}
	if len(sigs) == 0 {
		return sdktypes.Transaction{}, types.Signature{}, errs.InvalidArgument("message has no signers")
	}

	sig, err := types.SignatureFromBytes(sigs[0])
	if err != nil {
		return sdktypes.Transaction{}, types.Signature{}, err
	}
	return sdktypes.Transaction{Signatures: sigs, Message: msg}, sig, nil
}

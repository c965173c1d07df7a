package rpcclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/rpc"

	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/errs"
)

// JSON-RPC 错误码
const (
	codeSendTransactionPreflightFailure = -32002
	codeSignatureVerificationFailure    = -32003
	codeTransactionPrecompileFailure    = -32006
)

// classify 把 RPC 错误归类为 Rejected（不可重试）或 NetworkFailure（可重试）
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var rpcErr *rpc.JsonRpcError
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case codeSendTransactionPreflightFailure, codeSignatureVerificationFailure, codeTransactionPrecompileFailure:
			return errs.Rejected("", rejectReason(rpcErr))
		}
		if strings.Contains(rpcErr.Message, "InstructionError") {
			return errs.Rejected("", rejectReason(rpcErr))
		}
	}
	return errs.Network(op, err)
}

func rejectReason(e *rpc.JsonRpcError) string {
	if e.Data == nil {
		return e.Message
	}
	if data, ok := e.Data.(map[string]any); ok {
		if txErr, ok := data["err"]; ok && txErr != nil {
			return fmt.Sprintf("%s: %v", e.Message, txErr)
		}
	}
	return e.Message
}

func convertStatus(s *rpc.SignatureStatus) *submitter.SignatureStatus {
	if s == nil {
		return nil
	}
	out := &submitter.SignatureStatus{Slot: s.Slot}
	if s.ConfirmationStatus != nil {
		out.Commitment = submitter.Commitment(*s.ConfirmationStatus)
	}
	if s.Err != nil {
		out.Err = fmt.Sprintf("%v", s.Err)
	}
	return out
}

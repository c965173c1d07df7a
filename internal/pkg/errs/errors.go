package errs

import (
	"errors"
	"fmt"
)

// 地址派生（致命，不重试）
var (
	ErrSeedTooLong      = errors.New("seed too long")
	ErrNoValidBumpFound = errors.New("no valid bump found")
	ErrInvalidSeeds     = errors.New("derived address lies on the ed25519 curve")
)

// 账户解析（致命，说明链上布局与客户端不一致或输入有误）
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrDecode            = errors.New("account decode error")
	ErrMissingDependency = errors.New("missing dependency")
)

// 指令构造
var ErrInvalidArgument = errors.New("invalid argument")

// 交易提交
var (
	ErrNetworkFailure = errors.New("network failure")
	ErrRejected       = errors.New("transaction rejected")
	ErrTimedOut       = errors.New("confirmation timed out")
)

// RejectedError 远端程序明确拒绝了交易，重发同一组指令必然再次失败
type RejectedError struct {
	Signature string
	Reason    string
}

func (e *RejectedError) Error() string {
	if e.Signature == "" {
		return fmt.Sprintf("%v: %s", ErrRejected, e.Reason)
	}
	return fmt.Sprintf("%v: %s (signature=%s)", ErrRejected, e.Reason, e.Signature)
}

func (e *RejectedError) Unwrap() error {
	return ErrRejected
}

// TimedOutError 确认超时：结果不确定，调用方必须按签名重新查询，不能直接重发
type TimedOutError struct {
	Signature string
	Waited    string
}

func (e *TimedOutError) Error() string {
	return fmt.Sprintf("%v after %s, re-query signature %s before retrying", ErrTimedOut, e.Waited, e.Signature)
}

func (e *TimedOutError) Unwrap() error {
	return ErrTimedOut
}

// NetworkError 传输层失败，可按退避策略重试
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrNetworkFailure, e.Op, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetworkFailure, e.Err}
}

func Network(op string, err error) error {
	return &NetworkError{Op: op, Err: err}
}

func Rejected(signature, reason string) error {
	return &RejectedError{Signature: signature, Reason: reason}
}

func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func MissingDependency(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMissingDependency, fmt.Sprintf(format, args...))
}

// IsRetryable 只有传输层失败允许重试
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRejected) {
		return false
	}
	return errors.Is(err, ErrNetworkFailure)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

package submitter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/cenkalti/backoff/v4"

	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/pkg/errs"
	"klend-client-sol/internal/pkg/logger"
	"klend-client-sol/internal/pkg/types"
)

type Config struct {
	MaxSendAttempts uint64
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
	PollInterval    time.Duration
	ConfirmTimeout  time.Duration
	Commitment      Commitment
}

func DefaultConfig() Config {
	return Config{
		MaxSendAttempts: 5,
		InitialBackoff:  500 * time.Millisecond,
		MaxBackoff:      8 * time.Second,
		PollInterval:    time.Second,
		ConfirmTimeout:  60 * time.Second,
		Commitment:      CommitmentConfirmed,
	}
}

type Submitter struct {
	transport Transport
	cfg       Config
	recorder  Recorder
	notifier  Notifier
}

type Option func(*Submitter)

func WithRecorder(r Recorder) Option {
	return func(s *Submitter) { s.recorder = r }
}

func WithNotifier(n Notifier) Option {
	return func(s *Submitter) { s.notifier = n }
}

func New(transport Transport, cfg Config, opts ...Option) *Submitter {
	def := DefaultConfig()
	if cfg.MaxSendAttempts == 0 {
		cfg.MaxSendAttempts = def.MaxSendAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = def.ConfirmTimeout
	}
	if !cfg.Commitment.Valid() {
		cfg.Commitment = def.Commitment
	}
	s := &Submitter{transport: transport, cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit 签名、发送并等待确认
// 返回的 Result 在签名之后总是带有 signature，TimedOut 时调用方应按签名重新查询而不是重发
func (s *Submitter) Submit(ctx context.Context, req Request) (*Result, error) {
	res := &Result{Name: req.Name, State: StateBuilt}
	if req.FeePayer == nil {
		return res, errs.InvalidArgument("fee payer is required")
	}
	if len(req.Instructions) == 0 {
		return res, errs.InvalidArgument("no instructions to submit")
	}

	// Built
	blockhash, err := s.latestBlockhash(ctx)
	if err != nil {
		return res, err
	}
	msg := sdktypes.NewMessage(sdktypes.NewMessageParam{
		FeePayer:        common.PublicKey(req.FeePayer.PublicKey()),
		RecentBlockhash: blockhash,
		Instructions:    instruction.ToSdkAll(req.Instructions),
	})

	// Signed
	tx, sig, err := sign(msg, append([]Signer{req.FeePayer}, req.Signers...))
	if err != nil {
		return res, err
	}
	res.Signature = sig
	s.transition(ctx, res, StateSigned)
	logger.Infof("[TransactionSubmitter] %s 已签名: signature=%s, instructions=%d", req.Name, sig, len(req.Instructions))

	// Sent
	if err := s.send(ctx, tx, res); err != nil {
		res.Reason = err.Error()
		if errors.Is(err, errs.ErrRejected) {
			s.finish(ctx, res, StateRejected)
		} else {
			// 重试耗尽时交易仍可能已被节点接收，停留在 Signed，由调用方按签名重新查询
			s.finish(ctx, res, StateSigned)
		}
		return res, err
	}
	s.transition(ctx, res, StateSent)

	// Confirmed | TimedOut | Rejected
	err = s.confirm(ctx, res)
	return res, err
}

// Confirm 只做确认轮询，用于 TimedOut 之后按签名重新查询
func (s *Submitter) Confirm(ctx context.Context, signature types.Signature) (*Result, error) {
	res := &Result{Name: "confirm", Signature: signature, State: StateSent}
	err := s.confirm(ctx, res)
	return res, err
}

// Status 单次查询签名状态，不轮询
func (s *Submitter) Status(ctx context.Context, signature types.Signature) (*SignatureStatus, error) {
	return s.transport.GetSignatureStatus(ctx, signature.String())
}

func (s *Submitter) latestBlockhash(ctx context.Context) (string, error) {
	var blockhash string
	op := func() error {
		hash, err := s.transport.GetLatestBlockhash(ctx)
		if err != nil {
			if errs.IsRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		blockhash = hash
		return nil
	}
	if err := backoff.Retry(op, s.backoff(ctx)); err != nil {
		return "", fmt.Errorf("get latest blockhash: %w", err)
	}
	return blockhash, nil
}

// send 仅对传输层失败做指数退避重试，程序拒绝立即返回
func (s *Submitter) send(ctx context.Context, tx sdktypes.Transaction, res *Result) error {
	op := func() error {
		res.Attempts++
		returned, err := s.transport.SendTransaction(ctx, tx)
		if err != nil {
			if errs.IsRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		if returned != "" && returned != res.Signature.String() {
			logger.Warnf("[TransactionSubmitter] 节点返回的签名与本地不一致: local=%s remote=%s", res.Signature, returned)
		}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logger.Warnf("[TransactionSubmitter] %s 第 %d 次发送失败，%v 后重试: %v", res.Name, res.Attempts, wait, err)
	}

	err := backoff.RetryNotify(op, s.backoff(ctx), notify)
	if err == nil {
		return nil
	}
	if errors.Is(err, errs.ErrRejected) {
		var rejected *errs.RejectedError
		if errors.As(err, &rejected) && rejected.Signature == "" {
			rejected.Signature = res.Signature.String()
		}
		logger.Errorf("[TransactionSubmitter] %s 被拒绝: signature=%s, err=%v", res.Name, res.Signature, err)
		return err
	}
	logger.Errorf("[TransactionSubmitter] %s 发送失败（已尝试 %d 次）: signature=%s, err=%v", res.Name, res.Attempts, res.Signature, err)
	if errs.IsRetryable(err) {
		return fmt.Errorf("send failed after %d attempts: %w", res.Attempts, err)
	}
	return err
}

func (s *Submitter) confirm(ctx context.Context, res *Result) error {
	pollCtx, cancel := context.WithTimeout(ctx, s.cfg.ConfirmTimeout)
	defer cancel()

	start := time.Now()
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		status, err := s.transport.GetSignatureStatus(pollCtx, res.Signature.String())
		switch {
		case err != nil:
			logger.Warnf("[TransactionSubmitter] 查询签名状态失败: signature=%s, err=%v", res.Signature, err)
		case status == nil:
		case status.Err != "":
			res.Slot = status.Slot
			res.Reason = status.Err
			s.finish(ctx, res, StateRejected)
			return errs.Rejected(res.Signature.String(), status.Err)
		case status.Commitment.Reaches(s.cfg.Commitment):
			res.Slot = status.Slot
			res.Confirmed = true
			s.finish(ctx, res, StateConfirmed)
			logger.Infof("[TransactionSubmitter] %s 已确认: signature=%s, slot=%d, commitment=%s, 耗时=%v",
				res.Name, res.Signature, status.Slot, status.Commitment, time.Since(start))
			return nil
		}

		select {
		case <-pollCtx.Done():
			if ctx.Err() != nil {
				return fmt.Errorf("confirm %s: %w", res.Signature, ctx.Err())
			}
			waited := time.Since(start).Truncate(time.Millisecond)
			res.Reason = fmt.Sprintf("not %s after %s", s.cfg.Commitment, waited)
			s.finish(ctx, res, StateTimedOut)
			return &errs.TimedOutError{Signature: res.Signature.String(), Waited: waited.String()}
		case <-ticker.C:
		}
	}
}

func (s *Submitter) backoff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.InitialBackoff
	b.MaxInterval = s.cfg.MaxBackoff
	b.MaxElapsedTime = 0
	b.Reset()
	// MaxSendAttempts 为总次数，重试次数要减 1
	return backoff.WithContext(backoff.WithMaxRetries(b, s.cfg.MaxSendAttempts-1), ctx)
}

func (s *Submitter) transition(ctx context.Context, res *Result, state State) {
	res.State = state
	if s.recorder == nil {
		return
	}
	err := s.recorder.Record(ctx, Transition{
		Name:      res.Name,
		Signature: res.Signature,
		State:     state,
		Attempts:  res.Attempts,
		Slot:      res.Slot,
		Reason:    res.Reason,
		At:        time.Now(),
	})
	if err != nil {
		logger.Warnf("[TransactionSubmitter] 记录状态失败: signature=%s, state=%s, err=%v", res.Signature, state, err)
	}
}

// finish 本次提交结束：记录并发布结果
func (s *Submitter) finish(ctx context.Context, res *Result, state State) {
	s.transition(ctx, res, state)
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, *res); err != nil {
		logger.Warnf("[TransactionSubmitter] 发布结果失败: signature=%s, err=%v", res.Signature, err)
	}
}

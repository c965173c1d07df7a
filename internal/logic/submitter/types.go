package submitter

import (
	"context"
	"slices"
	"time"

	sdktypes "github.com/blocto/solana-go-sdk/types"

	"klend-client-sol/internal/logic/instruction"
	"klend-client-sol/internal/pkg/types"
)

// State 单次提交的状态机：Built → Signed → Sent → {Confirmed | TimedOut | Rejected}
type State string

const (
	StateBuilt     State = "built"
	StateSigned    State = "signed"
	StateSent      State = "sent"
	StateConfirmed State = "confirmed"
	StateTimedOut  State = "timed_out"
	StateRejected  State = "rejected"
)

// FinalStates 终态，进入后不再被非终态覆盖
var FinalStates = []State{StateConfirmed, StateTimedOut, StateRejected}

func (s State) IsFinal() bool {
	return slices.Contains(FinalStates, s)
}

type Commitment string

const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

var commitmentRank = map[Commitment]int{
	CommitmentProcessed: 1,
	CommitmentConfirmed: 2,
	CommitmentFinalized: 3,
}

// Reaches 当前确认级别是否满足 required
func (c Commitment) Reaches(required Commitment) bool {
	return commitmentRank[c] > 0 && commitmentRank[c] >= commitmentRank[required]
}

func (c Commitment) Valid() bool {
	_, ok := commitmentRank[c]
	return ok
}

// SignatureStatus Err 非空表示交易已上链但执行失败
type SignatureStatus struct {
	Slot       uint64
	Commitment Commitment
	Err        string
}

// Transport 提交与确认所需的 RPC 能力
type Transport interface {
	GetLatestBlockhash(ctx context.Context) (string, error)
	// SendTransaction 远端程序拒绝时返回 errs.ErrRejected，传输失败返回 errs.ErrNetworkFailure
	SendTransaction(ctx context.Context, tx sdktypes.Transaction) (string, error)
	// GetSignatureStatus 节点尚未见到该签名时返回 nil, nil
	GetSignatureStatus(ctx context.Context, signature string) (*SignatureStatus, error)
}

// Signer 只需要能对任意字节签名
type Signer interface {
	PublicKey() types.Pubkey
	Sign(message []byte) ([]byte, error)
}

type Request struct {
	// Name 操作名，只用于日志与事件
	Name         string
	Instructions []instruction.Instruction
	FeePayer     Signer
	// Signers 同一笔交易中新建账户的临时 keypair 等额外签名者
	Signers []Signer
}

type Result struct {
	Name      string          `yaml:"name" json:"name"`
	Signature types.Signature `yaml:"signature" json:"signature"`
	State     State           `yaml:"state" json:"state"`
	Confirmed bool            `yaml:"confirmed" json:"confirmed"`
	Slot      uint64          `yaml:"slot,omitempty" json:"slot,omitempty"`
	Attempts  int             `yaml:"attempts" json:"attempts"`
	Reason    string          `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// Transition 状态迁移记录
type Transition struct {
	Name      string
	Signature types.Signature
	State     State
	Attempts  int
	Slot      uint64
	Reason    string
	At        time.Time
}

// Recorder 记录每一次状态迁移（submission journal）
type Recorder interface {
	Record(ctx context.Context, t Transition) error
}

// Notifier 发布最终结果（事件流）
type Notifier interface {
	Notify(ctx context.Context, result Result) error
}

package config

import (
	"time"

	"klend-client-sol/internal/consts"
	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/logger"
	"klend-client-sol/internal/pkg/mq"
	"klend-client-sol/internal/pkg/types"
)

type LogConfig struct {
	Format   string `json:",default=console,options=console|json"` // 日志格式
	LogDir   string `json:",optional"`                             // 日志目录，为空时只输出到 stdout
	Level    string `json:",default=info"`                         // debug / info / warn / error
	Compress bool   `json:",optional"`                             // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

type RpcConfig struct {
	Endpoint   string // JSON-RPC 地址，例如 https://api.mainnet-beta.solana.com
	Commitment string `json:",default=confirmed,options=processed|confirmed|finalized"`
	TimeoutMs  int    `json:",default=5000"` // 单次 RPC 请求超时
}

func (c *RpcConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

type ProgramConfig struct {
	ProgramID string `json:",optional"` // 为空时使用主网 klend 程序
}

func (c *ProgramConfig) ID() (types.Pubkey, error) {
	if c.ProgramID == "" {
		return consts.KlendProgram, nil
	}
	return types.TryPubkeyFromBase58(c.ProgramID)
}

// SubmitConfig 发送重试与确认轮询
type SubmitConfig struct {
	MaxSendAttempts  uint64 `json:",default=5"`
	InitialBackoffMs int    `json:",default=500"`
	MaxBackoffMs     int    `json:",default=8000"`
	PollIntervalMs   int    `json:",default=1000"`
	ConfirmTimeoutMs int    `json:",default=60000"`
	Commitment       string `json:",default=confirmed,options=processed|confirmed|finalized"`
}

func (c *SubmitConfig) ToSubmitterConfig() submitter.Config {
	return submitter.Config{
		MaxSendAttempts: c.MaxSendAttempts,
		InitialBackoff:  time.Duration(c.InitialBackoffMs) * time.Millisecond,
		MaxBackoff:      time.Duration(c.MaxBackoffMs) * time.Millisecond,
		PollInterval:    time.Duration(c.PollIntervalMs) * time.Millisecond,
		ConfirmTimeout:  time.Duration(c.ConfirmTimeoutMs) * time.Millisecond,
		Commitment:      submitter.Commitment(c.Commitment),
	}
}

// ComputeBudgetConfig 为 0 时不注入对应的 compute budget 指令
type ComputeBudgetConfig struct {
	UnitLimit uint32 `json:",optional"`
	UnitPrice uint64 `json:",optional"` // micro-lamports / CU
}

// JournalConfig 地址为空时对应的存储不启用
type JournalConfig struct {
	RedisAddr       string `json:",optional"`
	RedisPassword   string `json:",optional"`
	PostgresDSN     string `json:",optional"`
	TTLHours        int    `json:",default=24"`
	FlushIntervalMs int    `json:",default=1000"`
	RetentionDays   int    `json:",default=7"`
}

func (c *JournalConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

func (c *JournalConfig) FlushInterval() time.Duration {
	if c.FlushIntervalMs <= 0 {
		return time.Second
	}
	return time.Duration(c.FlushIntervalMs) * time.Millisecond
}

func (c *JournalConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// KafkaProducerConfig Brokers 为空时不发布结果事件
type KafkaProducerConfig struct {
	Brokers       string `json:",optional"` // 多个用英文逗号分隔
	Topic         string `json:",default=klend-tx-results"`
	Partitions    int    `json:",default=4"`
	BatchSize     int    `json:",optional"` // 批处理大小（单位字节）
	LingerMs      int    `json:",optional"` // 批处理最大延迟（毫秒）
	SendTimeoutMs int    `json:",default=5000"`
}

func (c *KafkaProducerConfig) ToKafkaOption() mq.KafkaProducerOption {
	return mq.KafkaProducerOption{
		Brokers:    c.Brokers,
		BatchSize:  c.BatchSize,
		LingerMs:   c.LingerMs,
		Topic:      c.Topic,
		Partitions: c.Partitions,
	}
}

func (c *KafkaProducerConfig) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutMs) * time.Millisecond
}

type BatchConfig struct {
	Workers int `json:",default=8"` // 批量刷新 obligation 的并发数
}

// ClientConfig 客户端主配置
type ClientConfig struct {
	Logger        LogConfig           `json:",optional"`
	Rpc           RpcConfig           // RPC 节点
	Program       ProgramConfig       `json:",optional"`
	Submit        SubmitConfig        `json:",optional"`
	ComputeBudget ComputeBudgetConfig `json:",optional"`
	Journal       JournalConfig       `json:",optional"`
	KafkaProducer KafkaProducerConfig `json:",optional"`
	Batch         BatchConfig         `json:",optional"`
}

package consts

// 费用估算默认值（单位：lamports / micro-lamports）
const (
	BaseSignatureFee        uint64 = 5000
	DefaultComputeUnitLimit uint64 = 200_000
	DefaultComputeUnitPrice uint64 = 1_000
	MaxComputeUnitLimit     uint32 = 1_400_000
)

// 账户空间（不含 8 字节 Anchor discriminator）
const (
	AnchorDiscriminatorLen = 8

	LendingMarketSize = 4656
	ReserveSize       = 8616
	ObligationSize    = 3336
	UserMetadataSize  = 1024
)

// Obligation 中固定长度的仓位数组
const (
	ObligationMaxDeposits = 8
	ObligationMaxBorrows  = 5
)

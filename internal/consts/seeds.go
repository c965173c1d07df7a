package consts

// klend PDA 种子（与链上程序 utils::seeds 保持一致）
var (
	SeedLendingMarketAuth   = []byte("lma")
	SeedReserveLiqSupply    = []byte("reserve_liq_supply")
	SeedFeeReceiver         = []byte("fee_receiver")
	SeedReserveCollMint     = []byte("reserve_coll_mint")
	SeedReserveCollSupply   = []byte("reserve_coll_supply")
	SeedUserMetadata        = []byte("user_meta")
	SeedReferrerTokenState  = []byte("referrer_acc")
	SeedProgramDerivedLabel = []byte("ProgramDerivedAddress")
)

const (
	MaxSeedLength = 32
	MaxSeeds      = 16
)

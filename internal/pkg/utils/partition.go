package utils

import "github.com/cespare/xxhash/v2"

// PartitionFor 同一个 key 总是落到同一个分区；partitions <= 1 时固定为 0
func PartitionFor(key []byte, partitions uint32) int32 {
	if partitions <= 1 || len(key) == 0 {
		return 0
	}
	return int32(xxhash.Sum64(key) % uint64(partitions))
}

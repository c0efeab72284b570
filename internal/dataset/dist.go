package dataset

import (
	"os"
	"strconv"
)

// RankWorldSize reads OMPI_COMM_WORLD_RANK and OMPI_COMM_WORLD_SIZE,
// defaulting to rank 0 and world size 1 when unset or unparsable. The core
// engine is oblivious to these values; only dataset partitioning and
// shard-file naming consume them.
func RankWorldSize() (rank, worldSize int) {
	rank = envInt("OMPI_COMM_WORLD_RANK", 0)
	worldSize = envInt("OMPI_COMM_WORLD_SIZE", 1)
	return rank, worldSize
}

func envInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

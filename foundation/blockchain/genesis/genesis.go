// Package genesis maintains access to the settings the ledger starts with.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
)

// Genesis represents the genesis file.
type Genesis struct {
	MiningReward uint64 `json:"mining_reward"` // Reward for mining a block.
	Difficulty   uint   `json:"difficulty"`    // How difficult it needs to be to solve the work problem.
	Workers      int    `json:"workers"`       // Number of goroutines searching the nonce space.
}

// Default returns the settings used when no genesis file is provided.
func Default() Genesis {
	return Genesis{
		MiningReward: 100,
		Difficulty:   4,
		Workers:      1,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Values missing from the file
// keep their defaults.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis %q: %w", path, err)
	}

	return genesis, nil
}

package state

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
)

// Genesis returns the settings the ledger was started with.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// Difficulty returns the number of leading zeros a block hash needs.
func (s *State) Difficulty() uint {
	return s.genesis.Difficulty
}

// MiningReward returns the amount credited to the reward account of each
// mined block.
func (s *State) MiningReward() uint64 {
	return s.genesis.MiningReward
}

// Blocks returns a copy of the chain, starting with the genesis block.
func (s *State) Blocks() []database.Block {
	return s.copyBlocks()
}

// LatestBlock returns the block at the tip of the chain.
func (s *State) LatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.blocks) == 0 {
		return database.Block{}
	}
	return s.blocks[len(s.blocks)-1]
}

// Mempool returns a copy of the pending transactions in FIFO order.
func (s *State) Mempool() []database.Tx {
	return s.mempool.Copy()
}

// MempoolLength returns the number of pending transactions.
func (s *State) MempoolLength() int {
	return s.mempool.Count()
}

// BlocksByAccount returns the blocks holding a transaction sent or
// received by the account. If the account is empty, all blocks are
// returned.
func (s *State) BlocksByAccount(accountID database.AccountID) []database.Block {
	blocks := s.copyBlocks()
	if accountID == "" {
		return blocks
	}

	var out []database.Block
	for _, block := range blocks {
		for _, tx := range block.Transactions() {
			if tx.From() == accountID || tx.To() == accountID {
				out = append(out, block)
				break
			}
		}
	}

	return out
}

package state

import (
	"context"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// MinePendingTransactions builds a block with a reward transaction for the
// reward account followed by every pending transaction, solves the proof of
// work and appends the block to the chain. The mined transactions are
// removed from the mempool. If mining is cancelled the chain and the
// mempool are left untouched.
func (s *State) MinePendingTransactions(ctx context.Context, miner database.Signer, rewardID database.AccountID) (database.Block, error) {
	s.evHandler("state: MinePendingTransactions: started: reward[%s]", rewardID)
	defer s.evHandler("state: MinePendingTransactions: completed")

	// Only one mining operation can run at a time.
	s.miningMu.Lock()
	defer s.miningMu.Unlock()

	// The reward transaction is not validated against any balance.
	reward, err := database.NewTx(miner, rewardID, s.genesis.MiningReward)
	if err != nil {
		return database.Block{}, fmt.Errorf("reward transaction: %w", err)
	}

	prevHash, err := s.LastHash()
	if err != nil {
		return database.Block{}, err
	}

	trans := s.mempool.Copy()

	bb := database.NewBlockBuilder()
	bb.AddTransaction(reward)
	for _, tx := range trans {
		bb.AddTransaction(tx)
	}
	bb.SetPreviousHash(prevHash)

	s.evHandler("state: MinePendingTransactions: MINING: perform POW: trans[%d]", len(trans))

	block, err := bb.Mine(ctx, s.genesis.Difficulty, s.genesis.Workers, s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blocks = append(s.blocks, block)
	s.mempool.Delete(trans)

	s.evHandler("viewer: block mined: number[%d] hash[%s] trans[%d]", len(s.blocks)-1, block.Hash(), len(trans)+1)

	return block, nil
}

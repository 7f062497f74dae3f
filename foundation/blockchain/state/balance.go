package state

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Balance replays the chain and returns the balance for the account.
func (s *State) Balance(accountID database.AccountID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return balance(s.blocks, accountID)
}

// Accounts replays the chain and returns the balance of every account that
// has been part of a transaction.
func (s *State) Accounts() (map[database.AccountID]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make(map[database.AccountID]uint64)
	err := replay(s.blocks, func(tx database.Tx, reward bool) error {
		if _, exists := accounts[tx.To()]; !exists {
			accounts[tx.To()] = 0
		}
		if !reward {
			if _, exists := accounts[tx.From()]; !exists {
				accounts[tx.From()] = 0
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for accountID := range accounts {
		bal, err := balance(s.blocks, accountID)
		if err != nil {
			return nil, err
		}
		accounts[accountID] = bal
	}

	return accounts, nil
}

// =============================================================================

// balance replays the set of blocks for the specified account. A transaction
// credits its recipient and otherwise debits its sender. The first
// transaction of every block is the mining reward: it issues new value, so
// it only credits the recipient and never debits the miner that signed it.
// A debit larger than the running balance means the chain is not consistent.
func balance(blocks []database.Block, accountID database.AccountID) (uint64, error) {
	var bal uint64

	fn := func(tx database.Tx, reward bool) error {
		if tx.To() == accountID {
			bal += tx.Amount()
		}

		if reward || tx.From() != accountID {
			return nil
		}

		if tx.Amount() > bal {
			return fmt.Errorf("%w: account %s spends %d holding %d", ErrInvalidChain, accountID, tx.Amount(), bal)
		}
		bal -= tx.Amount()

		return nil
	}

	if err := replay(blocks, fn); err != nil {
		return 0, err
	}

	return bal, nil
}

// replay calls fn for every transaction in the chain, skipping genesis.
func replay(blocks []database.Block, fn func(tx database.Tx, reward bool) error) error {
	if len(blocks) == 0 {
		return nil
	}

	for _, block := range blocks[1:] {
		for i, tx := range block.Transactions() {
			if err := fn(tx, i == 0); err != nil {
				return err
			}
		}
	}

	return nil
}

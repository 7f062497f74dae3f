package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
)

// AddTransaction validates the transaction and the sender's funds and then
// places it at the end of the mempool.
func (s *State) AddTransaction(tx database.Tx) error {
	s.evHandler("state: AddTransaction: started: tx[%s]", tx)
	defer s.evHandler("state: AddTransaction: completed")

	if err := tx.Validate(); err != nil {
		return err
	}

	if tx.From() == tx.To() {
		return fmt.Errorf("%w: sending money to yourself", database.ErrInvalidTransaction)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bal, err := balance(s.blocks, tx.From())
	if err != nil {
		return err
	}

	// Value already promised by pending transactions is not available.
	pending := s.mempool.PendingDebit(tx.From())

	if pending > bal || tx.Amount() > bal-pending {
		return fmt.Errorf("%w: balance %d, pending %d, needed %d", ErrInsufficientFunds, bal, pending, tx.Amount())
	}

	n, err := s.mempool.Add(tx)
	if err != nil {
		if errors.Is(err, mempool.ErrDuplicate) {
			return fmt.Errorf("%w: %w", database.ErrInvalidTransaction, err)
		}
		return err
	}

	s.evHandler("state: AddTransaction: mempool count[%d]", n)
	s.evHandler("viewer: tx added: %s", tx)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}

// Package mempool maintains the pool of transactions waiting to be mined.
// Transactions are kept in the order they were accepted.
package mempool

import (
	"errors"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// ErrDuplicate is returned when a transaction with the same hash is
// already in the pool.
var ErrDuplicate = errors.New("transaction already in mempool")

// Mempool represents a FIFO cache of transactions with a second key on the
// transaction hash.
type Mempool struct {
	pool   []database.Tx
	hashes map[string]struct{}
	mu     sync.RWMutex
}

// New constructs a new empty mempool.
func New() *Mempool {
	return &Mempool{
		hashes: make(map[string]struct{}),
	}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the end of the pool and returns the new
// number of transactions in the pool.
func (mp *Mempool) Add(tx database.Tx) (int, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, exists := mp.hashes[tx.Hash()]; exists {
		return len(mp.pool), ErrDuplicate
	}

	mp.pool = append(mp.pool, tx)
	mp.hashes[tx.Hash()] = struct{}{}

	return len(mp.pool), nil
}

// Delete removes the specified transactions from the pool.
func (mp *Mempool) Delete(trans []database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	remove := make(map[string]struct{}, len(trans))
	for _, tx := range trans {
		remove[tx.Hash()] = struct{}{}
	}

	pool := mp.pool[:0:0]
	for _, tx := range mp.pool {
		if _, exists := remove[tx.Hash()]; exists {
			delete(mp.hashes, tx.Hash())
			continue
		}
		pool = append(pool, tx)
	}
	mp.pool = pool
}

// Copy returns the transactions in the order they were added.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	trans := make([]database.Tx, len(mp.pool))
	copy(trans, mp.pool)
	return trans
}

// PendingDebit returns the total value the account is sending in
// transactions that are still in the pool.
func (mp *Mempool) PendingDebit(accountID database.AccountID) uint64 {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	var total uint64
	for _, tx := range mp.pool {
		if tx.From() == accountID {
			total += tx.Amount()
		}
	}
	return total
}

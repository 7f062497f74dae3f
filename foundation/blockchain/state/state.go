// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
)

// Set of error variables for ledger operations.
var (
	ErrNoBlocks          = errors.New("no blocks in the chain")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidChain      = errors.New("invalid chain")
	ErrGenesisMismatch   = errors.New("genesis block does not match")
	ErrBrokenLink        = errors.New("previous hash does not match previous block")
	ErrUnsolved          = errors.New("block hash does not solve the proof of work")
)

// ChainError identifies the block that failed chain validation.
type ChainError struct {
	Block int
	Err   error
}

// Error implements the error interface.
func (ce *ChainError) Error() string {
	return fmt.Sprintf("%s: block[%d]: %s", ErrInvalidChain, ce.Block, ce.Err)
}

// Unwrap allows errors.Is to match ErrInvalidChain and the cause.
func (ce *ChainError) Unwrap() []error {
	return []error{ErrInvalidChain, ce.Err}
}

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	Genesis   genesis.Genesis
	EvHandler EventHandler
}

// State manages the chain of blocks and the pool of pending transactions.
type State struct {
	Worker Worker

	genesis   genesis.Genesis
	evHandler EventHandler

	mu       sync.RWMutex
	miningMu sync.Mutex
	blocks   []database.Block
	mempool  *mempool.Mempool
}

// New constructs a new ledger seeded with the genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Genesis.Difficulty > database.MaxDifficulty {
		return nil, fmt.Errorf("%w: %d", database.ErrDifficulty, cfg.Genesis.Difficulty)
	}

	// A zero reward transaction would never validate.
	if cfg.Genesis.MiningReward == 0 {
		return nil, errors.New("mining reward must be greater than zero")
	}

	gen := cfg.Genesis
	if gen.Workers < 1 {
		gen.Workers = 1
	}

	state := State{
		genesis:   gen,
		evHandler: ev,
		blocks:    []database.Block{database.Genesis()},
		mempool:   mempool.New(),
	}

	ev("state: New: ledger created: reward[%d] difficulty[%d] workers[%d]", gen.MiningReward, gen.Difficulty, gen.Workers)

	return &state, nil
}

// Shutdown stops the background worker when one is registered.
func (s *State) Shutdown() {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	if s.Worker != nil {
		s.Worker.Shutdown()
	}
}

// LastHash returns the hash of the block at the tip of the chain.
func (s *State) LastHash() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lastHash(s.blocks)
}

// Verify reports whether the chain is valid.
func (s *State) Verify() bool {
	return s.Validate() == nil
}

// Validate checks the genesis block matches a freshly built one and every
// other block is valid, solves the proof of work and links to the block
// before it. The first failure is returned as a *ChainError.
func (s *State) Validate() error {
	return validateChain(s.copyBlocks(), s.genesis.Difficulty)
}

// =============================================================================

// copyBlocks returns a copy of the current chain.
func (s *State) copyBlocks() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks := make([]database.Block, len(s.blocks))
	copy(blocks, s.blocks)
	return blocks
}

// lastHash returns the hash of the last block in the set.
func lastHash(blocks []database.Block) (string, error) {
	if len(blocks) == 0 {
		return "", ErrNoBlocks
	}

	return blocks[len(blocks)-1].Hash(), nil
}

// validateChain performs the structural checks over the set of blocks.
func validateChain(blocks []database.Block, difficulty uint) error {
	if len(blocks) == 0 {
		return ErrNoBlocks
	}

	if !blocks[0].Equal(database.Genesis()) {
		return &ChainError{Block: 0, Err: ErrGenesisMismatch}
	}

	for i := 1; i < len(blocks); i++ {
		block := blocks[i]

		if err := block.Validate(); err != nil {
			return &ChainError{Block: i, Err: err}
		}

		if block.PrevHash() != blocks[i-1].Hash() {
			return &ChainError{Block: i, Err: ErrBrokenLink}
		}

		if !database.IsHashSolved(difficulty, block.Hash()) {
			return &ChainError{Block: i, Err: ErrUnsolved}
		}
	}

	return nil
}

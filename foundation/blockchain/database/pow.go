package database

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// solution represents a nonce that solved the proof of work.
type solution struct {
	nonce uint64
	hash  string
}

// Mine performs the work to find a nonce that solves the proof of work for
// the block and returns the finalized block. The nonce space is split across
// the specified number of workers and the first solution cancels the rest.
// If the context is cancelled before a solution is found, ErrMiningCancelled
// is returned.
func (bb *BlockBuilder) Mine(ctx context.Context, difficulty uint, workers int, ev func(v string, args ...any)) (Block, error) {
	if difficulty > MaxDifficulty {
		return Block{}, fmt.Errorf("%w: %d", ErrDifficulty, difficulty)
	}

	if workers < 1 {
		workers = 1
	}

	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	ev("database: Mine: MINING: started: difficulty[%d] workers[%d] trans[%d]", difficulty, workers, len(bb.trans))
	defer ev("database: Mine: MINING: completed")

	for _, tx := range bb.trans {
		ev("database: Mine: MINING: tx[%s]", tx)
	}

	// Everything but the nonce is fixed for the search.
	prefix := blockPrefix(bb.trans, bb.timestamp)
	suffix := blockSuffix(bb.prevHash)

	// This context is cancelled by the first worker to find a solution.
	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	found := make(chan solution, workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := range workers {
		go func(start uint64) {
			defer wg.Done()

			sol, ok := search(searchCtx, prefix, suffix, difficulty, start, uint64(workers), ev)
			if ok {
				found <- sol
				cancel()
			}
		}(uint64(i))
	}

	wg.Wait()
	close(found)

	// More than one worker may solve the puzzle at the same time. Keep the
	// lowest nonce.
	var best *solution
	for sol := range found {
		if best == nil || sol.nonce < best.nonce {
			best = &sol
		}
	}

	if best == nil {
		ev("database: Mine: MINING: CANCELLED")
		return Block{}, fmt.Errorf("%w: %w", ErrMiningCancelled, ctx.Err())
	}

	ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", bb.prevHash, best.hash, best.nonce)

	bb.nonce = best.nonce
	bb.hash = best.hash

	block := Block{
		timestamp: bb.timestamp,
		nonce:     bb.nonce,
		hash:      bb.hash,
		prevHash:  bb.prevHash,
		trans:     bb.Transactions(),
	}

	return block, nil
}

// search walks the nonce space starting at the specified nonce, moving by
// step, until the hash is solved or the context is cancelled.
func search(ctx context.Context, prefix string, suffix string, difficulty uint, nonce uint64, step uint64, ev func(v string, args ...any)) (solution, bool) {
	const checkEvery = 1 << 12

	var attempts uint64
	for {
		if attempts%checkEvery == 0 && ctx.Err() != nil {
			return solution{}, false
		}
		attempts++

		hash := signature.HashString(prefix + strconv.FormatUint(nonce, 10) + suffix)
		if IsHashSolved(difficulty, hash) {
			return solution{nonce: nonce, hash: hash}, true
		}

		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: start[%d]: attempts[%d]", nonce%step, attempts)
		}

		nonce += step
	}
}

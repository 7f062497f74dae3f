package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

func mine(t *testing.T, difficulty uint, workers int, amounts ...uint64) database.Block {
	t.Helper()

	from, to := keys(t)

	bb := database.NewBlockBuilder()
	for _, amount := range amounts {
		tx, err := database.NewTx(from, to.AccountID(), amount)
		if err != nil {
			t.Fatalf("Should be able to construct a transaction: %s", err)
		}
		bb.AddTransaction(tx)
	}
	bb.SetPreviousHash(database.Genesis().Hash())

	block, err := bb.Mine(context.Background(), difficulty, workers, nil)
	if err != nil {
		t.Fatalf("Should be able to mine the block: %s", err)
	}

	return block
}

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need for a fixed genesis block.")
	{
		g := database.Genesis()

		if !g.Equal(database.Genesis()) {
			t.Fatalf("\t%s\tShould build the same genesis block every time.", failed)
		}
		t.Logf("\t%s\tShould build the same genesis block every time.", success)

		if g.Hash() != g.ContentHash() || g.PrevHash() != "" || g.Timestamp() != database.GenesisTimestamp {
			t.Fatalf("\t%s\tShould hash its own empty state.", failed)
		}
		t.Logf("\t%s\tShould hash its own empty state.", success)

		if len(g.Transactions()) != 0 || g.Nonce() != 0 {
			t.Fatalf("\t%s\tShould hold no transactions.", failed)
		}
		t.Logf("\t%s\tShould hold no transactions.", success)
	}
}

func Test_BlockBuilder(t *testing.T) {
	from, to := keys(t)

	bb := database.NewBlockBuilder()
	if bb.Hash() != bb.ContentHash() || bb.Nonce() != 0 || bb.PreviousHash() != "" {
		t.Fatalf("Should start with the hash of its empty state.")
	}

	empty := bb.Hash()

	tx, err := database.NewTx(from, to.AccountID(), 10)
	if err != nil {
		t.Fatalf("Should be able to construct a transaction: %s", err)
	}
	bb.AddTransaction(tx)

	if bb.Hash() == empty || bb.Hash() != bb.ContentHash() {
		t.Fatalf("Should recompute the hash when a transaction is added.")
	}

	bb.SetTimestamp(database.GenesisTimestamp)
	if bb.Timestamp() != database.GenesisTimestamp || bb.Hash() != bb.ContentHash() {
		t.Fatalf("Should recompute the hash when the timestamp changes.")
	}

	if len(bb.Transactions()) != 1 {
		t.Fatalf("Should hold the added transaction.")
	}
}

func Test_Mining(t *testing.T) {
	tt := []struct {
		name       string
		difficulty uint
		workers    int
		amounts    []uint64
	}{
		{name: "zero-difficulty", difficulty: 0, workers: 1, amounts: []uint64{10}},
		{name: "single-worker", difficulty: 2, workers: 1, amounts: []uint64{10, 20}},
		{name: "many-workers", difficulty: 3, workers: 4, amounts: []uint64{10, 20, 30}},
		{name: "empty-block", difficulty: 1, workers: 2},
	}

	t.Log("Given the need to mine blocks.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				block := mine(t, tst.difficulty, tst.workers, tst.amounts...)

				if !strings.HasPrefix(block.Hash(), strings.Repeat("0", int(tst.difficulty))) {
					t.Fatalf("\t%s\tTest %d:\tShould have %d leading zeros: %s", failed, testID, tst.difficulty, block.Hash())
				}
				t.Logf("\t%s\tTest %d:\tShould have %d leading zeros.", success, testID, tst.difficulty)

				if !block.Verify() {
					t.Fatalf("\t%s\tTest %d:\tShould verify the mined block: %s", failed, testID, block.Validate())
				}
				t.Logf("\t%s\tTest %d:\tShould verify the mined block.", success, testID)

				if block.PrevHash() != database.Genesis().Hash() {
					t.Fatalf("\t%s\tTest %d:\tShould keep the previous hash.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould keep the previous hash.", success, testID)

				if len(block.Transactions()) != len(tst.amounts) {
					t.Fatalf("\t%s\tTest %d:\tShould keep every transaction.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould keep every transaction.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_MiningCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	bb := database.NewBlockBuilder()
	_, err := bb.Mine(ctx, database.MaxDifficulty, 2, nil)

	if !errors.Is(err, database.ErrMiningCancelled) {
		t.Fatalf("Should get a mining cancelled error, got %v", err)
	}

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Should carry the context error, got %v", err)
	}
}

func Test_MiningDifficultyRange(t *testing.T) {
	bb := database.NewBlockBuilder()
	if _, err := bb.Mine(context.Background(), database.MaxDifficulty+1, 1, nil); !errors.Is(err, database.ErrDifficulty) {
		t.Fatalf("Should reject a difficulty beyond the hash length, got %v", err)
	}
}

func Test_BlockTampering(t *testing.T) {
	block := mine(t, 1, 1, 10, 20)
	from, _ := keys(t)

	amount := database.NewBlockData(block)
	amount.Trans[1].Amount = 2000

	recipient := database.NewBlockData(block)
	recipient.Trans[0].To = from.AccountID()

	nonce := database.NewBlockData(block)
	nonce.Nonce++

	prev := database.NewBlockData(block)
	prev.PrevHash = strings.Repeat("f", 64)

	tt := []struct {
		name string
		data database.BlockData
	}{
		{name: "amount", data: amount},
		{name: "recipient", data: recipient},
		{name: "nonce", data: nonce},
		{name: "prev-hash", data: prev},
	}

	t.Log("Given the need to detect tampering with a mined block.")
	{
		if !database.ToBlock(database.NewBlockData(block)).Equal(block) {
			t.Fatalf("\t%s\tShould rebuild the same block from its data.", failed)
		}
		t.Logf("\t%s\tShould rebuild the same block from its data.", success)

		for testID, tst := range tt {
			f := func(t *testing.T) {
				b := database.ToBlock(tst.data)
				if b.Verify() {
					t.Fatalf("\t%s\tTest %d:\tShould not verify a tampered %s.", failed, testID, tst.name)
				}
				t.Logf("\t%s\tTest %d:\tShould not verify a tampered %s.", success, testID, tst.name)

				if !errors.Is(b.Validate(), database.ErrInvalidTransaction) && !errors.Is(b.Validate(), database.ErrBlockHashMismatch) {
					t.Fatalf("\t%s\tTest %d:\tShould name the failed check: %v", failed, testID, b.Validate())
				}
				t.Logf("\t%s\tTest %d:\tShould name the failed check.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_IsHashSolved(t *testing.T) {
	tt := []struct {
		difficulty uint
		hash       string
		exp        bool
	}{
		{difficulty: 0, hash: "abc", exp: true},
		{difficulty: 2, hash: "00ab", exp: true},
		{difficulty: 3, hash: "00ab", exp: false},
		{difficulty: 5, hash: "000", exp: false},
		{difficulty: 65, hash: strings.Repeat("0", 70), exp: false},
	}

	for testID, tst := range tt {
		if got := database.IsHashSolved(tst.difficulty, tst.hash); got != tst.exp {
			t.Errorf("\t%s\tTest %d:\tShould get %v for difficulty %d and hash %s.", failed, testID, tst.exp, tst.difficulty, tst.hash)
		}
	}
}

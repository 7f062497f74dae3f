package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/powledger/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_BackgroundMining(t *testing.T) {
	t.Log("Given the need to mine pooled transactions in the background.")
	{
		ev := func(v string, args ...any) { t.Logf(v, args...) }

		st, err := state.New(state.Config{
			Genesis:   genesis.Genesis{MiningReward: 100, Difficulty: 1, Workers: 1},
			EvHandler: ev,
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the state: %s", failed, err)
		}

		miner, err := wallet.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the miner key: %s", failed, err)
		}
		alice, err := wallet.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create a key: %s", failed, err)
		}

		if _, err := st.MinePendingTransactions(context.Background(), miner, alice.AccountID()); err != nil {
			t.Fatalf("\t%s\tShould be able to fund the account: %s", failed, err)
		}

		worker.Run(st, miner, ev)
		defer st.Shutdown()

		tx, err := database.NewTx(alice, miner.AccountID(), 25)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create a transaction: %s", failed, err)
		}

		if err := st.AddTransaction(tx); err != nil {
			t.Fatalf("\t%s\tShould be able to pool the transaction: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to pool the transaction.", success)

		deadline := time.Now().Add(10 * time.Second)
		for st.MempoolLength() > 0 || len(st.Blocks()) < 3 {
			if time.Now().After(deadline) {
				t.Fatalf("\t%s\tShould mine the pooled transaction: pool[%d] blocks[%d]", failed, st.MempoolLength(), len(st.Blocks()))
			}
			time.Sleep(10 * time.Millisecond)
		}
		t.Logf("\t%s\tShould mine the pooled transaction.", success)

		bal, err := st.Balance(alice.AccountID())
		if err != nil || bal != 75 {
			t.Fatalf("\t%s\tShould have a balance of 75: got %d: %v", failed, bal, err)
		}
		t.Logf("\t%s\tShould have a balance of 75.", success)

		if !st.Verify() {
			t.Fatalf("\t%s\tShould have a valid chain.", failed)
		}
		t.Logf("\t%s\tShould have a valid chain.", success)
	}
}

func Test_Shutdown(t *testing.T) {
	t.Log("Given the need to stop the worker.")
	{
		st, err := state.New(state.Config{Genesis: genesis.Default()})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the state: %s", failed, err)
		}

		miner, err := wallet.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create the miner key: %s", failed, err)
		}

		worker.Run(st, miner, nil)

		done := make(chan struct{})
		go func() {
			st.Shutdown()
			close(done)
		}()

		select {
		case <-done:
			t.Logf("\t%s\tShould be able to shut down an idle worker.", success)
		case <-time.After(5 * time.Second):
			t.Fatalf("\t%s\tShould be able to shut down an idle worker.", failed)
		}
	}
}

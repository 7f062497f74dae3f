package cmd

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powledger/app/services/node/handlers"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendAndBalance(t *testing.T) {
	st, err := state.New(state.Config{
		Genesis: genesis.Genesis{MiningReward: 100, Difficulty: 1, Workers: 1},
	})
	require.NoError(t, err)

	miner, err := wallet.New()
	require.NoError(t, err)

	ns, err := nameservice.New(t.TempDir())
	require.NoError(t, err)

	srv := httptest.NewServer(handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		NS:       ns,
		Miner:    miner,
		Evts:     events.New(),
	}))
	defer srv.Close()

	alice, err := wallet.New()
	require.NoError(t, err)
	bob, err := wallet.New()
	require.NoError(t, err)

	_, err = st.MinePendingTransactions(context.Background(), miner, alice.AccountID())
	require.NoError(t, err)

	bal, err := queryBalance(srv.URL, alice.AccountID())
	require.NoError(t, err)
	assert.Equal(t, uint64(100), bal)

	hash, err := send(srv.URL, alice, bob.AccountID(), 40)
	require.NoError(t, err)

	pool := st.Mempool()
	require.Len(t, pool, 1)
	assert.Equal(t, hash, pool[0].Hash())

	_, err = send(srv.URL, alice, bob.AccountID(), 61)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient funds")

	_, err = st.MinePendingTransactions(context.Background(), miner, miner.AccountID())
	require.NoError(t, err)

	bal, err = queryBalance(srv.URL, bob.AccountID())
	require.NoError(t, err)
	assert.Equal(t, uint64(40), bal)
}

func TestResolveAccount(t *testing.T) {
	dir := t.TempDir()

	bob, err := wallet.New()
	require.NoError(t, err)
	require.NoError(t, bob.Save(filepath.Join(dir, "bob"+nameservice.KeyExtension)))

	t.Run("should accept an account id", func(t *testing.T) {
		id, err := resolveAccount(dir, string(bob.AccountID()))
		require.NoError(t, err)
		assert.Equal(t, bob.AccountID(), id)
	})

	t.Run("should resolve a key name", func(t *testing.T) {
		id, err := resolveAccount(dir, "bob")
		require.NoError(t, err)
		assert.Equal(t, bob.AccountID(), id)
	})

	t.Run("should reject an unknown name", func(t *testing.T) {
		_, err := resolveAccount(dir, "carol")
		assert.Error(t, err)
	})
}

func TestGetPrivateKeyPath(t *testing.T) {
	accountName, accountPath = "miner1", "zblock/accounts/"
	assert.Equal(t, filepath.Join("zblock", "accounts", "miner1.ecdsa"), getPrivateKeyPath())

	accountName = "miner1.ecdsa"
	assert.Equal(t, filepath.Join("zblock", "accounts", "miner1.ecdsa"), getPrivateKeyPath())
}

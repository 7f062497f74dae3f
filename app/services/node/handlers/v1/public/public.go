// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/ardanlabs/powledger/business/sys/validate"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log         *zap.SugaredLogger
	State       *state.State
	NS          *nameservice.NameService
	Miner       *wallet.KeyManager
	MineTimeout time.Duration
	WS          websocket.Upgrader
	Evts        *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction adds a new signed transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var st submitTx
	if err := web.Decode(r, &st); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(st); err != nil {
		return err
	}

	tran := st.toTx()

	h.Log.Infow("add tran", "traceid", v.TraceID, "tx", tran, "from", tran.From(), "to", tran.To(), "amount", tran.Amount())
	if err := h.State.AddTransaction(tran); err != nil {
		return errs.FromLedger(err)
	}

	resp := struct {
		Status string `json:"status"`
		Hash   string `json:"hash"`
	}{
		Status: "transaction added to mempool",
		Hash:   tran.Hash(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine mines the pending transactions into a new block. The reward goes to
// the requested account or to the node's miner when none is provided.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var mr mineRequest
	if err := web.Decode(r, &mr); err != nil && !errors.Is(err, io.EOF) {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(mr); err != nil {
		return err
	}

	rewardID := h.Miner.AccountID()
	if mr.RewardAddress != "" {
		rewardID = database.AccountID(mr.RewardAddress)
	}

	if h.MineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.MineTimeout)
		defer cancel()
	}

	h.Log.Infow("mine", "traceid", v.TraceID, "reward", rewardID, "pending", h.State.MempoolLength())

	blk, err := h.State.MinePendingTransactions(ctx, h.Miner, rewardID)
	if err != nil {
		return errs.FromLedger(err)
	}

	numbers := blockNumbers(h.State.Blocks())

	return web.Respond(ctx, w, h.toBlock(numbers[blk.Hash()], blk), http.StatusOK)
}

// Genesis returns the ledger settings.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Genesis(), http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pool := h.State.Mempool()

	trans := make([]tx, len(pool))
	for i, tran := range pool {
		trans[i] = h.toTx(tran, false)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Balances returns the current balances for all accounts or for the
// account named in the path.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var bals map[database.AccountID]uint64

	switch param := web.Param(r, "account"); param {
	case "":
		accounts, err := h.State.Accounts()
		if err != nil {
			return errs.FromLedger(err)
		}
		bals = accounts

	default:
		accountID, err := database.ToAccountID(param)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}

		bal, err := h.State.Balance(accountID)
		if err != nil {
			return errs.FromLedger(err)
		}
		bals = map[database.AccountID]uint64{accountID: bal}
	}

	list := make([]balance, 0, len(bals))
	for accountID, bal := range bals {
		list = append(list, balance{
			Account: accountID,
			Name:    h.NS.Lookup(accountID),
			Balance: bal,
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Account < list[j].Account })

	resp := balances{
		LatestBlock: h.State.LatestBlock().Hash(),
		Uncommitted: h.State.MempoolLength(),
		Balances:    list,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Blocks returns the chain, or the blocks that touch the account named in
// the path.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var accountID database.AccountID
	if param := web.Param(r, "account"); param != "" {
		var err error
		if accountID, err = database.ToAccountID(param); err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
	}

	numbers := blockNumbers(h.State.Blocks())

	var blocks []block
	for _, blk := range h.State.BlocksByAccount(accountID) {
		blocks = append(blocks, h.toBlock(numbers[blk.Hash()], blk))
	}

	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Verify replays the chain checks and reports the first failure.
func (h Handlers) Verify(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := verify{
		Valid:  true,
		Blocks: len(h.State.Blocks()),
	}

	if err := h.State.Validate(); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

func (h Handlers) toTx(tran database.Tx, reward bool) tx {
	return tx{
		FromAccount: tran.From(),
		FromName:    h.NS.Lookup(tran.From()),
		To:          tran.To(),
		ToName:      h.NS.Lookup(tran.To()),
		Amount:      tran.Amount(),
		TimeStamp:   tran.Timestamp(),
		Hash:        tran.Hash(),
		Sig:         tran.Signature(),
		Reward:      reward,
	}
}

func (h Handlers) toBlock(number int, blk database.Block) block {
	trans := blk.Transactions()

	txs := make([]tx, len(trans))
	for i, tran := range trans {
		txs[i] = h.toTx(tran, number > 0 && i == 0)
	}

	return block{
		Number:       number,
		Hash:         blk.Hash(),
		PrevHash:     blk.PrevHash(),
		TimeStamp:    blk.Timestamp(),
		Nonce:        blk.Nonce(),
		Transactions: txs,
	}
}

func blockNumbers(blocks []database.Block) map[string]int {
	numbers := make(map[string]int, len(blocks))
	for i, blk := range blocks {
		numbers[blk.Hash()] = i
	}
	return numbers
}

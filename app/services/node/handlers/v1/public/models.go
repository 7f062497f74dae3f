package public

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// submitTx is the transaction a wallet submits for the mempool.
type submitTx struct {
	From      string `json:"from" validate:"required,account"`
	To        string `json:"to" validate:"required,account"`
	Amount    uint64 `json:"amount" validate:"gt=0"`
	TimeStamp string `json:"timestamp" validate:"required,datetime=2006-01-02T15:04:05.999999999Z07:00"`
	Hash      string `json:"hash" validate:"required,hexadecimal"`
	Signature string `json:"signature" validate:"required"`
}

func (st submitTx) toTx() database.Tx {
	return database.ToTx(database.TxData{
		From:      database.AccountID(st.From),
		To:        database.AccountID(st.To),
		Amount:    st.Amount,
		TimeStamp: st.TimeStamp,
		Hash:      st.Hash,
		Signature: st.Signature,
	})
}

// mineRequest names the account credited with the mining reward.
type mineRequest struct {
	RewardAddress string `json:"reward_address" validate:"omitempty,account"`
}

type tx struct {
	FromAccount database.AccountID `json:"from"`
	FromName    string             `json:"from_name"`
	To          database.AccountID `json:"to"`
	ToName      string             `json:"to_name"`
	Amount      uint64             `json:"amount"`
	TimeStamp   string             `json:"timestamp"`
	Hash        string             `json:"hash"`
	Sig         string             `json:"sig"`
	Reward      bool               `json:"reward,omitempty"`
}

type block struct {
	Number       int    `json:"number"`
	Hash         string `json:"hash"`
	PrevHash     string `json:"prev_hash"`
	TimeStamp    string `json:"timestamp"`
	Nonce        uint64 `json:"nonce"`
	Transactions []tx   `json:"txs"`
}

type balance struct {
	Account database.AccountID `json:"account"`
	Name    string             `json:"name"`
	Balance uint64             `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}

type verify struct {
	Valid  bool   `json:"valid"`
	Blocks int    `json:"blocks"`
	Error  string `json:"error,omitempty"`
}

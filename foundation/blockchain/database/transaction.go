package database

import (
	"fmt"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// Signer represents the behavior required to sign transactions. The
// wallet key manager implements this interface.
type Signer interface {
	AccountID() AccountID
	Sign(message string) (string, error)
}

// =============================================================================

// Tx is a signed transfer of value between two accounts. A Tx is immutable
// once constructed.
type Tx struct {
	to        AccountID
	from      AccountID
	amount    uint64
	timestamp string
	hash      string
	signature string
}

// NewTx constructs a new transaction from the signer's account and signs it.
func NewTx(signer Signer, to AccountID, amount uint64) (Tx, error) {
	if !to.IsAccountID() {
		return Tx{}, ErrInvalidAccount
	}

	tx := Tx{
		to:        to,
		from:      signer.AccountID(),
		amount:    amount,
		timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	tx.hash = tx.calcHash()

	sig, err := signer.Sign(tx.hash)
	if err != nil {
		return Tx{}, fmt.Errorf("signing transaction: %w", err)
	}
	tx.signature = sig

	return tx, nil
}

// To returns the account receiving the value.
func (tx Tx) To() AccountID {
	return tx.to
}

// From returns the account that signed the transaction.
func (tx Tx) From() AccountID {
	return tx.from
}

// Amount returns the value being transferred.
func (tx Tx) Amount() uint64 {
	return tx.amount
}

// Timestamp returns the time the transaction was created.
func (tx Tx) Timestamp() string {
	return tx.timestamp
}

// Hash returns the content hash computed when the transaction was created.
func (tx Tx) Hash() string {
	return tx.hash
}

// Signature returns the sender's signature over the hash.
func (tx Tx) Signature() string {
	return tx.signature
}

// Validate checks the transaction carries a value between canonical
// accounts at a canonical time, its hash matches its contents and the hash
// was signed by the sender.
func (tx Tx) Validate() error {
	if tx.amount == 0 {
		return ErrZeroAmount
	}

	if !tx.to.IsAccountID() || !tx.from.IsAccountID() {
		return ErrInvalidAccount
	}

	if !isTimestamp(tx.timestamp) {
		return ErrInvalidTimestamp
	}

	if tx.hash != tx.calcHash() {
		return ErrTxHashMismatch
	}

	if !signature.Verify(tx.hash, tx.signature, string(tx.from)) {
		return ErrInvalidSignature
	}

	return nil
}

// Verify reports whether the transaction is valid.
func (tx Tx) Verify() bool {
	return tx.Validate() == nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", short(tx.from), short(tx.to), tx.amount)
}

// calcHash computes the content hash of the transaction tuple.
func (tx Tx) calcHash() string {
	return signature.HashString(encodeTxTuple(tx))
}

// isTimestamp reports whether ts is a UTC time in the exact form NewTx
// produces. Only that form can be embedded in the block encoding.
func isTimestamp(ts string) bool {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return false
	}
	return t.UTC().Format(time.RFC3339Nano) == ts
}

// short returns an abbreviated account id for log output.
func short(a AccountID) string {
	if len(a) <= 10 {
		return string(a)
	}
	return string(a[:10])
}

// =============================================================================

// TxData represents the transaction as it is exchanged with clients and
// shown to users.
type TxData struct {
	From      AccountID `json:"from"`
	To        AccountID `json:"to"`
	Amount    uint64    `json:"amount"`
	TimeStamp string    `json:"timestamp"`
	Hash      string    `json:"hash"`
	Signature string    `json:"signature"`
}

// NewTxData constructs the data form of a transaction.
func NewTxData(tx Tx) TxData {
	return TxData{
		From:      tx.from,
		To:        tx.to,
		Amount:    tx.amount,
		TimeStamp: tx.timestamp,
		Hash:      tx.hash,
		Signature: tx.signature,
	}
}

// ToTx converts the data form into a transaction exactly as provided. The
// result must be validated before it is trusted.
func ToTx(data TxData) Tx {
	return Tx{
		to:        data.To,
		from:      data.From,
		amount:    data.Amount,
		timestamp: data.TimeStamp,
		hash:      data.Hash,
		signature: data.Signature,
	}
}

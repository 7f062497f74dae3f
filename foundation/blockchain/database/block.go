package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// GenesisTimestamp is the fixed timestamp label of the genesis block.
const GenesisTimestamp = "Beginning of time"

// MaxDifficulty is the number of hex digits in a block hash.
const MaxDifficulty = 64

// =============================================================================

// Block represents a group of transactions batched together and linked to
// the previous block in the chain. A Block is immutable and is produced by
// mining a BlockBuilder.
type Block struct {
	timestamp string
	nonce     uint64
	hash      string
	prevHash  string
	trans     []Tx
}

// Genesis constructs the genesis block. It holds no transactions and its
// hash is not required to solve the proof of work.
func Genesis() Block {
	b := Block{
		timestamp: GenesisTimestamp,
	}
	b.hash = b.ContentHash()

	return b
}

// Hash returns the hash that was stored when the block was mined.
func (b Block) Hash() string {
	return b.hash
}

// PrevHash returns the hash of the previous block in the chain.
func (b Block) PrevHash() string {
	return b.prevHash
}

// Timestamp returns the time the block was created.
func (b Block) Timestamp() string {
	return b.timestamp
}

// Nonce returns the value that solved the proof of work.
func (b Block) Nonce() uint64 {
	return b.nonce
}

// Transactions returns a copy of the ordered transactions.
func (b Block) Transactions() []Tx {
	trans := make([]Tx, len(b.trans))
	copy(trans, b.trans)
	return trans
}

// ContentHash recomputes the hash of the block from its contents.
func (b Block) ContentHash() string {
	return signature.HashString(encodeBlock(b.trans, b.timestamp, b.nonce, b.prevHash))
}

// Validate checks every transaction in the block is valid and the stored
// hash matches the block contents.
func (b Block) Validate() error {
	for i, tx := range b.trans {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("tx[%d]: %w", i, err)
		}
	}

	if b.hash != b.ContentHash() {
		return ErrBlockHashMismatch
	}

	return nil
}

// Verify reports whether the block is valid.
func (b Block) Verify() bool {
	return b.Validate() == nil
}

// Equal performs a structural comparison of two blocks.
func (b Block) Equal(other Block) bool {
	if b.timestamp != other.timestamp || b.nonce != other.nonce ||
		b.hash != other.hash || b.prevHash != other.prevHash {
		return false
	}

	var sb1, sb2 strings.Builder
	encodeTxs(&sb1, b.trans)
	encodeTxs(&sb2, other.trans)

	return sb1.String() == sb2.String()
}

// IsHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if difficulty > MaxDifficulty || uint(len(hash)) < difficulty {
		return false
	}

	for i := range difficulty {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}

// =============================================================================

// BlockBuilder represents a block that is still being assembled. Mining the
// builder produces the final Block.
type BlockBuilder struct {
	timestamp string
	nonce     uint64
	hash      string
	prevHash  string
	trans     []Tx
}

// NewBlockBuilder constructs an empty block with the current time.
func NewBlockBuilder() *BlockBuilder {
	bb := BlockBuilder{
		timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	bb.hash = bb.ContentHash()

	return &bb
}

// AddTransaction appends the transaction to the block. No validation is
// performed here.
func (bb *BlockBuilder) AddTransaction(tx Tx) {
	bb.trans = append(bb.trans, tx)
	bb.hash = bb.ContentHash()
}

// SetPreviousHash links the block to the previous block in the chain.
func (bb *BlockBuilder) SetPreviousHash(hash string) {
	bb.prevHash = hash
	bb.hash = bb.ContentHash()
}

// SetTimestamp replaces the timestamp of the block.
func (bb *BlockBuilder) SetTimestamp(timestamp string) {
	bb.timestamp = timestamp
	bb.hash = bb.ContentHash()
}

// Hash returns the hash of the block in its current state.
func (bb *BlockBuilder) Hash() string {
	return bb.hash
}

// PreviousHash returns the hash of the previous block.
func (bb *BlockBuilder) PreviousHash() string {
	return bb.prevHash
}

// Timestamp returns the time the block was created.
func (bb *BlockBuilder) Timestamp() string {
	return bb.timestamp
}

// Nonce returns the current nonce.
func (bb *BlockBuilder) Nonce() uint64 {
	return bb.nonce
}

// Transactions returns a copy of the transactions added so far.
func (bb *BlockBuilder) Transactions() []Tx {
	trans := make([]Tx, len(bb.trans))
	copy(trans, bb.trans)
	return trans
}

// ContentHash computes the hash of the block in its current state.
func (bb *BlockBuilder) ContentHash() string {
	return signature.HashString(encodeBlock(bb.trans, bb.timestamp, bb.nonce, bb.prevHash))
}

// =============================================================================

// BlockData represents the block as it is exported and shown to users.
type BlockData struct {
	Hash      string   `json:"hash"`
	PrevHash  string   `json:"prev_hash"`
	TimeStamp string   `json:"timestamp"`
	Nonce     uint64   `json:"nonce"`
	Trans     []TxData `json:"trans"`
}

// NewBlockData constructs the data form of a block.
func NewBlockData(block Block) BlockData {
	trans := make([]TxData, len(block.trans))
	for i, tx := range block.trans {
		trans[i] = NewTxData(tx)
	}

	return BlockData{
		Hash:      block.hash,
		PrevHash:  block.prevHash,
		TimeStamp: block.timestamp,
		Nonce:     block.nonce,
		Trans:     trans,
	}
}

// ToBlock converts the data form into a Block exactly as provided. The hash
// is not recomputed, so the result must be validated before it is trusted.
func ToBlock(data BlockData) Block {
	trans := make([]Tx, len(data.Trans))
	for i, txData := range data.Trans {
		trans[i] = ToTx(txData)
	}

	return Block{
		timestamp: data.TimeStamp,
		nonce:     data.Nonce,
		hash:      data.Hash,
		prevHash:  data.PrevHash,
		trans:     trans,
	}
}

package database

import (
	"strconv"
	"strings"
)

// encodingVersion prefixes every encoded block so the hash format can be
// changed in the future without ambiguity.
const encodingVersion = "ledger/v1"

// encodeTxTuple encodes the fields covered by a transaction's hash.
func encodeTxTuple(tx Tx) string {
	var sb strings.Builder
	sb.WriteString(string(tx.to))
	sb.WriteByte('\n')
	sb.WriteString(string(tx.from))
	sb.WriteByte('\n')
	sb.WriteString(strconv.FormatUint(tx.amount, 10))
	sb.WriteByte('\n')
	sb.WriteString(tx.timestamp)

	return sb.String()
}

// encodeTx writes the canonical form of a transaction as it is covered
// by the block hash.
func encodeTx(sb *strings.Builder, tx Tx) {
	sb.WriteString("{from:")
	sb.WriteString(string(tx.from))
	sb.WriteString(",to:")
	sb.WriteString(string(tx.to))
	sb.WriteString(",amount:")
	sb.WriteString(strconv.FormatUint(tx.amount, 10))
	sb.WriteString(",timestamp:")
	sb.WriteString(tx.timestamp)
	sb.WriteString(",hash:")
	sb.WriteString(tx.hash)
	sb.WriteString(",signature:")
	sb.WriteString(tx.signature)
	sb.WriteByte('}')
}

// encodeTxs writes the ordered list of transactions.
func encodeTxs(sb *strings.Builder, trans []Tx) {
	sb.WriteByte('[')
	for i, tx := range trans {
		if i > 0 {
			sb.WriteByte(',')
		}
		encodeTx(sb, tx)
	}
	sb.WriteByte(']')
}

// blockPrefix encodes everything in front of the nonce. Mining reuses the
// prefix for every attempt.
func blockPrefix(trans []Tx, timestamp string) string {
	var sb strings.Builder
	sb.WriteString(encodingVersion)
	sb.WriteByte('\n')
	encodeTxs(&sb, trans)
	sb.WriteByte('\n')
	sb.WriteString(timestamp)
	sb.WriteByte('\n')

	return sb.String()
}

// blockSuffix encodes everything after the nonce.
func blockSuffix(prevHash string) string {
	return "\n" + prevHash
}

// encodeBlock returns the canonical encoding of the block fields.
func encodeBlock(trans []Tx, timestamp string, nonce uint64, prevHash string) string {
	return blockPrefix(trans, timestamp) + strconv.FormatUint(nonce, 10) + blockSuffix(prevHash)
}

// Package signature provides helper functions for handling the blockchain
// hashing and signature needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ledgerID is an arbitrary number added to the recovery id of a signature.
// This makes it clear the signature was produced for this ledger.
// Ethereum and Bitcoin do this as well, but they use the value of 27.
const ledgerID = 29

// =============================================================================

// Hash returns the hex encoded SHA-256 digest of the data. This is the
// content hash used to address blocks and transactions.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashString returns the content hash of the specified string.
func HashString(s string) string {
	return Hash([]byte(s))
}

// Sign uses the specified private key to sign the message.
func Sign(message string, privateKey *ecdsa.PrivateKey) (string, error) {
	if privateKey == nil {
		return "", errors.New("private key is nil")
	}

	// Prepare the data for signing.
	data := stamp(message)

	// Sign the hash with the private key to produce a signature.
	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return "", err
	}

	// Check the signature against the public key of the signer.
	pub := crypto.CompressPubkey(&privateKey.PublicKey)
	if !crypto.VerifySignature(pub, data, sig[:crypto.RecoveryIDOffset]) {
		return "", errors.New("invalid signature")
	}

	// Embed the ledger id into the recovery id.
	sig[crypto.RecoveryIDOffset] += ledgerID

	return hexutil.Encode(sig), nil
}

// Verify checks the signature was produced over the message by the private
// key associated with the specified public key. Malformed signature or key
// encodings fail verification.
func Verify(message string, sig string, publicKey string) bool {
	sigBytes, err := hexutil.Decode(sig)
	if err != nil || len(sigBytes) != crypto.SignatureLength {
		return false
	}

	// Check the recovery id is either 0 or 1.
	v := sigBytes[crypto.RecoveryIDOffset] - ledgerID
	if v != 0 && v != 1 {
		return false
	}

	pub, err := ToPublicKey(publicKey)
	if err != nil {
		return false
	}

	return crypto.VerifySignature(crypto.CompressPubkey(pub), stamp(message), sigBytes[:crypto.RecoveryIDOffset])
}

// PublicKeyString returns the canonical string form of a public key, the
// hex encoded compressed point with a 0x prefix.
func PublicKeyString(pk ecdsa.PublicKey) string {
	return hexutil.Encode(crypto.CompressPubkey(&pk))
}

// ToPublicKey converts the canonical string form back into a public key.
func ToPublicKey(publicKey string) (*ecdsa.PublicKey, error) {
	b, err := hexutil.Decode(publicKey)
	if err != nil {
		return nil, err
	}

	return crypto.DecompressPubkey(b)
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents the message with the
// ledger stamp embedded into the final hash.
func stamp(message string) []byte {

	// Hash the message into a 32 byte array. This will provide
	// a data length consistency with all messages.
	msgHash := sha256.Sum256([]byte(message))

	// This stamp is used so signatures we produce are always unique
	// to this ledger.
	stamp := []byte("\x19Ledger Signed Message:\n32")

	// Hash the stamp and msgHash together in a final 32 byte array
	// that represents the message.
	return crypto.Keccak256(stamp, msgHash[:])
}

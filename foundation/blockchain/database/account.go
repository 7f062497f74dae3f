package database

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// AccountID represents an account id that is used to sign transactions and is
// associated with transactions on the blockchain. It is the canonical string
// form of the account's public key.
type AccountID string

// ToAccountID converts a hex-encoded string to an account and validates the
// hex-encoded string is formatted correctly.
func ToAccountID(hex string) (AccountID, error) {
	a := AccountID(hex)
	if !a.IsAccountID() {
		return "", errors.New("invalid account format")
	}

	return a, nil
}

// PublicKeyToAccountID converts the public key to an account value.
func PublicKeyToAccountID(pk ecdsa.PublicKey) AccountID {
	return AccountID(signature.PublicKeyString(pk))
}

// IsAccountID verifies whether the underlying data represents a valid
// hex-encoded compressed public key in its canonical form: a lowercase 0x
// prefix followed by lowercase hex. Accounts are matched by string, so any
// other spelling of the same key is rejected.
func (a AccountID) IsAccountID() bool {
	const keyLength = 33

	if !has0xPrefix(a) {
		return false
	}
	a = a[2:]

	if len(a) != 2*keyLength || !isHex(a) {
		return false
	}

	// A compressed key starts with 02 or 03.
	return a[0] == '0' && (a[1] == '2' || a[1] == '3')
}

// =============================================================================

// has0xPrefix validates the account starts with a 0x.
func has0xPrefix(a AccountID) bool {
	return len(a) >= 2 && a[0] == '0' && a[1] == 'x'
}

// isHex validates whether each byte is a lowercase hexadecimal character.
func isHex(a AccountID) bool {
	if len(a)%2 != 0 {
		return false
	}

	for _, c := range []byte(a) {
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// isHexCharacter returns bool of c being a valid lowercase hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f')
}

// Package wallet provides the key manager that owns an account's keypair.
// The account id of a key manager is the canonical string form of its
// public key.
package wallet

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyManager owns an ECDSA keypair on the secp256k1 curve and provides
// signing for the account it represents.
type KeyManager struct {
	privateKey *ecdsa.PrivateKey
	accountID  database.AccountID
}

// New generates a fresh keypair.
func New() (*KeyManager, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	return FromPrivateKey(privateKey), nil
}

// FromPrivateKey constructs a key manager for an existing private key.
func FromPrivateKey(privateKey *ecdsa.PrivateKey) *KeyManager {
	return &KeyManager{
		privateKey: privateKey,
		accountID:  database.PublicKeyToAccountID(privateKey.PublicKey),
	}
}

// FromHex constructs a key manager from a hex encoded private key.
func FromHex(hexKey string) (*KeyManager, error) {
	privateKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding key: %w", err)
	}

	return FromPrivateKey(privateKey), nil
}

// Load reads the private key stored in the specified file.
func Load(path string) (*KeyManager, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return nil, fmt.Errorf("loading key %q: %w", path, err)
	}

	return FromPrivateKey(privateKey), nil
}

// Save writes the private key to the specified file.
func (km *KeyManager) Save(path string) error {
	if err := crypto.SaveECDSA(path, km.privateKey); err != nil {
		return fmt.Errorf("saving key %q: %w", path, err)
	}

	return nil
}

// AccountID returns the account id for this key manager.
func (km *KeyManager) AccountID() database.AccountID {
	return km.accountID
}

// PublicKey returns the canonical string form of the public key.
func (km *KeyManager) PublicKey() string {
	return string(km.accountID)
}

// PrivateKey returns the underlying private key.
func (km *KeyManager) PrivateKey() *ecdsa.PrivateKey {
	return km.privateKey
}

// Sign signs the message with the private key.
func (km *KeyManager) Sign(message string) (string, error) {
	return signature.Sign(message, km.privateKey)
}

// Verify checks the signature over the message against this key
// manager's own public key.
func (km *KeyManager) Verify(message string, sig string) bool {
	return signature.Verify(message, sig, km.PublicKey())
}

// VerifyWith checks the signature over the message against the specified
// public key. An empty public key means this key manager's own key.
func (km *KeyManager) VerifyWith(message string, sig string, publicKey string) bool {
	if publicKey == "" {
		return km.Verify(message, sig)
	}

	return signature.Verify(message, sig, publicKey)
}

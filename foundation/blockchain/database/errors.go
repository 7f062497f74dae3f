package database

import (
	"errors"
	"fmt"
)

// Set of error variables for transaction validation.
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrZeroAmount         = fmt.Errorf("%w: amount must be greater than zero", ErrInvalidTransaction)
	ErrInvalidAccount     = fmt.Errorf("%w: account is not properly formatted", ErrInvalidTransaction)
	ErrInvalidTimestamp   = fmt.Errorf("%w: timestamp is not a UTC RFC3339 time", ErrInvalidTransaction)
	ErrTxHashMismatch     = fmt.Errorf("%w: hash does not match contents", ErrInvalidTransaction)
	ErrInvalidSignature   = fmt.Errorf("%w: signature does not match sender", ErrInvalidTransaction)
)

// Set of error variables for block validation and mining.
var (
	ErrInvalidBlock      = errors.New("invalid block")
	ErrBlockHashMismatch = fmt.Errorf("%w: hash does not match contents", ErrInvalidBlock)
	ErrMiningCancelled   = errors.New("mining cancelled")
	ErrDifficulty        = errors.New("difficulty out of range")
)

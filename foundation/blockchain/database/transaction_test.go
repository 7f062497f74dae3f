package database_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	fromHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	toHexKey   = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
)

func keys(t *testing.T) (*wallet.KeyManager, *wallet.KeyManager) {
	t.Helper()

	from, err := wallet.FromHex(fromHexKey)
	if err != nil {
		t.Fatalf("Should be able to load the from key: %s", err)
	}

	to, err := wallet.FromHex(toHexKey)
	if err != nil {
		t.Fatalf("Should be able to load the to key: %s", err)
	}

	return from, to
}

// =============================================================================

func Test_Transaction(t *testing.T) {
	from, to := keys(t)

	t.Log("Given the need to construct and verify transactions.")
	{
		tx, err := database.NewTx(from, to.AccountID(), 50)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a transaction: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to construct a transaction.", success)

		if !tx.Verify() {
			t.Fatalf("\t%s\tShould verify right after construction: %s", failed, tx.Validate())
		}
		t.Logf("\t%s\tShould verify right after construction.", success)

		if tx.From() != from.AccountID() || tx.To() != to.AccountID() || tx.Amount() != 50 {
			t.Fatalf("\t%s\tShould expose the sender, recipient and amount.", failed)
		}
		t.Logf("\t%s\tShould expose the sender, recipient and amount.", success)

		got := database.ToTx(database.NewTxData(tx))
		if got != tx {
			t.Fatalf("\t%s\tShould rebuild the same transaction from its data.", failed)
		}
		t.Logf("\t%s\tShould rebuild the same transaction from its data.", success)
	}
}

func Test_TransactionValidation(t *testing.T) {
	from, to := keys(t)

	zero, err := database.NewTx(from, to.AccountID(), 0)
	if err != nil {
		t.Fatalf("Should be able to construct a zero amount transaction: %s", err)
	}

	tx, err := database.NewTx(from, to.AccountID(), 50)
	if err != nil {
		t.Fatalf("Should be able to construct a transaction: %s", err)
	}

	other, err := database.NewTx(to, from.AccountID(), 50)
	if err != nil {
		t.Fatalf("Should be able to construct a transaction: %s", err)
	}

	amount := database.NewTxData(tx)
	amount.Amount = 5000

	recipient := database.NewTxData(tx)
	recipient.To = from.AccountID()

	sig := database.NewTxData(tx)
	sig.Signature = other.Signature()

	garbage := database.NewTxData(tx)
	garbage.Signature = "not a signature"

	injected := database.NewTxData(tx)
	injected.TimeStamp += ",hash:0,signature:0},{from:" + string(from.AccountID())

	ts, err := time.Parse(time.RFC3339Nano, tx.Timestamp())
	if err != nil {
		t.Fatalf("Should be able to parse the timestamp: %s", err)
	}
	local := database.NewTxData(tx)
	local.TimeStamp = ts.In(time.FixedZone("plus2", 2*60*60)).Format(time.RFC3339Nano)

	upperFrom := database.NewTxData(tx)
	upperFrom.From = database.AccountID("0x" + strings.ToUpper(string(from.AccountID()[2:])))

	upperTo := database.NewTxData(tx)
	upperTo.To = database.AccountID("0X" + string(to.AccountID()[2:]))

	tt := []struct {
		name string
		tx   database.Tx
		err  error
	}{
		{name: "zero-amount", tx: zero, err: database.ErrZeroAmount},
		{name: "tampered-amount", tx: database.ToTx(amount), err: database.ErrTxHashMismatch},
		{name: "tampered-recipient", tx: database.ToTx(recipient), err: database.ErrTxHashMismatch},
		{name: "wrong-signature", tx: database.ToTx(sig), err: database.ErrInvalidSignature},
		{name: "malformed-signature", tx: database.ToTx(garbage), err: database.ErrInvalidSignature},
		{name: "injected-timestamp", tx: database.ToTx(injected), err: database.ErrInvalidTimestamp},
		{name: "non-utc-timestamp", tx: database.ToTx(local), err: database.ErrInvalidTimestamp},
		{name: "uppercase-sender", tx: database.ToTx(upperFrom), err: database.ErrInvalidAccount},
		{name: "uppercase-recipient", tx: database.ToTx(upperTo), err: database.ErrInvalidAccount},
	}

	t.Log("Given the need to reject invalid transactions.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				err := tst.tx.Validate()
				if !errors.Is(err, tst.err) {
					t.Logf("\t\tTest %d:\tgot: %v", testID, err)
					t.Logf("\t\tTest %d:\texp: %v", testID, tst.err)
					t.Fatalf("\t%s\tTest %d:\tShould get the right error.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get the right error.", success, testID)

				if !errors.Is(err, database.ErrInvalidTransaction) {
					t.Fatalf("\t%s\tTest %d:\tShould be an invalid transaction error.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould be an invalid transaction error.", success, testID)

				if tst.tx.Verify() {
					t.Fatalf("\t%s\tTest %d:\tShould not verify.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould not verify.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_TransactionBadRecipient(t *testing.T) {
	from, to := keys(t)

	id := string(to.AccountID())

	tt := []struct {
		name string
		to   database.AccountID
	}{
		{name: "short", to: "0x1234"},
		{name: "uppercase-hex", to: database.AccountID("0x" + strings.ToUpper(id[2:]))},
		{name: "uppercase-prefix", to: database.AccountID("0X" + id[2:])},
		{name: "no-prefix", to: database.AccountID(id[2:])},
	}

	t.Log("Given the need to only send to canonical account ids.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				if tst.to.IsAccountID() {
					t.Fatalf("\t%s\tTest %d:\tShould not accept %q as an account id.", failed, testID, tst.to)
				}
				t.Logf("\t%s\tTest %d:\tShould not accept the account id.", success, testID)

				if _, err := database.ToAccountID(string(tst.to)); err == nil {
					t.Fatalf("\t%s\tTest %d:\tShould not convert the account id.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould not convert the account id.", success, testID)

				if _, err := database.NewTx(from, tst.to, 10); !errors.Is(err, database.ErrInvalidAccount) {
					t.Fatalf("\t%s\tTest %d:\tShould not construct the transaction, got %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould not construct the transaction.", success, testID)
			}

			t.Run(tst.name, f)
		}

		if !to.AccountID().IsAccountID() {
			t.Fatalf("\t%s\tShould accept the canonical account id.", failed)
		}
		t.Logf("\t%s\tShould accept the canonical account id.", success)
	}
}

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount uint64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account id or key name of the recipient.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func sendRun(cmd *cobra.Command, args []string) error {
	km, err := wallet.Load(getPrivateKeyPath())
	if err != nil {
		return err
	}

	toID, err := resolveAccount(accountPath, to)
	if err != nil {
		return err
	}

	hash, err := send(url, km, toID, amount)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}

// resolveAccount accepts an account id, or the name of a key file found in
// the accounts folder.
func resolveAccount(folder string, s string) (database.AccountID, error) {
	if accountID, err := database.ToAccountID(s); err == nil {
		return accountID, nil
	}

	ns, err := nameservice.New(folder)
	if err != nil {
		return "", err
	}

	for accountID, name := range ns.Copy() {
		if name == s {
			return accountID, nil
		}
	}

	return "", fmt.Errorf("unknown account %q", s)
}

func send(url string, km *wallet.KeyManager, to database.AccountID, amount uint64) (string, error) {
	tx, err := database.NewTx(km, to, amount)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(database.NewTxData(tx))
	if err != nil {
		return "", err
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nodeError(resp)
	}

	return tx.Hash(), nil
}

func nodeError(resp *http.Response) error {
	var er errs.Response
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Error == "" {
		return fmt.Errorf("node responded with status %d", resp.StatusCode)
	}

	if len(er.Fields) > 0 {
		return fmt.Errorf("%s: %v", er.Error, er.Fields)
	}

	return errors.New(er.Error)
}

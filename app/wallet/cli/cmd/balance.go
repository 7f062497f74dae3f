package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

type balance struct {
	Account database.AccountID `json:"account"`
	Balance uint64             `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	km, err := wallet.Load(getPrivateKeyPath())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "For Account:", km.AccountID())

	bal, err := queryBalance(url, km.AccountID())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), bal)
	return nil
}

func queryBalance(url string, accountID database.AccountID) (uint64, error) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/balances/list/%s", url, accountID))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, nodeError(resp)
	}

	var bals balances
	if err := json.NewDecoder(resp.Body).Decode(&bals); err != nil {
		return 0, err
	}

	if len(bals.Balances) == 0 {
		return 0, nil
	}

	return bals.Balances[0].Balance, nil
}

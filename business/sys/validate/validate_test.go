package validate_test

import (
	"strings"
	"testing"

	"github.com/ardanlabs/powledger/business/sys/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mineRequest struct {
	RewardAddress string `json:"reward_address" validate:"omitempty,account"`
}

type transfer struct {
	To     string `json:"to" validate:"required,account"`
	Amount uint64 `json:"amount" validate:"gt=0"`
}

func TestCheck(t *testing.T) {
	const account = "0x02a1633cafcc01ebfb6d78e39f687a1f0995c62fc95f51ead10a02ee0be551b5dc"

	t.Run("should accept a valid model", func(t *testing.T) {
		err := validate.Check(transfer{To: account, Amount: 10})
		assert.NoError(t, err)
	})

	t.Run("should accept an empty optional account", func(t *testing.T) {
		err := validate.Check(mineRequest{})
		assert.NoError(t, err)
	})

	t.Run("should report fields by json name", func(t *testing.T) {
		err := validate.Check(transfer{To: "0xbad"})
		require.Error(t, err)
		require.True(t, validate.IsFieldErrors(err))

		fields := validate.GetFieldErrors(err).Fields()
		assert.Len(t, fields, 2)
		assert.Contains(t, fields, "to")
		assert.Contains(t, fields, "amount")
		assert.Equal(t, "to must be a valid account id", fields["to"])
	})

	t.Run("should reject an account id that is not lowercase", func(t *testing.T) {
		for _, to := range []string{strings.ToUpper(account), "0X" + account[2:]} {
			err := validate.Check(transfer{To: to, Amount: 10})
			require.Error(t, err, to)
			assert.Contains(t, validate.GetFieldErrors(err).Fields(), "to")
		}
	})

	t.Run("should reject a malformed optional account", func(t *testing.T) {
		err := validate.Check(mineRequest{RewardAddress: "not an account"})
		require.Error(t, err)
		assert.Contains(t, validate.GetFieldErrors(err).Fields(), "reward_address")
	})
}

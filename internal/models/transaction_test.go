package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionAmountIsJSONNumber(t *testing.T) {
	tx := Transaction{ID: "tx-1", Amount: decimal.RequireFromString("-20.5"), Type: DirectionDebit}

	b, err := json.Marshal(tx)
	require.NoError(t, err)

	assert.Contains(t, string(b), `"amount":-20.5`)
}

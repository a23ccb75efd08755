package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/lithic-dashboard/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// lithicTx builds an upstream transaction whose last event carries polarity.
// An empty polarity leaves the transaction without events.
func lithicTx(token, status, merchant string, amount int64, currency, polarity string) models.LithicTransaction {
	tx := models.LithicTransaction{
		Token:    token,
		Status:   status,
		Created:  "2025-03-01T10:00:00Z",
		Merchant: models.LithicMerchant{Descriptor: merchant, MCC: "5812", City: "Austin", State: "TX", Country: "USA"},
		Amounts: models.LithicAmounts{
			Merchant:   models.LithicAmount{Amount: amount, Currency: currency},
			Cardholder: models.LithicAmount{Amount: amount, Currency: currency},
		},
	}
	if polarity != "" {
		tx.Events = []models.LithicEvent{
			{Token: token + "-auth", Type: "AUTHORIZATION", EffectivePolarity: models.PolarityCredit},
			{Token: token + "-last", Type: "CLEARING", EffectivePolarity: polarity},
		}
	}
	return tx
}

func TestNormalizeDebit(t *testing.T) {
	got := NormalizeTransaction(lithicTx("t1", "SETTLED", "Acme", 2000, "USD", models.PolarityDebit))

	assert.Equal(t, "t1", got.ID)
	assert.True(t, got.Amount.Equal(dec("-2000")), "amount %s", got.Amount)
	assert.Equal(t, models.DirectionDebit, got.Type)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "Acme", got.Merchant.Name)
	assert.Equal(t, "5812", got.Merchant.Category)
	assert.Equal(t, "Austin, TX, USA", got.Merchant.Location)
	assert.Equal(t, "2025-03-01T10:00:00Z", got.Date)
	assert.Equal(t, "SETTLED", got.Status)
}

func TestNormalizeLastEventDecidesPolarity(t *testing.T) {
	tx := lithicTx("t1", "SETTLED", "Acme", 500, "USD", models.PolarityCredit)
	tx.Events[0].EffectivePolarity = models.PolarityDebit

	got := NormalizeTransaction(tx)

	assert.Equal(t, models.DirectionCredit, got.Type)
	assert.True(t, got.Amount.Equal(dec("500")))
}

func TestNormalizeWithoutEventsIsCredit(t *testing.T) {
	got := NormalizeTransaction(lithicTx("t1", "PENDING", "Acme", 700, "USD", ""))

	assert.Equal(t, models.DirectionCredit, got.Type)
	assert.True(t, got.Amount.Equal(dec("700")))
}

func TestNormalizeMissingFieldsDefault(t *testing.T) {
	got := NormalizeTransaction(models.LithicTransaction{})

	assert.Equal(t, models.DirectionCredit, got.Type)
	assert.True(t, got.Amount.IsZero())
	assert.Empty(t, got.Currency)
	assert.Empty(t, got.Merchant.Name)
	assert.Empty(t, got.Merchant.Location)
}

func TestNormalizeCurrencyFallsBackToCardholder(t *testing.T) {
	tx := lithicTx("t1", "SETTLED", "Acme", 100, "", models.PolarityDebit)
	tx.Amounts.Cardholder.Currency = "EUR"

	assert.Equal(t, "EUR", NormalizeTransaction(tx).Currency)
}

func TestNormalizeLocationSkipsBlanks(t *testing.T) {
	tx := lithicTx("t1", "SETTLED", "Acme", 100, "USD", "")
	tx.Merchant.City = ""
	tx.Merchant.State = "  "

	assert.Equal(t, "USA", NormalizeTransaction(tx).Merchant.Location)
}

func TestNormalizeSignAgreesWithDirection(t *testing.T) {
	cases := []models.LithicTransaction{
		lithicTx("a", "SETTLED", "A", 100, "USD", models.PolarityDebit),
		lithicTx("b", "SETTLED", "B", -100, "USD", models.PolarityDebit),
		lithicTx("c", "SETTLED", "C", -100, "USD", models.PolarityCredit),
		lithicTx("d", "SETTLED", "D", 100, "USD", ""),
		lithicTx("e", "SETTLED", "E", 0, "USD", models.PolarityDebit),
	}
	for _, raw := range cases {
		got := NormalizeTransaction(raw)
		if got.Amount.IsZero() {
			continue
		}
		assert.Equal(t, got.Amount.IsNegative(), got.Type == models.DirectionDebit, "record %s", raw.Token)
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	raw := lithicTx("t1", "SETTLED", "Acme", 1234, "USD", models.PolarityDebit)

	first := NormalizeTransaction(raw)
	second := NormalizeTransaction(raw)

	require.True(t, first.Amount.Equal(second.Amount))
	first.Amount, second.Amount = decimal.Zero, decimal.Zero
	assert.Equal(t, first, second)
}

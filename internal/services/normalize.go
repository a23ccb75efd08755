package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/lithic-dashboard/internal/models"
)

// NormalizeTransaction converts an upstream transaction into its signed,
// display ready form. It is pure and never fails; absent fields become zero
// values.
func NormalizeTransaction(tx models.LithicTransaction) models.Transaction {
	direction := models.DirectionCredit
	if last, ok := tx.LastEvent(); ok && last.EffectivePolarity == models.PolarityDebit {
		direction = models.DirectionDebit
	}

	amount := decimal.NewFromInt(tx.Amounts.Merchant.Amount).Abs()
	if direction == models.DirectionDebit {
		amount = amount.Neg()
	}

	currency := tx.Amounts.Merchant.Currency
	if currency == "" {
		currency = tx.Amounts.Cardholder.Currency
	}

	return models.Transaction{
		ID:       tx.Token,
		Amount:   amount,
		Currency: currency,
		Merchant: models.TransactionMerchant{
			Name:     tx.Merchant.Descriptor,
			Category: tx.Merchant.MCC,
			Location: joinLocation(tx.Merchant.City, tx.Merchant.State, tx.Merchant.Country),
		},
		Date:   tx.Created,
		Status: tx.Status,
		Type:   direction,
	}
}

func NormalizeTransactions(txs []models.LithicTransaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NormalizeTransaction(tx))
	}
	return out
}

func joinLocation(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

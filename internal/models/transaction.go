package models

import "github.com/shopspring/decimal"

// Amounts and totals go over the wire as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

type TransactionMerchant struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Location string `json:"location"`
}

// Transaction is the canonical, signed view of a Lithic transaction served to
// the dashboard. Amount is negative exactly when Type is debit (zero may carry
// either direction).
type Transaction struct {
	ID       string              `json:"id"`
	Amount   decimal.Decimal     `json:"amount"`
	Currency string              `json:"currency"`
	Merchant TransactionMerchant `json:"merchant"`
	Date     string              `json:"date"`
	Status   string              `json:"status"`
	Type     Direction           `json:"type"`
}

package models

// Polarity values reported on Lithic transaction events.
const (
	PolarityCredit = "CREDIT"
	PolarityDebit  = "DEBIT"
)

// Transaction statuses that take part in grouping.
const (
	StatusSettled = "SETTLED"
	StatusPending = "PENDING"
)

type LithicAmount struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	ConversionRate string `json:"conversion_rate,omitempty"`
}

type LithicAmounts struct {
	Cardholder LithicAmount `json:"cardholder"`
	Hold       LithicAmount `json:"hold"`
	Merchant   LithicAmount `json:"merchant"`
	Settlement LithicAmount `json:"settlement"`
}

type LithicMerchant struct {
	Descriptor             string `json:"descriptor"`
	MCC                    string `json:"mcc"`
	City                   string `json:"city"`
	State                  string `json:"state"`
	Country                string `json:"country"`
	AcceptorID             string `json:"acceptor_id"`
	AcquiringInstitutionID string `json:"acquiring_institution_id"`
}

type LithicEvent struct {
	Token             string        `json:"token"`
	Type              string        `json:"type"`
	Result            string        `json:"result"`
	Created           string        `json:"created"`
	Amount            int64         `json:"amount"`
	Amounts           LithicAmounts `json:"amounts"`
	EffectivePolarity string        `json:"effective_polarity"`
	DetailedResults   []string      `json:"detailed_results,omitempty"`
}

// LithicTransaction is a transaction as returned by the Lithic API. It has no
// fixed sign: the effective polarity of its last event decides direction.
type LithicTransaction struct {
	Token                       string         `json:"token"`
	Status                      string         `json:"status"`
	Result                      string         `json:"result"`
	CardToken                   string         `json:"card_token"`
	AccountToken                string         `json:"account_token"`
	Network                     string         `json:"network"`
	Created                     string         `json:"created"`
	Updated                     string         `json:"updated"`
	Amount                      int64          `json:"amount"`
	Currency                    string         `json:"currency"`
	MerchantAmount              int64          `json:"merchant_amount"`
	SettledAmount               int64          `json:"settled_amount"`
	AuthorizationAmount         *int64         `json:"authorization_amount"`
	MerchantAuthorizationAmount *int64         `json:"merchant_authorization_amount"`
	AuthorizationCode           *string        `json:"authorization_code"`
	Amounts                     LithicAmounts  `json:"amounts"`
	Merchant                    LithicMerchant `json:"merchant"`
	Events                      []LithicEvent  `json:"events"`
}

// LastEvent returns the most recent event, if any.
func (t LithicTransaction) LastEvent() (LithicEvent, bool) {
	if len(t.Events) == 0 {
		return LithicEvent{}, false
	}
	return t.Events[len(t.Events)-1], true
}

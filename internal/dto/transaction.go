package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/lithic-dashboard/internal/models"
)

const (
	DefaultPageSize      = 10
	MaxPageSize          = 50
	MaxGroupTransactions = 50
)

type GroupBy string

const (
	GroupByMerchant GroupBy = "merchant"
	GroupByMCC      GroupBy = "mcc"
	GroupByCurrency GroupBy = "currency"
)

func (g GroupBy) Valid() bool {
	switch g {
	case GroupByMerchant, GroupByMCC, GroupByCurrency:
		return true
	default:
		return false
	}
}

// Pagination describes one page of a list. The cursor fields are only set
// when the list is paged directly against the upstream API.
type Pagination struct {
	Total         int     `json:"total"`
	Page          int     `json:"page"`
	Limit         int     `json:"limit"`
	Pages         int     `json:"pages"`
	HasMore       *bool   `json:"hasMore,omitempty"`
	NextPageToken *string `json:"nextPageToken,omitempty"`
	PrevPageToken *string `json:"prevPageToken,omitempty"`
}

type TransactionGroup struct {
	Label        string               `json:"label"`
	Transactions []models.Transaction `json:"transactions"`
	Count        int                  `json:"count"`
	Total        decimal.Decimal      `json:"total"`
	Pagination   Pagination           `json:"pagination"`
}

type FindGroupsArgs struct {
	GroupBy   GroupBy
	Page      int
	Limit     int
	CardToken *string
}

type GetGroupArgs struct {
	GroupBy   GroupBy
	CardToken *string
}

type GroupsResult struct {
	Data       []TransactionGroup `json:"data"`
	Pagination Pagination         `json:"pagination"`
}

type ListTransactionsArgs struct {
	CardToken     *string
	StartingAfter string
	EndingBefore  string
	Page          int
	Limit         int
	Result        string
	Status        string
}

type TransactionsResult struct {
	Data       []models.Transaction `json:"data"`
	Pagination Pagination           `json:"pagination"`
}

// RecordSet is the outcome of one bulk accumulation. Exhausted means the
// upstream had nothing more to give; Partial means a later page failed and
// the set stops short.
type RecordSet struct {
	Transactions []models.Transaction
	Exhausted    bool
	Partial      bool
}

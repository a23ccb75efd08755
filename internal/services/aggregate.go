package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/lithic-dashboard/internal/dto"
	"github.com/GregMSThompson/lithic-dashboard/internal/models"
	"github.com/GregMSThompson/lithic-dashboard/pkg/helpers"
)

const (
	unknownMerchant = "Unknown Merchant"
	unknownCategory = "Unknown Category"
)

// groupLabel derives the grouping key for tx. An empty label means the
// transaction cannot be keyed under groupBy and is left out.
func groupLabel(tx models.Transaction, groupBy dto.GroupBy) string {
	switch groupBy {
	case dto.GroupByMerchant:
		if tx.Merchant.Name == "" {
			return unknownMerchant
		}
		return tx.Merchant.Name
	case dto.GroupByMCC:
		if tx.Merchant.Category == "" {
			return unknownCategory
		}
		return tx.Merchant.Category
	case dto.GroupByCurrency:
		return tx.Currency
	default:
		return ""
	}
}

func groupable(tx models.Transaction) bool {
	return tx.Status == models.StatusSettled || tx.Status == models.StatusPending
}

// GroupTransactions buckets settled and pending transactions by groupBy and
// orders the groups by the magnitude of their totals, largest first. Ties
// keep the order in which each label was first seen.
func GroupTransactions(txs []models.Transaction, groupBy dto.GroupBy) []dto.TransactionGroup {
	index := map[string]int{}
	groups := []dto.TransactionGroup{}

	for _, tx := range txs {
		if !groupable(tx) {
			continue
		}
		label := groupLabel(tx, groupBy)
		if label == "" {
			continue
		}

		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, dto.TransactionGroup{
				Label:        label,
				Transactions: []models.Transaction{},
				Total:        decimal.Zero,
			})
		}

		g := &groups[i]
		g.Count++
		g.Total = g.Total.Add(tx.Amount)
		if len(g.Transactions) < dto.MaxGroupTransactions {
			g.Transactions = append(g.Transactions, tx)
		}
	}

	for i := range groups {
		groups[i].Pagination = memberPagination(groups[i].Count)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total.Abs().GreaterThan(groups[j].Total.Abs())
	})
	return groups
}

// PaginateGroups slices one page out of groups. Out of range pages come back
// empty rather than failing.
func PaginateGroups(groups []dto.TransactionGroup, page, limit int) ([]dto.TransactionGroup, dto.Pagination) {
	page, limit = clampGroupPage(page, limit)
	total := len(groups)

	start := total
	if page-1 <= total/limit {
		start = min((page-1)*limit, total)
	}
	end := min(start+limit, total)

	return groups[start:end], dto.Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: helpers.PageCount(total, limit),
	}
}

// AggregateGroups groups txs and returns the requested page of groups.
func AggregateGroups(txs []models.Transaction, groupBy dto.GroupBy, page, limit int) dto.GroupsResult {
	data, pagination := PaginateGroups(GroupTransactions(txs, groupBy), page, limit)
	return dto.GroupsResult{Data: data, Pagination: pagination}
}

// SingletonGroup wraps one transaction in a group of its own. The status
// filter does not apply to a record that was asked for by id.
func SingletonGroup(tx models.Transaction, groupBy dto.GroupBy) (*dto.TransactionGroup, bool) {
	label := groupLabel(tx, groupBy)
	if label == "" {
		return nil, false
	}
	return &dto.TransactionGroup{
		Label:        label,
		Transactions: []models.Transaction{tx},
		Count:        1,
		Total:        tx.Amount,
		Pagination:   dto.Pagination{Total: 1, Page: 1, Limit: 1, Pages: 1},
	}, true
}

func clampGroupPage(page, limit int) (int, int) {
	if limit == 0 {
		limit = dto.DefaultPageSize
	}
	return max(page, 1), helpers.Clamp(limit, 1, dto.MaxPageSize)
}

func memberPagination(count int) dto.Pagination {
	return dto.Pagination{
		Total: count,
		Page:  1,
		Limit: dto.MaxGroupTransactions,
		Pages: helpers.PageCount(count, dto.MaxGroupTransactions),
	}
}

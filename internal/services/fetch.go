package services

import (
	"context"
	"iter"

	"github.com/GregMSThompson/lithic-dashboard/internal/dto"
	"github.com/GregMSThompson/lithic-dashboard/internal/models"
	"github.com/GregMSThompson/lithic-dashboard/pkg/logger"
)

// overfetchFactor pads the record target so a page of groups survives
// records that are filtered out or cannot be keyed.
const overfetchFactor = 5

// lithicPager is the upstream surface the fetcher walks.
type lithicPager interface {
	FetchPage(ctx context.Context, cardToken string, req dto.LithicPageRequest) (dto.LithicPage, error)
}

type fetchState int

const (
	fetchExhausted fetchState = iota // upstream has nothing more
	fetchCeiling                     // record ceiling reached
	fetchStopped                     // consumer had enough
	fetchPartial                     // a later page failed
)

type transactionFetcher struct {
	lithic     lithicPager
	maxRecords int
}

func newTransactionFetcher(lithic lithicPager, maxRecords int) *transactionFetcher {
	if maxRecords <= 0 || maxRecords > dto.MaxTransactions {
		maxRecords = dto.MaxTransactions
	}
	return &transactionFetcher{lithic: lithic, maxRecords: maxRecords}
}

// StreamAll lazily yields a card's transactions in upstream pages, from the
// first page on every range. A failure on the first page is yielded as an
// error; a failure after that ends the sequence with what was already
// yielded.
func (f *transactionFetcher) StreamAll(ctx context.Context, cardToken string) iter.Seq2[[]models.LithicTransaction, error] {
	return func(yield func([]models.LithicTransaction, error) bool) {
		_, err := f.walk(ctx, cardToken, func(batch []models.LithicTransaction) bool {
			return yield(batch, nil)
		})
		if err != nil {
			yield(nil, err)
		}
	}
}

// Accumulate gathers enough normalized transactions to fill the given page
// of groups, overfetching by overfetchFactor.
func (f *transactionFetcher) Accumulate(ctx context.Context, cardToken string, page, pageSize int) (dto.RecordSet, error) {
	return f.accumulate(ctx, cardToken, f.target(page, pageSize))
}

func (f *transactionFetcher) target(page, pageSize int) int {
	page, pageSize = max(page, 1), max(pageSize, 1)
	if page > f.maxRecords || pageSize > f.maxRecords {
		return f.maxRecords
	}
	return min(page*pageSize*overfetchFactor, f.maxRecords)
}

func (f *transactionFetcher) accumulate(ctx context.Context, cardToken string, target int) (dto.RecordSet, error) {
	set := dto.RecordSet{Transactions: []models.Transaction{}}

	state, err := f.walk(ctx, cardToken, func(batch []models.LithicTransaction) bool {
		set.Transactions = append(set.Transactions, NormalizeTransactions(batch)...)
		return len(set.Transactions) < target
	})
	if err != nil {
		return set, err
	}
	set.Exhausted = state == fetchExhausted
	set.Partial = state == fetchPartial

	logger.FromContext(ctx).Info("transactions accumulated",
		"records", len(set.Transactions),
		"exhausted", set.Exhausted,
		"partial", set.Partial)
	return set, nil
}

// walk pages through the upstream with cursor pagination, handing each
// non-empty batch to visit until visit declines, the upstream runs dry, or
// the record ceiling is reached. Only a first page failure is returned.
func (f *transactionFetcher) walk(ctx context.Context, cardToken string, visit func([]models.LithicTransaction) bool) (fetchState, error) {
	log := logger.FromContext(ctx)
	cursor := dto.PageCursor{Kind: dto.FirstPage}
	processed := 0

	for {
		page, err := f.lithic.FetchPage(ctx, cardToken, dto.LithicPageRequest{
			Cursor:   cursor,
			PageSize: dto.LithicMaxPageSize,
		})
		if err != nil {
			if processed == 0 {
				return fetchExhausted, err
			}
			log.Warn("transaction fetch stopped early", "records", processed, "error", err)
			return fetchPartial, nil
		}

		batch := page.Transactions
		if len(batch) == 0 {
			return fetchExhausted, nil
		}
		if remaining := f.maxRecords - processed; len(batch) > remaining {
			batch = batch[:remaining]
		}
		processed += len(batch)

		last := !page.HasMore || page.NextCursor == "" || len(page.Transactions) < dto.LithicMaxPageSize
		if !visit(batch) {
			if last {
				return fetchExhausted, nil
			}
			return fetchStopped, nil
		}
		if last {
			return fetchExhausted, nil
		}
		if processed >= f.maxRecords {
			log.Info("transaction ceiling reached", "records", processed)
			return fetchCeiling, nil
		}
		cursor = dto.After(page.NextCursor)
	}
}

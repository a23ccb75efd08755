package services

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/GregMSThompson/lithic-dashboard/internal/dto"
	"github.com/GregMSThompson/lithic-dashboard/internal/errs"
	"github.com/GregMSThompson/lithic-dashboard/internal/models"
	"github.com/GregMSThompson/lithic-dashboard/pkg/helpers"
	"github.com/GregMSThompson/lithic-dashboard/pkg/logger"
)

// --- Dependencies (minimal interfaces scoped to this service) ---

// lithicClient is the Lithic adapter surface used by this service.
type lithicClient interface {
	FetchPage(ctx context.Context, cardToken string, req dto.LithicPageRequest) (dto.LithicPage, error)
	FetchOne(ctx context.Context, cardToken, transactionID string) (*models.LithicTransaction, error)
}

// recordCache holds recently accumulated record sets per card.
type recordCache interface {
	Get(cardToken string, minRecords int) (dto.RecordSet, bool)
	Put(cardToken string, set dto.RecordSet)
}

type TransactionsOptions struct {
	DefaultCardToken string
	MaxRecords       int
}

type transactionsService struct {
	lithic           lithicClient
	fetcher          *transactionFetcher
	cache            recordCache
	flight           singleflight.Group
	defaultCardToken string
}

func NewTransactionsService(lithic lithicClient, cache recordCache, opts TransactionsOptions) *transactionsService {
	if cache == nil {
		cache = noCache{}
	}
	return &transactionsService{
		lithic:           lithic,
		fetcher:          newTransactionFetcher(lithic, opts.MaxRecords),
		cache:            cache,
		defaultCardToken: opts.DefaultCardToken,
	}
}

// Find returns one page of transaction groups for a card.
func (s *transactionsService) Find(ctx context.Context, args dto.FindGroupsArgs) (dto.GroupsResult, error) {
	var result dto.GroupsResult

	cardToken, err := s.resolveCardToken(args.CardToken)
	if err != nil {
		return result, err
	}
	groupBy, err := resolveGroupBy(args.GroupBy)
	if err != nil {
		return result, err
	}
	page, limit := clampGroupPage(args.Page, args.Limit)

	set, err := s.records(ctx, cardToken, s.fetcher.target(page, limit))
	if err != nil {
		return result, err
	}

	result = AggregateGroups(set.Transactions, groupBy, page, limit)
	logger.FromContext(ctx).Info("transaction groups served",
		"group_by", groupBy,
		"page", page,
		"groups", result.Pagination.Total,
		"partial", set.Partial)
	return result, nil
}

// Get looks up a single transaction and returns it as a group of one.
// A missing transaction, or one without a key under the grouping, is nil.
func (s *transactionsService) Get(ctx context.Context, transactionID string, args dto.GetGroupArgs) (*dto.TransactionGroup, error) {
	cardToken, err := s.resolveCardToken(args.CardToken)
	if err != nil {
		return nil, err
	}
	groupBy, err := resolveGroupBy(args.GroupBy)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(transactionID) == "" {
		return nil, errs.NewValidationError("transaction id is required")
	}

	raw, err := s.lithic.FetchOne(ctx, cardToken, transactionID)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		logger.FromContext(ctx).Info("transaction not found", "transaction_id", transactionID)
		return nil, nil
	}

	group, ok := SingletonGroup(NormalizeTransaction(*raw), groupBy)
	if !ok {
		return nil, nil
	}
	return group, nil
}

// GetGroup returns the group with the given label, built from every record
// up to the ceiling. Nil when no record carries that label.
func (s *transactionsService) GetGroup(ctx context.Context, label string, args dto.GetGroupArgs) (*dto.TransactionGroup, error) {
	cardToken, err := s.resolveCardToken(args.CardToken)
	if err != nil {
		return nil, err
	}
	groupBy, err := resolveGroupBy(args.GroupBy)
	if err != nil {
		return nil, err
	}
	if label == "" {
		return nil, errs.NewValidationError("group label is required")
	}

	set, err := s.records(ctx, cardToken, s.fetcher.maxRecords)
	if err != nil {
		return nil, err
	}

	for _, g := range GroupTransactions(set.Transactions, groupBy) {
		if g.Label == label {
			return &g, nil
		}
	}
	return nil, nil
}

// ListTransactions pages through a card's transactions directly against the
// upstream, without grouping.
func (s *transactionsService) ListTransactions(ctx context.Context, args dto.ListTransactionsArgs) (dto.TransactionsResult, error) {
	var result dto.TransactionsResult

	cardToken, err := s.resolveCardToken(args.CardToken)
	if err != nil {
		return result, err
	}
	resultFilter := strings.ToUpper(args.Result)
	if resultFilter != "" && resultFilter != "APPROVED" && resultFilter != "DECLINED" {
		return result, errs.NewValidationError(fmt.Sprintf("unsupported result filter %q", args.Result))
	}
	limit := args.Limit
	if limit == 0 {
		limit = dto.DefaultPageSize
	}

	page, err := s.lithic.FetchPage(ctx, cardToken, dto.LithicPageRequest{
		Cursor:   dto.ResolvePageCursor(args.StartingAfter, args.EndingBefore, args.Page),
		PageSize: helpers.Clamp(limit, 1, dto.LithicMaxPageSize),
		Result:   resultFilter,
		Status:   args.Status,
	})
	if err != nil {
		return result, err
	}

	result.Data = NormalizeTransactions(page.Transactions)
	result.Pagination = dto.Pagination{
		Total:         page.Total,
		Page:          page.Page,
		Limit:         page.PageSize,
		Pages:         page.TotalPages,
		HasMore:       helpers.Ptr(page.HasMore),
		NextPageToken: optional(page.NextCursor),
		PrevPageToken: optional(page.PrevCursor),
	}
	return result, nil
}

// Stream lazily yields a card's normalized transactions one upstream page at
// a time, up to the record ceiling. The card is resolved before anything is
// fetched.
func (s *transactionsService) Stream(ctx context.Context, cardToken *string) (iter.Seq2[[]models.Transaction, error], error) {
	card, err := s.resolveCardToken(cardToken)
	if err != nil {
		return nil, err
	}
	return func(yield func([]models.Transaction, error) bool) {
		for batch, err := range s.fetcher.StreamAll(ctx, card) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(NormalizeTransactions(batch), nil) {
				return
			}
		}
	}, nil
}

// records serves an accumulated record set from cache or the upstream.
// Concurrent requests for the same card and target share one fetch.
func (s *transactionsService) records(ctx context.Context, cardToken string, target int) (dto.RecordSet, error) {
	log, ctx := logger.With(ctx, "card_token", cardToken, "target", target)
	if set, ok := s.cache.Get(cardToken, target); ok {
		log.Debug("record set cache hit", "records", len(set.Transactions))
		return set, nil
	}

	// The shared fetch outlives any one caller; each caller still stops
	// waiting when its own context ends.
	key := fmt.Sprintf("%s:%d", cardToken, target)
	shared := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(key, func() (any, error) {
		set, err := s.fetcher.accumulate(shared, cardToken, target)
		if err != nil {
			return nil, err
		}
		if !set.Partial {
			s.cache.Put(cardToken, set)
		}
		return set, nil
	})

	select {
	case <-ctx.Done():
		return dto.RecordSet{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return dto.RecordSet{}, res.Err
		}
		return res.Val.(dto.RecordSet), nil
	}
}

func (s *transactionsService) resolveCardToken(explicit *string) (string, error) {
	if token := strings.TrimSpace(helpers.Value(explicit)); token != "" {
		return token, nil
	}
	if s.defaultCardToken != "" {
		return s.defaultCardToken, nil
	}
	return "", errs.NewMissingCardTokenError()
}

func resolveGroupBy(groupBy dto.GroupBy) (dto.GroupBy, error) {
	if groupBy == "" {
		return dto.GroupByMerchant, nil
	}
	if !groupBy.Valid() {
		return "", errs.NewUnsupportedGroupByError(string(groupBy))
	}
	return groupBy, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type noCache struct{}

func (noCache) Get(string, int) (dto.RecordSet, bool) { return dto.RecordSet{}, false }
func (noCache) Put(string, dto.RecordSet)             {}

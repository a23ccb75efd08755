package lithicclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/GregMSThompson/lithic-dashboard/internal/dto"
	"github.com/GregMSThompson/lithic-dashboard/internal/errs"
	"github.com/GregMSThompson/lithic-dashboard/internal/models"
	"github.com/GregMSThompson/lithic-dashboard/pkg/helpers"
	"github.com/GregMSThompson/lithic-dashboard/pkg/logger"
)

const serviceName = "lithic"

type Options struct {
	BaseURL    string        // overrides the environment's host
	Timeout    time.Duration // per-call deadline; zero disables it
	RPS        float64       // client-side request rate; zero disables limiting
	HTTPClient *http.Client
}

type Adapter struct {
	client  *http.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
}

func NewAdapter(apiKey string, env dto.LithicEnvironment, opts Options) *Adapter {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = baseURLFor(env)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), max(1, int(opts.RPS)))
	}

	return &Adapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: opts.Timeout,
		limiter: limiter,
	}
}

type listResponse struct {
	Data         []models.LithicTransaction `json:"data"`
	HasMore      bool                       `json:"has_more"`
	Page         int                        `json:"page"`
	PageSize     int                        `json:"page_size"`
	TotalEntries int                        `json:"total_entries"`
	TotalPages   int                        `json:"total_pages"`
}

// FetchPage reads one page of a card's transactions.
func (a *Adapter) FetchPage(ctx context.Context, cardToken string, req dto.LithicPageRequest) (dto.LithicPage, error) {
	var page dto.LithicPage

	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = dto.DefaultPageSize
	}
	pageSize = helpers.Clamp(pageSize, 1, dto.LithicMaxPageSize)

	q := url.Values{}
	q.Set("card_token", cardToken)
	q.Set("page_size", strconv.Itoa(pageSize))
	switch req.Cursor.Kind {
	case dto.StartingAfter:
		q.Set("starting_after", req.Cursor.Token)
	case dto.EndingBefore:
		q.Set("ending_before", req.Cursor.Token)
	case dto.PageNumber:
		if req.Cursor.Number > 1 {
			q.Set("page", strconv.Itoa(req.Cursor.Number))
		}
	}
	if req.Result != "" {
		q.Set("result", strings.ToUpper(req.Result))
	}
	if req.Status != "" {
		q.Set("status", req.Status)
	}

	body, status, err := a.get(ctx, "/v1/transactions", q)
	if err != nil {
		return page, err
	}
	if status == http.StatusNotFound {
		return page, errs.NewNotFoundError(fmt.Sprintf("card %s not found", cardToken))
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return page, errs.NewExternalServiceError(serviceName, status, false, fmt.Sprintf("decode transactions page: %v", err))
	}

	page.Transactions = resp.Data
	if page.Transactions == nil {
		page.Transactions = []models.LithicTransaction{}
	}
	page.PageSize = pageSize
	page.Total = resp.TotalEntries
	page.Page = max(resp.Page, 1)
	page.TotalPages = resp.TotalPages
	if page.TotalPages <= 0 {
		page.TotalPages = helpers.PageCount(page.Total, pageSize)
	}
	page.HasMore = resp.HasMore || page.Page < page.TotalPages
	if n := len(page.Transactions); n > 0 {
		page.PrevCursor = page.Transactions[0].Token
		page.NextCursor = page.Transactions[n-1].Token
	}

	if logger.IsDebugEnabled(ctx) {
		logger.FromContext(ctx).Debug("lithic page fetched",
			"records", len(page.Transactions),
			"page", page.Page,
			"has_more", page.HasMore,
			"first_token", page.PrevCursor,
			"last_token", page.NextCursor)
	}
	return page, nil
}

// FetchOne looks up a single transaction. A missing transaction is reported
// as nil with no error.
func (a *Adapter) FetchOne(ctx context.Context, cardToken, transactionID string) (*models.LithicTransaction, error) {
	q := url.Values{}
	q.Set("card_token", cardToken)

	body, status, err := a.get(ctx, "/v1/transactions/"+url.PathEscape(transactionID), q)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}

	// Accept both the {"data": {...}} envelope and a bare transaction.
	var envelope struct {
		Data *models.LithicTransaction `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errs.NewExternalServiceError(serviceName, status, false, fmt.Sprintf("decode transaction: %v", err))
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	var tx models.LithicTransaction
	if err := json.Unmarshal(body, &tx); err != nil {
		return nil, errs.NewExternalServiceError(serviceName, status, false, fmt.Sprintf("decode transaction: %v", err))
	}
	if tx.Token == "" {
		return nil, nil
	}
	return &tx, nil
}

// get performs one rate limited, deadline bound GET. It returns the body and
// status for 2xx and 404 responses; every other outcome is an error.
func (a *Adapter) get(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		transient := !errors.Is(err, context.Canceled)
		return nil, 0, errs.NewExternalServiceError(serviceName, 0, transient, fmt.Sprintf("rate limiter: %v", err))
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", a.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := a.client.Do(req)
	if err != nil {
		transient := !errors.Is(err, context.Canceled)
		return nil, 0, errs.NewExternalServiceError(serviceName, 0, transient, fmt.Sprintf("GET %s: %v", path, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errs.NewExternalServiceError(serviceName, resp.StatusCode, true, fmt.Sprintf("read %s: %v", path, err))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return body, resp.StatusCode, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, resp.StatusCode, nil
	default:
		transient := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, resp.StatusCode, errs.NewExternalServiceError(serviceName, resp.StatusCode, transient,
			fmt.Sprintf("GET %s: %s: %s", path, resp.Status, truncate(body, 200)))
	}
}

func baseURLFor(env dto.LithicEnvironment) string {
	switch env {
	case dto.LithicProduction:
		return "https://api.lithic.com"
	default: // dto.LithicSandbox
		return "https://sandbox.lithic.com"
	}
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

package lithicclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GregMSThompson/lithic-dashboard/internal/dto"
	"github.com/GregMSThompson/lithic-dashboard/internal/errs"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAdapter("test-key", dto.LithicSandbox, Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
}

func TestFetchPageSendsQueryAndHeaders(t *testing.T) {
	var got *http.Request
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write([]byte(`{"data":[{"token":"t1"},{"token":"t2"}],"has_more":true,"page":1,"page_size":100,"total_entries":0,"total_pages":0}`))
	})

	page, err := a.FetchPage(context.Background(), "card-1", dto.LithicPageRequest{
		Cursor:   dto.After("t0"),
		PageSize: 500,
		Result:   "approved",
		Status:   "SETTLED",
	})
	if err != nil {
		t.Fatalf("FetchPage error: %v", err)
	}

	if got.URL.Path != "/v1/transactions" {
		t.Fatalf("path = %q", got.URL.Path)
	}
	q := got.URL.Query()
	if q.Get("card_token") != "card-1" || q.Get("page_size") != "100" || q.Get("starting_after") != "t0" {
		t.Fatalf("unexpected query: %v", q)
	}
	if q.Get("result") != "APPROVED" || q.Get("status") != "SETTLED" {
		t.Fatalf("unexpected filters: %v", q)
	}
	if q.Has("page") || q.Has("ending_before") {
		t.Fatalf("cursor request must not send page params: %v", q)
	}
	if got.Header.Get("Cache-Control") != "no-cache" {
		t.Fatalf("cache-control = %q", got.Header.Get("Cache-Control"))
	}
	if got.Header.Get("Authorization") != "test-key" {
		t.Fatalf("authorization = %q", got.Header.Get("Authorization"))
	}

	if len(page.Transactions) != 2 || page.NextCursor != "t2" || page.PrevCursor != "t1" {
		t.Fatalf("unexpected page: %+v", page)
	}
	if !page.HasMore || page.PageSize != 100 || page.TotalPages != 1 {
		t.Fatalf("unexpected pagination: %+v", page)
	}
}

func TestFetchPageNumberFallback(t *testing.T) {
	var query map[string][]string
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`{"data":[],"page":3,"total_entries":50,"total_pages":0}`))
	})

	page, err := a.FetchPage(context.Background(), "card-1", dto.LithicPageRequest{
		Cursor:   dto.ResolvePageCursor("", "", 3),
		PageSize: 0,
	})
	if err != nil {
		t.Fatalf("FetchPage error: %v", err)
	}
	if query["page"][0] != "3" || query["page_size"][0] != "10" {
		t.Fatalf("unexpected query: %v", query)
	}
	// 50 entries at 10 per page → 5 pages, page 3 of 5 has more.
	if page.TotalPages != 5 || !page.HasMore {
		t.Fatalf("unexpected pagination: %+v", page)
	}
	if page.NextCursor != "" || page.PrevCursor != "" {
		t.Fatalf("empty page must not carry cursors: %+v", page)
	}
}

func TestFetchPageUpstreamError(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"slow down"}`))
	})

	_, err := a.FetchPage(context.Background(), "card-1", dto.LithicPageRequest{})
	var extErr *errs.ExternalServiceError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExternalServiceError, got %T %v", err, err)
	}
	if !extErr.Transient || extErr.StatusCode != http.StatusTooManyRequests || extErr.Service != "lithic" {
		t.Fatalf("unexpected error fields: %+v", extErr)
	}
}

func TestFetchPageUnauthorizedIsNotTransient(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := a.FetchPage(context.Background(), "card-1", dto.LithicPageRequest{})
	var extErr *errs.ExternalServiceError
	if !errors.As(err, &extErr) || extErr.Transient {
		t.Fatalf("expected permanent ExternalServiceError, got %v", err)
	}
}

func TestFetchPageMalformedBody(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := a.FetchPage(context.Background(), "card-1", dto.LithicPageRequest{})
	var extErr *errs.ExternalServiceError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
}

func TestFetchPageTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	a := NewAdapter("k", dto.LithicSandbox, Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})

	_, err := a.FetchPage(context.Background(), "card-1", dto.LithicPageRequest{})
	var extErr *errs.ExternalServiceError
	if !errors.As(err, &extErr) || !extErr.Transient {
		t.Fatalf("expected transient ExternalServiceError, got %v", err)
	}
}

func TestFetchOneEnvelope(t *testing.T) {
	var path string
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"data":{"token":"tx-1","status":"SETTLED"}}`))
	})

	tx, err := a.FetchOne(context.Background(), "card-1", "tx-1")
	if err != nil {
		t.Fatalf("FetchOne error: %v", err)
	}
	if path != "/v1/transactions/tx-1" {
		t.Fatalf("path = %q", path)
	}
	if tx == nil || tx.Token != "tx-1" || tx.Status != "SETTLED" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
}

func TestFetchOneBareObject(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tx-2","status":"PENDING"}`))
	})

	tx, err := a.FetchOne(context.Background(), "card-1", "tx-2")
	if err != nil {
		t.Fatalf("FetchOne error: %v", err)
	}
	if tx == nil || tx.Token != "tx-2" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
}

func TestFetchOneNotFound(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	tx, err := a.FetchOne(context.Background(), "card-1", "missing")
	if err != nil {
		t.Fatalf("expected no error on 404, got %v", err)
	}
	if tx != nil {
		t.Fatalf("expected nil transaction, got %+v", tx)
	}
}

func TestFetchOneServerError(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := a.FetchOne(context.Background(), "card-1", "tx-1")
	var extErr *errs.ExternalServiceError
	if !errors.As(err, &extErr) || !extErr.Transient {
		t.Fatalf("expected transient ExternalServiceError, got %v", err)
	}
}

func TestBaseURLFor(t *testing.T) {
	if got := baseURLFor(dto.LithicProduction); got != "https://api.lithic.com" {
		t.Fatalf("production = %q", got)
	}
	if got := baseURLFor(dto.LithicSandbox); got != "https://sandbox.lithic.com" {
		t.Fatalf("sandbox = %q", got)
	}
}

func TestFetchPageRateLimitWaitIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[],"has_more":false}`))
	}))
	t.Cleanup(srv.Close)
	a := NewAdapter("test-key", dto.LithicSandbox, Options{BaseURL: srv.URL, RPS: 0.01})

	if _, err := a.FetchPage(context.Background(), "card-1", dto.LithicPageRequest{}); err != nil {
		t.Fatalf("first FetchPage error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := a.FetchPage(ctx, "card-1", dto.LithicPageRequest{})

	var extErr *errs.ExternalServiceError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExternalServiceError, got %T: %v", err, err)
	}
	if !extErr.Transient {
		t.Fatal("expected a limiter wait failure to be transient")
	}
}

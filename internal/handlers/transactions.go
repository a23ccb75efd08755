package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/lithic-dashboard/internal/dto"
	"github.com/GregMSThompson/lithic-dashboard/internal/errs"
	"github.com/GregMSThompson/lithic-dashboard/internal/response"
)

type transactionsService interface {
	Find(ctx context.Context, args dto.FindGroupsArgs) (dto.GroupsResult, error)
	Get(ctx context.Context, transactionID string, args dto.GetGroupArgs) (*dto.TransactionGroup, error)
	GetGroup(ctx context.Context, label string, args dto.GetGroupArgs) (*dto.TransactionGroup, error)
	ListTransactions(ctx context.Context, args dto.ListTransactionsArgs) (dto.TransactionsResult, error)
}

type transactionsHandlers struct {
	ResponseHandler response.ResponseHandler
	TransactionsSvc transactionsService
}

func NewTransactionsHandlers(deps *Deps) *transactionsHandlers {
	return &transactionsHandlers{
		ResponseHandler: deps.ResponseHandler,
		TransactionsSvc: deps.TransactionsSvc,
	}
}

func (h *transactionsHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Find)
	r.Get("/{id}", h.Get)
	return r
}

func (h *transactionsHandlers) GroupRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{label}", h.GetGroup)
	return r
}

func (h *transactionsHandlers) RecordRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTransactions)
	return r
}

// Find serves one page of grouped transactions.
func (h *transactionsHandlers) Find(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := intParam(q, "page", "$page")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	limit, err := intParam(q, "limit", "$limit")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	result, err := h.TransactionsSvc.Find(r.Context(), dto.FindGroupsArgs{
		GroupBy:   groupByParam(q),
		Page:      page,
		Limit:     limit,
		CardToken: stringParam(q, "card_token"),
	})
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *transactionsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	group, err := h.TransactionsSvc.Get(r.Context(), id, getGroupArgs(r.URL.Query()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if group == nil {
		h.ResponseHandler.HandleError(w, r, errs.NewNotFoundError(fmt.Sprintf("transaction %s not found", id)))
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, group)
}

func (h *transactionsHandlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	label, err := pathParam(r, "label")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	group, err := h.TransactionsSvc.GetGroup(r.Context(), label, getGroupArgs(r.URL.Query()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if group == nil {
		h.ResponseHandler.HandleError(w, r, errs.NewNotFoundError(fmt.Sprintf("group %s not found", label)))
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, group)
}

// ListTransactions serves raw, ungrouped transactions straight from Lithic.
func (h *transactionsHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := intParam(q, "page", "$page")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	limit, err := intParam(q, "limit", "$limit")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	result, err := h.TransactionsSvc.ListTransactions(r.Context(), dto.ListTransactionsArgs{
		CardToken:     stringParam(q, "card_token"),
		StartingAfter: q.Get("starting_after"),
		EndingBefore:  q.Get("ending_before"),
		Page:          page,
		Limit:         limit,
		Result:        q.Get("result"),
		Status:        q.Get("status"),
	})
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

// Health reports liveness without touching Lithic.
func (h *transactionsHandlers) Health(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

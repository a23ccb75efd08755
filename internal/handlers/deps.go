package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/lithic-dashboard/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	TransactionsSvc transactionsService
}

package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/lithic-dashboard/internal/errs"
	"github.com/GregMSThompson/lithic-dashboard/pkg/helpers"
)

func newRequest() *http.Request {
	return httptest.NewRequest(http.MethodGet, "/transactions", nil).WithContext(helpers.TestCtx())
}

func TestWriteSuccessEnvelope(t *testing.T) {
	h := New(nil)
	rec := httptest.NewRecorder()

	h.WriteSuccess(rec, newRequest(), http.StatusOK, map[string]int{"total": 3})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"total":3}}`, rec.Body.String())
}

func TestHandleErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", errs.NewNotFoundError("card missing"), http.StatusNotFound, "not_found"},
		{"validation", errs.NewValidationError("bad page"), http.StatusBadRequest, "invalid_input"},
		{"group by", errs.NewUnsupportedGroupByError("weekday"), http.StatusBadRequest, "unsupported_group_by"},
		{"card token", errs.NewMissingCardTokenError(), http.StatusBadRequest, "missing_card_token"},
		{"transient upstream", errs.NewExternalServiceError("lithic", 503, true, "down"), http.StatusServiceUnavailable, "service_unavailable"},
		{"upstream", errs.NewExternalServiceError("lithic", 401, false, "denied"), http.StatusBadGateway, "service_unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			New(nil).HandleError(rec, newRequest(), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestHandleErrorHidesUpstreamDetail(t *testing.T) {
	rec := httptest.NewRecorder()

	New(nil).HandleError(rec, newRequest(), errs.NewExternalServiceError("lithic", 500, true, "secret detail"))

	assert.NotContains(t, rec.Body.String(), "secret detail")
}

func TestHandleErrorUnwraps(t *testing.T) {
	rec := httptest.NewRecorder()

	New(nil).HandleError(rec, newRequest(), fmt.Errorf("finding groups: %w", errs.NewMissingCardTokenError()))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/lithic-dashboard/internal/dto"
	"github.com/GregMSThompson/lithic-dashboard/internal/errs"
)

// intParam reads the first of names present in q. Feathers style $page and
// $limit are accepted alongside the plain names.
func intParam(q url.Values, names ...string) (int, error) {
	for _, name := range names {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, errs.NewValidationError(fmt.Sprintf("%s must be an integer, got %q", name, raw))
		}
		return n, nil
	}
	return 0, nil
}

func stringParam(q url.Values, name string) *string {
	if !q.Has(name) {
		return nil
	}
	v := q.Get(name)
	return &v
}

func groupByParam(q url.Values) dto.GroupBy {
	return dto.GroupBy(strings.ToLower(strings.TrimSpace(q.Get("group_by"))))
}

func getGroupArgs(q url.Values) dto.GetGroupArgs {
	return dto.GetGroupArgs{
		GroupBy:   groupByParam(q),
		CardToken: stringParam(q, "card_token"),
	}
}

// pathParam returns a decoded URL parameter. chi routes on the escaped path
// whenever the request carries one, so its params are still escaped then.
func pathParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return raw, nil
	}
	v, err := url.PathUnescape(raw)
	if err != nil {
		return "", errs.NewValidationError(fmt.Sprintf("invalid %s %q", name, raw))
	}
	return v, nil
}

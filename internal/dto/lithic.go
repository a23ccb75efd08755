package dto

import "github.com/GregMSThompson/lithic-dashboard/internal/models"

const (
	// LithicMaxPageSize is the largest page the Lithic API will serve.
	LithicMaxPageSize = 100
	// MaxTransactions caps how many upstream records one aggregation holds.
	MaxTransactions = 10000
)

type LithicEnvironment string

const (
	LithicSandbox    LithicEnvironment = "sandbox"
	LithicProduction LithicEnvironment = "production"
)

type PageCursorKind int

const (
	FirstPage PageCursorKind = iota
	StartingAfter
	EndingBefore
	PageNumber
)

// PageCursor selects which upstream page to read. Token is set for the
// StartingAfter and EndingBefore kinds, Number for PageNumber.
type PageCursor struct {
	Kind   PageCursorKind
	Token  string
	Number int
}

func After(token string) PageCursor {
	return PageCursor{Kind: StartingAfter, Token: token}
}

func Before(token string) PageCursor {
	return PageCursor{Kind: EndingBefore, Token: token}
}

// ResolvePageCursor picks a cursor from loosely supplied parameters.
// Cursors win over page numbers, and a page number only counts past page one.
func ResolvePageCursor(startingAfter, endingBefore string, page int) PageCursor {
	switch {
	case startingAfter != "":
		return After(startingAfter)
	case endingBefore != "":
		return Before(endingBefore)
	case page > 1:
		return PageCursor{Kind: PageNumber, Number: page}
	default:
		return PageCursor{Kind: FirstPage}
	}
}

type LithicPageRequest struct {
	Cursor   PageCursor
	PageSize int
	Result   string
	Status   string
}

// Lithic adapter result - one page from /v1/transactions
type LithicPage struct {
	Transactions []models.LithicTransaction
	NextCursor   string
	PrevCursor   string
	Page         int
	PageSize     int
	Total        int
	TotalPages   int
	HasMore      bool
}

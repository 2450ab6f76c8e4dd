package chi

import (
	"fmt"
	"strconv"

	domcard "github.com/yz-create/magicsearch/internal/domain/card"
	"github.com/yz-create/magicsearch/internal/domain/filter"
	searchuc "github.com/yz-create/magicsearch/internal/usecase/search"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeAlreadyExists    = "already_exists"
	codeUnauthorized     = "unauthorized"
	codeForbidden        = "forbidden"
	codeVectorMismatch   = "vector_dim_mismatch"
	codeEmbeddingError   = "embedding_provider_error"
	codeInternalError    = "internal_error"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// filterRequest is one search constraint as posted by a client. Value stays
// untyped so JSON numbers, strings and booleans all reach filter validation.
type filterRequest struct {
	Variable string `json:"variable"`
	Kind     string `json:"kind"`
	Value    any    `json:"value"`
}

type searchRequest struct {
	Filters []filterRequest `json:"filters"`
}

type semanticRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type cardListResponse struct {
	Items []domcard.Card `json:"items"`
	Total int            `json:"total"`
}

type semanticResultItem struct {
	Card     domcard.Card `json:"card"`
	Distance float64      `json:"distance"`
}

type semanticListResponse struct {
	Items []semanticResultItem `json:"items"`
	Total int                  `json:"total"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// filtersFromRequest validates the posted constraints into domain filters.
func filtersFromRequest(reqs []filterRequest) ([]filter.Filter, error) {
	filters := make([]filter.Filter, 0, len(reqs))
	for i, r := range reqs {
		kind, err := filter.ParseKind(r.Kind)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}

		value := r.Value
		// JSON booleans target the boolean scalar attributes, which compare
		// against their canonical string form.
		if b, ok := value.(bool); ok {
			value = strconv.FormatBool(b)
		}

		f, err := filter.New(r.Variable, kind, value)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func semanticResultsToResponse(results []searchuc.Result) semanticListResponse {
	items := make([]semanticResultItem, len(results))
	for i, r := range results {
		items[i] = semanticResultItem{Card: r.Card, Distance: r.Distance}
	}
	return semanticListResponse{Items: items, Total: len(items)}
}

func cardsToResponse(cards []domcard.Card) cardListResponse {
	if cards == nil {
		cards = []domcard.Card{}
	}
	return cardListResponse{Items: cards, Total: len(cards)}
}

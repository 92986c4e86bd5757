package handlers

import (
	"net/http"

	"socialgraph/application/queries"
	querybus "socialgraph/application/queries/bus"
	"socialgraph/pkg/common"
	"socialgraph/pkg/errors"
)

// PostHandler serves post rankings that are not tied to a user
type PostHandler struct {
	queryBus *querybus.QueryBus
	errors   *errors.ErrorHandler
}

// NewPostHandler creates a new post handler
func NewPostHandler(queryBus *querybus.QueryBus, errorHandler *errors.ErrorHandler) *PostHandler {
	return &PostHandler{
		queryBus: queryBus,
		errors:   errorHandler,
	}
}

// TrendingPosts handles GET /posts/trending?limit=
func (h *PostHandler) TrendingPosts(w http.ResponseWriter, r *http.Request) {
	limit, err := common.QueryInt(r, "limit")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := querybus.Ask[*queries.GetTrendingPostsResult](r.Context(), h.queryBus, queries.GetTrendingPostsQuery{Limit: limit})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

package handlers

import (
	"net/http"

	"socialgraph/application/queries"
	querybus "socialgraph/application/queries/bus"
	"socialgraph/pkg/common"
	"socialgraph/pkg/errors"
)

// CommunityHandler serves whole-graph analytics
type CommunityHandler struct {
	queryBus *querybus.QueryBus
	errors   *errors.ErrorHandler
}

// NewCommunityHandler creates a new community handler
func NewCommunityHandler(queryBus *querybus.QueryBus, errorHandler *errors.ErrorHandler) *CommunityHandler {
	return &CommunityHandler{
		queryBus: queryBus,
		errors:   errorHandler,
	}
}

// DetectCommunities handles GET /communities
func (h *CommunityHandler) DetectCommunities(w http.ResponseWriter, r *http.Request) {
	result, err := querybus.Ask[*queries.DetectCommunitiesResult](r.Context(), h.queryBus, queries.DetectCommunitiesQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// FriendshipBackbone handles GET /communities/backbone
func (h *CommunityHandler) FriendshipBackbone(w http.ResponseWriter, r *http.Request) {
	result, err := querybus.Ask[*queries.GetFriendshipBackboneResult](r.Context(), h.queryBus, queries.GetFriendshipBackboneQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

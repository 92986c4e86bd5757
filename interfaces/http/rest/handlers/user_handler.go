package handlers

import (
	"net/http"

	"socialgraph/application/queries"
	querybus "socialgraph/application/queries/bus"
	"socialgraph/pkg/common"
	"socialgraph/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler serves the per-user graph and feed endpoints
type UserHandler struct {
	queryBus *querybus.QueryBus
	errors   *errors.ErrorHandler
	logger   *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(queryBus *querybus.QueryBus, errorHandler *errors.ErrorHandler, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		queryBus: queryBus,
		errors:   errorHandler,
		logger:   logger,
	}
}

// FindConnection handles GET /users/{userID}/connection/{targetID}
func (h *UserHandler) FindConnection(w http.ResponseWriter, r *http.Request) {
	query := queries.FindConnectionQuery{
		UserID:       chi.URLParam(r, "userID"),
		TargetUserID: chi.URLParam(r, "targetID"),
	}

	result, err := querybus.Ask[*queries.FindConnectionResult](r.Context(), h.queryBus, query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// MutualFriends handles GET /users/{userID}/mutual/{otherID}
func (h *UserHandler) MutualFriends(w http.ResponseWriter, r *http.Request) {
	query := queries.GetMutualFriendsQuery{
		UserID:      chi.URLParam(r, "userID"),
		OtherUserID: chi.URLParam(r, "otherID"),
	}

	result, err := querybus.Ask[*queries.GetMutualFriendsResult](r.Context(), h.queryBus, query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// SuggestFriends handles GET /users/{userID}/suggestions?limit=
func (h *UserHandler) SuggestFriends(w http.ResponseWriter, r *http.Request) {
	limit, err := common.QueryInt(r, "limit")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	query := queries.SuggestFriendsQuery{
		UserID: chi.URLParam(r, "userID"),
		Limit:  limit,
	}

	result, err := querybus.Ask[*queries.SuggestFriendsResult](r.Context(), h.queryBus, query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// RankedFeed handles GET /users/{userID}/feed?page=&limit=
func (h *UserHandler) RankedFeed(w http.ResponseWriter, r *http.Request) {
	params, err := common.ExtractPaginationParams(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	query := queries.GetRankedFeedQuery{
		UserID: chi.URLParam(r, "userID"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	result, err := querybus.Ask[*queries.GetRankedFeedResult](r.Context(), h.queryBus, query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if len(result.DroppedFromOrder) > 0 {
		h.logger.Debug("Feed page left out cyclic shares",
			zap.String("userID", query.UserID),
			zap.Int("dropped", len(result.DroppedFromOrder)),
		)
	}

	meta := common.NewMeta(r, common.BuildPaginationMeta(result.Page, result.Limit, result.HasMore))
	common.RespondWithMeta(w, http.StatusOK, result, meta)
}

package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialgraph/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPaginationParams(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    PaginationParams
		wantErr bool
	}{
		{name: "defaults", query: "", want: PaginationParams{}},
		{name: "both", query: "?page=3&limit=15", want: PaginationParams{Page: 3, Limit: 15}},
		{name: "not a number", query: "?page=two", wantErr: true},
		{name: "negative", query: "?limit=-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/feed"+tt.query, nil)
			got, err := ExtractPaginationParams(r)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRespondWithMeta(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/feed", nil)
	r = r.WithContext(WithRequestID(r.Context(), "req-7"))
	rec := httptest.NewRecorder()

	RespondWithMeta(rec, http.StatusOK, []string{"p1"}, NewMeta(r, BuildPaginationMeta(2, 10, true)))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool     `json:"success"`
		Data    []string `json:"data"`
		Meta    MetaInfo `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, []string{"p1"}, body.Data)
	assert.Equal(t, "req-7", body.Meta.RequestID)
	assert.Equal(t, &PaginationInfo{Page: 2, Limit: 10, HasMore: true, HasPrev: true}, body.Meta.Pagination)
}

func TestExtractRequestID_FallsBackToHeaders(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractRequestID(r))

	r.Header.Set("X-Amzn-Trace-Id", "Root=1-abc")
	assert.Equal(t, "Root=1-abc", ExtractRequestID(r))

	r.Header.Set("X-Request-ID", "req-1")
	assert.Equal(t, "req-1", ExtractRequestID(r))
}

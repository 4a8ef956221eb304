package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/senyabanana/rfq-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimitOffset(t *testing.T) {
	limit, offset, err := ParseLimitOffset("", "")
	require.NoError(t, err)
	assert.Equal(t, 5, limit)
	assert.Equal(t, 0, offset)

	limit, offset, err = ParseLimitOffset("20", "40")
	require.NoError(t, err)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 40, offset)

	for _, tc := range []struct{ limit, offset string }{
		{"0", ""},
		{"51", ""},
		{"abc", ""},
		{"", "-1"},
		{"", "x"},
	} {
		_, _, err := ParseLimitOffset(tc.limit, tc.offset)
		assert.Error(t, err, tc)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, Paginate(items, 2, 0))
	assert.Equal(t, []int{5}, Paginate(items, 2, 4))
	assert.Empty(t, Paginate(items, 2, 5))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains(models.AllowedBidTransitions[models.SubmittedBid], models.AcceptedBid))
	assert.False(t, Contains(models.AllowedBidTransitions[models.RejectedBid], models.AcceptedBid))
	assert.False(t, Contains(models.AllowedRFQTransitions[models.AwardedRFQ], models.ClosedRFQ))
}

func TestSendErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	SendErrorResponse(w, http.StatusConflict, "bidding closed")

	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "bidding closed", body["reason"])
}

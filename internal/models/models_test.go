package models

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRFQDisplayStatus(t *testing.T) {
	rfq := RFQ{Status: PostedRFQ}
	assert.Equal(t, PostedRFQ, rfq.DisplayStatus())

	rfq.BidCount = 2
	assert.Equal(t, BiddingRFQ, rfq.DisplayStatus())

	rfq.Status = AwardedRFQ
	assert.Equal(t, AwardedRFQ, rfq.DisplayStatus())
}

func TestRFQTerminalStates(t *testing.T) {
	for status, terminal := range map[RFQStatus]bool{
		PostedRFQ:  false,
		AwardedRFQ: true,
		ClosedRFQ:  true,
	} {
		rfq := RFQ{Status: status}
		assert.Equal(t, terminal, rfq.IsTerminal(), status)
	}
}

func TestRFQExpired(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	rfq := RFQ{Deadline: now}
	assert.True(t, rfq.Expired(now))
	assert.True(t, rfq.Expired(now.Add(time.Second)))
	assert.False(t, rfq.Expired(now.Add(-time.Second)))
}

func TestBidEffectiveQuantity(t *testing.T) {
	rfq := &RFQ{Quantity: 100}
	bid := Bid{}
	assert.Equal(t, 100.0, bid.EffectiveQuantity(rfq))
	assert.Nil(t, bid.QuantityOffered)

	q := 80.0
	bid.QuantityOffered = &q
	assert.Equal(t, 80.0, bid.EffectiveQuantity(rfq))
}

func TestErrorResponseKinds(t *testing.T) {
	var err error = NewInvalidStateError()
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.False(t, errors.Is(err, ErrNotFound))

	var resp *ErrorResponse
	assert.True(t, errors.As(err, &resp))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	assert.Equal(t, "forbidden", NewPermissionError().Error())
	assert.Nil(t, NewErrorResponse(http.StatusInternalServerError, "internal server error").Unwrap())
}

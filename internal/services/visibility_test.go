package services

import (
	"testing"

	"github.com/senyabanana/rfq-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestVisibleRFQs(t *testing.T) {
	rfqs := []models.RFQ{
		{ID: "posted", CreatedBy: "c1", Status: models.PostedRFQ},
		{ID: "bidding", CreatedBy: "c2", Status: models.PostedRFQ, BidCount: 2},
		{ID: "awarded", CreatedBy: "c1", Status: models.AwardedRFQ, BidCount: 1},
		{ID: "closed", CreatedBy: "c2", Status: models.ClosedRFQ},
	}
	ids := func(list []models.RFQ) []string {
		out := []string{}
		for _, rfq := range list {
			out = append(out, rfq.ID)
		}
		return out
	}

	tests := []struct {
		name     string
		role     models.Role
		viewerId string
		want     []string
	}{
		{"company sees own in every status", models.CompanyRole, "c1", []string{"posted", "awarded"}},
		{"company without id sees nothing", models.CompanyRole, "", []string{}},
		{"supplier sees open", models.SupplierRole, "s1", []string{"posted", "bidding"}},
		{"consumer sees open", models.ConsumerRole, "u1", []string{"posted", "bidding"}},
		{"anonymous sees open", models.AnonymousRole, "", []string{"posted", "bidding"}},
		{"missing role sees open", "", "", []string{"posted", "bidding"}},
		{"unknown role sees nothing", models.Role("admin"), "a1", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(VisibleRFQs(rfqs, tt.role, tt.viewerId)))
		})
	}
}

func TestVisibleBids(t *testing.T) {
	rfqs := []models.RFQ{
		{ID: "r1", CreatedBy: "c1"},
		{ID: "r2", CreatedBy: "c2"},
	}
	bids := []models.Bid{
		{ID: "b1", RFQID: "r1", SupplierID: "s1"},
		{ID: "b2", RFQID: "r1", SupplierID: "s2"},
		{ID: "b3", RFQID: "r2", SupplierID: "s1"},
	}
	ids := func(list []models.Bid) []string {
		out := []string{}
		for _, bid := range list {
			out = append(out, bid.ID)
		}
		return out
	}

	tests := []struct {
		name     string
		role     models.Role
		viewerId string
		rfqId    string
		want     []string
	}{
		{"company sees bids on own rfqs", models.CompanyRole, "c1", "", []string{"b1", "b2"}},
		{"company filtered by foreign rfq", models.CompanyRole, "c1", "r2", []string{}},
		{"supplier sees own bids", models.SupplierRole, "s1", "", []string{"b1", "b3"}},
		{"supplier filtered by rfq", models.SupplierRole, "s1", "r2", []string{"b3"}},
		{"consumer sees nothing", models.ConsumerRole, "u1", "", []string{}},
		{"anonymous sees nothing", models.AnonymousRole, "", "", []string{}},
		{"supplier without id sees nothing", models.SupplierRole, "", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(VisibleBids(bids, rfqs, tt.role, tt.viewerId, tt.rfqId)))
		})
	}
}

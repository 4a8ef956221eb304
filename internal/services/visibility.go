package services

import "github.com/senyabanana/rfq-service/internal/models"

// VisibleRFQs возвращает RFQ, которые может видеть пользователь с указанной ролью.
// Компания видит только свои RFQ во всех статусах. Остальные видят открытые RFQ,
// в том числе с истёкшим сроком.
func VisibleRFQs(all []models.RFQ, role models.Role, viewerId string) []models.RFQ {
	visible := []models.RFQ{}
	for _, rfq := range all {
		switch role {
		case models.CompanyRole:
			if viewerId != "" && rfq.CreatedBy == viewerId {
				visible = append(visible, rfq)
			}
		case models.SupplierRole, models.ConsumerRole, models.AnonymousRole, "":
			if display := rfq.DisplayStatus(); display == models.PostedRFQ || display == models.BiddingRFQ {
				visible = append(visible, rfq)
			}
		}
	}
	return visible
}

// VisibleBids возвращает предложения, которые может видеть пользователь.
// Цены видны только двум сторонам: компании-автору RFQ и поставщику.
func VisibleBids(allBids []models.Bid, allRfqs []models.RFQ, role models.Role, viewerId, rfqId string) []models.Bid {
	visible := []models.Bid{}
	if viewerId == "" {
		return visible
	}

	var ownRfqs map[string]bool
	if role == models.CompanyRole {
		ownRfqs = make(map[string]bool)
		for _, rfq := range allRfqs {
			if rfq.CreatedBy == viewerId {
				ownRfqs[rfq.ID] = true
			}
		}
	}

	for _, bid := range allBids {
		if rfqId != "" && bid.RFQID != rfqId {
			continue
		}
		switch role {
		case models.CompanyRole:
			if ownRfqs[bid.RFQID] {
				visible = append(visible, bid)
			}
		case models.SupplierRole:
			if bid.SupplierID == viewerId {
				visible = append(visible, bid)
			}
		}
	}
	return visible
}

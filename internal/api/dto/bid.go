package dto

import "loadboard-service/internal/domain"

type BidRequest struct {
	CarrierName  string  `json:"carrierName"`
	Amount       float64 `json:"amount"`
	CarrierEmail string  `json:"carrierEmail"`
	TransitDays  int     `json:"transitDays"`
}

func (r BidRequest) ToInput() domain.BidInput {
	return domain.BidInput{
		CarrierName:  r.CarrierName,
		Amount:       r.Amount,
		CarrierEmail: r.CarrierEmail,
		TransitDays:  r.TransitDays,
	}
}

type DraftResponse struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Mailto  string `json:"mailto"`
}

type BidResponse struct {
	Bid   domain.Bid    `json:"bid"`
	Draft DraftResponse `json:"draft"`
}

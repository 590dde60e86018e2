package service

import (
	"github.com/shopspring/decimal"

	"staybook/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// ApplyFees fills the candidate's money fields from the resolved property's
// fee schedule. Fees stated on the document win over the property defaults.
// Commission is a percentage of the total; net is the total minus commission,
// cleaning and check-in fees.
func ApplyFees(c *domain.CandidateReservation, p *domain.Property) {
	if p == nil {
		return
	}
	if c.CleaningFee <= 0 {
		c.CleaningFee = p.CleaningCost
	}
	if c.CheckInFee <= 0 {
		c.CheckInFee = p.CheckInFee
	}

	total := decimal.NewFromFloat(c.TotalAmount)
	commission := total.Mul(decimal.NewFromFloat(p.CommissionPct)).Div(hundred).Round(2)
	net := total.
		Sub(commission).
		Sub(decimal.NewFromFloat(c.CleaningFee)).
		Sub(decimal.NewFromFloat(c.CheckInFee)).
		Round(2)

	c.CommissionAmount = commission.InexactFloat64()
	c.TeamPayment = p.TeamPayment
	c.NetAmount = net.InexactFloat64()
}

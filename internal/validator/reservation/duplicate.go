package reservation

import (
	"staybook/internal/domain"
	"staybook/internal/property"
)

// Overlaps reports whether two inclusive stay intervals share at least one day.
func Overlaps(a, b domain.DateRange) bool {
	return !a.Start.After(b.End) && !b.Start.After(a.End)
}

// FindDuplicate returns the first non-cancelled reservation on the candidate's
// property whose stay overlaps the candidate's, or nil. Name similarity is
// attached to the match for the operator but does not decide the outcome.
func FindDuplicate(c *domain.CandidateReservation, existing []domain.Reservation) *domain.DuplicateMatch {
	if c.PropertyID == 0 {
		return nil
	}
	stay, ok := c.StayRange()
	if !ok {
		return nil
	}
	for i := range existing {
		r := &existing[i]
		if r.PropertyID != c.PropertyID || r.Status == domain.ReservationStatusCancelled {
			continue
		}
		if !Overlaps(r.StayRange(), stay) {
			continue
		}
		return &domain.DuplicateMatch{
			ReservationID:  r.ID,
			PropertyID:     r.PropertyID,
			GuestName:      r.GuestName,
			CheckInDate:    r.CheckIn.Format(domain.DateLayout),
			CheckOutDate:   r.CheckOut.Format(domain.DateLayout),
			TotalAmount:    r.TotalAmount,
			NameSimilarity: property.NameSimilarity(c.GuestName, r.GuestName),
		}
	}
	return nil
}

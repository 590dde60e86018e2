package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"staybook/internal/domain"
	"staybook/internal/port"
	"staybook/internal/validator/reservation"
)

// persister runs the duplicate check and the store write for enriched candidates.
type persister struct {
	store       port.ReservationStore
	concurrency int
	logger      *zap.Logger
}

// run decides the terminal outcome of every candidate. Candidates of one
// property are handled sequentially against a snapshot that grows with each
// save; different properties run concurrently. Results are indexed like
// candidates.
func (p *persister) run(ctx context.Context, candidates []domain.CandidateReservation, save bool) []domain.ItemResult {
	results := make([]domain.ItemResult, len(candidates))
	groups := make(map[int64][]int)
	var order []int64

	for i := range candidates {
		c := &candidates[i]
		results[i].Index = i
		switch {
		case c.PropertyID == 0:
			results[i].Outcome = domain.OutcomeUnresolved
			results[i].Err = domain.ErrPropertyNotFound
		case c.Validation != nil && !c.Validation.IsValid:
			results[i].Outcome = domain.OutcomeInvalid
			results[i].Err = fmt.Errorf("%w: %s", domain.ErrInvalidReservation, strings.Join(c.Validation.Errors, "; "))
		default:
			if _, seen := groups[c.PropertyID]; !seen {
				order = append(order, c.PropertyID)
			}
			groups[c.PropertyID] = append(groups[c.PropertyID], i)
		}
	}

	limit := p.concurrency
	if limit <= 0 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for _, propertyID := range order {
		indexes := groups[propertyID]
		g.Go(func() error {
			p.runProperty(ctx, propertyID, candidates, indexes, results, save)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// runProperty writes only to the candidates and results at indexes, which no
// other goroutine touches.
func (p *persister) runProperty(ctx context.Context, propertyID int64, candidates []domain.CandidateReservation, indexes []int, results []domain.ItemResult, save bool) {
	if p.store == nil {
		for _, i := range indexes {
			results[i].Outcome = domain.OutcomeReview
		}
		return
	}
	existing, err := p.store.ListReservationsForProperty(ctx, propertyID)
	if err != nil {
		p.logger.Error("service.persister.runProperty: failed to load reservations",
			zap.Int64("property_id", propertyID), zap.Error(err))
		for _, i := range indexes {
			results[i].Outcome = domain.OutcomeSaveFailed
			results[i].Err = fmt.Errorf("loading existing reservations: %w", err)
		}
		return
	}

	for _, i := range indexes {
		c := &candidates[i]
		if dup := reservation.FindDuplicate(c, existing); dup != nil {
			results[i].Outcome = domain.OutcomeDuplicate
			results[i].Duplicate = dup
			results[i].Err = fmt.Errorf("%w: overlaps reservation #%d (%s to %s)",
				domain.ErrDuplicateReservation, dup.ReservationID, dup.CheckInDate, dup.CheckOutDate)
			continue
		}
		if !save {
			results[i].Outcome = domain.OutcomeReview
			continue
		}

		r, err := toReservation(c)
		if err != nil {
			results[i].Outcome = domain.OutcomeInvalid
			results[i].Err = err
			continue
		}
		if err := p.store.CreateReservation(ctx, r); err != nil {
			if errors.Is(err, domain.ErrDuplicateReservation) {
				results[i].Outcome = domain.OutcomeDuplicate
			} else {
				results[i].Outcome = domain.OutcomeSaveFailed
			}
			results[i].Err = err
			p.logger.Warn("service.persister.runProperty: create reservation failed",
				zap.Int64("property_id", propertyID), zap.String("guest", c.GuestName), zap.Error(err))
			continue
		}

		results[i].Outcome = domain.OutcomeSaved
		results[i].Saved = r
		existing = append(existing, *r)
	}
}

func toReservation(c *domain.CandidateReservation) (*domain.Reservation, error) {
	stay, ok := c.StayRange()
	if !ok {
		return nil, fmt.Errorf("%w: unparseable stay dates", domain.ErrInvalidReservation)
	}
	nights := c.Nights
	if nights == 0 {
		nights = int(stay.End.Sub(stay.Start) / (24 * time.Hour))
	}
	return &domain.Reservation{
		PropertyID:       c.PropertyID,
		ExternalRef:      c.ReservationID,
		GuestName:        c.GuestName,
		GuestCount:       c.GuestCount,
		Phone:            c.Phone,
		Country:          c.Country,
		Platform:         c.Platform,
		CheckIn:          stay.Start,
		CheckOut:         stay.End,
		Nights:           nights,
		TotalAmount:      c.TotalAmount,
		CleaningFee:      c.CleaningFee,
		CheckInFee:       c.CheckInFee,
		CommissionAmount: c.CommissionAmount,
		TeamPayment:      c.TeamPayment,
		NetAmount:        c.NetAmount,
		Notes:            c.Notes,
		SourceFile:       c.SourceFile,
		NeedsReview:      c.NeedsReview,
		Status:           domain.ReservationStatusConfirmed,
	}, nil
}

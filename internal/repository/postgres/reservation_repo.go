package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"staybook/internal/domain"
	"staybook/internal/port"
)

const reservationColumns = `id, property_id, external_ref, guest_name, guest_count, phone, country, platform,
	check_in, check_out, nights, total_amount, cleaning_fee, checkin_fee, commission_amount,
	team_payment, net_amount, notes, source_file, needs_review, status, created_at`

type reservationRepo struct {
	db *sqlx.DB
}

// NewReservationRepo creates a new PostgreSQL-backed ReservationStore.
func NewReservationRepo(db *sqlx.DB) port.ReservationStore {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) ListReservationsForProperty(ctx context.Context, propertyID int64) ([]domain.Reservation, error) {
	reservations := []domain.Reservation{}
	err := r.db.SelectContext(ctx, &reservations,
		"SELECT "+reservationColumns+" FROM reservations WHERE property_id = $1 ORDER BY check_in, id",
		propertyID)
	if err != nil {
		return nil, fmt.Errorf("reservationRepo.ListReservationsForProperty: %w", err)
	}
	return reservations, nil
}

func (r *reservationRepo) CreateReservation(ctx context.Context, res *domain.Reservation) error {
	if err := checkReservation(res); err != nil {
		return err
	}
	if res.Status == "" {
		res.Status = domain.ReservationStatusConfirmed
	}

	query := `INSERT INTO reservations (property_id, external_ref, guest_name, guest_count, phone, country,
		platform, check_in, check_out, nights, total_amount, cleaning_fee, checkin_fee, commission_amount,
		team_payment, net_amount, notes, source_file, needs_review, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		res.PropertyID, res.ExternalRef, res.GuestName, res.GuestCount, res.Phone, res.Country,
		res.Platform, res.CheckIn, res.CheckOut, res.Nights, res.TotalAmount, res.CleaningFee,
		res.CheckInFee, res.CommissionAmount, res.TeamPayment, res.NetAmount, res.Notes,
		res.SourceFile, res.NeedsReview, res.Status).
		Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		switch pgCode(err) {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s already stored for property %d", domain.ErrDuplicateReservation, res.ExternalRef, res.PropertyID)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: id %d", domain.ErrPropertyNotFound, res.PropertyID)
		}
		return fmt.Errorf("reservationRepo.CreateReservation: %w", err)
	}
	return nil
}

func checkReservation(res *domain.Reservation) error {
	var problems []string
	if res.PropertyID == 0 {
		problems = append(problems, "property id is missing")
	}
	if strings.TrimSpace(res.GuestName) == "" {
		problems = append(problems, "guest name is missing")
	}
	if res.CheckIn.IsZero() || res.CheckOut.IsZero() {
		problems = append(problems, "stay dates are missing")
	} else if res.CheckOut.Before(res.CheckIn) {
		problems = append(problems, "check-out is before check-in")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidReservation, strings.Join(problems, "; "))
	}
	return nil
}

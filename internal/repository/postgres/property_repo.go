package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"staybook/internal/domain"
	"staybook/internal/port"
)

const propertyColumns = `id, name, cleaning_cost, checkin_fee, commission_pct, team_payment, created_at`

type propertyRepo struct {
	db *sqlx.DB
}

// NewPropertyRepo creates a new PostgreSQL-backed PropertyRepository.
func NewPropertyRepo(db *sqlx.DB) port.PropertyRepository {
	return &propertyRepo{db: db}
}

func (r *propertyRepo) ListProperties(ctx context.Context) ([]domain.Property, error) {
	properties := []domain.Property{}
	err := r.db.SelectContext(ctx, &properties,
		"SELECT "+propertyColumns+" FROM properties ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("propertyRepo.ListProperties: %w", err)
	}
	return properties, nil
}

func (r *propertyRepo) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	var p domain.Property
	err := r.db.GetContext(ctx, &p,
		"SELECT "+propertyColumns+" FROM properties WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("propertyRepo.GetProperty: %w", err)
	}
	return &p, nil
}

func (r *propertyRepo) UpsertProperty(ctx context.Context, p *domain.Property) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("propertyRepo.UpsertProperty: property name is empty")
	}

	query := `INSERT INTO properties (name, cleaning_cost, checkin_fee, commission_pct, team_payment)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			cleaning_cost = EXCLUDED.cleaning_cost,
			checkin_fee = EXCLUDED.checkin_fee,
			commission_pct = EXCLUDED.commission_pct,
			team_payment = EXCLUDED.team_payment
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.Name, p.CleaningCost, p.CheckInFee, p.CommissionPct, p.TeamPayment).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("propertyRepo.UpsertProperty: %w", err)
	}
	return nil
}

package port

import (
	"context"

	"staybook/internal/domain"
)

// PropertyCatalog defines read access to the property catalog.
type PropertyCatalog interface {
	ListProperties(ctx context.Context) ([]domain.Property, error)
	GetProperty(ctx context.Context, id int64) (*domain.Property, error)
}

// PropertyRepository adds catalog maintenance on top of PropertyCatalog.
// UpsertProperty matches on name and fills in ID and CreatedAt.
type PropertyRepository interface {
	PropertyCatalog
	UpsertProperty(ctx context.Context, p *domain.Property) error
}

// ReservationStore defines the contract for reservation persistence.
type ReservationStore interface {
	// ListReservationsForProperty returns every reservation of the property, cancelled ones included.
	ListReservationsForProperty(ctx context.Context, propertyID int64) ([]domain.Reservation, error)
	// CreateReservation inserts r and sets its ID and CreatedAt.
	CreateReservation(ctx context.Context, r *domain.Reservation) error
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

func day(s string) time.Time {
	d, _ := time.Parse(domain.DateLayout, s)
	return d
}

func TestPropertyRepo_ListProperties(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM properties ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "cleaning_cost", "checkin_fee", "commission_pct", "team_payment", "created_at"}).
			AddRow(1, "Aroeira I", 50.0, 0.0, 15.0, 40.0, now).
			AddRow(2, "Aroeira II", 60.0, 10.0, 15.0, 40.0, now))

	got, err := NewPropertyRepo(db).ListProperties(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Aroeira II", got[1].Name)
	assert.Equal(t, 10.0, got[1].CheckInFee)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepo_GetPropertyNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM properties WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := NewPropertyRepo(db).GetProperty(context.Background(), 9)

	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepo_UpsertProperty(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (name) DO UPDATE")).
		WithArgs("Aroeira III", 70.0, 0.0, 15.0, 40.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, now))

	p := &domain.Property{Name: "  Aroeira III ", CleaningCost: 70, CommissionPct: 15, TeamPayment: 40}
	err := NewPropertyRepo(db).UpsertProperty(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, "Aroeira III", p.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepo_UpsertPropertyEmptyName(t *testing.T) {
	db, _ := newMockDB(t)

	err := NewPropertyRepo(db).UpsertProperty(context.Background(), &domain.Property{Name: " "})

	assert.Error(t, err)
}

func TestReservationRepo_ListReservationsForProperty(t *testing.T) {
	db, mock := newMockDB(t)
	cols := []string{"id", "property_id", "external_ref", "guest_name", "guest_count", "phone", "country", "platform",
		"check_in", "check_out", "nights", "total_amount", "cleaning_fee", "checkin_fee", "commission_amount",
		"team_payment", "net_amount", "notes", "source_file", "needs_review", "status", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE property_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			41, 1, "abc", "M. Santos", 2, "+351912345678", "Portugal", "Airbnb",
			day("2025-06-01"), day("2025-06-07"), 6, 900.0, 50.0, 0.0, 135.0,
			40.0, 715.0, "", "may.pdf", false, "confirmed", time.Now()))

	got, err := NewReservationRepo(db).ListReservationsForProperty(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(41), got[0].ID)
	assert.Equal(t, domain.PlatformAirbnb, got[0].Platform)
	assert.Equal(t, day("2025-06-07"), got[0].CheckOut)
	require.NoError(t, mock.ExpectationsWereMet())
}

func validReservation() *domain.Reservation {
	return &domain.Reservation{
		PropertyID: 1, ExternalRef: "abc", GuestName: "Maria Santos", GuestCount: 2,
		Platform: domain.PlatformAirbnb, CheckIn: day("2025-06-10"), CheckOut: day("2025-06-15"),
		Nights: 5, TotalAmount: 850,
	}
}

func TestReservationRepo_CreateReservation(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, now))

	res := validReservation()
	err := NewReservationRepo(db).CreateReservation(context.Background(), res)

	require.NoError(t, err)
	assert.Equal(t, int64(7), res.ID)
	assert.Equal(t, domain.ReservationStatusConfirmed, res.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepo_CreateReservationErrors(t *testing.T) {
	tests := []struct {
		name   string
		dbErr  error
		target error
	}{
		{"unique violation", &pgconn.PgError{Code: codeUniqueViolation}, domain.ErrDuplicateReservation},
		{"unknown property", &pgconn.PgError{Code: codeForeignKeyViolation}, domain.ErrPropertyNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reservations")).WillReturnError(tt.dbErr)

			err := NewReservationRepo(db).CreateReservation(context.Background(), validReservation())

			assert.ErrorIs(t, err, tt.target)
		})
	}

	t.Run("other failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reservations")).WillReturnError(errors.New("conn reset"))

		err := NewReservationRepo(db).CreateReservation(context.Background(), validReservation())

		assert.ErrorContains(t, err, "conn reset")
		assert.NotErrorIs(t, err, domain.ErrDuplicateReservation)
	})
}

func TestReservationRepo_CreateReservationRejectsInvalid(t *testing.T) {
	db, mock := newMockDB(t)
	res := validReservation()
	res.PropertyID = 0
	res.CheckOut = day("2025-06-01")

	err := NewReservationRepo(db).CreateReservation(context.Background(), res)

	assert.ErrorIs(t, err, domain.ErrInvalidReservation)
	assert.ErrorContains(t, err, "property id is missing")
	assert.ErrorContains(t, err, "check-out is before check-in")
	require.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-booking-api/internal/domain"
)

const bookingIDConstraint = "bookings_booking_id_key"

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		// availability check and decrement in one statement
		query := `
			UPDATE shows
			SET available_seats = available_seats - $1
			WHERE id = $2 AND available_seats >= $1
			RETURNING price
		`

		var price domain.Amount

		err := tx.QueryRow(ctx, query, booking.SeatsBooked, booking.ShowID).Scan(&price)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return rejectedReservation(ctx, tx, booking)
			}

			return err
		}

		total, err := domain.TotalAmount(price, booking.SeatsBooked)
		if err != nil {
			return err
		}

		query = `
			INSERT INTO bookings (
				booking_id, show_id, customer_name, customer_email,
				customer_phone, seats_booked, total_amount
			)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
			RETURNING id, status, booking_date
		`

		err = tx.QueryRow(
			ctx,
			query,
			booking.BookingID,
			booking.ShowID,
			booking.CustomerName,
			booking.CustomerEmail,
			booking.CustomerPhone,
			booking.SeatsBooked,
			total).Scan(&booking.ID, &booking.Status, &booking.BookingDate)

		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) &&
				pgErr.Code == pgerrcode.UniqueViolation &&
				pgErr.ConstraintName == bookingIDConstraint {
				return domain.ErrDuplicateBookingID
			}

			return err
		}

		booking.TotalAmount = total

		return nil
	})
}

// rejectedReservation tells a missing show apart from a sold-out one after the
// conditional decrement matched no row.
func rejectedReservation(ctx context.Context, tx pgx.Tx, booking *domain.Booking) error {
	var available int

	err := tx.QueryRow(ctx, `SELECT available_seats FROM shows WHERE id = $1`, booking.ShowID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrShowNotFound
		}

		return err
	}

	return fmt.Errorf("%w: requested %d, available %d", domain.ErrInsufficientSeats, booking.SeatsBooked, available)
}

func (p *PostgresBookingRepository) GetLatest(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id,
			b.booking_id,
			b.show_id,
			b.customer_name,
			b.customer_email,
			COALESCE(b.customer_phone, ''),
			b.seats_booked,
			b.total_amount,
			b.status,
			b.booking_date,
			s.show_date,
			s.show_time::text,
			s.theater_name,
			m.name
		FROM bookings b
		JOIN shows s ON b.show_id = s.id
		JOIN movies m ON s.movie_id = m.id
		ORDER BY b.booking_date DESC, b.id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := p.db.Query(ctx, query, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	bookings := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var booking domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&booking.ID,
			&booking.BookingID,
			&booking.ShowID,
			&booking.CustomerName,
			&booking.CustomerEmail,
			&booking.CustomerPhone,
			&booking.SeatsBooked,
			&booking.TotalAmount,
			&booking.Status,
			&booking.BookingDate,
			&booking.ShowDate,
			&booking.ShowTime,
			&booking.TheaterName,
			&booking.MovieName,
		)
		if err != nil {
			return nil, nil, err
		}

		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return bookings, metadata, nil
}

// GetByReference looks a booking up by its public id, or by its internal id
// when ref is numeric.
func (p *PostgresBookingRepository) GetByReference(ctx context.Context, ref string) (*domain.BookingDetail, error) {
	where := "b.booking_id = $1"
	args := []any{ref}

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		where = "b.booking_id = $1 OR b.id = $2"
		args = append(args, id)
	}

	query := `
		SELECT
			b.id,
			b.booking_id,
			b.show_id,
			b.customer_name,
			b.customer_email,
			COALESCE(b.customer_phone, ''),
			b.seats_booked,
			b.total_amount,
			b.status,
			b.booking_date,
			s.show_date,
			s.show_time::text,
			s.theater_name,
			s.theater_location,
			s.price,
			m.name,
			m.poster_url
		FROM bookings b
		JOIN shows s ON b.show_id = s.id
		JOIN movies m ON s.movie_id = m.id
		WHERE ` + where + `
		ORDER BY b.id
		LIMIT 1
	`

	var booking domain.BookingDetail

	err := p.db.QueryRow(ctx, query, args...).Scan(
		&booking.ID,
		&booking.BookingID,
		&booking.ShowID,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.SeatsBooked,
		&booking.TotalAmount,
		&booking.Status,
		&booking.BookingDate,
		&booking.ShowDate,
		&booking.ShowTime,
		&booking.TheaterName,
		&booking.TheaterLocation,
		&booking.Price,
		&booking.MovieName,
		&booking.MoviePosterUrl,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}

		return nil, err
	}

	return &booking, nil
}

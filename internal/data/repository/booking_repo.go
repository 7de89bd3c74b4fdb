package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ehousing-booking/internal/data/entity"
	"ehousing-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindAll(ctx context.Context) ([]*entity.Booking, error)
	FindByUserIDWithPost(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error)

	// Stats
	Count(ctx context.Context) (int64, error)
	CountCreatedBefore(ctx context.Context, before time.Time) (int64, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, start_date, end_date, status, type, post_id, user_id, checkout_id, created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.StartDate,
		booking.EndDate,
		booking.Status,
		booking.Type,
		booking.PostID,
		booking.UserID,
		booking.CheckoutID,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("post_id", booking.PostID.String()),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), translate(err))
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindAll(ctx context.Context) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find bookings", zap.Error(err))
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer rows.Close()

	bookings := []*entity.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// FindByUserIDWithPost returns the user's bookings with the booked post attached.
func (r *bookingRepository) FindByUserIDWithPost(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT b.id, b.start_date, b.end_date, b.status, b.type, b.post_id, b.user_id,
		       b.checkout_id, b.created_at, b.updated_at,
		       p.id, p.title, p.price, p.address, p.city, p.user_id, p.created_at
		FROM bookings b
		LEFT JOIN posts p ON p.id = b.post_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	bookings := []*entity.Booking{}
	for rows.Next() {
		var (
			booking entity.Booking
			postID  *uuid.UUID
			title   *string
			price   *float64
			address *string
			city    *string
			owner   *uuid.UUID
			created *time.Time
		)
		err := rows.Scan(
			&booking.ID,
			&booking.StartDate,
			&booking.EndDate,
			&booking.Status,
			&booking.Type,
			&booking.PostID,
			&booking.UserID,
			&booking.CheckoutID,
			&booking.CreatedAt,
			&booking.UpdatedAt,
			&postID, &title, &price, &address, &city, &owner, &created,
		)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}

		// LEFT JOIN: post bisa saja sudah dihapus
		if postID != nil {
			booking.Post = &entity.Post{
				ID:        *postID,
				Title:     deref(title),
				Price:     deref(price),
				Address:   deref(address),
				City:      deref(city),
				UserID:    deref(owner),
				CreatedAt: deref(created),
			}
		}
		bookings = append(bookings, &booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepository) CountCreatedBefore(ctx context.Context, before time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE created_at < $1`, before).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings created before",
			zap.Error(err),
			zap.Time("before", before),
		)
		return 0, fmt.Errorf("count bookings created before %s: %w", before.Format(time.RFC3339), err)
	}
	return count, nil
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.Status,
		&booking.Type,
		&booking.PostID,
		&booking.UserID,
		&booking.CheckoutID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

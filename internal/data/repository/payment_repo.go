package repository

import (
	"context"
	"errors"
	"fmt"

	"ehousing-booking/internal/data/entity"
	"ehousing-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	// Create returns ErrUniqueViolation when the transaction ID or the booking
	// already has a payment, ErrForeignKeyViolation when the booking is gone.
	Create(ctx context.Context, payment *entity.Payment) error
	FindByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error)

	// UpdateStatusByTransactionID returns (nil, nil) when no payment matches.
	UpdateStatusByTransactionID(ctx context.Context, transactionID string, status entity.PaymentStatus) (*entity.Payment, error)
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, amount, method, transaction_id, status, booking_id, created_at, updated_at`

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.Amount,
		payment.Method,
		payment.TransactionID,
		payment.Status,
		payment.BookingID,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("booking_id", payment.BookingID.String()),
			zap.String("transaction_id", payment.TransactionID),
		)
		return fmt.Errorf("create payment for booking %s: %w", payment.BookingID.String(), translate(err))
	}

	return nil
}

func (r *paymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, transactionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by transaction ID",
			zap.Error(err),
			zap.String("transaction_id", transactionID),
		)
		return nil, fmt.Errorf("find payment by transaction ID %s: %w", transactionID, err)
	}

	return payment, nil
}

func (r *paymentRepository) UpdateStatusByTransactionID(ctx context.Context, transactionID string, status entity.PaymentStatus) (*entity.Payment, error) {
	query := `
		UPDATE payments
		SET status = $2, transaction_id = $1, updated_at = NOW()
		WHERE transaction_id = $1
		RETURNING ` + paymentColumns

	payment, err := scanPayment(r.db.QueryRow(ctx, query, transactionID, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("transaction_id", transactionID),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("update payment %s status to %s: %w", transactionID, string(status), err)
	}

	return payment, nil
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var payment entity.Payment
	err := row.Scan(
		&payment.ID,
		&payment.Amount,
		&payment.Method,
		&payment.TransactionID,
		&payment.Status,
		&payment.BookingID,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

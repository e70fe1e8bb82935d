package pgxrepo

import (
	"context"
	"database/sql"

	"medimart-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type paymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) domain.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id::text, order_id::text, provider_order_id, provider_payment_id,
	amount, currency, status, created_at, updated_at`

func scanPayment(row pgx.Row) (*domain.PaymentRecord, error) {
	var p domain.PaymentRecord
	var paymentID sql.NullString
	err := row.Scan(&p.ID, &p.OrderID, &p.ProviderOrderID, &paymentID,
		&p.Amount, &p.Currency, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if paymentID.Valid {
		p.ProviderPaymentID = paymentID.String
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, rec *domain.PaymentRecord) error {
	q := querierFrom(ctx, r.db)
	return q.QueryRow(ctx, `
		INSERT INTO payments (id, order_id, provider_order_id, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		rec.ID, rec.OrderID, rec.ProviderOrderID, rec.Amount, rec.Currency, rec.Status,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

func (r *paymentRepository) GetByProviderOrderID(ctx context.Context, providerOrderID string) (*domain.PaymentRecord, error) {
	q := querierFrom(ctx, r.db)
	return scanPayment(q.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE provider_order_id = $1`, providerOrderID))
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id, status, providerPaymentID string) error {
	q := querierFrom(ctx, r.db)
	var paymentID *string
	if providerPaymentID != "" {
		paymentID = &providerPaymentID
	}
	_, err := q.Exec(ctx, `
		UPDATE payments SET status = $2, provider_payment_id = COALESCE($3, provider_payment_id), updated_at = now()
		WHERE id = $1`, id, status, paymentID)
	return err
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID string) ([]domain.PaymentRecord, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE order_id = $1 ORDER BY created_at DESC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.PaymentRecord
	for rows.Next() {
		rec, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

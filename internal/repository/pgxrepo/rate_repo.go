package pgxrepo

import (
	"context"
	"encoding/json"
	"errors"

	"medimart-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const rateTableKey = "shipping_rate_table"

// rateTableRepository stores the shipping rate table as a settings
// document. The unbounded top tier is persisted as maxWeightKg: null.
type rateTableRepository struct {
	db *pgxpool.Pool
}

func NewRateTableRepository(db *pgxpool.Pool) domain.RateTableRepository {
	return &rateTableRepository{db: db}
}

func (r *rateTableRepository) GetRateTable(ctx context.Context) (*domain.RateTable, error) {
	q := querierFrom(ctx, r.db)
	var value []byte
	err := q.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, rateTableKey).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		// No table configured: callers fall back to the dynamic formula.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var table domain.RateTable
	if err := json.Unmarshal(value, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *rateTableRepository) SaveRateTable(ctx context.Context, table *domain.RateTable) error {
	value, err := json.Marshal(table)
	if err != nil {
		return err
	}
	q := querierFrom(ctx, r.db)
	_, err = q.Exec(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		rateTableKey, value)
	return err
}

package pgxrepo

import (
	"context"

	"medimart-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type trackingRepository struct {
	db *pgxpool.Pool
}

func NewTrackingRepository(db *pgxpool.Pool) domain.TrackingRepository {
	return &trackingRepository{db: db}
}

func (r *trackingRepository) Append(ctx context.Context, event *domain.ShipmentTrackingEvent) error {
	q := querierFrom(ctx, r.db)
	return q.QueryRow(ctx, `
		INSERT INTO shipment_events (id, order_id, status, location, remarks)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		event.ID, event.OrderID, event.Status, event.Location, event.Remarks,
	).Scan(&event.CreatedAt)
}

func (r *trackingRepository) GetByOrderID(ctx context.Context, orderID string) ([]domain.ShipmentTrackingEvent, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT id::text, order_id::text, status, location, remarks, created_at
		FROM shipment_events WHERE order_id = $1 ORDER BY created_at DESC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.ShipmentTrackingEvent
	for rows.Next() {
		var e domain.ShipmentTrackingEvent
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &e.Location, &e.Remarks, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

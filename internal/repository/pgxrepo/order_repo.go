package pgxrepo

import (
	"context"
	"encoding/json"
	"time"

	"medimart-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id::text, user_id::text, status, payment_status, payment_method,
	subtotal, tax_amount, shipping_cost, grand_total, shipping_address, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var address []byte
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
		&o.Subtotal, &o.TaxAmount, &o.ShippingCost, &o.GrandTotal, &address, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(address) > 0 {
		var addr domain.JSONB
		if err := json.Unmarshal(address, &addr); err == nil {
			o.ShippingAddress = addr
		}
	}
	return &o, nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	q := querierFrom(ctx, r.db)

	addressBytes, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}

	err = q.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, status, payment_status, payment_method,
			subtotal, tax_amount, shipping_cost, grand_total, shipping_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`,
		order.ID, order.UserID, order.Status, order.PaymentStatus, order.PaymentMethod,
		order.Subtotal, order.TaxAmount, order.ShippingCost, order.GrandTotal, addressBytes,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		_, err := q.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, name, unit_price, quantity, weight_kg, gst_percentage)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			item.ID, order.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.WeightKg, item.GSTPercentage,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) getItems(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT id::text, order_id::text, product_id::text, name, unit_price, quantity, weight_kg, gst_percentage
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderLine
	for rows.Next() {
		var it domain.OrderLine
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.UnitPrice, &it.Quantity, &it.WeightKg, &it.GSTPercentage); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := querierFrom(ctx, r.db)
	order, err := scanOrder(q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	order.Items, err = r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Items, err = r.getItems(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *orderRepository) GetAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	var status, paymentStatus *string
	if filter.Status != "" {
		status = &filter.Status
	}
	if filter.PaymentStatus != "" {
		paymentStatus = &filter.PaymentStatus
	}

	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR payment_status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		status, paymentStatus, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}

	var count int64
	err = q.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR payment_status = $2)`,
		status, paymentStatus).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	q := querierFrom(ctx, r.db)
	_, err := q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	return err
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	q := querierFrom(ctx, r.db)
	_, err := q.Exec(ctx, `UPDATE orders SET payment_status = $2, updated_at = now() WHERE id = $1`, id, status)
	return err
}

func (r *orderRepository) GetByStatuses(ctx context.Context, statuses []string) ([]domain.Order, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE status = ANY($1) ORDER BY created_at`, statuses)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) GetStalePending(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE status = 'pending' AND payment_status = 'pending' AND created_at < $1`, cutoff)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()
	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/restauranthq/pos-service/internal/order/domain"
	table "github.com/restauranthq/pos-service/internal/table/domain"
	"github.com/restauranthq/pos-service/pkg/apperr"
	"github.com/restauranthq/pos-service/pkg/outbox"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// Save persists the order, its line items, and a lifecycle outbox event in
// one transaction. For eat-in orders the referenced table row is locked
// first, so order creation serializes against a concurrent table clear.
func (r *Repository) Save(ctx context.Context, o domain.Order) (domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if o.Type == domain.TypeEatIn {
		var occupied bool
		err := tx.QueryRow(ctx, `SELECT occupied FROM order_tables WHERE id=$1 FOR UPDATE`, o.OrderTableID).
			Scan(&occupied)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, apperr.NotFoundf("order table %s", o.OrderTableID)
		}
		if err != nil {
			return domain.Order{}, err
		}
		if o.Status == domain.StatusWaiting && !occupied {
			return domain.Order{}, apperr.IllegalStatef("order table %s is not occupied", o.OrderTableID)
		}
	}

	var tableID any
	if o.OrderTableID != uuid.Nil {
		tableID = o.OrderTableID
	}
	_, err = tx.Exec(ctx, `INSERT INTO orders (id, type, status, order_date_time, delivery_address, order_table_id)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET status=$3, delivery_address=$5, order_table_id=$6`,
		o.ID, o.Type, o.Status, o.OrderDateTime, o.DeliveryAddress, tableID)
	if err != nil {
		return domain.Order{}, err
	}

	_, err = tx.Exec(ctx, `DELETE FROM order_line_items WHERE order_id=$1`, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	batch := &pgx.Batch{}
	for seq, item := range o.OrderLineItems {
		batch.Queue(`INSERT INTO order_line_items (order_id, seq, menu_id, price, quantity) VALUES ($1,$2,$3,$4,$5)`,
			o.ID, seq, item.MenuID, item.Price, item.Quantity)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return domain.Order{}, err
	}

	payload, err := json.Marshal(domain.StatusChanged{
		OrderID:    o.ID,
		Type:       o.Type,
		Status:     o.Status,
		TotalPrice: o.TotalPrice(),
	})
	if err != nil {
		return domain.Order{}, err
	}
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
		VALUES ('order',$1,$2,$3,$4,'pending')`,
		o.ID, domain.EventType(o.Status), payload, carrier["traceparent"])
	if err != nil {
		return domain.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	orders, err := r.queryOrders(ctx, `WHERE o.id=$1`, id)
	if err != nil {
		return domain.Order{}, err
	}
	if len(orders) == 0 {
		return domain.Order{}, apperr.NotFoundf("order %s", id)
	}
	return orders[0], nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Order, error) {
	return r.queryOrders(ctx, ``)
}

func (r *Repository) ExistsByTableAndStatusNot(ctx context.Context, tableID uuid.UUID, status domain.OrderStatus) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE order_table_id=$1 AND status <> $2)`,
		tableID, status).Scan(&exists)
	return exists, err
}

func (r *Repository) queryOrders(ctx context.Context, where string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.type, o.status, o.order_date_time, COALESCE(o.delivery_address, ''), o.order_table_id,
		       t.name, t.number_of_guests, t.occupied
		FROM orders o
		LEFT JOIN order_tables t ON t.id = o.order_table_id
		`+where+` ORDER BY o.order_date_time`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.lineItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].OrderLineItems = items
	}
	return orders, nil
}

func (r *Repository) lineItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLineItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT li.menu_id, li.price, li.quantity, m.name, m.price, m.displayed
		FROM order_line_items li
		JOIN menus m ON m.id = li.menu_id
		WHERE li.order_id=$1
		ORDER BY li.seq`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderLineItem
	for rows.Next() {
		var item domain.OrderLineItem
		if err := rows.Scan(&item.MenuID, &item.Price, &item.Quantity,
			&item.Menu.Name, &item.Menu.Price, &item.Menu.Displayed); err != nil {
			return nil, err
		}
		item.Menu.ID = item.MenuID
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrder(rows pgx.Rows) (domain.Order, error) {
	var (
		o         domain.Order
		tableID   *uuid.UUID
		tableName *string
		guests    *int
		occupied  *bool
	)
	if err := rows.Scan(&o.ID, &o.Type, &o.Status, &o.OrderDateTime, &o.DeliveryAddress,
		&tableID, &tableName, &guests, &occupied); err != nil {
		return domain.Order{}, err
	}
	if tableID != nil {
		o.OrderTableID = *tableID
		o.OrderTable = &table.OrderTable{
			ID:             *tableID,
			Name:           *tableName,
			NumberOfGuests: *guests,
			Occupied:       *occupied,
		}
	}
	return o, nil
}

type OutboxStore struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewOutboxStore(log *slog.Logger, pool *pgxpool.Pool) *OutboxStore {
	return &OutboxStore{log: log, pool: pool}
}

func (s *OutboxStore) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]outbox.Event, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Query(ctx, `
		SELECT id, aggregate_type, aggregate_id, type, payload, COALESCE(traceparent, ''), created_at
		FROM outbox
		WHERE status = 'pending'
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $1
	`, batchSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []outbox.Event
	for rows.Next() {
		var event outbox.Event
		if err := rows.Scan(&event.ID, &event.AggregateType, &event.AggregateID, &event.Type,
			&event.Payload, &event.Traceparent, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, tx.Commit(ctx)
	}

	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}

	_, err = tx.Exec(ctx, `UPDATE outbox SET status='in_progress', relay_id=$1, lease_until=now() + $2::interval WHERE id = ANY($3)`,
		relayID, lease.String(), ids)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, ids []int64) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET status='sent' WHERE id = ANY($1)`, ids)
	return err
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET status='failed', last_error=$2, retry_count=retry_count+1 WHERE id=$1`, id, errMsg)
	return err
}

func (s *OutboxStore) ExtendLease(ctx context.Context, relayID string, ids []int64, lease time.Duration) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET lease_until=now() + $1::interval WHERE id = ANY($2) AND relay_id=$3`, lease.String(), ids, relayID)
	return err
}

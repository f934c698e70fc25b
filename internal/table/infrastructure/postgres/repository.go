package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	orderdomain "github.com/restauranthq/pos-service/internal/order/domain"
	"github.com/restauranthq/pos-service/internal/table/domain"
	"github.com/restauranthq/pos-service/pkg/apperr"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (domain.OrderTable, error) {
	var t domain.OrderTable
	err := r.pool.QueryRow(ctx, `SELECT id, name, number_of_guests, occupied FROM order_tables WHERE id=$1`, id).
		Scan(&t.ID, &t.Name, &t.NumberOfGuests, &t.Occupied)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.OrderTable{}, apperr.NotFoundf("order table %s", id)
	}
	if err != nil {
		return domain.OrderTable{}, err
	}
	return t, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.OrderTable, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, number_of_guests, occupied FROM order_tables ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []domain.OrderTable
	for rows.Next() {
		var t domain.OrderTable
		if err := rows.Scan(&t.ID, &t.Name, &t.NumberOfGuests, &t.Occupied); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (r *Repository) Save(ctx context.Context, t domain.OrderTable) (domain.OrderTable, error) {
	_, err := r.pool.Exec(ctx, `INSERT INTO order_tables (id, name, number_of_guests, occupied)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET name=$2, number_of_guests=$3, occupied=$4`,
		t.ID, t.Name, t.NumberOfGuests, t.Occupied)
	if err != nil {
		return domain.OrderTable{}, err
	}
	return t, nil
}

// Clear runs the unfinished-order check and the vacate under a FOR UPDATE
// lock on the table row. Eat-in order creation locks the same row before
// inserting, so the two interleavings both resolve cleanly: an order
// committed first blocks the clear, a clear committed first makes the
// create fail its occupancy check.
func (r *Repository) Clear(ctx context.Context, id uuid.UUID) (domain.OrderTable, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.OrderTable{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var t domain.OrderTable
	err = tx.QueryRow(ctx, `SELECT id, name, number_of_guests, occupied FROM order_tables WHERE id=$1 FOR UPDATE`, id).
		Scan(&t.ID, &t.Name, &t.NumberOfGuests, &t.Occupied)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.OrderTable{}, apperr.NotFoundf("order table %s", id)
	}
	if err != nil {
		return domain.OrderTable{}, err
	}

	var outstanding bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE order_table_id=$1 AND status <> $2)`,
		id, orderdomain.StatusCompleted).Scan(&outstanding)
	if err != nil {
		return domain.OrderTable{}, err
	}
	if outstanding {
		return domain.OrderTable{}, apperr.IllegalStatef("order table %s has unfinished orders", id)
	}

	cleared := t.Cleared()
	_, err = tx.Exec(ctx, `UPDATE order_tables SET number_of_guests=$2, occupied=$3 WHERE id=$1`,
		cleared.ID, cleared.NumberOfGuests, cleared.Occupied)
	if err != nil {
		return domain.OrderTable{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.OrderTable{}, err
	}
	return cleared, nil
}

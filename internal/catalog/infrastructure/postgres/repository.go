package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/restauranthq/pos-service/internal/catalog/domain"
	"github.com/restauranthq/pos-service/pkg/apperr"
)

// Menu product rows join the products table, so loaded snapshots always
// carry the live product price — which is what the pricing guard and the
// cascade compare against.

type ProductRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewProductRepository(log *slog.Logger, pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{log: log, pool: pool}
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, `SELECT id, name, price FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, apperr.NotFoundf("product %s", id)
	}
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, price FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *ProductRepository) FindAllByIDIn(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, price FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *ProductRepository) Save(ctx context.Context, p domain.Product) (domain.Product, error) {
	_, err := r.pool.Exec(ctx, `INSERT INTO products (id, name, price)
		VALUES ($1,$2,$3)
		ON CONFLICT (id) DO UPDATE SET name=$2, price=$3`,
		p.ID, p.Name, p.Price)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// SaveWithMenus persists the product and every cascaded menu in one
// transaction, so a concurrent reader never observes a torn cascade.
func (r *ProductRepository) SaveWithMenus(ctx context.Context, p domain.Product, menus []domain.Menu) (domain.Product, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Product{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `UPDATE products SET price=$2 WHERE id=$1`, p.ID, p.Price)
	if err != nil {
		return domain.Product{}, err
	}

	batch := &pgx.Batch{}
	for _, m := range menus {
		batch.Queue(`UPDATE menus SET displayed=$2 WHERE id=$1`, m.ID, m.Displayed)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return domain.Product{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

type MenuRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewMenuRepository(log *slog.Logger, pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{log: log, pool: pool}
}

func (r *MenuRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Menu, error) {
	menus, err := r.queryMenus(ctx, `WHERE m.id=$1`, id)
	if err != nil {
		return domain.Menu{}, err
	}
	if len(menus) == 0 {
		return domain.Menu{}, apperr.NotFoundf("menu %s", id)
	}
	return menus[0], nil
}

func (r *MenuRepository) FindAll(ctx context.Context) ([]domain.Menu, error) {
	return r.queryMenus(ctx, ``)
}

func (r *MenuRepository) FindAllByIDIn(ctx context.Context, ids []uuid.UUID) ([]domain.Menu, error) {
	return r.queryMenus(ctx, `WHERE m.id = ANY($1)`, ids)
}

func (r *MenuRepository) FindAllByProductID(ctx context.Context, productID uuid.UUID) ([]domain.Menu, error) {
	return r.queryMenus(ctx, `WHERE m.id IN (SELECT menu_id FROM menu_products WHERE product_id=$1)`, productID)
}

func (r *MenuRepository) Save(ctx context.Context, m domain.Menu) (domain.Menu, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Menu{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `INSERT INTO menus (id, name, price, displayed, menu_group_id)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET name=$2, price=$3, displayed=$4, menu_group_id=$5`,
		m.ID, m.Name, m.Price, m.Displayed, m.MenuGroupID)
	if err != nil {
		return domain.Menu{}, err
	}

	_, err = tx.Exec(ctx, `DELETE FROM menu_products WHERE menu_id=$1`, m.ID)
	if err != nil {
		return domain.Menu{}, err
	}
	batch := &pgx.Batch{}
	for seq, mp := range m.MenuProducts {
		batch.Queue(`INSERT INTO menu_products (menu_id, seq, product_id, quantity) VALUES ($1,$2,$3,$4)`,
			m.ID, seq, mp.ProductID, mp.Quantity)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return domain.Menu{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Menu{}, err
	}
	return m, nil
}

func (r *MenuRepository) queryMenus(ctx context.Context, where string, args ...any) ([]domain.Menu, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.name, m.price, m.displayed, m.menu_group_id, g.name
		FROM menus m
		JOIN menu_groups g ON g.id = m.menu_group_id
		`+where+` ORDER BY m.name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []domain.Menu
	for rows.Next() {
		var m domain.Menu
		if err := rows.Scan(&m.ID, &m.Name, &m.Price, &m.Displayed, &m.MenuGroupID, &m.MenuGroup.Name); err != nil {
			return nil, err
		}
		m.MenuGroup.ID = m.MenuGroupID
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range menus {
		products, err := r.menuProducts(ctx, menus[i].ID)
		if err != nil {
			return nil, err
		}
		menus[i].MenuProducts = products
	}
	return menus, nil
}

func (r *MenuRepository) menuProducts(ctx context.Context, menuID uuid.UUID) ([]domain.MenuProduct, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT mp.product_id, mp.quantity, p.name, p.price
		FROM menu_products mp
		JOIN products p ON p.id = mp.product_id
		WHERE mp.menu_id=$1
		ORDER BY mp.seq`, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.MenuProduct
	for rows.Next() {
		var mp domain.MenuProduct
		if err := rows.Scan(&mp.ProductID, &mp.Quantity, &mp.Product.Name, &mp.Product.Price); err != nil {
			return nil, err
		}
		mp.Product.ID = mp.ProductID
		products = append(products, mp)
	}
	return products, rows.Err()
}

type MenuGroupRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewMenuGroupRepository(log *slog.Logger, pool *pgxpool.Pool) *MenuGroupRepository {
	return &MenuGroupRepository{log: log, pool: pool}
}

func (r *MenuGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.MenuGroup, error) {
	var g domain.MenuGroup
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM menu_groups WHERE id=$1`, id).
		Scan(&g.ID, &g.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MenuGroup{}, apperr.NotFoundf("menu group %s", id)
	}
	if err != nil {
		return domain.MenuGroup{}, err
	}
	return g, nil
}

func (r *MenuGroupRepository) FindAll(ctx context.Context) ([]domain.MenuGroup, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM menu_groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []domain.MenuGroup
	for rows.Next() {
		var g domain.MenuGroup
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *MenuGroupRepository) Save(ctx context.Context, g domain.MenuGroup) (domain.MenuGroup, error) {
	_, err := r.pool.Exec(ctx, `INSERT INTO menu_groups (id, name)
		VALUES ($1,$2)
		ON CONFLICT (id) DO UPDATE SET name=$2`,
		g.ID, g.Name)
	if err != nil {
		return domain.MenuGroup{}, err
	}
	return g, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-ledger/internal/domain"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productSelect = `
	SELECT p.id, p.name, p.product_code, p.price, p.quantity, p.category_id, c.name, p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.ProductCode, &p.Price, &p.Quantity, &p.CategoryID, &p.CategoryName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto con su cantidad inicial (sin entrada de historial).
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (name, product_code, price, quantity, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, p.Name, p.ProductCode, p.Price, p.Quantity, p.CategoryID).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return translateProductWriteError(err, "insert product")
	}
	return nil
}

// GetByID obtiene un producto por ID con el nombre de su categoría.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByCode obtiene un producto por código (ya normalizado).
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, productSelect+` WHERE p.product_code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by code: %w", err)
	}
	return p, nil
}

// GetForUpdate obtiene el producto y bloquea su fila (SELECT FOR UPDATE).
// Sin JOIN: sólo se bloquea la fila de products.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	query := `
		SELECT id, name, product_code, price, quantity, category_id, created_at, updated_at
		FROM products WHERE id = $1
		FOR UPDATE`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.ProductCode, &p.Price, &p.Quantity, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return &p, nil
}

// Update modifica nombre, código, precio y categoría. La cantidad no se toca.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, product_code = $3, price = $4, category_id = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query, p.ID, p.Name, p.ProductCode, p.Price, p.CategoryID).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFoundError("producto", p.ID)
		}
		return translateProductWriteError(err, "update product")
	}
	return nil
}

// UpdateQuantity fija la cantidad. Sólo la usa el libro de inventario dentro de su transacción.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("update product quantity: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update product quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("producto", id)
	}
	return nil
}

var productSortColumns = map[string]string{
	repository.ProductSortName:      "p.name",
	repository.ProductSortCode:      "p.product_code",
	repository.ProductSortPrice:     "p.price",
	repository.ProductSortQuantity:  "p.quantity",
	repository.ProductSortCreatedAt: "p.created_at",
}

// List devuelve la página filtrada y el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var (
		conds []string
		args  []any
	)
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, containsPattern(s))
		conds = append(conds, fmt.Sprintf(`(p.name ILIKE $%d ESCAPE '\' OR p.product_code ILIKE $%d ESCAPE '\')`, len(args), len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	col, ok := productSortColumns[f.SortBy]
	if !ok {
		col = "p.name"
	}
	dir := "ASC"
	if f.Desc {
		dir = "DESC"
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf("%s%s ORDER BY %s %s, p.id ASC LIMIT $%d OFFSET $%d",
		productSelect, where, col, dir, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return list, total, nil
}

// Delete elimina el producto; su historial se borra en cascada.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("producto", id)
	}
	return nil
}

func translateProductWriteError(err error, op string) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	case isCheckViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %w", op, err)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de sólo lectura sobre el pool.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el repositorio de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// StockByCategory totales por categoría, incluidas las vacías (ceros, nunca NULL).
func (r *ReportRepo) StockByCategory(ctx context.Context) ([]repository.StockByCategoryResult, error) {
	query := `
		SELECT c.id,
		       c.name,
		       COUNT(p.id),
		       COALESCE(SUM(p.quantity), 0)::BIGINT,
		       COALESCE(SUM(p.quantity * p.price), 0)::NUMERIC(14,2)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.name ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stock by category: %w", err)
	}
	defer rows.Close()

	var out []repository.StockByCategoryResult
	for rows.Next() {
		var s repository.StockByCategoryResult
		if err := rows.Scan(&s.CategoryID, &s.CategoryName, &s.TotalProducts, &s.TotalStock, &s.TotalValue); err != nil {
			return nil, fmt.Errorf("scan stock by category: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stock by category: %w", err)
	}
	return out, nil
}

// LowStock productos con quantity <= threshold.
func (r *ReportRepo) LowStock(ctx context.Context, threshold int) ([]repository.LowStockResult, error) {
	query := `
		SELECT p.id, p.name, p.product_code, p.quantity, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.quantity <= $1
		ORDER BY p.quantity ASC, p.name ASC`
	rows, err := r.q.Query(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()

	var out []repository.LowStockResult
	for rows.Next() {
		var l repository.LowStockResult
		if err := rows.Scan(&l.ProductID, &l.Name, &l.ProductCode, &l.Quantity, &l.CategoryName); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	return out, nil
}

// DashboardStats totales globales en una sola consulta.
func (r *ReportRepo) DashboardStats(ctx context.Context, lowStockThreshold int) (repository.DashboardStatsResult, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM categories),
			(SELECT COALESCE(SUM(quantity), 0)::BIGINT FROM products),
			(SELECT COALESCE(SUM(quantity * price), 0)::NUMERIC(14,2) FROM products),
			(SELECT COUNT(*) FROM products WHERE quantity <= $1)`
	var s repository.DashboardStatsResult
	err := r.q.QueryRow(ctx, query, lowStockThreshold).Scan(
		&s.TotalProducts, &s.TotalCategories, &s.TotalStock, &s.TotalValue, &s.LowStockCount,
	)
	if err != nil {
		return s, fmt.Errorf("dashboard stats: %w", err)
	}
	return s, nil
}

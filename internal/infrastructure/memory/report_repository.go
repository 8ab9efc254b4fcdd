package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ledger/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo agregados calculados sobre el estado en memoria.
type ReportRepo struct {
	s *Store
}

// StockByCategory totales por categoría, incluidas las vacías.
func (r *ReportRepo) StockByCategory(_ context.Context) ([]repository.StockByCategoryResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byCat := make(map[int64]*repository.StockByCategoryResult, len(r.s.categories))
	for _, c := range r.s.categories {
		byCat[c.ID] = &repository.StockByCategoryResult{CategoryID: c.ID, CategoryName: c.Name, TotalValue: decimal.Zero}
	}
	for _, p := range r.s.products {
		row, ok := byCat[p.CategoryID]
		if !ok {
			continue
		}
		row.TotalProducts++
		row.TotalStock += int64(p.Quantity)
		row.TotalValue = row.TotalValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	out := make([]repository.StockByCategoryResult, 0, len(byCat))
	for _, row := range byCat {
		row.TotalValue = row.TotalValue.Round(2)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryName < out[j].CategoryName })
	return out, nil
}

// LowStock productos en o por debajo del umbral, por cantidad y nombre.
func (r *ReportRepo) LowStock(_ context.Context, threshold int) ([]repository.LowStockResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []repository.LowStockResult{}
	for _, p := range r.s.products {
		if !p.IsLowStock(threshold) {
			continue
		}
		row := repository.LowStockResult{ProductID: p.ID, Name: p.Name, ProductCode: p.ProductCode, Quantity: p.Quantity}
		if c, ok := r.s.categories[p.CategoryID]; ok {
			row.CategoryName = c.Name
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity < out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// DashboardStats totales generales del tablero.
func (r *ReportRepo) DashboardStats(_ context.Context, lowStockThreshold int) (repository.DashboardStatsResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := repository.DashboardStatsResult{
		TotalProducts:   len(r.s.products),
		TotalCategories: len(r.s.categories),
		TotalValue:      decimal.Zero,
	}
	for _, p := range r.s.products {
		st.TotalStock += int64(p.Quantity)
		st.TotalValue = st.TotalValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
		if p.IsLowStock(lowStockThreshold) {
			st.LowStockCount++
		}
	}
	st.TotalValue = st.TotalValue.Round(2)
	return st, nil
}

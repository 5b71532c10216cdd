package repo

import (
	"context"
	"database/sql"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	m := Metrics{ByCategory: []CategoryCount{}}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE is_visible),
			COUNT(*) FILTER (WHERE is_featured),
			COUNT(*) FILTER (WHERE is_new)
		FROM products
	`).Scan(&m.TotalProducts, &m.VisibleProducts, &m.FeaturedProducts, &m.NewProducts)
	if err != nil {
		return m, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category_ids ? c.id
		GROUP BY c.id, c.name, c.sort_order
		ORDER BY COALESCE(c.sort_order, 0), c.name
	`)
	if err != nil {
		return m, err
	}
	defer rows.Close()

	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.CategoryID, &cc.Name, &cc.Products); err != nil {
			return m, err
		}
		m.ByCategory = append(m.ByCategory, cc)
	}
	m.TotalCategories = len(m.ByCategory)
	return m, rows.Err()
}

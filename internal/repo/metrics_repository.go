package repo

import "context"

type CategoryCount struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Products   int    `json:"products"`
}

type Metrics struct {
	TotalProducts    int             `json:"total_products"`
	VisibleProducts  int             `json:"visible_products"`
	FeaturedProducts int             `json:"featured_products"`
	NewProducts      int             `json:"new_products"`
	TotalCategories  int             `json:"total_categories"`
	ByCategory       []CategoryCount `json:"by_category"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}

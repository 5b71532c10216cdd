package repo

import "context"

type InMemoryMetricsRepository struct {
	catalogRepo *InMemoryCatalogRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(catalogRepo *InMemoryCatalogRepository) {
	i.catalogRepo = catalogRepo
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	m := Metrics{ByCategory: []CategoryCount{}}
	if i.catalogRepo == nil {
		return m, nil
	}

	categories, err := i.catalogRepo.GetCategories(ctx)
	if err != nil {
		return m, err
	}
	m.TotalCategories = len(categories)

	i.catalogRepo.mu.RLock()
	defer i.catalogRepo.mu.RUnlock()

	counts := map[string]int{}
	for _, p := range i.catalogRepo.products {
		m.TotalProducts++
		if p.IsVisible {
			m.VisibleProducts++
		}
		if p.IsFeatured {
			m.FeaturedProducts++
		}
		if p.IsNew {
			m.NewProducts++
		}
		for _, id := range p.CategoryIDs {
			counts[id]++
		}
	}

	for _, c := range categories {
		m.ByCategory = append(m.ByCategory, CategoryCount{CategoryID: c.ID, Name: c.Name, Products: counts[c.ID]})
	}
	return m, nil
}

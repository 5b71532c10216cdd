package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iselbouch1/bouchauto-showcase/internal/catalog"
	"github.com/iselbouch1/bouchauto-showcase/internal/models"
)

// InMemoryCatalogRepository serves the catalog from memory. It backs the mock mode of the
// storefront and the handler test suites.
type InMemoryCatalogRepository struct {
	mu         sync.RWMutex
	categories []models.Category
	products   []models.Product
}

// NewInMemoryCatalogRepository creates an empty repository.
func NewInMemoryCatalogRepository() *InMemoryCatalogRepository {
	return &InMemoryCatalogRepository{
		categories: []models.Category{},
		products:   []models.Product{},
	}
}

// NewSeededCatalogRepository creates a repository holding the embedded demo catalog.
func NewSeededCatalogRepository() (*InMemoryCatalogRepository, error) {
	ds, err := SeedDataset()
	if err != nil {
		return nil, err
	}
	r := NewInMemoryCatalogRepository()
	r.Load(ds)
	return r, nil
}

// Load replaces the repository content with the dataset.
func (r *InMemoryCatalogRepository) Load(ds Dataset) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	r.categories = append([]models.Category{}, ds.Categories...)
	r.products = make([]models.Product, len(ds.Products))
	for i, p := range ds.Products {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}
		r.products[i] = p.Clone()
	}
}

// cloneProducts copies products so callers cannot reach the repository storage.
func cloneProducts(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

// Clear removes every category and product.
func (r *InMemoryCatalogRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = []models.Category{}
	r.products = []models.Product{}
}

// GetCategories returns categories ordered by sort order then name.
func (r *InMemoryCatalogRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	r.mu.RLock()
	categories := append([]models.Category{}, r.categories...)
	r.mu.RUnlock()

	sort.SliceStable(categories, func(i, j int) bool {
		a, b := sortOrder(categories[i]), sortOrder(categories[j])
		if a != b {
			return a < b
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func sortOrder(c models.Category) int {
	if c.SortOrder == nil {
		return 0
	}
	return *c.SortOrder
}

func (r *InMemoryCatalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return models.Category{}, ErrCategoryNotFound
}

// GetProducts evaluates the filters over the whole catalog.
func (r *InMemoryCatalogRepository) GetProducts(ctx context.Context, filters models.FilterParams) (models.PaginatedResponse[models.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page := catalog.Query(r.products, r.resolveCategory(filters))
	page.Data = cloneProducts(page.Data)
	return page, nil
}

// GetTagFacets counts tags over every product matching the filters, all pages included.
func (r *InMemoryCatalogRepository) GetTagFacets(ctx context.Context, filters models.FilterParams) ([]models.TagFacet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return catalog.TagFacets(catalog.ApplyFilters(r.products, r.resolveCategory(filters))), nil
}

// resolveCategory turns a category slug into the id products reference. Must hold r.mu.
func (r *InMemoryCatalogRepository) resolveCategory(filters models.FilterParams) models.FilterParams {
	if filters.Category == "" {
		return filters
	}
	for _, c := range r.categories {
		if c.Slug == filters.Category {
			filters.Category = c.ID
			break
		}
	}
	return filters
}

func (r *InMemoryCatalogRepository) GetProductBySlug(ctx context.Context, slug string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Slug == slug {
			return p.Clone(), nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryCatalogRepository) GetProductByID(ctx context.Context, id string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// GetRelatedProducts returns an empty list for an unknown product.
func (r *InMemoryCatalogRepository) GetRelatedProducts(ctx context.Context, productID string, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == productID {
			return cloneProducts(catalog.Related(p, r.products, limit)), nil
		}
	}
	return []models.Product{}, nil
}

func (r *InMemoryCatalogRepository) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.categories {
		if existing.Slug == c.Slug || (c.ID != "" && existing.ID == c.ID) {
			return models.Category{}, ErrDuplicatedValueUnique
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.categories = append(r.categories, c)
	return c, nil
}

func (r *InMemoryCatalogRepository) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.products {
		if strings.EqualFold(existing.Slug, p.Slug) || (p.ID != "" && existing.ID == p.ID) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.products = append(r.products, p.Clone())
	return p, nil
}

func (r *InMemoryCatalogRepository) UpdateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, existing := range r.products {
		if existing.ID == p.ID {
			idx = i
			continue
		}
		if strings.EqualFold(existing.Slug, p.Slug) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
	}
	if idx < 0 {
		return models.Product{}, ErrProductNotFound
	}

	p.CreatedAt = r.products[idx].CreatedAt
	p.UpdatedAt = time.Now().UTC()
	r.products[idx] = p.Clone()
	return p, nil
}

// DeleteProduct removes a product from the repository by its ID.
func (r *InMemoryCatalogRepository) DeleteProduct(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

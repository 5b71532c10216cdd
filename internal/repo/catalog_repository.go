package repo

import (
	"context"
	"errors"

	"github.com/iselbouch1/bouchauto-showcase/internal/models"
)

// CatalogRepository is the read side of the storefront catalog.
type CatalogRepository interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (models.Category, error)
	GetProducts(ctx context.Context, filters models.FilterParams) (models.PaginatedResponse[models.Product], error)
	GetProductBySlug(ctx context.Context, slug string) (models.Product, error)
	GetRelatedProducts(ctx context.Context, productID string, limit int) ([]models.Product, error)
	GetTagFacets(ctx context.Context, filters models.FilterParams) ([]models.TagFacet, error)
}

// CatalogWriter is implemented by repositories that accept back-office edits.
type CatalogWriter interface {
	CreateCategory(ctx context.Context, c models.Category) (models.Category, error)
	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProductByID(ctx context.Context, id string) (models.Product, error)
}

// CatalogStore is a repository that can both serve and edit the catalog.
type CatalogStore interface {
	CatalogRepository
	CatalogWriter
}

var (
	// ErrNotFound is wrapped by every absence error of this package.
	ErrNotFound = errors.New("not found")
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = notFound("product not found")
	// ErrCategoryNotFound is returned when a category is not found in the repository.
	ErrCategoryNotFound = notFound("category not found")
	// ErrUserNotFound is returned when no user has the requested username.
	ErrUserNotFound = notFound("user not found")

	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
	ErrReadOnly              = errors.New("catalog is read-only")
)

type notFoundError string

func notFound(msg string) error { return notFoundError(msg) }

func (e notFoundError) Error() string { return string(e) }

func (e notFoundError) Is(target error) bool { return target == ErrNotFound }

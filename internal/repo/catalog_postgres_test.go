package repo

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/iselbouch1/bouchauto-showcase/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{"id", "name", "slug", "short_description", "description", "category_ids", "tags",
	"is_visible", "is_featured", "is_new", "sort_order", "images", "specs", "related_product_ids", "created_at", "updated_at"}

func productRow(rows *sqlmock.Rows, id, slug, categories, tags string, visible bool) *sqlmock.Rows {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return rows.AddRow(id, "Produit "+id, slug, "", "", []byte(categories), []byte(tags),
		visible, false, false, 1, []byte(`[{"url":"/img.jpg","isCover":true}]`), []byte(`{"puissance":25}`), []byte(`[]`), now, now)
}

func newMockRepo(t *testing.T) (*PostgresCatalogRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresCatalogRepository(db), mock
}

func TestPostgresCatalog_GetProducts(t *testing.T) {
	r, mock := newMockRepo(t)

	filters := models.FilterParams{
		Visible:  models.BoolPtr(true),
		Search:   "50%",
		Category: "eclairage",
		Tags:     []string{"led"},
		Page:     2,
		PerPage:  5,
		SortBy:   models.SortName,
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE 1=1 AND is_visible = $1 AND (name ILIKE $2")).
		WithArgs(true, `%50\%%`, "eclairage", `["led"]`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	rows := productRow(sqlmock.NewRows(productRowColumns), "p6", "rampe-led", `["3"]`, `["led"]`, true)
	rows = productRow(rows, "p7", "feux-led", `["3"]`, `["led","chrome"]`, true)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY name COLLATE "fr-FR-x-icu", seq LIMIT $5 OFFSET $6`)).
		WithArgs(true, `%50\%%`, "eclairage", `["led"]`, 5, 5).
		WillReturnRows(rows)

	got, err := r.GetProducts(context.Background(), filters)
	require.NoError(t, err)

	assert.Equal(t, 7, got.Total)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 5, got.PerPage)
	assert.Equal(t, 2, got.TotalPages)
	require.Len(t, got.Data, 2)
	assert.Equal(t, []string{"3"}, got.Data[0].CategoryIDs)
	assert.Equal(t, []string{"led", "chrome"}, got.Data[1].Tags)
	assert.Equal(t, 25.0, got.Data[0].Specs["puissance"].Number())
	assert.True(t, got.Data[0].Images[0].IsCover)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCatalog_GetProductsDefaults(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY seq LIMIT $1 OFFSET $2")).
		WithArgs(12, 0).
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	got, err := r.GetProducts(context.Background(), models.FilterParams{Page: -3})
	require.NoError(t, err)
	assert.NotNil(t, got.Data)
	assert.Empty(t, got.Data)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 0, got.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCatalog_GetProductBySlug(t *testing.T) {
	r, mock := newMockRepo(t)
	query := regexp.QuoteMeta("FROM products WHERE slug = $1")

	mock.ExpectQuery(query).WithArgs("rampe-led").
		WillReturnRows(productRow(sqlmock.NewRows(productRowColumns), "p6", "rampe-led", `["3"]`, `["led"]`, true))
	mock.ExpectQuery(query).WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	p, err := r.GetProductBySlug(context.Background(), "rampe-led")
	require.NoError(t, err)
	assert.Equal(t, "p6", p.ID)

	_, err = r.GetProductBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCatalog_GetCategories(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM categories ORDER BY COALESCE(sort_order, 0), name")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "description", "parent_id", "image", "sort_order"}).
			AddRow("1", "Intérieur", "interieur", "", "", "", 1).
			AddRow("9", "Divers", "divers", "", "1", "", nil))

	categories, err := r.GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.NotNil(t, categories[0].SortOrder)
	assert.Equal(t, 1, *categories[0].SortOrder)
	assert.Nil(t, categories[1].SortOrder)
	assert.Equal(t, "1", categories[1].ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCatalog_GetCategoryBySlugNotFound(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE slug = $1")).WithArgs("jardin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "description", "parent_id", "image", "sort_order"}))

	_, err := r.GetCategoryBySlug(context.Background(), "jardin")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestPostgresCatalog_GetRelatedProducts(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE id = $1")).WithArgs("p1").
		WillReturnRows(productRow(sqlmock.NewRows(productRowColumns), "p1", "p1", `["3","2"]`, `[]`, true))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id <> $1 AND is_visible")).
		WithArgs("p1", `["3","2"]`, `[]`).
		WillReturnRows(productRow(productRow(sqlmock.NewRows(productRowColumns),
			"p2", "p2", `["2"]`, `[]`, true),
			"p3", "p3", `["3"]`, `[]`, true))

	related, err := r.GetRelatedProducts(context.Background(), "p1", 1)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "p2", related[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCatalog_GetRelatedProductsUnknown(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE id = $1")).WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	related, err := r.GetRelatedProducts(context.Background(), "nope", 4)
	require.NoError(t, err)
	assert.Empty(t, related)
}

func TestPostgresCatalog_CreateProductDuplicate(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := r.CreateProduct(context.Background(), models.Product{Name: "Rampe", Slug: "rampe-led"})
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)
}

func TestPostgresCatalog_CreateProduct(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs(sqlmock.AnyArg(), "Rampe", "rampe-led", "", "", `["3"]`, `["led"]`, true, false, false, 0,
			`[]`, `{}`, `[]`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	p, err := r.CreateProduct(context.Background(), models.Product{
		Name: "Rampe", Slug: "rampe-led", CategoryIDs: []string{"3"}, Tags: []string{"led"}, IsVisible: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCatalog_UpdateAndDeleteNotFound(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE products SET")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1")).WithArgs("p9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := r.UpdateProduct(context.Background(), models.Product{ID: "p9", Slug: "p9"})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, r.DeleteProduct(context.Background(), "p9"), ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCatalog_GetTagFacets(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT tags FROM products WHERE 1=1 AND is_visible = $1 ORDER BY seq")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"tags"}).
			AddRow([]byte(`["led","chrome"]`)).
			AddRow([]byte(`["led"]`)))

	facets, err := r.GetTagFacets(context.Background(), models.FilterParams{Visible: models.BoolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, []models.TagFacet{
		{Label: "led", Value: "led", Count: 2},
		{Label: "chrome", Value: "chrome", Count: 1},
	}, facets)
}

func TestPostgresCatalog_Import(t *testing.T) {
	r, mock := newMockRepo(t)
	ds, err := SeedDataset()
	require.NoError(t, err)

	mock.ExpectBegin()
	for range ds.Categories {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO categories")).WillReturnResult(sqlmock.NewResult(1, 1))
	}
	for range ds.Products {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, r.Import(context.Background(), ds))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMetrics(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM products")).
		WillReturnRows(sqlmock.NewRows([]string{"total", "visible", "featured", "new"}).AddRow(14, 12, 3, 4))
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN products p ON p.category_ids ? c.id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "count"}).AddRow("1", "Intérieur", 3).AddRow("2", "Extérieur", 4))

	m, err := NewPostgresMetricsRepository(db).GetDashboardMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 14, m.TotalProducts)
	assert.Equal(t, 2, m.TotalCategories)
	assert.Equal(t, 4, m.ByCategory[1].Products)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% \_led\\`, escapeLike(`100% _led\`))
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		by   models.SortBy
		want string
	}{
		{by: models.SortName, want: ` ORDER BY name COLLATE "fr-FR-x-icu", seq`},
		{by: models.SortNewest, want: " ORDER BY sort_order DESC, seq"},
		{by: models.SortFeatured, want: " ORDER BY is_featured DESC, seq"},
		{by: "", want: " ORDER BY seq"},
	}

	for _, tt := range tests {
		t.Run(string(tt.by), func(t *testing.T) {
			assert.Equal(t, tt.want, orderClause(tt.by))
		})
	}
}

package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iselbouch1/bouchauto-showcase/internal/catalog"
	"github.com/iselbouch1/bouchauto-showcase/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const queryTimeout = 3 * time.Second

const productColumns = `id, name, slug, short_description, description, category_ids, tags, is_visible, is_featured, is_new, sort_order, images, specs, related_product_ids, created_at, updated_at`

const categoryColumns = `id, name, slug, description, COALESCE(parent_id, ''), image, sort_order`

type PostgresCatalogRepository struct {
	db *sql.DB
}

func NewPostgresCatalogRepository(db *sql.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (models.Category, error) {
	var c models.Category
	var order sql.NullInt64
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.Image, &order); err != nil {
		return models.Category{}, err
	}
	if order.Valid {
		v := int(order.Int64)
		c.SortOrder = &v
	}
	return c, nil
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	var categoryIDs, tags, images, specs, related []byte
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.ShortDescription, &p.Description, &categoryIDs, &tags,
		&p.IsVisible, &p.IsFeatured, &p.IsNew, &p.SortOrder, &images, &specs, &related, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Product{}, err
	}

	p.CategoryIDs = []string{}
	p.Images = []models.ProductImage{}
	fields := []struct {
		raw  []byte
		dest any
	}{
		{categoryIDs, &p.CategoryIDs},
		{tags, &p.Tags},
		{images, &p.Images},
		{specs, &p.Specs},
		{related, &p.RelatedProductIDs},
	}
	for _, f := range fields {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dest); err != nil {
			return models.Product{}, fmt.Errorf("failed to decode product %s: %w", p.ID, err)
		}
	}
	if len(p.Specs) == 0 {
		p.Specs = nil
	}
	return p, nil
}

func (r *PostgresCatalogRepository) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresCatalogRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY COALESCE(sort_order, 0), name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresCatalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	c, err := scanCategory(r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, ErrCategoryNotFound
	}
	return c, err
}

func (r *PostgresCatalogRepository) GetProducts(ctx context.Context, filters models.FilterParams) (models.PaginatedResponse[models.Product], error) {
	conditions, args, argIdx, err := productConditions(filters)
	if err != nil {
		return models.PaginatedResponse[models.Product]{}, err
	}
	page, perPage := catalog.NormalizePage(filters.Page, filters.PerPage)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	countQuery := "SELECT COUNT(*) FROM products WHERE 1=1" + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return models.PaginatedResponse[models.Product]{}, err
	}

	query := "SELECT " + productColumns + " FROM products WHERE 1=1" + conditions + orderClause(filters.SortBy)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, perPage, catalog.Offset(page, perPage))

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return models.PaginatedResponse[models.Product]{}, err
	}

	return models.PaginatedResponse[models.Product]{
		Data:       products,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	}, nil
}

func (r *PostgresCatalogRepository) GetTagFacets(ctx context.Context, filters models.FilterParams) ([]models.TagFacet, error) {
	conditions, args, _, err := productConditions(filters)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, "SELECT tags FROM products WHERE 1=1"+conditions+" ORDER BY seq", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p models.Product
		if err := json.Unmarshal(raw, &p.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return catalog.TagFacets(products), nil
}

// productConditions renders the filters as SQL predicates appended to "WHERE 1=1".
func productConditions(f models.FilterParams) (string, []any, int, error) {
	query := ""
	argIdx := 1
	args := []any{}

	if f.Visible != nil {
		query += fmt.Sprintf(" AND is_visible = $%d", argIdx)
		args = append(args, *f.Visible)
		argIdx++
	}
	if f.Featured != nil {
		query += fmt.Sprintf(" AND is_featured = $%d", argIdx)
		args = append(args, *f.Featured)
		argIdx++
	}
	if search := f.Search; search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%[1]d OR short_description ILIKE $%[1]d"+
			" OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS t(tag) WHERE t.tag ILIKE $%[1]d))", argIdx)
		args = append(args, "%"+escapeLike(search)+"%")
		argIdx++
	}
	if f.Category != "" {
		query += fmt.Sprintf(" AND (category_ids ? $%[1]d OR category_ids ? (SELECT id FROM categories WHERE slug = $%[1]d))", argIdx)
		args = append(args, f.Category)
		argIdx++
	}
	if len(f.Tags) > 0 {
		tags, err := json.Marshal(f.Tags)
		if err != nil {
			return "", nil, 0, err
		}
		query += fmt.Sprintf(" AND tags ?| ARRAY(SELECT jsonb_array_elements_text($%d::jsonb))", argIdx)
		args = append(args, string(tags))
		argIdx++
	}

	return query, args, argIdx, nil
}

// nameCollation matches the French ordering the in-memory catalog applies.
const nameCollation = `"fr-FR-x-icu"`

func orderClause(by models.SortBy) string {
	switch by {
	case models.SortName:
		return " ORDER BY name COLLATE " + nameCollation + ", seq"
	case models.SortNewest:
		return " ORDER BY sort_order DESC, seq"
	case models.SortFeatured:
		return " ORDER BY is_featured DESC, seq"
	default:
		return " ORDER BY seq"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *PostgresCatalogRepository) GetProductBySlug(ctx context.Context, slug string) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresCatalogRepository) GetProductByID(ctx context.Context, id string) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

// GetRelatedProducts loads the visible products linked to or sharing a category with the
// product and lets catalog.Related pick and order them.
func (r *PostgresCatalogRepository) GetRelatedProducts(ctx context.Context, productID string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		return []models.Product{}, nil
	}
	product, err := r.GetProductByID(ctx, productID)
	if errors.Is(err, ErrProductNotFound) {
		return []models.Product{}, nil
	}
	if err != nil {
		return nil, err
	}

	categoryIDs, _ := json.Marshal(product.CategoryIDs)
	relatedIDs, _ := json.Marshal(nonNil(product.RelatedProductIDs))

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products
		WHERE id <> $1 AND is_visible
		AND (category_ids ?| ARRAY(SELECT jsonb_array_elements_text($2::jsonb))
			OR id IN (SELECT jsonb_array_elements_text($3::jsonb)))
		ORDER BY seq`
	candidates, err := r.queryProducts(ctx, query, product.ID, string(categoryIDs), string(relatedIDs))
	if err != nil {
		return nil, err
	}
	return catalog.Related(product, candidates, limit), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *PostgresCatalogRepository) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `INSERT INTO categories (id, name, slug, description, parent_id, image, sort_order) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.Description, nullIfEmpty(c.ParentID), c.Image, c.SortOrder)
	if err != nil {
		return models.Category{}, translateError(err)
	}
	return c, nil
}

func (r *PostgresCatalogRepository) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	doc, err := encodeProductDocuments(p)
	if err != nil {
		return models.Product{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = r.db.ExecContext(ctx, query, p.ID, p.Name, p.Slug, p.ShortDescription, p.Description,
		doc.categoryIDs, doc.tags, p.IsVisible, p.IsFeatured, p.IsNew, p.SortOrder, doc.images, doc.specs, doc.related,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return models.Product{}, translateError(err)
	}
	return p, nil
}

func (r *PostgresCatalogRepository) UpdateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	p.UpdatedAt = time.Now().UTC()
	doc, err := encodeProductDocuments(p)
	if err != nil {
		return models.Product{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `UPDATE products SET name = $1, slug = $2, short_description = $3, description = $4, category_ids = $5,
		tags = $6, is_visible = $7, is_featured = $8, is_new = $9, sort_order = $10, images = $11, specs = $12,
		related_product_ids = $13, updated_at = $14
		WHERE id = $15 RETURNING created_at`
	err = r.db.QueryRowContext(ctx, query, p.Name, p.Slug, p.ShortDescription, p.Description, doc.categoryIDs,
		doc.tags, p.IsVisible, p.IsFeatured, p.IsNew, p.SortOrder, doc.images, doc.specs, doc.related, p.UpdatedAt, p.ID).
		Scan(&p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, translateError(err)
	}
	return p, nil
}

func (r *PostgresCatalogRepository) DeleteProduct(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Import upserts a whole dataset in one transaction.
func (r *PostgresCatalogRepository) Import(ctx context.Context, ds Dataset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range ds.Categories {
		_, err := tx.ExecContext(ctx, `INSERT INTO categories (id, name, slug, description, parent_id, image, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, slug = EXCLUDED.slug, description = EXCLUDED.description,
			parent_id = EXCLUDED.parent_id, image = EXCLUDED.image, sort_order = EXCLUDED.sort_order`,
			c.ID, c.Name, c.Slug, c.Description, nullIfEmpty(c.ParentID), c.Image, c.SortOrder)
		if err != nil {
			return fmt.Errorf("failed to import category %s: %w", c.Slug, err)
		}
	}

	now := time.Now().UTC()
	for _, p := range ds.Products {
		doc, err := encodeProductDocuments(p)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO products (`+productColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, slug = EXCLUDED.slug,
			short_description = EXCLUDED.short_description, description = EXCLUDED.description,
			category_ids = EXCLUDED.category_ids, tags = EXCLUDED.tags, is_visible = EXCLUDED.is_visible,
			is_featured = EXCLUDED.is_featured, is_new = EXCLUDED.is_new, sort_order = EXCLUDED.sort_order,
			images = EXCLUDED.images, specs = EXCLUDED.specs, related_product_ids = EXCLUDED.related_product_ids,
			updated_at = EXCLUDED.updated_at`,
			p.ID, p.Name, p.Slug, p.ShortDescription, p.Description, doc.categoryIDs, doc.tags,
			p.IsVisible, p.IsFeatured, p.IsNew, p.SortOrder, doc.images, doc.specs, doc.related, now)
		if err != nil {
			return fmt.Errorf("failed to import product %s: %w", p.Slug, err)
		}
	}

	return tx.Commit()
}

type productDocuments struct {
	categoryIDs, tags, images, specs, related string
}

func encodeProductDocuments(p models.Product) (productDocuments, error) {
	var doc productDocuments
	specs := p.Specs
	if specs == nil {
		specs = map[string]models.SpecValue{}
	}
	images := p.Images
	if images == nil {
		images = []models.ProductImage{}
	}
	fields := []struct {
		dest *string
		v    any
	}{
		{&doc.categoryIDs, nonNil(p.CategoryIDs)},
		{&doc.tags, nonNil(p.Tags)},
		{&doc.images, images},
		{&doc.specs, specs},
		{&doc.related, nonNil(p.RelatedProductIDs)},
	}
	for _, f := range fields {
		b, err := json.Marshal(f.v)
		if err != nil {
			return productDocuments{}, fmt.Errorf("failed to encode product %s: %w", p.Slug, err)
		}
		*f.dest = string(b)
	}
	return doc, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// translateError maps a unique_violation to ErrDuplicatedValueUnique.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicatedValueUnique
	}
	return err
}

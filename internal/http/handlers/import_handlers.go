package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/iselbouch1/bouchauto-showcase/internal/catalog"
	"github.com/iselbouch1/bouchauto-showcase/internal/models"
	"github.com/iselbouch1/bouchauto-showcase/internal/repo"
	"go.uber.org/zap"
)

const maxImportSize = 10 << 20

// csvRow is one product line. List columns (category_ids, tags, images) use "|" as separator.
type csvRow struct {
	Name             string
	Slug             string
	ShortDescription string
	Description      string
	CategoryIDs      []string
	Tags             []string
	Images           []string
	IsVisible        bool
	IsFeatured       bool
	IsNew            bool
	SortOrder        int
}

var requiredColumns = []string{"name", "category_ids"}

func parseCSV(file io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, errors.New("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing CSV column %q", col)
		}
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		field := func(name string) string {
			if i, ok := index[name]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		rows = append(rows, csvRow{
			Name:             field("name"),
			Slug:             field("slug"),
			ShortDescription: field("short_description"),
			Description:      field("description"),
			CategoryIDs:      splitList(field("category_ids")),
			Tags:             splitList(field("tags")),
			Images:           splitList(field("images")),
			IsVisible:        parseBool(field("is_visible"), true),
			IsFeatured:       parseBool(field("is_featured"), false),
			IsNew:            parseBool(field("is_new"), false),
			SortOrder:        parseInt(field("sort_order")),
		})
	}
	return rows, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(s string, fallback bool) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "oui":
		return true
	case "0", "false", "no", "non":
		return false
	}
	return fallback
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func (row csvRow) toRequest() ProductRequest {
	req := ProductRequest{
		Name:             row.Name,
		Slug:             row.Slug,
		ShortDescription: row.ShortDescription,
		Description:      row.Description,
		CategoryIDs:      row.CategoryIDs,
		Tags:             row.Tags,
		IsVisible:        row.IsVisible,
		IsFeatured:       row.IsFeatured,
		IsNew:            row.IsNew,
		SortOrder:        row.SortOrder,
	}
	for i, url := range row.Images {
		req.Images = append(req.Images, models.ProductImage{URL: url, Alt: row.Name, IsCover: i == 0})
	}
	if req.Slug == "" {
		req.Slug = catalog.Slugify(req.Name)
	}
	return req
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Columns: name, slug, short_description, description, category_ids, tags, images, is_visible, is_featured, is_new, sort_order. Lists are separated with "|".
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid file"
// @Failure 501 {string} string "Read-only catalog"
// @Router /api/v1/admin/products/import [post]
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	writer, err := catalogWriter()
	if err != nil {
		repoError(w, r, err, "could not import products")
		return
	}

	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := ImportProductsResult{Errors: []ProductValidationError{}}
	rowError := func(rowNum int, field, format string, args ...any) {
		result.Errors = append(result.Errors, ProductValidationError{
			Field:       field,
			Description: fmt.Sprintf("row %d: ", rowNum) + fmt.Sprintf(format, args...),
		})
	}

	for i, rec := range records {
		rowNum := i + 2 // header is row 1
		req := rec.toRequest()

		if validationErrors := validateProduct(req); len(validationErrors) > 0 {
			for _, ve := range validationErrors {
				rowError(rowNum, ve.Field, "%s", ve.Description)
			}
			continue
		}

		existing, err := catalogRepo.GetProductBySlug(r.Context(), req.Slug)
		switch {
		case err == nil:
			if mode == "skip" {
				rowError(rowNum, "Slug", "product '%s' already exists", req.Slug)
				continue
			}
			p := req.toProduct()
			p.ID = existing.ID
			if len(p.Images) == 0 {
				p.Images = existing.Images
			}
			p.Specs = existing.Specs
			p.RelatedProductIDs = existing.RelatedProductIDs
			if _, err := writer.UpdateProduct(r.Context(), p); err != nil {
				rowError(rowNum, "", "failed to update '%s': %v", req.Slug, err)
				continue
			}
			result.UpdatedProductsCount++
		case errors.Is(err, repo.ErrNotFound):
			if _, err := writer.CreateProduct(r.Context(), req.toProduct()); err != nil {
				rowError(rowNum, "", "failed to create '%s': %v", req.Slug, err)
				continue
			}
			result.ImportedProductsCount++
		default:
			rowError(rowNum, "", "failed to look up '%s': %v", req.Slug, err)
		}
	}

	logger.Info("products imported",
		zap.String("mode", mode),
		zap.Int("imported", result.ImportedProductsCount),
		zap.Int("updated", result.UpdatedProductsCount),
		zap.Int("errors", len(result.Errors)))
	respond(w, r, http.StatusOK, result)
}

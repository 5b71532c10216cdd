// Package remote talks to a catalog backend over its versioned REST API.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iselbouch1/bouchauto-showcase/internal/filterparams"
	"github.com/iselbouch1/bouchauto-showcase/internal/models"
	"github.com/iselbouch1/bouchauto-showcase/internal/repo"
)

const apiPrefix = "/api/v1"

// RequestError is returned for every non-2xx response. The body is not inspected.
type RequestError struct {
	StatusCode int
	Status     string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("API Error: %d %s", e.StatusCode, e.Status)
}

// Is lets callers treat a 404 as repo.ErrNotFound.
func (e *RequestError) Is(target error) bool {
	return target == repo.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client implements repo.CatalogRepository against a remote catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) fetchJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		status := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
		return &RequestError{StatusCode: resp.StatusCode, Status: status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}
	return nil
}

func (c *Client) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.fetchJSON(ctx, apiPrefix+"/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetCategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	var category models.Category
	err := c.fetchJSON(ctx, apiPrefix+"/categories/"+url.PathEscape(slug), nil, &category)
	return category, err
}

func (c *Client) GetProducts(ctx context.Context, filters models.FilterParams) (models.PaginatedResponse[models.Product], error) {
	var page models.PaginatedResponse[models.Product]
	err := c.fetchJSON(ctx, apiPrefix+"/products", filterparams.Encode(filters), &page)
	return page, err
}

func (c *Client) GetTagFacets(ctx context.Context, filters models.FilterParams) ([]models.TagFacet, error) {
	var facets []models.TagFacet
	if err := c.fetchJSON(ctx, apiPrefix+"/products/tags", filterparams.Encode(filters), &facets); err != nil {
		return nil, err
	}
	return facets, nil
}

func (c *Client) GetProductBySlug(ctx context.Context, slug string) (models.Product, error) {
	var product models.Product
	err := c.fetchJSON(ctx, apiPrefix+"/products/"+url.PathEscape(slug), nil, &product)
	return product, err
}

func (c *Client) GetRelatedProducts(ctx context.Context, productID string, limit int) ([]models.Product, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var products []models.Product
	if err := c.fetchJSON(ctx, apiPrefix+"/products/"+url.PathEscape(productID)+"/related", params, &products); err != nil {
		return nil, err
	}
	return products, nil
}

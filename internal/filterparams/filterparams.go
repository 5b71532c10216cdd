// Package filterparams maps FilterParams to and from the query string of the catalog API.
//
// Names are snake_case, tags are repeated as tags[] and booleans travel as 1/0.
package filterparams

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/iselbouch1/bouchauto-showcase/internal/models"
)

// Encode omits every unset field.
func Encode(f models.FilterParams) url.Values {
	params := url.Values{}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Category != "" {
		params.Set("category", f.Category)
	}
	for _, tag := range f.Tags {
		params.Add("tags[]", tag)
	}
	if f.Visible != nil {
		params.Set("visible", formatBool(*f.Visible))
	}
	if f.Featured != nil {
		params.Set("featured", formatBool(*f.Featured))
	}
	if f.Page != 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.PerPage != 0 {
		params.Set("per_page", strconv.Itoa(f.PerPage))
	}
	if f.SortBy != "" {
		params.Set("sort_by", string(f.SortBy))
	}
	return params
}

// FieldError reports a query parameter that could not be decoded.
type FieldError struct {
	Field string
	Value string
	Msg   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Msg)
}

// Decode parses a query string. Page and per_page must be positive integers when present.
// tags[] values are taken verbatim. A plain repeated or comma separated tags parameter
// is accepted as well.
func Decode(q url.Values) (models.FilterParams, error) {
	f := models.FilterParams{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		SortBy:   models.SortBy(q.Get("sort_by")),
	}
	if f.Search == "" {
		f.Search = q.Get("q")
	}

	for _, tag := range q["tags[]"] {
		if tag != "" {
			f.Tags = append(f.Tags, tag)
		}
	}
	for _, raw := range q["tags"] {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}

	var err error
	if f.Visible, err = parseBool(q, "visible"); err != nil {
		return models.FilterParams{}, err
	}
	if f.Featured, err = parseBool(q, "featured"); err != nil {
		return models.FilterParams{}, err
	}
	if f.Page, err = parsePositive(q, "page"); err != nil {
		return models.FilterParams{}, err
	}
	if f.PerPage, err = parsePositive(q, "per_page"); err != nil {
		return models.FilterParams{}, err
	}
	if !f.SortBy.Valid() {
		return models.FilterParams{}, &FieldError{Field: "sort_by", Value: string(f.SortBy), Msg: "must be one of name, newest, featured"}
	}
	return f, nil
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func parseBool(q url.Values, key string) (*bool, error) {
	raw := q.Get(key)
	switch strings.ToLower(raw) {
	case "":
		return nil, nil
	case "1", "true":
		return models.BoolPtr(true), nil
	case "0", "false":
		return models.BoolPtr(false), nil
	}
	return nil, &FieldError{Field: key, Value: raw, Msg: "must be 1 or 0"}
}

func parsePositive(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, &FieldError{Field: key, Value: raw, Msg: "must be a positive integer"}
	}
	return v, nil
}

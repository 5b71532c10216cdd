package filterparams

import (
	"net/url"
	"testing"

	"github.com/iselbouch1/bouchauto-showcase/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	params := Encode(models.FilterParams{
		Search:   "led",
		Category: "eclairage",
		Tags:     []string{"led", "chrome"},
		Visible:  models.BoolPtr(true),
		Featured: models.BoolPtr(false),
		Page:     2,
		PerPage:  24,
		SortBy:   models.SortNewest,
	})

	assert.Equal(t, url.Values{
		"search":   {"led"},
		"category": {"eclairage"},
		"tags[]":   {"led", "chrome"},
		"visible":  {"1"},
		"featured": {"0"},
		"page":     {"2"},
		"per_page": {"24"},
		"sort_by":  {"newest"},
	}, params)
}

func TestEncode_OmitsUnsetFields(t *testing.T) {
	assert.Empty(t, Encode(models.FilterParams{}))
}

func TestDecode_ReversesEncode(t *testing.T) {
	in := models.FilterParams{
		Search:   "jantes",
		Category: "exterieur",
		Tags:     []string{"sport"},
		Visible:  models.BoolPtr(false),
		Page:     3,
		PerPage:  6,
		SortBy:   models.SortName,
	}
	out, err := Decode(Encode(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecode_KeepsCommasInTags(t *testing.T) {
	in := models.FilterParams{Tags: []string{"12V, 24V", "led"}}
	out, err := Decode(Encode(in))
	require.NoError(t, err)
	assert.Equal(t, in.Tags, out.Tags)
}

func TestDecode_SearchIsNotTrimmed(t *testing.T) {
	f, err := Decode(url.Values{"search": {" chrome "}})
	require.NoError(t, err)
	assert.Equal(t, " chrome ", f.Search)
}

func TestDecode_Aliases(t *testing.T) {
	q, _ := url.ParseQuery("q=volant&tags=cuir,sport&tags=confort&visible=true")
	f, err := Decode(q)
	require.NoError(t, err)

	assert.Equal(t, "volant", f.Search)
	assert.Equal(t, []string{"cuir", "sport", "confort"}, f.Tags)
	require.NotNil(t, f.Visible)
	assert.True(t, *f.Visible)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		query string
		field string
	}{
		{query: "page=0", field: "page"},
		{query: "page=abc", field: "page"},
		{query: "per_page=-1", field: "per_page"},
		{query: "visible=yes", field: "visible"},
		{query: "featured=2", field: "featured"},
		{query: "sort_by=price", field: "sort_by"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			_, err := Decode(q)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

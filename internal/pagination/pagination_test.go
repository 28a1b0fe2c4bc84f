package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 5, TotalPages(41, 10))
}

func params(page, totalPages int) Params {
	return Params{
		BaseURL:    "http://localhost:8080",
		Endpoint:   "/api/v1/url",
		Limit:      10,
		Page:       page,
		TotalPages: totalPages,
	}
}

func pageParam(t *testing.T, link *string) string {
	t.Helper()
	require.NotNil(t, link)
	u, err := url.Parse(*link)
	require.NoError(t, err)
	return u.Query().Get("page")
}

func TestLinksMiddlePage(t *testing.T) {
	next, prev := Links(params(2, 5))
	assert.Equal(t, "3", pageParam(t, next))
	assert.Equal(t, "1", pageParam(t, prev))
}

func TestLinksSinglePage(t *testing.T) {
	next, prev := Links(params(1, 1))
	assert.Nil(t, next)
	assert.Nil(t, prev)
}

func TestLinksEmptyResultSet(t *testing.T) {
	next, prev := Links(params(1, 0))
	assert.Nil(t, next)
	assert.Nil(t, prev)

	// totalPages = 0 yields no links regardless of the requested page
	next, prev = Links(params(7, 0))
	assert.Nil(t, next)
	assert.Nil(t, prev)
}

func TestLinksPageBeyondLast(t *testing.T) {
	// previous clamps to the last valid page, never past it
	next, prev := Links(params(5, 2))
	assert.Nil(t, next)
	assert.Equal(t, "2", pageParam(t, prev))
}

func TestLinksFilterPropagated(t *testing.T) {
	p := params(2, 3)
	p.Filter = "docs"
	next, prev := Links(p)

	for _, link := range []*string{next, prev} {
		require.NotNil(t, link)
		u, err := url.Parse(*link)
		require.NoError(t, err)
		assert.Equal(t, "docs", u.Query().Get("filter"))
		assert.Equal(t, "10", u.Query().Get("limit"))
		assert.Equal(t, "/api/v1/url", u.Path)
	}
}

func TestLinksFirstOfMany(t *testing.T) {
	next, prev := Links(params(1, 3))
	assert.Equal(t, "2", pageParam(t, next))
	assert.Nil(t, prev)
}

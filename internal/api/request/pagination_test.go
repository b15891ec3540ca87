package request

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/subscriptions", nil)
	p := ParsePagination(r)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Empty(t, p.Cursor)
}

func TestParsePagination_CustomValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/subscriptions?limit=25&cursor=abc123", nil)
	p := ParsePagination(r)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, "abc123", p.Cursor)
}

func TestParsePagination_ExceedsMax(t *testing.T) {
	r := httptest.NewRequest("GET", "/subscriptions?limit=500", nil)
	p := ParsePagination(r)
	assert.Equal(t, MaxLimit, p.Limit)
}

func TestParsePagination_InvalidLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/subscriptions?limit=abc", nil)
	p := ParsePagination(r)
	assert.Equal(t, DefaultLimit, p.Limit)
}

func TestParsePagination_ZeroLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/subscriptions?limit=0", nil)
	p := ParsePagination(r)
	assert.Equal(t, DefaultLimit, p.Limit)
}

func TestParseListParams_Filters(t *testing.T) {
	r := httptest.NewRequest("GET", "/subscriptions?status=cancelled&plan=monthly&limit=10", nil)
	p := ParseListParams(r)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, "cancelled", p.Status)
	assert.Equal(t, "monthly", p.Plan)
}

func TestParseListParams_NoFilters(t *testing.T) {
	r := httptest.NewRequest("GET", "/subscriptions", nil)
	p := ParseListParams(r)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Empty(t, p.Status)
	assert.Empty(t, p.Plan)
}

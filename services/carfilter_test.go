package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileCarQueryDefaults(t *testing.T) {
	query := CompileCarQuery(CarFilters{}, "", "", 0, 0)

	assert.Empty(t, query.Clauses)
	assert.Equal(t, "car_id", query.SortBy)
	assert.Equal(t, "asc", query.SortOrder)
	assert.Equal(t, DefaultPage, query.Page)
	assert.Equal(t, DefaultLimit, query.Limit)
	assert.Equal(t, 0, query.Offset)
}

func TestCompileCarQueryOmitsEmptyFilters(t *testing.T) {
	filters := CarFilters{
		Make:     "Toyota",
		FuelType: "Hybrid",
	}

	query := CompileCarQuery(filters, "make", "desc", 2, 10)
	require.Len(t, query.Clauses, 2)

	assert.Equal(t, FilterClause{Column: "make", Op: "contains", Value: "Toyota"}, query.Clauses[0])
	assert.Equal(t, FilterClause{Column: "fuel_type", Op: "eq", Value: "Hybrid"}, query.Clauses[1])
	assert.Equal(t, "make", query.SortBy)
	assert.Equal(t, "desc", query.SortOrder)
	assert.Equal(t, 10, query.Offset)
}

func TestCompileCarQueryZeroMinPriceIsKept(t *testing.T) {
	zero := decimal.Zero
	query := CompileCarQuery(CarFilters{MinPrice: &zero}, "", "", 1, 20)

	require.Len(t, query.Clauses, 1)
	clause := query.Clauses[0]
	assert.Equal(t, "monthly_fee_without_tax", clause.Column)
	assert.Equal(t, "gte", clause.Op)
	assert.True(t, clause.Value.(decimal.Decimal).IsZero())

	// 沒帶 min_price 就完全不產生價格條件
	query = CompileCarQuery(CarFilters{}, "", "", 1, 20)
	assert.Empty(t, query.Clauses)
}

func TestCompileCarQuerySortWhitelist(t *testing.T) {
	// 不在白名單裡的欄位退回預設排序
	query := CompileCarQuery(CarFilters{}, "password_hash; DROP TABLE cars", "asc", 1, 20)
	assert.Equal(t, "car_id", query.SortBy)

	query = CompileCarQuery(CarFilters{}, "monthly_fee_without_tax", "desc", 1, 20)
	assert.Equal(t, "monthly_fee_without_tax", query.SortBy)
	assert.Equal(t, "desc", query.SortOrder)

	// 排序方向只認 desc，其餘一律 asc
	query = CompileCarQuery(CarFilters{}, "make", "DESC; --", 1, 20)
	assert.Equal(t, "asc", query.SortOrder)
}

func TestCompileCarQueryPagingClamps(t *testing.T) {
	tests := []struct {
		name           string
		page, limit    int
		expectedPage   int
		expectedLimit  int
		expectedOffset int
	}{
		{"negative page", -3, 20, 1, 20, 0},
		{"zero limit", 2, 0, 2, DefaultLimit, 20},
		{"limit over cap", 1, 500, 1, MaxLimit, 0},
		{"normal", 3, 25, 3, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := CompileCarQuery(CarFilters{}, "", "", tt.page, tt.limit)
			assert.Equal(t, tt.expectedPage, query.Page)
			assert.Equal(t, tt.expectedLimit, query.Limit)
			assert.Equal(t, tt.expectedOffset, query.Offset)
		})
	}
}

func TestCompileCarQueryIsDeterministic(t *testing.T) {
	min := decimal.RequireFromString("300")
	max := decimal.RequireFromString("600")
	filters := CarFilters{
		Brand:        "BMW",
		Transmission: "Automatic",
		MinPrice:     &min,
		MaxPrice:     &max,
	}

	first := CompileCarQuery(filters, "brand", "desc", 2, 50)
	second := CompileCarQuery(filters, "brand", "desc", 2, 50)
	assert.Equal(t, first, second)
}

func TestCompileCarSearch(t *testing.T) {
	query := CompileCarSearch("corolla", 0, 0)

	assert.Equal(t, "corolla", query.SearchTerm)
	assert.Empty(t, query.Clauses)
	assert.Equal(t, DefaultPage, query.Page)
	assert.Equal(t, DefaultLimit, query.Limit)
}

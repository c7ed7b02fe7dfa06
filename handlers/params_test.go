package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestParseIntQuery(t *testing.T) {
	c := queryContext(t, "page=3&limit=abc")

	assert.Equal(t, 3, parseIntQuery(c, "page", 1))
	assert.Equal(t, 20, parseIntQuery(c, "limit", 20))
	assert.Equal(t, 20, parseIntQuery(c, "missing", 20))
}

func TestParsePriceQuery(t *testing.T) {
	c := queryContext(t, "min_price=0&max_price=450.50&bad=abc")

	// 0 是有效價格，不能跟「未提供」混為一談
	min, ok := parsePriceQuery(c, "min_price")
	require.True(t, ok)
	require.NotNil(t, min)
	assert.True(t, min.IsZero())

	max, ok := parsePriceQuery(c, "max_price")
	require.True(t, ok)
	require.NotNil(t, max)
	assert.Equal(t, "450.5", max.String())

	absent, ok := parsePriceQuery(c, "missing")
	assert.True(t, ok)
	assert.Nil(t, absent)

	_, ok = parsePriceQuery(c, "bad")
	assert.False(t, ok)
}

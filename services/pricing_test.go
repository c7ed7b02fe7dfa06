package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentify/models"
)

func fee(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func TestFilterOffers(t *testing.T) {
	offers := []models.PricingOption{
		{PricingID: 1, WebsiteID: 1, DurationMonths: 12, AnnualKms: 10000, MonthlyFee: fee("420")},
		{PricingID: 2, WebsiteID: 2, DurationMonths: 24, AnnualKms: 10000, MonthlyFee: fee("380")},
		{PricingID: 3, WebsiteID: 3, DurationMonths: 12, AnnualKms: 15000, MonthlyFee: fee("450")},
		{PricingID: 4, WebsiteID: 4, DurationMonths: 12, AnnualKms: 10000, MonthlyFee: fee("395")},
	}

	filtered := FilterOffers(offers, 12, 10000)
	require.Len(t, filtered, 2)
	// 保留原始順序
	assert.Equal(t, 1, filtered[0].PricingID)
	assert.Equal(t, 4, filtered[1].PricingID)
}

func TestFilterOffersNoMatch(t *testing.T) {
	offers := []models.PricingOption{
		{PricingID: 1, DurationMonths: 12, AnnualKms: 10000, MonthlyFee: fee("420")},
	}

	filtered := FilterOffers(offers, 36, 20000)
	assert.NotNil(t, filtered)
	assert.Empty(t, filtered)
}

func TestMinPriceSkipsMissingFees(t *testing.T) {
	offers := []models.PricingOption{
		{PricingID: 1, MonthlyFee: nil},
		{PricingID: 2, MonthlyFee: fee("410.50")},
		{PricingID: 3, MonthlyFee: fee("399.90")},
	}

	min := MinPrice(offers)
	require.NotNil(t, min)
	assert.True(t, min.Equal(decimal.RequireFromString("399.90")))
}

func TestMinPriceAllMissing(t *testing.T) {
	offers := []models.PricingOption{
		{PricingID: 1, MonthlyFee: nil},
		{PricingID: 2, MonthlyFee: nil},
	}

	assert.Nil(t, MinPrice(offers))
}

func TestBestOfferTieBreakFirstWins(t *testing.T) {
	offers := []models.PricingOption{
		{PricingID: 1, WebsiteID: 1, MonthlyFee: fee("50")},
		{PricingID: 2, WebsiteID: 2, MonthlyFee: fee("50")},
	}

	min := MinPrice(offers)
	require.NotNil(t, min)

	// 平手時先進者勝，重複呼叫結果不變
	for i := 0; i < 5; i++ {
		best := BestOffer(offers, min)
		require.NotNil(t, best)
		assert.Equal(t, 1, best.PricingID)
	}
}

func TestSavings(t *testing.T) {
	tests := []struct {
		name     string
		offers   []models.PricingOption
		expected string
	}{
		{
			name: "multiple offers",
			offers: []models.PricingOption{
				{MonthlyFee: fee("420")},
				{MonthlyFee: fee("395")},
				{MonthlyFee: fee("405")},
			},
			expected: "25",
		},
		{
			name: "single offer",
			offers: []models.PricingOption{
				{MonthlyFee: fee("420")},
			},
			expected: "0",
		},
		{
			name: "one priced one missing",
			offers: []models.PricingOption{
				{MonthlyFee: fee("420")},
				{MonthlyFee: nil},
			},
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min := MinPrice(tt.offers)
			savings := Savings(tt.offers, min)
			assert.True(t, savings.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, savings)
		})
	}
}

func TestResolveBestOfferEmptyInput(t *testing.T) {
	result := ResolveBestOffer(nil, 12, 10000)

	assert.Empty(t, result.Filtered)
	assert.Nil(t, result.MinPrice)
	assert.Nil(t, result.BestOffer)
	assert.True(t, result.Savings.IsZero())
}

func TestResolveBestOfferMinIsLowerBound(t *testing.T) {
	offers := []models.PricingOption{
		{PricingID: 1, DurationMonths: 12, AnnualKms: 10000, MonthlyFee: fee("420")},
		{PricingID: 2, DurationMonths: 12, AnnualKms: 10000, MonthlyFee: fee("399.95")},
		{PricingID: 3, DurationMonths: 12, AnnualKms: 10000, MonthlyFee: fee("405")},
	}

	result := ResolveBestOffer(offers, 12, 10000)
	require.NotNil(t, result.MinPrice)
	require.NotNil(t, result.BestOffer)

	for _, offer := range result.Filtered {
		assert.True(t, result.MinPrice.LessThanOrEqual(*offer.MonthlyFee))
	}
	assert.True(t, result.BestOffer.MonthlyFee.Equal(*result.MinPrice))
}

// 三家網站對 (12 個月, 10000 公里) 分別報 420 / 395 / 395
func TestResolveBestOfferProviderComparison(t *testing.T) {
	offers := []models.PricingOption{
		{PricingID: 1, WebsiteID: 101, DurationMonths: 12, AnnualKms: 10000, MonthlyFee: fee("420")},
		{PricingID: 2, WebsiteID: 102, DurationMonths: 12, AnnualKms: 10000, MonthlyFee: fee("395")},
		{PricingID: 3, WebsiteID: 103, DurationMonths: 12, AnnualKms: 10000, MonthlyFee: fee("395")},
	}

	result := ResolveBestOffer(offers, 12, 10000)
	require.NotNil(t, result.MinPrice)
	require.NotNil(t, result.BestOffer)

	assert.True(t, result.MinPrice.Equal(decimal.RequireFromString("395")))
	// 同價時取先寫入的 102，而非後來的 103
	assert.Equal(t, 102, result.BestOffer.WebsiteID)
	assert.True(t, result.Savings.Equal(decimal.RequireFromString("25")))
}

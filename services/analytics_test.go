package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentify/models"
)

func userCreatedAt(value string) models.User {
	created, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return models.User{CreatedAt: created}
}

func TestMonthlyUserGrowth(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	users := []models.User{
		userCreatedAt("2024-03-05T10:00:00Z"),
		userCreatedAt("2024-04-20T10:00:00Z"),
		userCreatedAt("2024-04-25T10:00:00Z"),
		userCreatedAt("2024-06-01T00:00:00Z"),
	}

	growth := MonthlyUserGrowth(users, 3, now, time.UTC)
	require.Len(t, growth, 3)

	// 四月：兩個新用戶，累計含三月的共 3
	assert.Equal(t, MonthlyGrowth{Month: "Apr 2024", NewUsers: 2, TotalUsers: 3}, growth[0])
	// 五月沒人註冊，累計不變
	assert.Equal(t, MonthlyGrowth{Month: "May 2024", NewUsers: 0, TotalUsers: 3}, growth[1])
	// 六月 1 日零點整算在六月
	assert.Equal(t, MonthlyGrowth{Month: "Jun 2024", NewUsers: 1, TotalUsers: 4}, growth[2])
}

func TestMonthlyUserGrowthMonthBoundary(t *testing.T) {
	now := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	users := []models.User{
		userCreatedAt("2024-01-31T23:59:59Z"),
		userCreatedAt("2024-02-01T00:00:00Z"),
	}

	growth := MonthlyUserGrowth(users, 2, now, time.UTC)
	require.Len(t, growth, 2)

	assert.Equal(t, 1, growth[0].NewUsers)
	assert.Equal(t, "Jan 2024", growth[0].Month)
	assert.Equal(t, 1, growth[1].NewUsers)
	assert.Equal(t, 2, growth[1].TotalUsers)
}

func TestMonthlyUserGrowthYearRollover(t *testing.T) {
	now := time.Date(2024, time.January, 20, 8, 0, 0, 0, time.UTC)

	growth := MonthlyUserGrowth(nil, 3, now, time.UTC)
	require.Len(t, growth, 3)

	assert.Equal(t, "Nov 2023", growth[0].Month)
	assert.Equal(t, "Dec 2023", growth[1].Month)
	assert.Equal(t, "Jan 2024", growth[2].Month)
}

func TestMonthlyUserGrowthInvalidMonths(t *testing.T) {
	growth := MonthlyUserGrowth(nil, 0, time.Now(), time.UTC)
	assert.NotNil(t, growth)
	assert.Empty(t, growth)
}

func TestFeaturePopularity(t *testing.T) {
	features := []models.CarFeature{
		{Category: "safety", Value: "ABS"},
		{Category: "safety", Value: "ABS"},
		{Category: "safety", Value: "ABS"},
		{Category: "comfort", Value: "Heated Seats"},
		{Category: "comfort", Value: "Heated Seats"},
		{Category: "audio", Value: "Bluetooth"},
	}

	popular := FeaturePopularity(features)
	require.Len(t, popular, 3)

	assert.Equal(t, FeatureCount{Category: "safety", Value: "ABS", Count: 3}, popular[0])
	assert.Equal(t, FeatureCount{Category: "comfort", Value: "Heated Seats", Count: 2}, popular[1])
	assert.Equal(t, FeatureCount{Category: "audio", Value: "Bluetooth", Count: 1}, popular[2])
}

func TestFeaturePopularityTieOrdering(t *testing.T) {
	features := []models.CarFeature{
		{Category: "safety", Value: "Lane Assist"},
		{Category: "audio", Value: "Bluetooth"},
		{Category: "safety", Value: "ABS"},
	}

	popular := FeaturePopularity(features)
	require.Len(t, popular, 3)

	// 同次數時 category、value 字典序決勝
	assert.Equal(t, "audio", popular[0].Category)
	assert.Equal(t, "ABS", popular[1].Value)
	assert.Equal(t, "Lane Assist", popular[2].Value)
}

func TestFeaturePopularityTopTen(t *testing.T) {
	var features []models.CarFeature
	for i := 0; i < 15; i++ {
		value := fmt.Sprintf("feature-%02d", i)
		// 越前面的配備出現越多次
		for j := 0; j < 15-i; j++ {
			features = append(features, models.CarFeature{Category: "misc", Value: value})
		}
	}

	popular := FeaturePopularity(features)
	require.Len(t, popular, 10)

	assert.Equal(t, "feature-00", popular[0].Value)
	assert.Equal(t, 15, popular[0].Count)
	assert.Equal(t, "feature-09", popular[9].Value)
	assert.Equal(t, 6, popular[9].Count)
}

func TestFeaturePopularityEmpty(t *testing.T) {
	popular := FeaturePopularity(nil)
	assert.NotNil(t, popular)
	assert.Empty(t, popular)
}

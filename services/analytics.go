package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"rentify/database"
	"rentify/models"
)

// MonthlyGrowth 單月新增使用者數與累計總數
type MonthlyGrowth struct {
	Month      string `json:"month"`
	NewUsers   int    `json:"new_users"`
	TotalUsers int    `json:"total_users"`
}

// MonthlyUserGrowth 回推 monthsBack 個月（含當月）的成長曲線
// 月界以 loc 時區的日曆月起訖計算
func MonthlyUserGrowth(users []models.User, monthsBack int, now time.Time, loc *time.Location) []MonthlyGrowth {
	if monthsBack < 1 {
		return []MonthlyGrowth{}
	}
	if loc == nil {
		loc = time.UTC
	}

	growth := make([]MonthlyGrowth, 0, monthsBack)
	nowLocal := now.In(loc)

	for i := monthsBack - 1; i >= 0; i-- {
		monthStart := time.Date(nowLocal.Year(), nowLocal.Month()-time.Month(i), 1, 0, 0, 0, 0, loc)
		nextMonthStart := monthStart.AddDate(0, 1, 0)

		newUsers := 0
		totalUsers := 0
		for _, user := range users {
			created := user.CreatedAt.In(loc)
			if created.Before(nextMonthStart) {
				totalUsers++
				if !created.Before(monthStart) {
					newUsers++
				}
			}
		}

		growth = append(growth, MonthlyGrowth{
			Month:      monthStart.Format("Jan 2006"),
			NewUsers:   newUsers,
			TotalUsers: totalUsers,
		})
	}

	return growth
}

// FeatureCount 配備出現次數
type FeatureCount struct {
	Category string `json:"category"`
	Value    string `json:"value"`
	Count    int    `json:"count"`
}

// FeaturePopularity 依 (category, value) 分組計數，取前十名
// 同次數時以 category、value 字典序排，輸出才穩定
func FeaturePopularity(features []models.CarFeature) []FeatureCount {
	type key struct {
		category string
		value    string
	}

	counts := make(map[key]int)
	for _, feature := range features {
		counts[key{feature.Category, feature.Value}]++
	}

	popular := make([]FeatureCount, 0, len(counts))
	for k, count := range counts {
		popular = append(popular, FeatureCount{Category: k.category, Value: k.value, Count: count})
	}

	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Count != popular[j].Count {
			return popular[i].Count > popular[j].Count
		}
		if popular[i].Category != popular[j].Category {
			return popular[i].Category < popular[j].Category
		}
		return popular[i].Value < popular[j].Value
	})

	if len(popular) > 10 {
		popular = popular[:10]
	}
	return popular
}

// DashboardStats 管理後台總覽
type DashboardStats struct {
	TotalCars    int64          `json:"total_cars"`
	TotalUsers   int64          `json:"total_users"`
	Bookings     *BookingStats `json:"bookings"`
	PopularCars  []models.Car  `json:"popular_cars"`
	RecentEvents []RecentEvent `json:"recent_activity"`
}

// RecentEvent 近期事件（新註冊、新上架）
type RecentEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

const dashboardCacheKey = "rentify:analytics:dashboard"
const dashboardCacheTTL = 5 * time.Minute

// GetDashboardStats 後台總覽；Redis 可用時以短 TTL 快取整包結果
func GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	if database.Redis != nil {
		cached, err := database.Redis.Get(ctx, dashboardCacheKey).Result()
		if err == nil {
			var stats DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			} else {
				log.Printf("Failed to decode cached dashboard stats, recomputing: %v", err)
			}
		}
	}

	stats := &DashboardStats{}

	if err := database.DB.Model(&models.Car{}).Count(&stats.TotalCars).Error; err != nil {
		return nil, fmt.Errorf("failed to count cars: %w", err)
	}
	if err := database.DB.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	bookingStats, err := GetBookingStats()
	if err != nil {
		return nil, err
	}
	stats.Bookings = bookingStats

	popular, err := GetPopularCars(5)
	if err != nil {
		return nil, err
	}
	stats.PopularCars = popular

	var recentUsers []models.User
	if err := database.DB.
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(3).
		Find(&recentUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to query recent users: %w", err)
	}

	events := make([]RecentEvent, 0, len(recentUsers)+len(popular))
	for _, user := range recentUsers {
		name := user.FirstName
		if name == "" {
			name = "New user"
		}
		events = append(events, RecentEvent{
			Type:      "user_registration",
			Message:   fmt.Sprintf("%s %s registered", name, user.LastName),
			Timestamp: user.CreatedAt,
		})
	}
	for _, car := range popular {
		if len(events) >= 5 {
			break
		}
		events = append(events, RecentEvent{
			Type:      "car_added",
			Message:   fmt.Sprintf("%s %s %s added", car.Make, car.Brand, car.Model),
			Timestamp: time.Now().UTC(),
		})
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	if len(events) > 5 {
		events = events[:5]
	}
	stats.RecentEvents = events

	if database.Redis != nil {
		if encoded, err := json.Marshal(stats); err == nil {
			if err := database.Redis.Set(ctx, dashboardCacheKey, encoded, dashboardCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache dashboard stats: %v", err)
			}
		}
	}

	return stats, nil
}

// CarAnalytics 車輛面向的統計
type CarAnalytics struct {
	PopularFeatures []FeatureCount `json:"popular_features"`
}

// GetCarAnalytics 配備熱門度統計
func GetCarAnalytics() (*CarAnalytics, error) {
	var features []models.CarFeature
	if err := database.DB.Find(&features).Error; err != nil {
		return nil, fmt.Errorf("failed to query car features: %w", err)
	}

	return &CarAnalytics{PopularFeatures: FeaturePopularity(features)}, nil
}

// UserAnalytics 使用者面向的統計
type UserAnalytics struct {
	NewUsersThisMonth int             `json:"new_users_this_month"`
	ActiveUsers       int64           `json:"active_users"`
	UserGrowth        []MonthlyGrowth `json:"user_growth"`
}

// GetUserAnalytics 近六個月的使用者成長統計
func GetUserAnalytics() (*UserAnalytics, error) {
	var activeUsers int64
	if err := database.DB.Model(&models.User{}).Where("is_active = ?", true).Count(&activeUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}

	var users []models.User
	if err := database.DB.
		Select("id", "first_name", "last_name", "created_at").
		Where("is_active = ?", true).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to query users for growth stats: %w", err)
	}

	now := time.Now().UTC()
	growth := MonthlyUserGrowth(users, 6, now, time.UTC)

	newThisMonth := 0
	if len(growth) > 0 {
		newThisMonth = growth[len(growth)-1].NewUsers
	}

	return &UserAnalytics{
		NewUsersThisMonth: newThisMonth,
		ActiveUsers:       activeUsers,
		UserGrowth:        growth,
	}, nil
}

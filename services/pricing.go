package services

import (
	"github.com/shopspring/decimal"

	"rentify/models"
)

// PricingResult 比價結果：同一車輛在指定 (租期, 年里程) 下的最低報價
type PricingResult struct {
	Filtered  []models.PricingOption `json:"filtered"`
	MinPrice  *decimal.Decimal       `json:"min_price"`
	BestOffer *models.PricingOption  `json:"best_offer"`
	Savings   decimal.Decimal        `json:"savings"`
}

// FilterOffers 篩選符合租期與年里程的報價，保留原始順序；無符合者回空切片
func FilterOffers(offers []models.PricingOption, durationMonths int, annualKms int) []models.PricingOption {
	filtered := make([]models.PricingOption, 0, len(offers))
	for _, offer := range offers {
		if offer.DurationMonths == durationMonths && offer.AnnualKms == annualKms {
			filtered = append(filtered, offer)
		}
	}
	return filtered
}

// MinPrice 回傳最低月費；沒有月費的報價不列入比較（缺價不等於免費）
func MinPrice(filtered []models.PricingOption) *decimal.Decimal {
	var min *decimal.Decimal
	for _, offer := range filtered {
		if offer.MonthlyFee == nil {
			continue
		}
		if min == nil || offer.MonthlyFee.LessThan(*min) {
			fee := *offer.MonthlyFee
			min = &fee
		}
	}
	return min
}

// BestOffer 取第一個月費等於最低價的報價，平手時先進者勝
func BestOffer(filtered []models.PricingOption, minPrice *decimal.Decimal) *models.PricingOption {
	if minPrice == nil {
		return nil
	}
	for i := range filtered {
		if filtered[i].MonthlyFee != nil && filtered[i].MonthlyFee.Equal(*minPrice) {
			return &filtered[i]
		}
	}
	return nil
}

// Savings 最高價與最低價的差額；報價少於兩筆時為 0
func Savings(filtered []models.PricingOption, minPrice *decimal.Decimal) decimal.Decimal {
	if minPrice == nil {
		return decimal.Zero
	}

	var max *decimal.Decimal
	priced := 0
	for _, offer := range filtered {
		if offer.MonthlyFee == nil {
			continue
		}
		priced++
		if max == nil || offer.MonthlyFee.GreaterThan(*max) {
			fee := *offer.MonthlyFee
			max = &fee
		}
	}
	if priced < 2 {
		return decimal.Zero
	}
	return max.Sub(*minPrice)
}

// ResolveBestOffer 組合篩選與比價；offers 為空時各欄位皆為空值，不會出錯
func ResolveBestOffer(offers []models.PricingOption, durationMonths int, annualKms int) PricingResult {
	filtered := FilterOffers(offers, durationMonths, annualKms)
	minPrice := MinPrice(filtered)
	return PricingResult{
		Filtered:  filtered,
		MinPrice:  minPrice,
		BestOffer: BestOffer(filtered, minPrice),
		Savings:   Savings(filtered, minPrice),
	}
}

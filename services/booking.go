package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rentify/database"
	"rentify/models"
)

// RangesOverlap 判斷兩個含頭含尾的日曆日區間是否重疊：s1<=e2 且 e1>=s2
// 同一天交車也算衝突，不能改成開區間
func RangesOverlap(start1, end1, start2, end2 time.Time) bool {
	return !start1.After(end2) && !end1.Before(start2)
}

// IsAvailable 檢查提議區間是否與既有佔檔訂單重疊；excludeBookingID 供更新訂單時排除自己
// 輸入已在上游驗證過（end >= start），此處不再重驗
func IsAvailable(proposedStart, proposedEnd time.Time, existing []models.Booking, excludeBookingID string) bool {
	for i := range existing {
		booking := &existing[i]
		if !booking.IsBlocking() {
			continue
		}
		if excludeBookingID != "" && booking.BookingID == excludeBookingID {
			continue
		}
		if RangesOverlap(booking.StartDate, booking.EndDate, proposedStart, proposedEnd) {
			return false
		}
	}
	return true
}

// CreateBookingInput 建立訂單的輸入，日期已解析為日曆日
type CreateBookingInput struct {
	CarID           int
	PricingOptionID int
	StartDate       time.Time
	EndDate         time.Time
	DurationMonths  int
	AnnualKms       int
	SpecialRequests string
}

// CreateBooking 建立訂單：鎖定車輛列、檢查檔期、寫入，整段在同一交易內
// 兩個重疊請求同時進來時，輸家會看到贏家的資料並收到 ErrDatesConflict
func CreateBooking(userID string, input CreateBookingInput) (*models.Booking, error) {
	var booking *models.Booking

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// 以車輛列的行鎖序列化同一台車的 check-then-insert
		var car models.Car
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&car, input.CarID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("car %d: %w", input.CarID, ErrNotFound)
			}
			return fmt.Errorf("failed to lock car %d: %w", input.CarID, err)
		}

		var pricing models.PricingOption
		if err := tx.Where("pricing_id = ? AND car_id = ?", input.PricingOptionID, input.CarID).
			First(&pricing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("pricing option %d: %w", input.PricingOptionID, ErrNotFound)
			}
			return fmt.Errorf("failed to load pricing option %d: %w", input.PricingOptionID, err)
		}

		var existing []models.Booking
		if err := tx.Where("car_id = ? AND status IN ?", input.CarID, models.BlockingStatuses).
			Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load bookings for car %d: %w", input.CarID, err)
		}

		if !IsAvailable(input.StartDate, input.EndDate, existing, "") {
			return ErrDatesConflict
		}

		// 月費快照：報價缺月費時退回車輛未稅月費
		monthlyFee := decimal.Zero
		if pricing.MonthlyFee != nil {
			monthlyFee = *pricing.MonthlyFee
		} else if car.MonthlyFeeWithoutTax != nil {
			monthlyFee = *car.MonthlyFeeWithoutTax
		}
		totalAmount := monthlyFee.Mul(decimal.NewFromInt(int64(input.DurationMonths)))

		booking = &models.Booking{
			BookingID:       uuid.NewString(),
			UserID:          userID,
			CarID:           input.CarID,
			PricingOptionID: input.PricingOptionID,
			StartDate:       input.StartDate,
			EndDate:         input.EndDate,
			Status:          models.BookingPending,
			TotalAmount:     totalAmount,
			MonthlyFee:      monthlyFee,
			DurationMonths:  input.DurationMonths,
			AnnualKms:       input.AnnualKms,
			SpecialRequests: input.SpecialRequests,
		}

		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Successfully created booking %s for car %d (%s ~ %s)",
		booking.BookingID, booking.CarID,
		booking.StartDate.Format(models.DateLayout), booking.EndDate.Format(models.DateLayout))
	return booking, nil
}

// CheckCarAvailability 查詢指定車輛在區間內是否可訂
func CheckCarAvailability(carID int, startDate, endDate time.Time, excludeBookingID string) (bool, error) {
	var car models.Car
	if err := database.DB.Select("car_id").First(&car, carID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("car %d: %w", carID, ErrNotFound)
		}
		return false, fmt.Errorf("failed to load car %d: %w", carID, err)
	}

	var existing []models.Booking
	if err := database.DB.Where("car_id = ? AND status IN ?", carID, models.BlockingStatuses).
		Find(&existing).Error; err != nil {
		return false, fmt.Errorf("failed to load bookings for car %d: %w", carID, err)
	}

	return IsAvailable(startDate, endDate, existing, excludeBookingID), nil
}

// GetBookingByID 查詢單筆訂單（帶使用者、車輛與報價）
func GetBookingByID(bookingID string) (*models.Booking, error) {
	var booking models.Booking
	if err := database.DB.
		Preload("User").
		Preload("Car").
		Preload("PricingOption").
		Where("booking_id = ?", bookingID).
		First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

// BookingFilters 訂單列表的查詢條件
type BookingFilters struct {
	Status    string
	UserID    string
	CarID     int
	StartDate *time.Time
	EndDate   *time.Time
}

// GetBookings 分頁查詢訂單；userID 非空時僅回該使用者的訂單
func GetBookings(filters BookingFilters, page int, limit int) ([]models.Booking, int64, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	query := database.DB.Model(&models.Booking{})
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.CarID > 0 {
		query = query.Where("car_id = ?", filters.CarID)
	}
	if filters.StartDate != nil {
		query = query.Where("start_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("end_date <= ?", *filters.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var bookings []models.Booking
	if err := query.
		Preload("User").
		Preload("Car").
		Preload("PricingOption").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query bookings: %w", err)
	}

	return bookings, total, nil
}

// UpdateBookingInput 管理端更新訂單；日期欄位為 nil 表示不變更
type UpdateBookingInput struct {
	Status          string
	StartDate       *time.Time
	EndDate         *time.Time
	SpecialRequests *string
}

// UpdateBooking 更新訂單；變更日期時以排除自身的檔期檢查守住不重疊
func UpdateBooking(bookingID string, input UpdateBookingInput) (*models.Booking, error) {
	var updated *models.Booking

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Where("booking_id = ?", bookingID).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
			}
			return fmt.Errorf("failed to get booking %s: %w", bookingID, err)
		}

		newStart := booking.StartDate
		newEnd := booking.EndDate
		if input.StartDate != nil {
			newStart = *input.StartDate
		}
		if input.EndDate != nil {
			newEnd = *input.EndDate
		}

		newStatus := booking.Status
		if input.Status != "" {
			newStatus = input.Status
		}

		// 日期異動或升級成佔檔狀態時重驗檔期
		datesChanged := input.StartDate != nil || input.EndDate != nil
		becomesBlocking := (newStatus == models.BookingConfirmed || newStatus == models.BookingActive) && !booking.IsBlocking()
		if datesChanged || becomesBlocking {
			var car models.Car
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&car, booking.CarID).Error; err != nil {
				return fmt.Errorf("failed to lock car %d: %w", booking.CarID, err)
			}

			var existing []models.Booking
			if err := tx.Where("car_id = ? AND status IN ?", booking.CarID, models.BlockingStatuses).
				Find(&existing).Error; err != nil {
				return fmt.Errorf("failed to load bookings for car %d: %w", booking.CarID, err)
			}
			if !IsAvailable(newStart, newEnd, existing, booking.BookingID) {
				return ErrDatesConflict
			}
		}

		booking.StartDate = newStart
		booking.EndDate = newEnd
		booking.Status = newStatus
		if input.SpecialRequests != nil {
			booking.SpecialRequests = *input.SpecialRequests
		}

		if err := tx.Save(&booking).Error; err != nil {
			return fmt.Errorf("failed to update booking %s: %w", bookingID, err)
		}
		updated = &booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Successfully updated booking %s", bookingID)
	return updated, nil
}

// CancelBooking 取消訂單：僅 pending/confirmed 可取消；userID 非空時限本人
func CancelBooking(bookingID string, userID string) error {
	var booking models.Booking
	query := database.DB.Where("booking_id = ?", bookingID)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
		}
		return fmt.Errorf("failed to get booking %s: %w", bookingID, err)
	}

	if booking.Status != models.BookingPending && booking.Status != models.BookingConfirmed {
		return ErrBookingNotCancellable
	}

	if err := database.DB.Model(&booking).Update("status", models.BookingCancelled).Error; err != nil {
		return fmt.Errorf("failed to cancel booking %s: %w", bookingID, err)
	}

	log.Printf("Successfully cancelled booking %s", bookingID)
	return nil
}

// BookingStats 訂單統計
type BookingStats struct {
	TotalBookings     int64           `json:"total_bookings"`
	ActiveBookings    int64           `json:"active_bookings"`
	PendingBookings   int64           `json:"pending_bookings"`
	CompletedBookings int64           `json:"completed_bookings"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
}

// GetBookingStats 管理端的訂單統計；營收採 completed 與 active 訂單加總
func GetBookingStats() (*BookingStats, error) {
	stats := &BookingStats{TotalRevenue: decimal.Zero}

	if err := database.DB.Model(&models.Booking{}).Count(&stats.TotalBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	if err := database.DB.Model(&models.Booking{}).
		Where("status = ?", models.BookingActive).Count(&stats.ActiveBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count active bookings: %w", err)
	}
	if err := database.DB.Model(&models.Booking{}).
		Where("status = ?", models.BookingPending).Count(&stats.PendingBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending bookings: %w", err)
	}
	if err := database.DB.Model(&models.Booking{}).
		Where("status = ?", models.BookingCompleted).Count(&stats.CompletedBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed bookings: %w", err)
	}

	var revenue decimal.NullDecimal
	if err := database.DB.Model(&models.Booking{}).
		Where("status IN ?", []string{models.BookingCompleted, models.BookingActive}).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&revenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if revenue.Valid {
		stats.TotalRevenue = revenue.Decimal
	}

	return stats, nil
}

// ExpireStalePendingBookings 取消起租日已過卻仍未確認的訂單，由排程任務呼叫
func ExpireStalePendingBookings() error {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	result := database.DB.Model(&models.Booking{}).
		Where("status = ? AND start_date < ?", models.BookingPending, today).
		Update("status", models.BookingCancelled)
	if result.Error != nil {
		return fmt.Errorf("failed to expire stale pending bookings: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		log.Printf("Expired %d stale pending bookings", result.RowsAffected)
	}
	return nil
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// 訂單狀態
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingActive    = "active"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// DateLayout 日曆日期格式，跨 API 邊界一律用 YYYY-MM-DD
const DateLayout = "2006-01-02"

// Booking 租車訂單：日期為日曆日（含頭含尾），金額為月費 × 租期
type Booking struct {
	BookingID       string          `json:"booking_id" gorm:"primaryKey;type:uuid;column:booking_id"`
	UserID          string          `json:"user_id" gorm:"index;type:uuid;not null;column:user_id"`
	CarID           int             `json:"car_id" gorm:"index;not null;column:car_id"`
	PricingOptionID int             `json:"pricing_option_id" gorm:"not null;column:pricing_option_id"`
	StartDate       time.Time       `json:"-" gorm:"type:date;not null;column:start_date"`
	EndDate         time.Time       `json:"-" gorm:"type:date;not null;column:end_date"`
	Status          string          `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2)"`
	MonthlyFee      decimal.Decimal `json:"monthly_fee" gorm:"type:numeric(10,2)"`
	DurationMonths  int             `json:"duration_months" gorm:"not null"`
	AnnualKms       int             `json:"annual_kms" gorm:"not null"`
	SpecialRequests string          `json:"special_requests,omitempty" gorm:"type:varchar(500)"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	User          User          `json:"-" gorm:"foreignKey:UserID;references:ID"`
	Car           Car           `json:"-" gorm:"foreignKey:CarID;references:CarID"`
	PricingOption PricingOption `json:"-" gorm:"foreignKey:PricingOptionID;references:PricingID"`
}

func (Booking) TableName() string {
	return "bookings"
}

// BlockingStatuses 會佔用日期區間的狀態；pending 與 cancelled/completed 不擋檔期
var BlockingStatuses = []string{BookingConfirmed, BookingActive}

// IsBlocking 此訂單是否佔用檔期
func (b *Booking) IsBlocking() bool {
	return b.Status == BookingConfirmed || b.Status == BookingActive
}

type SimpleBookingResponse struct {
	BookingID       string          `json:"booking_id"`
	UserID          string          `json:"user_id"`
	CarID           int             `json:"car_id"`
	PricingOptionID int             `json:"pricing_option_id"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	MonthlyFee      decimal.Decimal `json:"monthly_fee"`
	DurationMonths  int             `json:"duration_months"`
	AnnualKms       int             `json:"annual_kms"`
	SpecialRequests string          `json:"special_requests,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type BookingResponse struct {
	SimpleBookingResponse
	User          *SimpleUserResponse `json:"user,omitempty"`
	Car           *Car                `json:"car,omitempty"`
	PricingOption *PricingOption      `json:"pricing_option,omitempty"`
}

func (b *Booking) ToSimpleResponse() SimpleBookingResponse {
	return SimpleBookingResponse{
		BookingID:       b.BookingID,
		UserID:          b.UserID,
		CarID:           b.CarID,
		PricingOptionID: b.PricingOptionID,
		StartDate:       b.StartDate.Format(DateLayout),
		EndDate:         b.EndDate.Format(DateLayout),
		Status:          b.Status,
		TotalAmount:     b.TotalAmount,
		MonthlyFee:      b.MonthlyFee,
		DurationMonths:  b.DurationMonths,
		AnnualKms:       b.AnnualKms,
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// ToResponse 訂單明細：帶出使用者、車輛與報價方案
func (b *Booking) ToResponse() BookingResponse {
	resp := BookingResponse{SimpleBookingResponse: b.ToSimpleResponse()}

	if b.User.ID != "" {
		user := b.User.ToSimpleResponse()
		resp.User = &user
	}
	if b.Car.CarID != 0 {
		car := b.Car
		resp.Car = &car
	}
	if b.PricingOption.PricingID != 0 {
		pricing := b.PricingOption
		resp.PricingOption = &pricing
	}

	return resp
}

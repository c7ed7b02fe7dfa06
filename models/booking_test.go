package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingToSimpleResponseFormatsDates(t *testing.T) {
	start, _ := time.Parse(DateLayout, "2024-03-10")
	end, _ := time.Parse(DateLayout, "2025-03-09")

	booking := Booking{
		BookingID:       "7b6a3a1e-0f4f-4d2c-9a6a-2f0d8c1e5b44",
		UserID:          "user-1",
		CarID:           42,
		PricingOptionID: 7,
		StartDate:       start,
		EndDate:         end,
		Status:          BookingConfirmed,
		TotalAmount:     decimal.RequireFromString("4740"),
		MonthlyFee:      decimal.RequireFromString("395"),
		DurationMonths:  12,
		AnnualKms:       10000,
	}

	resp := booking.ToSimpleResponse()

	assert.Equal(t, "2024-03-10", resp.StartDate)
	assert.Equal(t, "2025-03-09", resp.EndDate)
	assert.Equal(t, booking.BookingID, resp.BookingID)
	assert.Equal(t, BookingConfirmed, resp.Status)
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("4740")))
}

func TestBookingToResponseOmitsUnloadedAssociations(t *testing.T) {
	booking := Booking{BookingID: "b1", CarID: 42, Status: BookingPending}

	resp := booking.ToResponse()
	assert.Nil(t, resp.User)
	assert.Nil(t, resp.Car)
	assert.Nil(t, resp.PricingOption)
}

func TestBookingToResponseIncludesLoadedAssociations(t *testing.T) {
	booking := Booking{
		BookingID: "b1",
		Status:    BookingConfirmed,
		User:      User{ID: "user-1", Email: "ming@example.com"},
		Car:       Car{CarID: 42, Make: "Toyota"},
		PricingOption: PricingOption{
			PricingID:      7,
			DurationMonths: 12,
			AnnualKms:      10000,
		},
	}

	resp := booking.ToResponse()
	require.NotNil(t, resp.User)
	require.NotNil(t, resp.Car)
	require.NotNil(t, resp.PricingOption)

	assert.Equal(t, "ming@example.com", resp.User.Email)
	assert.Equal(t, 42, resp.Car.CarID)
	assert.Equal(t, 7, resp.PricingOption.PricingID)
}

func TestCarToDetailResponseEmptySlices(t *testing.T) {
	car := Car{CarID: 1, Make: "Toyota"}

	resp := car.ToDetailResponse()
	// 序列化後要是 [] 而不是 null
	assert.NotNil(t, resp.Features)
	assert.NotNil(t, resp.Images)
	assert.NotNil(t, resp.Websites)
	assert.NotNil(t, resp.PricingOptions)
	assert.Empty(t, resp.Features)
}

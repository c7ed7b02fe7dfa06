package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentify/models"
)

func day(value string) time.Time {
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name     string
		s1, e1   string
		s2, e2   string
		expected bool
	}{
		{"fully inside", "2024-03-10", "2024-03-20", "2024-03-12", "2024-03-15", true},
		{"identical", "2024-03-10", "2024-03-20", "2024-03-10", "2024-03-20", true},
		{"partial overlap", "2024-03-10", "2024-03-20", "2024-03-15", "2024-03-25", true},
		{"shared end day", "2024-03-10", "2024-03-20", "2024-03-20", "2024-03-25", true},
		{"shared start day", "2024-03-20", "2024-03-25", "2024-03-10", "2024-03-20", true},
		{"day after", "2024-03-10", "2024-03-20", "2024-03-21", "2024-03-25", false},
		{"day before", "2024-03-10", "2024-03-20", "2024-03-01", "2024-03-09", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RangesOverlap(day(tt.s1), day(tt.e1), day(tt.s2), day(tt.e2))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsAvailableSameDayHandoffConflicts(t *testing.T) {
	existing := []models.Booking{
		{BookingID: "b1", Status: models.BookingConfirmed, StartDate: day("2024-03-10"), EndDate: day("2024-03-20")},
	}

	// 結束當天仍佔檔，隔天才放行
	assert.False(t, IsAvailable(day("2024-03-20"), day("2024-03-25"), existing, ""))
	assert.True(t, IsAvailable(day("2024-03-21"), day("2024-03-25"), existing, ""))
}

func TestIsAvailableIgnoresNonBlockingStatuses(t *testing.T) {
	overlap := func(status string) models.Booking {
		return models.Booking{
			BookingID: "b-" + status,
			Status:    status,
			StartDate: day("2024-03-10"),
			EndDate:   day("2024-03-20"),
		}
	}

	assert.True(t, IsAvailable(day("2024-03-12"), day("2024-03-15"),
		[]models.Booking{overlap(models.BookingPending)}, ""))
	assert.True(t, IsAvailable(day("2024-03-12"), day("2024-03-15"),
		[]models.Booking{overlap(models.BookingCancelled)}, ""))
	assert.True(t, IsAvailable(day("2024-03-12"), day("2024-03-15"),
		[]models.Booking{overlap(models.BookingCompleted)}, ""))

	assert.False(t, IsAvailable(day("2024-03-12"), day("2024-03-15"),
		[]models.Booking{overlap(models.BookingConfirmed)}, ""))
	assert.False(t, IsAvailable(day("2024-03-12"), day("2024-03-15"),
		[]models.Booking{overlap(models.BookingActive)}, ""))
}

func TestIsAvailableExcludesOwnBooking(t *testing.T) {
	existing := []models.Booking{
		{BookingID: "mine", Status: models.BookingConfirmed, StartDate: day("2024-03-10"), EndDate: day("2024-03-20")},
		{BookingID: "other", Status: models.BookingActive, StartDate: day("2024-04-01"), EndDate: day("2024-04-10")},
	}

	// 更新自己的訂單時，自己的舊檔期不算衝突
	assert.True(t, IsAvailable(day("2024-03-12"), day("2024-03-18"), existing, "mine"))
	// 但別人的佔檔仍然擋住
	assert.False(t, IsAvailable(day("2024-04-05"), day("2024-04-08"), existing, "mine"))
	assert.False(t, IsAvailable(day("2024-03-12"), day("2024-03-18"), existing, ""))
}

func TestIsAvailableNoExistingBookings(t *testing.T) {
	assert.True(t, IsAvailable(day("2024-03-10"), day("2024-03-20"), nil, ""))
}

func TestBookingIsBlocking(t *testing.T) {
	require.Equal(t, []string{models.BookingConfirmed, models.BookingActive}, models.BlockingStatuses)

	assert.True(t, (&models.Booking{Status: models.BookingConfirmed}).IsBlocking())
	assert.True(t, (&models.Booking{Status: models.BookingActive}).IsBlocking())
	assert.False(t, (&models.Booking{Status: models.BookingPending}).IsBlocking())
	assert.False(t, (&models.Booking{Status: models.BookingCompleted}).IsBlocking())
	assert.False(t, (&models.Booking{Status: models.BookingCancelled}).IsBlocking())
}

package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rentify/models"
	"rentify/services"
)

// parseDate 解析 YYYY-MM-DD 日曆日
func parseDate(value string) (time.Time, error) {
	return time.Parse(models.DateLayout, value)
}

// CreateBooking 建立訂單：日期在邊界驗證完才進服務層
func CreateBooking(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		CarID           int    `json:"car_id" binding:"required,gt=0"`
		PricingOptionID int    `json:"pricing_option_id" binding:"required,gt=0"`
		StartDate       string `json:"start_date" binding:"required"`
		EndDate         string `json:"end_date" binding:"required"`
		DurationMonths  int    `json:"duration_months" binding:"required,gt=0"`
		AnnualKms       int    `json:"annual_kms" binding:"gte=0"`
		SpecialRequests string `json:"special_requests"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid booking input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}

	startDate, err := parseDate(input.StartDate)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "start_date must be in YYYY-MM-DD format", err.Error())
		return
	}
	endDate, err := parseDate(input.EndDate)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "end_date must be in YYYY-MM-DD format", err.Error())
		return
	}
	if endDate.Before(startDate) {
		ErrorResponse(c, http.StatusBadRequest, "end_date cannot be earlier than start_date", "invalid date range")
		return
	}

	booking, err := services.CreateBooking(userID, services.CreateBookingInput{
		CarID:           input.CarID,
		PricingOptionID: input.PricingOptionID,
		StartDate:       startDate,
		EndDate:         endDate,
		DurationMonths:  input.DurationMonths,
		AnnualKms:       input.AnnualKms,
		SpecialRequests: input.SpecialRequests,
	})
	if err != nil {
		if errors.Is(err, services.ErrDatesConflict) {
			ErrorResponse(c, http.StatusConflict, "Car is not available for the selected dates", err.Error())
			return
		}
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Car or pricing option not found", err.Error())
			return
		}
		log.Printf("Failed to create booking for user %s: %v", userID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to create booking", err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "Booking created", booking.ToSimpleResponse())
}

// CheckAvailability 查詢車輛檔期
func CheckAvailability(c *gin.Context) {
	carID, err := strconv.Atoi(c.Param("carId"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid car ID", err.Error())
		return
	}

	startDate, err := parseDate(c.Query("start_date"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "start_date must be in YYYY-MM-DD format", err.Error())
		return
	}
	endDate, err := parseDate(c.Query("end_date"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "end_date must be in YYYY-MM-DD format", err.Error())
		return
	}
	if endDate.Before(startDate) {
		ErrorResponse(c, http.StatusBadRequest, "end_date cannot be earlier than start_date", "invalid date range")
		return
	}

	available, err := services.CheckCarAvailability(carID, startDate, endDate, c.Query("exclude_booking_id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Car not found", err.Error())
			return
		}
		log.Printf("Failed to check availability for car %d: %v", carID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to check availability", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Availability checked", gin.H{
		"car_id":     carID,
		"start_date": startDate.Format(models.DateLayout),
		"end_date":   endDate.Format(models.DateLayout),
		"available":  available,
	})
}

// GetMyBookings 查詢自己的訂單
func GetMyBookings(c *gin.Context) {
	userID := c.GetString("user_id")

	filters := services.BookingFilters{
		UserID: userID,
		Status: c.Query("status"),
		CarID:  parseIntQuery(c, "car_id", 0),
	}

	page := parseIntQuery(c, "page", services.DefaultPage)
	limit := parseIntQuery(c, "limit", services.DefaultLimit)

	bookings, total, err := services.GetBookings(filters, page, limit)
	if err != nil {
		log.Printf("Failed to get bookings for user %s: %v", userID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get bookings", err.Error())
		return
	}

	responses := make([]models.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = bookings[i].ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "Bookings retrieved", PaginatedData{
		Items: responses,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// CancelBooking 取消自己的訂單
func CancelBooking(c *gin.Context) {
	userID := c.GetString("user_id")
	bookingID := c.Param("id")

	// 管理者可取消任何訂單
	if c.GetString("role") == models.RoleAdmin {
		userID = ""
	}

	if err := services.CancelBooking(bookingID, userID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Booking not found", err.Error())
			return
		}
		if errors.Is(err, services.ErrBookingNotCancellable) {
			ErrorResponse(c, http.StatusConflict, "Only pending or confirmed bookings can be cancelled", err.Error())
			return
		}
		log.Printf("Failed to cancel booking %s: %v", bookingID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to cancel booking", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Booking cancelled", nil)
}

// GetAllBookings 管理端：分頁查詢全部訂單
func GetAllBookings(c *gin.Context) {
	filters := services.BookingFilters{
		Status: c.Query("status"),
		UserID: c.Query("user_id"),
		CarID:  parseIntQuery(c, "car_id", 0),
	}

	if raw := c.Query("start_date"); raw != "" {
		startDate, err := parseDate(raw)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "start_date must be in YYYY-MM-DD format", err.Error())
			return
		}
		filters.StartDate = &startDate
	}
	if raw := c.Query("end_date"); raw != "" {
		endDate, err := parseDate(raw)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "end_date must be in YYYY-MM-DD format", err.Error())
			return
		}
		filters.EndDate = &endDate
	}

	page := parseIntQuery(c, "page", services.DefaultPage)
	limit := parseIntQuery(c, "limit", services.DefaultLimit)

	bookings, total, err := services.GetBookings(filters, page, limit)
	if err != nil {
		log.Printf("Failed to get bookings: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get bookings", err.Error())
		return
	}

	responses := make([]models.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = bookings[i].ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "Bookings retrieved", PaginatedData{
		Items: responses,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetBookingByID 管理端：查詢單筆訂單
func GetBookingByID(c *gin.Context) {
	bookingID := c.Param("id")

	booking, err := services.GetBookingByID(bookingID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Booking not found", err.Error())
			return
		}
		log.Printf("Failed to get booking %s: %v", bookingID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get booking", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Booking retrieved", booking.ToResponse())
}

// UpdateBooking 管理端：更新訂單狀態或日期
func UpdateBooking(c *gin.Context) {
	bookingID := c.Param("id")

	var input struct {
		Status          string  `json:"status"`
		StartDate       string  `json:"start_date"`
		EndDate         string  `json:"end_date"`
		SpecialRequests *string `json:"special_requests"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}

	if input.Status != "" {
		switch input.Status {
		case models.BookingPending, models.BookingConfirmed, models.BookingActive,
			models.BookingCompleted, models.BookingCancelled:
		default:
			ErrorResponse(c, http.StatusBadRequest, "Invalid booking status", "unknown status "+input.Status)
			return
		}
	}

	update := services.UpdateBookingInput{
		Status:          input.Status,
		SpecialRequests: input.SpecialRequests,
	}
	if input.StartDate != "" {
		startDate, err := parseDate(input.StartDate)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "start_date must be in YYYY-MM-DD format", err.Error())
			return
		}
		update.StartDate = &startDate
	}
	if input.EndDate != "" {
		endDate, err := parseDate(input.EndDate)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "end_date must be in YYYY-MM-DD format", err.Error())
			return
		}
		update.EndDate = &endDate
	}
	if update.StartDate != nil && update.EndDate != nil && update.EndDate.Before(*update.StartDate) {
		ErrorResponse(c, http.StatusBadRequest, "end_date cannot be earlier than start_date", "invalid date range")
		return
	}

	booking, err := services.UpdateBooking(bookingID, update)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Booking not found", err.Error())
			return
		}
		if errors.Is(err, services.ErrDatesConflict) {
			ErrorResponse(c, http.StatusConflict, "Car is not available for the selected dates", err.Error())
			return
		}
		log.Printf("Failed to update booking %s: %v", bookingID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to update booking", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Booking updated", booking.ToSimpleResponse())
}

// GetBookingStats 管理端：訂單統計
func GetBookingStats(c *gin.Context) {
	stats, err := services.GetBookingStats()
	if err != nil {
		log.Printf("Failed to get booking stats: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get booking stats", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Booking stats retrieved", stats)
}

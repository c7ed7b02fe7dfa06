package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"rentify/models"
	"rentify/services"
)

// parsePriceQuery 解析價格參數；0 也是有效條件，所以用指標區分未提供
func parsePriceQuery(c *gin.Context, key string) (*decimal.Decimal, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, false
	}
	return &value, true
}

// GetCars 車輛列表：條件、排序與分頁皆由查詢編譯器正規化
func GetCars(c *gin.Context) {
	filters := services.CarFilters{
		Make:         c.Query("make"),
		Brand:        c.Query("brand"),
		Model:        c.Query("model"),
		FuelType:     c.Query("fuel_type"),
		Transmission: c.Query("transmission"),
		BodyStyle:    c.Query("body_style"),
		YearRange:    c.Query("year_range"),
	}

	minPrice, ok := parsePriceQuery(c, "min_price")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid min_price", "min_price must be a decimal number")
		return
	}
	maxPrice, ok := parsePriceQuery(c, "max_price")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid max_price", "max_price must be a decimal number")
		return
	}
	filters.MinPrice = minPrice
	filters.MaxPrice = maxPrice

	query := services.CompileCarQuery(
		filters,
		c.Query("sort_by"),
		c.Query("sort_order"),
		parseIntQuery(c, "page", services.DefaultPage),
		parseIntQuery(c, "limit", services.DefaultLimit),
	)

	cars, total, err := services.GetAllCars(query)
	if err != nil {
		log.Printf("Failed to get cars: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get cars", err.Error())
		return
	}

	items := make([]models.CarListItemResponse, len(cars))
	for i := range cars {
		items[i] = cars[i].ToListItemResponse()
	}

	SuccessResponse(c, http.StatusOK, "Cars retrieved", PaginatedData{
		Items: items,
		Total: total,
		Page:  query.Page,
		Limit: query.Limit,
	})
}

// SearchCars 關鍵字搜尋
func SearchCars(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		ErrorResponse(c, http.StatusBadRequest, "Search term is required", "missing q parameter")
		return
	}

	page := parseIntQuery(c, "page", services.DefaultPage)
	limit := parseIntQuery(c, "limit", services.DefaultLimit)

	cars, total, err := services.SearchCars(term, page, limit)
	if err != nil {
		log.Printf("Failed to search cars with term %q: %v", term, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to search cars", err.Error())
		return
	}

	items := make([]models.CarListItemResponse, len(cars))
	for i := range cars {
		items[i] = cars[i].ToListItemResponse()
	}

	SuccessResponse(c, http.StatusOK, "Cars retrieved", PaginatedData{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetPopularCars 熱門車輛
func GetPopularCars(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 10)

	cars, err := services.GetPopularCars(limit)
	if err != nil {
		log.Printf("Failed to get popular cars: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get popular cars", err.Error())
		return
	}

	items := make([]models.CarListItemResponse, len(cars))
	for i := range cars {
		items[i] = cars[i].ToListItemResponse()
	}

	SuccessResponse(c, http.StatusOK, "Popular cars retrieved", items)
}

// GetCarByID 車輛明細，帶配備、圖片、網站與報價
func GetCarByID(c *gin.Context) {
	carID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid car ID", err.Error())
		return
	}

	car, err := services.GetCarByID(carID, true)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Car not found", err.Error())
			return
		}
		log.Printf("Failed to get car %d: %v", carID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get car", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Car retrieved", car.ToDetailResponse())
}

// GetCarPricing 比價：回傳指定 (租期, 年里程) 的最低報價與可省金額
func GetCarPricing(c *gin.Context) {
	carID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid car ID", err.Error())
		return
	}

	duration := parseIntQuery(c, "duration_months", 0)
	if duration <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "duration_months must be a positive integer", "invalid duration_months")
		return
	}
	annualKms := parseIntQuery(c, "annual_kms", -1)
	if annualKms < 0 {
		ErrorResponse(c, http.StatusBadRequest, "annual_kms must be a non-negative integer", "invalid annual_kms")
		return
	}

	result, err := services.ResolveCarPricing(carID, duration, annualKms)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Car not found", err.Error())
			return
		}
		log.Printf("Failed to resolve pricing for car %d: %v", carID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to resolve pricing", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Pricing resolved", result)
}

// CreateCar 管理端：新增車輛
func CreateCar(c *gin.Context) {
	var car models.Car
	if err := c.ShouldBindJSON(&car); err != nil {
		log.Printf("Invalid car input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}

	if err := services.CreateCar(&car); err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to create car", err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "Car created", car)
}

// UpdateCar 管理端：更新車輛欄位
func UpdateCar(c *gin.Context) {
	carID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid car ID", err.Error())
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}
	// 主鍵不可改
	delete(updates, "car_id")

	car, err := services.UpdateCar(carID, updates)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Car not found", err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to update car", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Car updated", car)
}

// DeleteCar 管理端：刪除車輛（連同子資料）
func DeleteCar(c *gin.Context) {
	carID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid car ID", err.Error())
		return
	}

	if err := services.DeleteCar(carID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Car not found", err.Error())
			return
		}
		log.Printf("Failed to delete car %d: %v", carID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to delete car", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Car deleted", nil)
}

// AddCarFeature 管理端：新增配備
func AddCarFeature(c *gin.Context) {
	carID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid car ID", err.Error())
		return
	}

	var feature models.CarFeature
	if err := c.ShouldBindJSON(&feature); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}

	if err := services.AddCarFeature(carID, &feature); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Car not found", err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to add feature", err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "Feature added", feature)
}

// RemoveCarFeature 管理端：移除配備
func RemoveCarFeature(c *gin.Context) {
	featureID, err := strconv.Atoi(c.Param("featureId"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid feature ID", err.Error())
		return
	}

	if err := services.RemoveCarFeature(featureID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Feature not found", err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to remove feature", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Feature removed", nil)
}

// AddCarImage 管理端：新增圖片（僅存 URL，檔案上傳不在此服務範圍）
func AddCarImage(c *gin.Context) {
	carID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid car ID", err.Error())
		return
	}

	var input struct {
		ImageURL string `json:"image_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}

	image, err := services.AddCarImage(carID, input.ImageURL)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Car not found", err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to add image", err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "Image added", image)
}

// RemoveCarImage 管理端：移除圖片
func RemoveCarImage(c *gin.Context) {
	imageID, err := strconv.Atoi(c.Param("imageId"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid image ID", err.Error())
		return
	}

	if err := services.RemoveCarImage(imageID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Image not found", err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to remove image", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Image removed", nil)
}

// AddWebsite 管理端：新增合作網站
func AddWebsite(c *gin.Context) {
	carID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid car ID", err.Error())
		return
	}

	var website models.Website
	if err := c.ShouldBindJSON(&website); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}

	if err := services.AddWebsite(carID, &website); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Car not found", err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to add website", err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "Website added", website)
}

// RemoveWebsite 管理端：移除合作網站
func RemoveWebsite(c *gin.Context) {
	websiteID, err := strconv.Atoi(c.Param("websiteId"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid website ID", err.Error())
		return
	}

	if err := services.RemoveWebsite(websiteID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Website not found", err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to remove website", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Website removed", nil)
}

// AddPricingOption 管理端：新增報價方案
func AddPricingOption(c *gin.Context) {
	carID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid car ID", err.Error())
		return
	}

	var option models.PricingOption
	if err := c.ShouldBindJSON(&option); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}

	if err := services.AddPricingOption(carID, &option); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Car not found", err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to add pricing option", err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "Pricing option added", option)
}

// RemovePricingOption 管理端：移除報價方案
func RemovePricingOption(c *gin.Context) {
	pricingID, err := strconv.Atoi(c.Param("pricingId"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid pricing ID", err.Error())
		return
	}

	if err := services.RemovePricingOption(pricingID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Pricing option not found", err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to remove pricing option", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Pricing option removed", nil)
}

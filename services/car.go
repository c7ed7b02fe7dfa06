package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"rentify/database"
	"rentify/models"
)

// CreateCar 新增車輛
func CreateCar(car *models.Car) error {
	if err := database.DB.Create(car).Error; err != nil {
		log.Printf("Failed to create car: %v", err)
		return fmt.Errorf("failed to create car: %w", err)
	}
	log.Printf("Successfully created car with ID %d", car.CarID)
	return nil
}

// GetCarByID 查詢單一車輛；includeDetails 時帶出配備、圖片、網站與報價
func GetCarByID(carID int, includeDetails bool) (*models.Car, error) {
	query := database.DB
	if includeDetails {
		query = query.
			Preload("Features").
			Preload("Images").
			Preload("Websites").
			Preload("PricingOptions")
	}

	var car models.Car
	if err := query.First(&car, carID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("car %d: %w", carID, ErrNotFound)
		}
		log.Printf("Failed to get car %d: %v", carID, err)
		return nil, fmt.Errorf("failed to get car %d: %w", carID, err)
	}
	return &car, nil
}

// GetAllCars 依編譯後的查詢描述分頁撈取車輛列表與總數
func GetAllCars(query CarQuery) ([]models.Car, int64, error) {
	var total int64
	if err := query.Apply(database.DB.Model(&models.Car{})).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cars: %w", err)
	}

	var cars []models.Car
	if err := query.ApplyWithPaging(database.DB.Model(&models.Car{})).
		Preload("Images").
		Find(&cars).Error; err != nil {
		log.Printf("Failed to query cars: %v", err)
		return nil, 0, fmt.Errorf("failed to query cars: %w", err)
	}

	log.Printf("Successfully fetched %d cars (total %d)", len(cars), total)
	return cars, total, nil
}

// SearchCars 關鍵字搜尋車輛
func SearchCars(term string, page int, limit int) ([]models.Car, int64, error) {
	return GetAllCars(CompileCarSearch(term, page, limit))
}

// GetPopularCars 熱門車輛：暫以新進車輛代表熱門度
func GetPopularCars(limit int) ([]models.Car, error) {
	if limit < 1 || limit > MaxLimit {
		limit = 10
	}

	var cars []models.Car
	if err := database.DB.
		Preload("Images").
		Order("car_id DESC").
		Limit(limit).
		Find(&cars).Error; err != nil {
		return nil, fmt.Errorf("failed to query popular cars: %w", err)
	}
	return cars, nil
}

// UpdateCar 更新車輛欄位
func UpdateCar(carID int, updates map[string]interface{}) (*models.Car, error) {
	var car models.Car
	if err := database.DB.First(&car, carID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("car %d: %w", carID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find car %d: %w", carID, err)
	}

	if err := database.DB.Model(&car).Updates(updates).Error; err != nil {
		log.Printf("Failed to update car %d: %v", carID, err)
		return nil, fmt.Errorf("failed to update car %d: %w", carID, err)
	}

	log.Printf("Successfully updated car %d", carID)
	return &car, nil
}

// DeleteCar 刪除車輛並連同子資料一併清除，避免留下孤兒列
func DeleteCar(carID int) error {
	tx := database.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			log.Printf("Panic occurred during car deletion: %v", r)
		}
	}()

	var car models.Car
	if err := tx.First(&car, carID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("car %d: %w", carID, ErrNotFound)
		}
		return fmt.Errorf("failed to find car %d: %w", carID, err)
	}

	if err := tx.Where("car_id = ?", carID).Delete(&models.PricingOption{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete pricing options for car %d: %w", carID, err)
	}
	if err := tx.Where("car_id = ?", carID).Delete(&models.Website{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete websites for car %d: %w", carID, err)
	}
	if err := tx.Where("car_id = ?", carID).Delete(&models.CarImage{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete images for car %d: %w", carID, err)
	}
	if err := tx.Where("car_id = ?", carID).Delete(&models.CarFeature{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete features for car %d: %w", carID, err)
	}
	if err := tx.Delete(&car).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete car %d: %w", carID, err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit car deletion: %w", err)
	}

	log.Printf("Successfully deleted car %d with all child records", carID)
	return nil
}

// GetPricingOptions 取得車輛的全部報價，依建立順序回傳
func GetPricingOptions(carID int) ([]models.PricingOption, error) {
	var options []models.PricingOption
	if err := database.DB.
		Where("car_id = ?", carID).
		Order("pricing_id ASC").
		Find(&options).Error; err != nil {
		return nil, fmt.Errorf("failed to query pricing options for car %d: %w", carID, err)
	}
	return options, nil
}

// ResolveCarPricing 查出報價後交給比價邏輯，回傳指定租期與年里程的最優報價
func ResolveCarPricing(carID int, durationMonths int, annualKms int) (*PricingResult, error) {
	if _, err := GetCarByID(carID, false); err != nil {
		return nil, err
	}

	offers, err := GetPricingOptions(carID)
	if err != nil {
		return nil, err
	}

	result := ResolveBestOffer(offers, durationMonths, annualKms)
	return &result, nil
}

// AddCarFeature 新增車輛配備
func AddCarFeature(carID int, feature *models.CarFeature) error {
	if _, err := GetCarByID(carID, false); err != nil {
		return err
	}
	feature.CarID = carID
	if err := database.DB.Create(feature).Error; err != nil {
		return fmt.Errorf("failed to add feature to car %d: %w", carID, err)
	}
	return nil
}

// RemoveCarFeature 移除車輛配備
func RemoveCarFeature(featureID int) error {
	result := database.DB.Delete(&models.CarFeature{}, featureID)
	if result.Error != nil {
		return fmt.Errorf("failed to remove feature %d: %w", featureID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("feature %d: %w", featureID, ErrNotFound)
	}
	return nil
}

// AddCarImage 新增車輛圖片
func AddCarImage(carID int, imageURL string) (*models.CarImage, error) {
	if _, err := GetCarByID(carID, false); err != nil {
		return nil, err
	}
	image := &models.CarImage{CarID: carID, ImageURL: imageURL}
	if err := database.DB.Create(image).Error; err != nil {
		return nil, fmt.Errorf("failed to add image to car %d: %w", carID, err)
	}
	return image, nil
}

// RemoveCarImage 移除車輛圖片
func RemoveCarImage(imageID int) error {
	result := database.DB.Delete(&models.CarImage{}, imageID)
	if result.Error != nil {
		return fmt.Errorf("failed to remove image %d: %w", imageID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("image %d: %w", imageID, ErrNotFound)
	}
	return nil
}

// AddWebsite 新增合作網站
func AddWebsite(carID int, website *models.Website) error {
	if _, err := GetCarByID(carID, false); err != nil {
		return err
	}
	website.CarID = carID
	if err := database.DB.Create(website).Error; err != nil {
		return fmt.Errorf("failed to add website to car %d: %w", carID, err)
	}
	return nil
}

// RemoveWebsite 移除合作網站
func RemoveWebsite(websiteID int) error {
	result := database.DB.Delete(&models.Website{}, websiteID)
	if result.Error != nil {
		return fmt.Errorf("failed to remove website %d: %w", websiteID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("website %d: %w", websiteID, ErrNotFound)
	}
	return nil
}

// AddPricingOption 新增報價方案
func AddPricingOption(carID int, option *models.PricingOption) error {
	if _, err := GetCarByID(carID, false); err != nil {
		return err
	}
	option.CarID = carID
	if err := database.DB.Create(option).Error; err != nil {
		return fmt.Errorf("failed to add pricing option to car %d: %w", carID, err)
	}
	return nil
}

// RemovePricingOption 移除報價方案
func RemovePricingOption(pricingID int) error {
	result := database.DB.Delete(&models.PricingOption{}, pricingID)
	if result.Error != nil {
		return fmt.Errorf("failed to remove pricing option %d: %w", pricingID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("pricing option %d: %w", pricingID, ErrNotFound)
	}
	return nil
}

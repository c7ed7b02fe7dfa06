package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rentify/database"
	"rentify/models"
	"rentify/utils"
)

// RegisterUser 註冊使用者：email 唯一，密碼以 bcrypt 雜湊後存放
func RegisterUser(user *models.User, password string) error {
	var existing models.User
	if err := database.DB.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check for duplicate email: %v", err)
		return fmt.Errorf("failed to check for duplicate email: %w", err)
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.ID = uuid.NewString()
	user.PasswordHash = hashedPassword
	user.Role = models.RoleUser
	user.IsActive = true
	if user.CustomerType == "" {
		user.CustomerType = models.CustomerIndividual
	}

	if err := database.DB.Create(user).Error; err != nil {
		log.Printf("Failed to register user: %v", err)
		return fmt.Errorf("failed to register user: %w", err)
	}

	log.Printf("Successfully registered user %s", user.ID)
	return nil
}

// AuthenticateUser 登入：驗證密碼後簽發 JWT
func AuthenticateUser(email string, password string) (*models.User, string, error) {
	var user models.User
	if err := database.DB.Where("email = ? AND is_active = ?", email, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		log.Printf("Failed to query user by email: %v", err)
		return nil, "", fmt.Errorf("failed to query user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		log.Printf("Invalid password for email %s", email)
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("User %s logged in successfully", user.ID)
	return &user, token, nil
}

// GetUserByID 查詢使用者，軟刪除者視同不存在
func GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := database.DB.Where("id = ? AND is_active = ?", id, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		log.Printf("Failed to get user %s: %v", id, err)
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &user, nil
}

// GetAllUsers 分頁查詢使用者（僅未軟刪除者）
func GetAllUsers(page int, limit int) ([]models.User, int64, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var total int64
	if err := database.DB.Model(&models.User{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := database.DB.
		Where("is_active = ?", true).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		log.Printf("Failed to query users: %v", err)
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}

	log.Printf("Successfully retrieved %d users", len(users))
	return users, total, nil
}

// UpdateUser 更新使用者資料，逐欄位檢查避免改到不允許的欄位
func UpdateUser(id string, updatedFields map[string]interface{}) (*models.User, error) {
	user, err := GetUserByID(id)
	if err != nil {
		return nil, err
	}

	mappedFields := make(map[string]interface{})
	for key, value := range updatedFields {
		switch key {
		case "id", "email", "password_hash", "created_at":
			return nil, fmt.Errorf("cannot update field %s", key)
		case "first_name", "last_name", "phone", "address", "profile_image_url":
			mappedFields[key] = value
		case "customer_type":
			typeStr, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("invalid customer_type: must be a string")
			}
			if typeStr != models.CustomerIndividual && typeStr != models.CustomerSelfEmployed && typeStr != models.CustomerCompany {
				return nil, fmt.Errorf("invalid customer_type: must be 'individual', 'self_employed' or 'company'")
			}
			mappedFields[key] = typeStr
		case "role":
			roleStr, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("invalid role: must be a string")
			}
			if roleStr != models.RoleUser && roleStr != models.RoleAdmin && roleStr != models.RoleManager {
				return nil, fmt.Errorf("invalid role: must be 'user', 'admin' or 'manager'")
			}
			mappedFields[key] = roleStr
		default:
			return nil, fmt.Errorf("invalid field: %s", key)
		}
	}

	if err := database.DB.Model(user).Updates(mappedFields).Error; err != nil {
		log.Printf("Failed to update user %s: %v", id, err)
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}

	log.Printf("Successfully updated user %s", id)
	return user, nil
}

// ChangePassword 變更密碼：先驗舊密碼再寫入新雜湊
func ChangePassword(id string, oldPassword string, newPassword string) error {
	user, err := GetUserByID(id)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := database.DB.Model(user).Update("password_hash", hashedPassword).Error; err != nil {
		log.Printf("Failed to change password for user %s: %v", id, err)
		return fmt.Errorf("failed to change password for user %s: %w", id, err)
	}

	log.Printf("Successfully changed password for user %s", id)
	return nil
}

// DeactivateUser 軟刪除：設 is_active=false，保留歷史訂單的關聯
func DeactivateUser(id string) error {
	user, err := GetUserByID(id)
	if err != nil {
		return err
	}

	if err := database.DB.Model(user).Update("is_active", false).Error; err != nil {
		log.Printf("Failed to deactivate user %s: %v", id, err)
		return fmt.Errorf("failed to deactivate user %s: %w", id, err)
	}

	log.Printf("Successfully deactivated user %s", id)
	return nil
}

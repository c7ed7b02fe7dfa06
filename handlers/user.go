package handlers

import (
	"errors"
	"log"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"rentify/models"
	"rentify/services"
)

// 電子郵件驗證 regex
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// 密碼至少 8 字元，需含字母與數字
var passwordLetterRegex = regexp.MustCompile(`[a-zA-Z]`)
var passwordDigitRegex = regexp.MustCompile(`[0-9]`)

// Register 註冊使用者資料檢查
func Register(c *gin.Context) {
	var input struct {
		Email        string `json:"email" binding:"required"`
		Password     string `json:"password" binding:"required"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		Phone        string `json:"phone"`
		Address      string `json:"address"`
		CustomerType string `json:"customer_type"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid registration input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}

	if !emailRegex.MatchString(input.Email) {
		ErrorResponse(c, http.StatusBadRequest, "Please provide a valid email address", "invalid email")
		return
	}
	if len(input.Password) < 8 || !passwordLetterRegex.MatchString(input.Password) || !passwordDigitRegex.MatchString(input.Password) {
		ErrorResponse(c, http.StatusBadRequest, "Password must be at least 8 characters and contain letters and digits", "weak password")
		return
	}
	if input.CustomerType != "" &&
		input.CustomerType != models.CustomerIndividual &&
		input.CustomerType != models.CustomerSelfEmployed &&
		input.CustomerType != models.CustomerCompany {
		ErrorResponse(c, http.StatusBadRequest, "customer_type must be 'individual', 'self_employed' or 'company'", "invalid customer_type")
		return
	}

	user := models.User{
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Address:      input.Address,
		CustomerType: input.CustomerType,
	}

	if err := services.RegisterUser(&user, input.Password); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			ErrorResponse(c, http.StatusConflict, "Email is already registered", err.Error())
			return
		}
		log.Printf("Failed to register user with email %s: %v", input.Email, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to register user", err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "User registered successfully", user.ToResponse())
}

// Login 登入使用者資料檢查，成功時回傳 JWT
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid login input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}

	if !emailRegex.MatchString(input.Email) {
		ErrorResponse(c, http.StatusBadRequest, "Please provide a valid email address", "invalid email")
		return
	}

	user, token, err := services.AuthenticateUser(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			ErrorResponse(c, http.StatusUnauthorized, "Invalid email or password", err.Error())
			return
		}
		log.Printf("Login failed for email %s: %v", input.Email, err)
		ErrorResponse(c, http.StatusInternalServerError, "Login failed", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Login successful", gin.H{
		"user":  user.ToResponse(),
		"token": token,
	})
}

// GetProfile 查詢自己的個人資料
func GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := services.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "User not found", err.Error())
			return
		}
		log.Printf("Failed to get profile for user %s: %v", userID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get profile", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Profile retrieved", user.ToResponse())
}

// UpdateProfile 更新自己的個人資料
func UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var updatedFields map[string]interface{}
	if err := c.ShouldBindJSON(&updatedFields); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}

	// 一般使用者不得改自己的角色
	delete(updatedFields, "role")

	user, err := services.UpdateUser(userID, updatedFields)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "User not found", err.Error())
			return
		}
		ErrorResponse(c, http.StatusBadRequest, "Failed to update profile", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Profile updated", user.ToResponse())
}

// ChangePassword 變更密碼
func ChangePassword(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}

	if len(input.NewPassword) < 8 || !passwordLetterRegex.MatchString(input.NewPassword) || !passwordDigitRegex.MatchString(input.NewPassword) {
		ErrorResponse(c, http.StatusBadRequest, "Password must be at least 8 characters and contain letters and digits", "weak password")
		return
	}

	if err := services.ChangePassword(userID, input.OldPassword, input.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			ErrorResponse(c, http.StatusUnauthorized, "Current password is incorrect", err.Error())
			return
		}
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "User not found", err.Error())
			return
		}
		log.Printf("Failed to change password for user %s: %v", userID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to change password", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Password changed successfully", nil)
}

// DeleteAccount 軟刪除自己的帳號
func DeleteAccount(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := services.DeactivateUser(userID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "User not found", err.Error())
			return
		}
		log.Printf("Failed to deactivate user %s: %v", userID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to delete account", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Account deleted", nil)
}

// GetAllUsers 管理端：分頁查詢所有使用者
func GetAllUsers(c *gin.Context) {
	page := parseIntQuery(c, "page", services.DefaultPage)
	limit := parseIntQuery(c, "limit", services.DefaultLimit)

	users, total, err := services.GetAllUsers(page, limit)
	if err != nil {
		log.Printf("Failed to get users: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get users", err.Error())
		return
	}

	responses := make([]models.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "Users retrieved", PaginatedData{
		Items: responses,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetUserByID 管理端：查詢特定使用者
func GetUserByID(c *gin.Context) {
	id := c.Param("id")

	user, err := services.GetUserByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "User not found", err.Error())
			return
		}
		log.Printf("Failed to get user %s: %v", id, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to get user", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "User retrieved", user.ToResponse())
}

// UpdateUser 管理端：更新特定使用者（可改角色）
func UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var updatedFields map[string]interface{}
	if err := c.ShouldBindJSON(&updatedFields); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input data", err.Error())
		return
	}

	user, err := services.UpdateUser(id, updatedFields)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "User not found", err.Error())
			return
		}
		ErrorResponse(c, http.StatusBadRequest, "Failed to update user", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "User updated", user.ToResponse())
}

// DeleteUser 管理端：軟刪除特定使用者
func DeleteUser(c *gin.Context) {
	id := c.Param("id")

	if err := services.DeactivateUser(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "User not found", err.Error())
			return
		}
		log.Printf("Failed to deactivate user %s: %v", id, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to delete user", err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "User deleted", nil)
}

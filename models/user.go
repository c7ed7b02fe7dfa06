package models

import "time"

// 角色定義
const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// 客戶類型定義
const (
	CustomerIndividual   = "individual"
	CustomerSelfEmployed = "self_employed"
	CustomerCompany      = "company"
)

// User 使用者：以 is_active 實作軟刪除，密碼雜湊絕不回傳前端
type User struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid;column:id"`
	Email           string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null" binding:"required,email"`
	PasswordHash    string    `json:"-" gorm:"type:varchar(100);not null;column:password_hash"`
	FirstName       string    `json:"first_name,omitempty" gorm:"type:varchar(100)"`
	LastName        string    `json:"last_name,omitempty" gorm:"type:varchar(100)"`
	Phone           string    `json:"phone,omitempty" gorm:"type:varchar(30)"`
	ProfileImageURL string    `json:"profile_image_url,omitempty" gorm:"type:varchar(500)"`
	Address         string    `json:"address,omitempty" gorm:"type:varchar(300)"`
	CustomerType    string    `json:"customer_type,omitempty" gorm:"type:varchar(20);default:individual"`
	Role            string    `json:"role" gorm:"type:varchar(20);not null;default:user"`
	IsActive        bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at"`

	Bookings []Booking `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse 給前端的使用者資料（不含密碼雜湊）
type UserResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name,omitempty"`
	LastName        string    `json:"last_name,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	Address         string    `json:"address,omitempty"`
	CustomerType    string    `json:"customer_type,omitempty"`
	Role            string    `json:"role"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Phone:           u.Phone,
		ProfileImageURL: u.ProfileImageURL,
		Address:         u.Address,
		CustomerType:    u.CustomerType,
		Role:            u.Role,
		IsActive:        u.IsActive,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// SimpleUserResponse 訂單明細裡的精簡使用者資料
type SimpleUserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

func (u *User) ToSimpleResponse() SimpleUserResponse {
	return SimpleUserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

package routes

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"rentify/handlers"
	"rentify/models"
	"rentify/utils"
)

// AuthMiddleware 驗證 JWT token，並提取 user_id 和 role
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authorization header is required",
				"code":    "ERR_NO_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authorization header must be in the format 'Bearer <token>'",
				"code":    "ERR_INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 明確要求檢查 exp 字段
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return utils.JWTSecret, nil
		}, jwt.WithExpirationRequired())

		if err != nil {
			log.Printf("Token parsing error: %v", err)
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"message": "Token has expired",
					"code":    "ERR_TOKEN_EXPIRED",
				})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"message": "Invalid token",
					"code":    "ERR_INVALID_TOKEN",
				})
			}
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid token claims",
				"code":    "ERR_INVALID_CLAIMS",
			})
			c.Abort()
			return
		}

		// 確認 user_id 字段
		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			log.Printf("Missing or invalid user_id in token")
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid user_id in token",
				"code":    "ERR_INVALID_USER_ID",
			})
			c.Abort()
			return
		}

		// 確認 role 字段
		role, ok := claims["role"].(string)
		if !ok || (role != models.RoleUser && role != models.RoleAdmin && role != models.RoleManager) {
			log.Printf("Missing or invalid role in token: %v", claims["role"])
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid role in token",
				"code":    "ERR_INVALID_ROLE",
			})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

// RoleMiddleware 檢查使用者角色是否符合要求，admin 一律放行
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Role not found in context",
				"code":    "ERR_ROLE_NOT_FOUND",
			})
			c.Abort()
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid role type",
				"code":    "ERR_INVALID_ROLE_TYPE",
			})
			c.Abort()
			return
		}

		// 允許 admin 角色訪問所有端點
		if roleStr == models.RoleAdmin {
			c.Next()
			return
		}

		allowed := false
		for _, allowedRole := range allowedRoles {
			if roleStr == allowedRole {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Insufficient role permissions",
				"code":    "ERR_INSUFFICIENT_PERMISSIONS",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func Path(router *gin.RouterGroup) {
	// 版本控制
	v1 := router.Group("/v1")
	{
		// 測試路由
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(200, gin.H{"message": "pong"})
		})

		// 使用者路由
		users := v1.Group("/users")
		{
			// 公開路由：不需要 token 驗證
			users.POST("/register", handlers.Register)
			users.POST("/login", handlers.Login)

			// 受保護路由：需要 token 驗證
			usersWithAuth := users.Group("")
			usersWithAuth.Use(AuthMiddleware())
			{
				usersWithAuth.GET("/profile", handlers.GetProfile)
				usersWithAuth.PUT("/profile", handlers.UpdateProfile)
				usersWithAuth.POST("/change-password", handlers.ChangePassword)
				usersWithAuth.DELETE("/account", handlers.DeleteAccount)

				// 管理員專屬路由
				usersWithAuth.GET("", RoleMiddleware(models.RoleAdmin), handlers.GetAllUsers)
				usersWithAuth.GET("/:id", RoleMiddleware(models.RoleAdmin), handlers.GetUserByID)
				usersWithAuth.PUT("/:id", RoleMiddleware(models.RoleAdmin), handlers.UpdateUser)
				usersWithAuth.DELETE("/:id", RoleMiddleware(models.RoleAdmin), handlers.DeleteUser)
			}
		}

		// 車輛路由
		cars := v1.Group("/cars")
		{
			// 公開路由：列表、搜尋、比價皆不需登入
			cars.GET("", handlers.GetCars)
			cars.GET("/search", handlers.SearchCars)
			cars.GET("/popular", handlers.GetPopularCars)
			cars.GET("/:id", handlers.GetCarByID)
			cars.GET("/:id/pricing", handlers.GetCarPricing)

			// 受保護路由：車輛維護限 admin/manager
			carsWithAuth := cars.Group("")
			carsWithAuth.Use(AuthMiddleware(), RoleMiddleware(models.RoleManager))
			{
				carsWithAuth.POST("", handlers.CreateCar)
				carsWithAuth.PUT("/:id", handlers.UpdateCar)
				carsWithAuth.DELETE("/:id", handlers.DeleteCar)

				carsWithAuth.POST("/:id/features", handlers.AddCarFeature)
				carsWithAuth.DELETE("/:id/features/:featureId", handlers.RemoveCarFeature)
				carsWithAuth.POST("/:id/images", handlers.AddCarImage)
				carsWithAuth.DELETE("/:id/images/:imageId", handlers.RemoveCarImage)
				carsWithAuth.POST("/:id/websites", handlers.AddWebsite)
				carsWithAuth.DELETE("/:id/websites/:websiteId", handlers.RemoveWebsite)
				carsWithAuth.POST("/:id/pricing", handlers.AddPricingOption)
				carsWithAuth.DELETE("/:id/pricing/:pricingId", handlers.RemovePricingOption)
			}
		}

		// 訂單路由
		bookings := v1.Group("/bookings")
		{
			// 公開路由：查檔期不需登入
			bookings.GET("/availability/:carId", handlers.CheckAvailability)

			bookingsWithAuth := bookings.Group("")
			bookingsWithAuth.Use(AuthMiddleware())
			{
				bookingsWithAuth.POST("", handlers.CreateBooking)
				bookingsWithAuth.GET("/my", handlers.GetMyBookings)
				bookingsWithAuth.PUT("/:id/cancel", handlers.CancelBooking)

				// 管理端路由
				bookingsWithAuth.GET("", RoleMiddleware(models.RoleManager), handlers.GetAllBookings)
				bookingsWithAuth.GET("/stats", RoleMiddleware(models.RoleManager), handlers.GetBookingStats)
				bookingsWithAuth.GET("/:id", RoleMiddleware(models.RoleManager), handlers.GetBookingByID)
				bookingsWithAuth.PUT("/:id", RoleMiddleware(models.RoleManager), handlers.UpdateBooking)
			}
		}

		// 分析路由：限 admin/manager
		analytics := v1.Group("/analytics")
		analytics.Use(AuthMiddleware(), RoleMiddleware(models.RoleManager))
		{
			analytics.GET("/dashboard", handlers.GetDashboardStats)
			analytics.GET("/cars", handlers.GetCarAnalytics)
			analytics.GET("/users", handlers.GetUserAnalytics)
		}
	}
}

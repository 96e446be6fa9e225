package controllers

import (
	"SiKecil/handlers"
	"SiKecil/middlewares"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes initializes the expert portal authentication routes
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	// Public routes: No authentication required
	router.POST("/auth/login", ac.Handler.Login)
	router.POST("/send-reset-code", ac.Handler.SendResetCode)
	router.POST("/change-password", ac.Handler.ChangePassword)

	// Protected routes: Requires a valid token
	authGroup := router.Group("/auth").Use(middlewares.TokenAuthMiddleware())
	{
		authGroup.POST("/logoff", ac.Handler.Logoff)
		authGroup.GET("/user/profile", ac.Handler.GetUserProfile)
		authGroup.POST("/refresh-token", ac.Handler.RefreshToken)
	}

	// Admin routes: Requires a valid token and "Admin" role
	adminGroup := router.Group("/auth/admin").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware(middlewares.RoleAdmin),
	)
	{
		adminGroup.POST("/register", ac.Handler.Register)
		adminGroup.GET("/manage-users", ac.Handler.AdminManageUsers)
		adminGroup.DELETE("/delete-account/:id", ac.Handler.DeleteAccount)
	}
}

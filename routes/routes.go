package routes

import (
	"net/http"

	"rental-admin/controllers"
	"rental-admin/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Controllers struct {
	Auth          *controllers.AuthController
	Users         *controllers.UserController
	Verifications *controllers.VerificationController
	Dashboard     *controllers.DashboardController
	Resources     *controllers.ResourceController
	Realtime      *controllers.RealtimeController
}

func SetupRoutes(router *gin.Engine, ctrls Controllers, verifier middleware.TokenVerifier) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	router.POST("/auth/login", ctrls.Auth.Login)
	router.GET("/auth/providers/:provider", ctrls.Auth.LoginWithProvider)
	router.POST("/auth/register", ctrls.Auth.Register)
	router.POST("/auth/forgot-password", ctrls.Auth.ForgotPassword)
	router.POST("/auth/reset-password", ctrls.Auth.ResetPassword)
	router.GET("/auth/check", ctrls.Auth.Check)

	auth := router.Group("/auth")
	auth.Use(middleware.AuthMiddleware(verifier))
	{
		auth.POST("/logout", ctrls.Auth.Logout)
		auth.PATCH("/password", ctrls.Auth.UpdatePassword)
		auth.GET("/permissions", ctrls.Auth.GetPermissions)
		auth.GET("/identity", ctrls.Auth.GetIdentity)
		auth.GET("/me", ctrls.Auth.GetProfile)
	}

	ws := router.Group("/admin/ws")
	ws.Use(middleware.WSAuthMiddleware(verifier), middleware.AdminMiddleware())
	{
		ws.GET("/changes", ctrls.Realtime.Changes)
		ws.GET("/verifications", ctrls.Realtime.Verifications)
		ws.GET("/users", ctrls.Realtime.Users)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(verifier), middleware.AdminMiddleware())
	{
		admin.GET("/dashboard/stats", ctrls.Dashboard.GetStats)
		admin.GET("/dashboard/activities", ctrls.Dashboard.GetActivities)

		admin.GET("/users", ctrls.Users.GetAllUsers)
		admin.GET("/users/:id", ctrls.Users.GetUserByID)
		admin.PATCH("/users/:id", ctrls.Users.UpdateUser)
		admin.PATCH("/users/:id/verified", ctrls.Users.SetVerified)
		admin.POST("/users/:id/avatar", ctrls.Users.UploadAvatar)
		admin.DELETE("/users/:id", ctrls.Users.DeleteUser)

		admin.GET("/companies", ctrls.Users.GetAllCompanies)
		admin.POST("/companies", ctrls.Users.CreateCompany)

		admin.GET("/verifications", ctrls.Verifications.GetBoard)
		admin.GET("/verifications/:id", ctrls.Verifications.GetVerification)
		admin.PATCH("/verifications/:id/status", ctrls.Verifications.UpdateStatus)

		admin.GET("/resources", ctrls.Resources.GetResources)
		admin.GET("/resources/:resource", ctrls.Resources.GetList)
		admin.POST("/resources/:resource", ctrls.Resources.Create)
		admin.GET("/resources/:resource/:id", ctrls.Resources.GetOne)
		admin.PATCH("/resources/:resource/:id", ctrls.Resources.Update)
		admin.DELETE("/resources/:resource/:id", ctrls.Resources.Delete)

		admin.GET("/bulk/:resource", ctrls.Resources.Bulk)
		admin.POST("/bulk/:resource", ctrls.Resources.Bulk)
		admin.PATCH("/bulk/:resource", ctrls.Resources.Bulk)
		admin.DELETE("/bulk/:resource", ctrls.Resources.Bulk)
	}
}

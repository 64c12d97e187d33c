package authRoutes

import (
	authControllers "worksafe/controllers/auth"
	"worksafe/middleware"
	"worksafe/models"
	authValidators "worksafe/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, authControllers.Me)
	authGroup.Get("/login/history", authValidators.LoginHistoryList(), middleware.JWTMiddleware, authControllers.LoginHistoryList)
	authGroup.Put("/change/password", authValidators.ChangePassword(), middleware.JWTMiddleware, authControllers.ChangePassword)

	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/staff", authControllers.ListStaff)
	adminGroup.Post("/staff", authValidators.CreateStaff(), authControllers.CreateStaff)
	adminGroup.Delete("/staff/:username", authControllers.DeleteStaff)
}

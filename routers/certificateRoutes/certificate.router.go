package certificateRoutes

import (
	certificatesControllers "worksafe/controllers/certificates"
	"worksafe/middleware"
	certificatesValidators "worksafe/validators/certificates"

	"github.com/gofiber/fiber/v2"
)

func SetupCertificateRoutes(app *fiber.App) {
	certGroup := app.Group("/certificates", middleware.JWTMiddleware)

	certGroup.Get("/pending", certificatesControllers.ListPending)
	certGroup.Post("/pending", certificatesValidators.AddPending(), certificatesControllers.AddPending)
	certGroup.Patch("/pending/:cf", certificatesValidators.UpdatePending(), certificatesControllers.UpdatePending)
	certGroup.Delete("/pending/:cf", certificatesControllers.RemovePending)
	certGroup.Delete("/pending", certificatesControllers.ClearPending)

	certGroup.Post("/generate", certificatesControllers.Generate)
	certGroup.Get("/expiring", certificatesValidators.Expiring(), certificatesControllers.Expiring)

	app.Get("/dashboard/stats", middleware.JWTMiddleware, certificatesControllers.DashboardStats)
}

package registryRoutes

import (
	certificatesControllers "worksafe/controllers/certificates"
	registryControllers "worksafe/controllers/registry"
	"worksafe/middleware"
	"worksafe/models"
	registryValidators "worksafe/validators/registry"

	"github.com/gofiber/fiber/v2"
)

func SetupRegistryRoutes(app *fiber.App) {
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	subjectGroup := app.Group("/subjects", middleware.JWTMiddleware)
	subjectGroup.Get("/", registryValidators.Search(), registryControllers.SearchSubjects)
	subjectGroup.Get("/instructors", registryControllers.ListInstructors)
	subjectGroup.Get("/:cf", registryControllers.GetSubject)
	subjectGroup.Get("/:cf/certificates", certificatesControllers.SubjectHistory)
	subjectGroup.Post("/", registryValidators.Subject(), registryControllers.CreateSubject)
	subjectGroup.Put("/:cf", registryValidators.Subject(), registryControllers.UpdateSubject)
	subjectGroup.Delete("/:cf", adminOnly, registryControllers.DeleteSubject)

	entityGroup := app.Group("/entities", middleware.JWTMiddleware)
	entityGroup.Get("/", registryValidators.Search(), registryControllers.SearchEntities)
	entityGroup.Get("/next-id", registryControllers.NextEntityID)
	entityGroup.Post("/", registryValidators.Entity(), registryControllers.CreateEntity)
	entityGroup.Put("/:id", registryValidators.Entity(), registryControllers.UpdateEntity)
	entityGroup.Delete("/:id", adminOnly, registryControllers.DeleteEntity)

	courseGroup := app.Group("/courses", middleware.JWTMiddleware)
	courseGroup.Get("/", registryValidators.Search(), registryControllers.SearchCourses)
	courseGroup.Get("/next-id", registryControllers.NextCourseID)
	courseGroup.Get("/:id", registryControllers.GetCourse)
	courseGroup.Post("/", registryValidators.Course(), registryControllers.CreateCourse)
	courseGroup.Put("/:id", registryValidators.Course(), registryControllers.UpdateCourse)
	courseGroup.Delete("/:id", adminOnly, registryControllers.DeleteCourse)

	templateGroup := app.Group("/templates", middleware.JWTMiddleware)
	templateGroup.Get("/", registryControllers.ListTemplates)
	templateGroup.Post("/", adminOnly, registryControllers.UploadTemplate)
}

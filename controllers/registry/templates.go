package registryController

import (
	"errors"
	"log"

	"worksafe/certificates"
	"worksafe/config"
	"worksafe/middleware"
	"worksafe/utils"

	"github.com/gofiber/fiber/v2"
)

func ListTemplates(c *fiber.Ctx) error {
	names, err := certificates.TemplateStore{Dir: config.AppConfig.TemplateDir}.List()
	if err != nil {
		log.Printf("Error listing templates: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to list templates!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Templates.", fiber.Map{
		"templates": names,
		"default":   config.AppConfig.DefaultTemplate,
	})
}

func UploadTemplate(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"file": "file is required!"})
	}

	name, err := utils.TemplateFileName(file.Filename)
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"file": err.Error()})
	}

	path, err := utils.SaveUploadedFile(file, config.AppConfig.TemplateDir, name, certificates.CheckTemplate)
	if err != nil {
		if errors.Is(err, certificates.ErrInvalidTemplate) {
			return middleware.ValidationErrorResponse(c, map[string]string{"file": err.Error()})
		}
		log.Printf("Error saving template %s: %v", name, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save template!", nil)
	}

	log.Printf("Template %s uploaded by %q", path, middleware.CurrentUser(c))
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Template uploaded.", fiber.Map{"name": name})
}

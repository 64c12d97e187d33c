package registryController

import (
	"worksafe/database"
	"worksafe/middleware"
	"worksafe/models"
	"worksafe/repository"
	registryValidator "worksafe/validators/registry"

	"github.com/gofiber/fiber/v2"
)

func SearchEntities(c *fiber.Ctx) error {
	q := c.Locals("validatedSearch").(*registryValidator.SearchQuery)
	entities, err := repository.NewEntityRepository(database.Database.Db).Search(c.UserContext(), q.Q)
	if err != nil {
		return notFoundOr(c, err, "Entity")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Entities.", entities)
}

func NextEntityID(c *fiber.Ctx) error {
	id, err := repository.NewEntityRepository(database.Database.Db).NextID(c.UserContext())
	if err != nil {
		return notFoundOr(c, err, "Entity")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Next entity id.", fiber.Map{"id": id})
}

func CreateEntity(c *fiber.Ctx) error {
	reqData := c.Locals("validatedEntity").(*registryValidator.EntityRequest)
	entity := &models.Entity{Description: reqData.Description, VatNumber: reqData.VatNumber, Email: reqData.Email}
	if err := repository.NewEntityRepository(database.Database.Db).Create(c.UserContext(), entity); err != nil {
		return notFoundOr(c, err, "Entity")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Entity created.", entity)
}

func UpdateEntity(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid entity id!", nil)
	}
	reqData := c.Locals("validatedEntity").(*registryValidator.EntityRequest)
	entity := &models.Entity{ID: uint(id), Description: reqData.Description, VatNumber: reqData.VatNumber, Email: reqData.Email}
	if err := repository.NewEntityRepository(database.Database.Db).Update(c.UserContext(), entity); err != nil {
		return notFoundOr(c, err, "Entity")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Entity updated.", entity)
}

func DeleteEntity(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid entity id!", nil)
	}
	if err := repository.NewEntityRepository(database.Database.Db).Delete(c.UserContext(), uint(id)); err != nil {
		return notFoundOr(c, err, "Entity")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Entity deleted.", nil)
}

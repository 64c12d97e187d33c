package registryController

import (
	"worksafe/database"
	"worksafe/middleware"
	"worksafe/models"
	"worksafe/repository"
	registryValidator "worksafe/validators/registry"

	"github.com/gofiber/fiber/v2"
)

func courseFromRequest(id uint, reqData *registryValidator.CourseRequest) *models.Course {
	return &models.Course{
		ID:            id,
		Name:          reqData.Name,
		Hours:         reqData.Hours,
		ShortCode:     reqData.ShortCode,
		Syllabus:      reqData.Syllabus,
		TemplateFile:  reqData.TemplateFile,
		ValidityYears: reqData.ValidityYears,
	}
}

func SearchCourses(c *fiber.Ctx) error {
	q := c.Locals("validatedSearch").(*registryValidator.SearchQuery)
	courses, err := repository.NewCourseRepository(database.Database.Db).Search(c.UserContext(), q.Q)
	if err != nil {
		return notFoundOr(c, err, "Course")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses.", courses)
}

func GetCourse(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}
	course, err := repository.NewCourseRepository(database.Database.Db).Get(c.UserContext(), uint(id))
	if err != nil {
		return notFoundOr(c, err, "Course")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details.", course)
}

func NextCourseID(c *fiber.Ctx) error {
	id, err := repository.NewCourseRepository(database.Database.Db).NextID(c.UserContext())
	if err != nil {
		return notFoundOr(c, err, "Course")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Next course id.", fiber.Map{"id": id})
}

func CreateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*registryValidator.CourseRequest)
	course := courseFromRequest(0, reqData)
	if err := repository.NewCourseRepository(database.Database.Db).Create(c.UserContext(), course); err != nil {
		return notFoundOr(c, err, "Course")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created.", course)
}

func UpdateCourse(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}
	reqData := c.Locals("validatedCourse").(*registryValidator.CourseRequest)
	course := courseFromRequest(uint(id), reqData)
	if err := repository.NewCourseRepository(database.Database.Db).Update(c.UserContext(), course); err != nil {
		return notFoundOr(c, err, "Course")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated.", course)
}

func DeleteCourse(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}
	if err := repository.NewCourseRepository(database.Database.Db).Delete(c.UserContext(), uint(id)); err != nil {
		return notFoundOr(c, err, "Course")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted.", nil)
}

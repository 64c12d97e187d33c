package certificatesController

import (
	"errors"
	"strings"

	"worksafe/certificates"
	"worksafe/database"
	"worksafe/middleware"
	"worksafe/repository"
	certificatesValidator "worksafe/validators/certificates"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Pending holds every operator's list of certificates to generate
var Pending = certificates.NewPendingRegistry()

func ListPending(c *fiber.Ctx) error {
	items := Pending.For(middleware.CurrentUser(c)).Items()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending certificates.", items)
}

func AddPending(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPending").(*certificatesValidator.AddPendingRequest)

	trainee, err := repository.NewSubjectRepository(database.Database.Db).Trainee(c.UserContext(), reqData.FiscalCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trainee not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load trainee!", nil)
	}

	req, err := Pending.For(middleware.CurrentUser(c)).Add(trainee)
	if errors.Is(err, certificates.ErrAlreadyPending) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Trainee is already in the list!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Trainee added.", req)
}

// UpdatePending edits course, dates, hours or instructor. Choosing a course fills the hours
// from the catalog unless the request sets them too.
func UpdatePending(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPendingUpdate").(*certificatesValidator.UpdatePendingRequest)
	cf := c.Params("cf")

	courseHours := 0
	if reqData.CourseID != nil {
		course, err := repository.NewCourseRepository(database.Database.Db).Get(c.UserContext(), *reqData.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
			}
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load course!", nil)
		}
		courseHours = course.Hours
	}

	updated, err := Pending.For(middleware.CurrentUser(c)).Update(cf, func(r *certificates.Request) {
		if reqData.CourseID != nil {
			r.CourseID = *reqData.CourseID
			if reqData.Hours == nil {
				h := courseHours
				r.Hours = &h
			}
		}
		if reqData.StartDate != nil {
			r.StartDate = strings.TrimSpace(*reqData.StartDate)
		}
		if reqData.ExtraDates != nil {
			r.ExtraDates = strings.TrimSpace(*reqData.ExtraDates)
		}
		if reqData.Hours != nil {
			h := *reqData.Hours
			r.Hours = &h
		}
		if reqData.InstructorFiscalCode != nil {
			r.InstructorFiscalCode = strings.ToUpper(strings.TrimSpace(*reqData.InstructorFiscalCode))
		}
	})
	if errors.Is(err, certificates.ErrNotPending) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trainee is not in the list!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending certificate updated.", updated)
}

func RemovePending(c *fiber.Ctx) error {
	if !Pending.For(middleware.CurrentUser(c)).Remove(c.Params("cf")) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trainee is not in the list!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trainee removed.", nil)
}

func ClearPending(c *fiber.Ctx) error {
	Pending.For(middleware.CurrentUser(c)).Clear()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "List cleared.", nil)
}

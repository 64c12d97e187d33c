package registryController

import (
	"errors"
	"log"
	"time"

	"worksafe/database"
	"worksafe/middleware"
	"worksafe/models"
	"worksafe/repository"
	registryValidator "worksafe/validators/registry"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// notFoundOr maps gorm.ErrRecordNotFound to 404 and anything else to 500
func notFoundOr(c *fiber.Ctx, err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, what+" not found!", nil)
	}
	log.Printf("Registry error on %s: %v", what, err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
}

func subjectFromRequest(reqData *registryValidator.SubjectRequest) *models.Subject {
	s := &models.Subject{
		FiscalCode:   reqData.FiscalCode,
		Surname:      reqData.Surname,
		GivenName:    reqData.GivenName,
		BirthPlace:   reqData.BirthPlace,
		EntityID:     reqData.EntityID,
		IsInstructor: reqData.IsInstructor,
		Email:        reqData.Email,
	}
	if reqData.DateOfBirth != "" {
		// already checked by the validator
		if dob, err := time.Parse("2006-01-02", reqData.DateOfBirth); err == nil {
			s.DateOfBirth = &dob
		}
	}
	return s
}

func SearchSubjects(c *fiber.Ctx) error {
	q := c.Locals("validatedSearch").(*registryValidator.SearchQuery)
	subjects, err := repository.NewSubjectRepository(database.Database.Db).Search(c.UserContext(), q.Q, q.InstructorsOnly, q.Limit)
	if err != nil {
		return notFoundOr(c, err, "Subject")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subjects.", subjects)
}

func ListInstructors(c *fiber.Ctx) error {
	instructors, err := repository.NewSubjectRepository(database.Database.Db).ListInstructors(c.UserContext())
	if err != nil {
		return notFoundOr(c, err, "Instructor")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Instructors.", instructors)
}

func GetSubject(c *fiber.Ctx) error {
	subject, err := repository.NewSubjectRepository(database.Database.Db).Get(c.UserContext(), c.Params("cf"))
	if err != nil {
		return notFoundOr(c, err, "Subject")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subject details.", subject)
}

func CreateSubject(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSubject").(*registryValidator.SubjectRequest)
	repo := repository.NewSubjectRepository(database.Database.Db)

	if _, err := repo.Get(c.UserContext(), reqData.FiscalCode); err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Fiscal code is already registered!", nil)
	}

	subject := subjectFromRequest(reqData)
	if err := repo.Create(c.UserContext(), subject); err != nil {
		return notFoundOr(c, err, "Subject")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Subject created.", subject)
}

func UpdateSubject(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSubject").(*registryValidator.SubjectRequest)
	reqData.FiscalCode = c.Params("cf")

	subject := subjectFromRequest(reqData)
	if err := repository.NewSubjectRepository(database.Database.Db).Update(c.UserContext(), subject); err != nil {
		return notFoundOr(c, err, "Subject")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subject updated.", subject)
}

func DeleteSubject(c *fiber.Ctx) error {
	if err := repository.NewSubjectRepository(database.Database.Db).Delete(c.UserContext(), c.Params("cf")); err != nil {
		return notFoundOr(c, err, "Subject")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subject deleted.", nil)
}

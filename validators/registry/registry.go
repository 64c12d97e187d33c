package registryValidator

import (
	"strings"

	"worksafe/middleware"

	"github.com/gofiber/fiber/v2"
)

type SearchQuery struct {
	Q               string `query:"q" json:"q" validate:"max=100"`
	InstructorsOnly bool   `query:"instructors" json:"instructors"`
	Limit           int    `query:"limit" json:"limit" validate:"min=0,max=500"`
}

type SubjectRequest struct {
	FiscalCode   string `json:"fiscal_code" validate:"required,min=11,max=16,alphanum"`
	Surname      string `json:"surname" validate:"required,max=100"`
	GivenName    string `json:"given_name" validate:"required,max=100"`
	DateOfBirth  string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	BirthPlace   string `json:"birth_place" validate:"max=100"`
	EntityID     *uint  `json:"entity_id" validate:"omitempty,min=1"`
	IsInstructor bool   `json:"is_instructor"`
	Email        string `json:"email" validate:"omitempty,email"`
}

type EntityRequest struct {
	Description string `json:"description" validate:"required,max=200"`
	VatNumber   string `json:"vat_number" validate:"omitempty,numeric,len=11"`
	Email       string `json:"email" validate:"omitempty,email"`
}

type CourseRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	Hours         int    `json:"hours" validate:"min=0,max=1000"`
	ShortCode     string `json:"short_code" validate:"omitempty,max=10,alphanum"`
	Syllabus      string `json:"syllabus"`
	TemplateFile  string `json:"template_file" validate:"omitempty,endswith=.docx"`
	ValidityYears int    `json:"validity_years" validate:"min=0,max=50"`
}

// Search validator middleware for list endpoints
func Search() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &SearchQuery{Limit: 100}
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		reqData.Q = strings.TrimSpace(reqData.Q)

		if errors := middleware.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSearch", reqData)
		return c.Next()
	}
}

// Subject validator middleware
func Subject() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubjectRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.FiscalCode = strings.ToUpper(strings.TrimSpace(reqData.FiscalCode))
		reqData.Surname = strings.TrimSpace(reqData.Surname)
		reqData.GivenName = strings.TrimSpace(reqData.GivenName)

		if errors := middleware.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubject", reqData)
		return c.Next()
	}
}

// Entity validator middleware
func Entity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EntityRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Description = strings.TrimSpace(reqData.Description)

		if errors := middleware.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEntity", reqData)
		return c.Next()
	}
}

// Course validator middleware
func Course() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.ShortCode = strings.ToUpper(strings.TrimSpace(reqData.ShortCode))
		reqData.TemplateFile = strings.TrimSpace(reqData.TemplateFile)

		if errors := middleware.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

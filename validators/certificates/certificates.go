package certificatesValidator

import (
	"strings"

	"worksafe/config"
	"worksafe/middleware"

	"github.com/gofiber/fiber/v2"
)

type AddPendingRequest struct {
	FiscalCode string `json:"fiscal_code" validate:"required,min=11,max=16,alphanum"`
}

// UpdatePendingRequest carries only the fields the operator changed
type UpdatePendingRequest struct {
	CourseID             *uint   `json:"course_id" validate:"omitempty,min=1"`
	StartDate            *string `json:"start_date" validate:"omitempty,max=32"`
	ExtraDates           *string `json:"extra_dates" validate:"omitempty,max=255"`
	Hours                *int    `json:"hours" validate:"omitempty,min=0,max=1000"`
	InstructorFiscalCode *string `json:"instructor_fiscal_code" validate:"omitempty,max=16"`
}

type ExpiringQuery struct {
	Days int `query:"days" json:"days" validate:"min=1,max=3650"`
}

// AddPending validator middleware
func AddPending() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddPendingRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.FiscalCode = strings.ToUpper(strings.TrimSpace(reqData.FiscalCode))

		if errors := middleware.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPending", reqData)
		return c.Next()
	}
}

// UpdatePending validator middleware
func UpdatePending() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdatePendingRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := middleware.ValidateStruct(reqData)
		if reqData.CourseID == nil && reqData.StartDate == nil && reqData.ExtraDates == nil &&
			reqData.Hours == nil && reqData.InstructorFiscalCode == nil {
			errors["body"] = "Nothing to update!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPendingUpdate", reqData)
		return c.Next()
	}
}

// Expiring validator middleware; days defaults to the renewal notice window
func Expiring() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &ExpiringQuery{Days: config.AppConfig.RenewalNoticeDays}
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if errors := middleware.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedExpiring", reqData)
		return c.Next()
	}
}

package certificatesController

import (
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"worksafe/certificates"
	"worksafe/config"
	"worksafe/database"
	"worksafe/middleware"
	"worksafe/repository"
	certificatesValidator "worksafe/validators/certificates"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

var (
	janitorOnce sync.Once
	janitor     *certificates.Janitor
)

// Janitor removes generated runs once the download grace period has passed
func Janitor() *certificates.Janitor {
	janitorOnce.Do(func() {
		janitor = certificates.NewJanitor(config.AppConfig.CleanupGrace)
	})
	return janitor
}

func newGenerator(db *gorm.DB) *certificates.Generator {
	cfg := config.AppConfig
	return &certificates.Generator{
		Catalog:             repository.NewCourseRepository(db),
		Instructors:         repository.NewSubjectRepository(db),
		History:             repository.NewHistoryRepository(db),
		Templates:           certificates.TemplateStore{Dir: cfg.TemplateDir},
		WorkDir:             cfg.ExportDir,
		DefaultTemplate:     cfg.DefaultTemplate,
		DefaultCourseCode:   cfg.DefaultCourseCode,
		DefaultEntityFolder: cfg.DefaultEntityFolder,
		LockSessions:        cfg.SessionLocking,
	}
}

// Generate renders the caller's pending list and streams the archive back.
// Only when the run succeeds are its requests removed from the list.
func Generate(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)
	list := Pending.For(owner)
	items := list.Items()

	res, err := newGenerator(database.Database.Db).Generate(c.UserContext(), items)
	if err != nil {
		return generationError(c, err)
	}

	list.Settle(items)
	Janitor().Schedule(res.RunDir)
	log.Printf("[GENERATOR] run %s by %q: %s scheduled for cleanup", res.RunID, owner, res.RunDir)

	c.Set("X-Certificates-Count", strconv.Itoa(len(res.Files)))
	c.Set("X-Run-Id", res.RunID)
	return c.Download(res.ArchivePath, res.ArchiveName)
}

func generationError(c *fiber.Ctx, err error) error {
	var verr *certificates.ValidationError
	switch {
	case errors.As(err, &verr):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Missing data (course or date) for some trainees!", verr.Problems)
	case errors.Is(err, certificates.ErrEmptyBatch):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "The list is empty!", nil)
	case errors.Is(err, certificates.ErrTemplateNotFound):
		return middleware.JsonResponse(c, fiber.StatusFailedDependency, false, err.Error(), nil)
	case errors.Is(err, certificates.ErrUnknownCourse):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
	}
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Certificate generation failed!", nil)
}

func Expiring(c *fiber.Ctx) error {
	reqData := c.Locals("validatedExpiring").(*certificatesValidator.ExpiringQuery)

	today := certificates.Civil(time.Now())
	records, err := repository.NewHistoryRepository(database.Database.Db).Expiring(c.UserContext(), today, today.AddDate(0, 0, reqData.Days), false)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch expiring certificates!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Expiring certificates.", records)
}

func SubjectHistory(c *fiber.Ctx) error {
	records, err := repository.NewHistoryRepository(database.Database.Db).ListBySubject(c.UserContext(), c.Params("cf"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates.", records)
}

// DashboardStats counts by creation date: certificates printed today for past sessions count as today.
func DashboardStats(c *fiber.Ctx) error {
	ctx := c.UserContext()
	db := database.Database.Db
	history := repository.NewHistoryRepository(db)

	today, err := history.CountToday(ctx)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load statistics!", nil)
	}
	month, err := history.CountCreatedSince(ctx, now.BeginningOfMonth())
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load statistics!", nil)
	}
	total, err := history.Count(ctx)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load statistics!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard statistics.", fiber.Map{
		"certificatesToday": today,
		"certificatesMonth": month,
		"certificatesTotal": total,
		"pending":           Pending.For(middleware.CurrentUser(c)).Len(),
	})
}

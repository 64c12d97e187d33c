package certificates

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"worksafe/models"
)

// CourseCatalog lists the courses certificates can be issued for
type CourseCatalog interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
}

// InstructorDirectory lists the people who can sign as instructor
type InstructorDirectory interface {
	ListInstructors(ctx context.Context) ([]Instructor, error)
}

// Generator turns a batch of pending requests into rendered certificates packed in one archive.
type Generator struct {
	Catalog     CourseCatalog
	Instructors InstructorDirectory
	History     HistoryStore
	Templates   TemplateStore

	// WorkDir is the parent of each run's temporary tree; empty means os.TempDir().
	WorkDir             string
	DefaultTemplate     string
	DefaultCourseCode   string
	DefaultEntityFolder string
	LockSessions        bool

	Now func() time.Time
}

// SessionSummary describes one session group of a finished run
type SessionSummary struct {
	Sigil         string    `json:"sigil"`
	CourseID      uint      `json:"course_id"`
	StartDate     time.Time `json:"start_date"`
	SessionNumber int       `json:"session_number"`
	Certificates  int       `json:"certificates"`
}

// Result of a successful run. RunDir contains both the working tree and the archive.
type Result struct {
	RunID       string
	RunDir      string
	ArchivePath string
	ArchiveName string
	Files       []string
	Sessions    []SessionSummary
}

type plannedGroup struct {
	SessionGroup
	course   models.Course
	template string
}

// Generate validates reqs, renders one certificate per request and packages them.
// Nothing is rendered when validation fails or a template is missing; a failure
// while rendering discards every document of the run.
func (g *Generator) Generate(ctx context.Context, reqs []Request) (*Result, error) {
	if err := Validate(reqs); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	now := g.now()

	courses, err := g.courseIndex(ctx)
	if err != nil {
		return nil, err
	}
	instructors, err := g.instructorNames(ctx, reqs)
	if err != nil {
		return nil, err
	}

	groups := GroupRequests(reqs, now)
	plan := make([]plannedGroup, 0, len(groups))
	for _, grp := range groups {
		course, ok := courses[grp.CourseID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownCourse, grp.CourseID)
		}
		tplName := course.Template(g.defaultTemplate())
		tplPath, err := g.Templates.Resolve(tplName)
		if err != nil {
			return nil, fmt.Errorf("course %q: %w", course.Name, err)
		}
		for _, r := range grp.Requests {
			if r.Start.Fallback {
				log.Printf("[GENERATOR] run %s: %s for %s, using %s", runID, r.Start.Reason, r.Trainee.FiscalCode, r.Start.Date.Format(displayLayout))
			}
		}
		plan = append(plan, plannedGroup{SessionGroup: grp, course: course, template: tplPath})
	}

	if g.WorkDir != "" {
		if err := os.MkdirAll(g.WorkDir, 0755); err != nil {
			return nil, fmt.Errorf("create export directory: %w", err)
		}
	}
	runDir, err := os.MkdirTemp(g.WorkDir, "worksafe-export-")
	if err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}
	workTree := filepath.Join(runDir, "certificates")

	res := &Result{
		RunID:       runID,
		RunDir:      runDir,
		ArchiveName: fmt.Sprintf("Export_%s.zip", now.Format("02012006_150405")),
	}
	log.Printf("[GENERATOR] run %s: %d certificates in %d sessions", runID, len(reqs), len(plan))

	run := func(store HistoryStore) error {
		for _, grp := range plan {
			summary, files, err := g.renderGroup(ctx, store, grp, instructors, workTree)
			if err != nil {
				return err
			}
			res.Sessions = append(res.Sessions, summary)
			res.Files = append(res.Files, files...)
		}
		archivePath, err := Package(res.Files, workTree, filepath.Join(runDir, res.ArchiveName))
		if err != nil {
			return fmt.Errorf("package archive: %w", err)
		}
		res.ArchivePath = archivePath
		return nil
	}

	if tx, ok := g.History.(TxHistoryStore); ok {
		err = tx.WithinTx(ctx, run)
	} else {
		err = run(g.History)
	}
	if err != nil {
		if rmErr := RemoveIfExists(runDir); rmErr != nil {
			log.Printf("[GENERATOR] run %s: cleanup after failure: %v", runID, rmErr)
		}
		log.Printf("[GENERATOR] run %s failed: %v", runID, err)
		return nil, err
	}

	log.Printf("[GENERATOR] run %s: archive %s ready with %d certificates", runID, res.ArchiveName, len(res.Files))
	return res, nil
}

func (g *Generator) renderGroup(ctx context.Context, store HistoryStore, grp plannedGroup, instructors map[string]string, workTree string) (SessionSummary, []string, error) {
	if locker, ok := store.(SessionLocker); ok && g.LockSessions {
		if err := locker.LockSession(ctx, grp.CourseID, grp.StartDate.Month(), grp.StartDate.Year()); err != nil {
			log.Printf("[GENERATOR] Could not lock sessions of course %d: %v", grp.CourseID, err)
		}
	}

	number := NextSessionNumber(ctx, store, grp.CourseID, grp.StartDate)
	sigil := BuildSigil(number, grp.course.Code(g.DefaultCourseCode), grp.StartDate)
	sigilDir := filepath.Join(workTree, sigil)

	files := make([]string, 0, len(grp.Requests))
	for _, r := range grp.Requests {
		tokens := g.tokensFor(r, grp.course, sigil, instructors)
		outDir := filepath.Join(sigilDir, folderName(r.Trainee.EntityName, g.defaultEntityFolder()))

		path, err := Render(grp.template, tokens, outDir)
		if err != nil {
			return SessionSummary{}, nil, fmt.Errorf("certificate for %s: %w", r.Trainee.FiscalCode, err)
		}
		files = append(files, path)

		if store != nil {
			if err := store.Insert(ctx, r.Trainee.FiscalCode, grp.CourseID, grp.StartDate); err != nil {
				return SessionSummary{}, nil, fmt.Errorf("record certificate for %s: %w", r.Trainee.FiscalCode, err)
			}
		}
	}

	return SessionSummary{
		Sigil:         sigil,
		CourseID:      grp.CourseID,
		StartDate:     grp.StartDate,
		SessionNumber: number,
		Certificates:  len(files),
	}, files, nil
}

func (g *Generator) tokensFor(r GroupedRequest, course models.Course, sigil string, instructors map[string]string) TokenMap {
	start := r.Start.Date.Format(displayLayout)
	performed := start
	if extra := strings.TrimSpace(r.ExtraDates); extra != "" {
		performed = start + " " + extra
	}

	hours := course.Hours
	if r.Hours != nil {
		hours = *r.Hours
	}
	hoursText := ""
	if hours > 0 {
		hoursText = strconv.Itoa(hours)
	}

	t := r.Trainee
	return TokenMap{
		TokenSurname:     t.Surname,
		TokenGivenName:   t.GivenName,
		TokenFiscalCode:  t.FiscalCode,
		TokenCode:        sigil,
		TokenSigil:       sigil,
		TokenDateOfBirth: FormatDisplayDate(t.DateOfBirth),
		TokenBirthPlace:  t.BirthPlace,
		TokenCompany:     t.EntityName,
		TokenCourseName:  course.Name,
		TokenPerformedOn: performed,
		TokenHours:       hoursText,
		TokenIssuedOn:    r.IssueDate.Format(displayLayout),
		TokenInstructor:  instructors[normalizeCF(r.InstructorFiscalCode)],
		TokenSyllabus:    course.Syllabus,
	}
}

func (g *Generator) courseIndex(ctx context.Context) (map[uint]models.Course, error) {
	if g.Catalog == nil {
		return nil, fmt.Errorf("%w: no course catalog configured", ErrUnknownCourse)
	}
	list, err := g.Catalog.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	idx := make(map[uint]models.Course, len(list))
	for _, c := range list {
		idx[c.ID] = c
	}
	return idx, nil
}

func (g *Generator) instructorNames(ctx context.Context, reqs []Request) (map[string]string, error) {
	names := make(map[string]string)
	needed := false
	for _, r := range reqs {
		if strings.TrimSpace(r.InstructorFiscalCode) != "" {
			needed = true
			break
		}
	}
	if !needed || g.Instructors == nil {
		return names, nil
	}
	list, err := g.Instructors.ListInstructors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load instructors: %w", err)
	}
	for _, in := range list {
		names[normalizeCF(in.FiscalCode)] = in.DisplayName
	}
	return names, nil
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *Generator) defaultTemplate() string {
	if g.DefaultTemplate == "" {
		return "modello.docx"
	}
	return g.DefaultTemplate
}

func (g *Generator) defaultEntityFolder() string {
	if g.DefaultEntityFolder == "" {
		return "Privati"
	}
	return g.DefaultEntityFolder
}

package certificates

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worksafe/models"
)

var basicSafety = models.Course{ID: 7, Name: "Basic Safety", Hours: 4, ShortCode: "SIC", TemplateFile: "sicurezza.docx", Syllabus: "Rischi generali"}

type generatorFixture struct {
	gen       *Generator
	history   *fakeHistory
	templates string
}

func newGeneratorFixture(t *testing.T, courses ...models.Course) *generatorFixture {
	t.Helper()
	templates := filepath.Join(t.TempDir(), "templates")
	writeTemplate(t, templates, "sicurezza.docx",
		para("{{COGNOME}} {{NOME}} {{CF}} {{SOCIETA}}")+
			para("{{NOME_CORSO}} {{ORE_DURATA}} ore, svolto {{DATA_SVOLGIMENTO}}, rilasciato {{DATA_RILASCIOAT}}")+
			para("Codice {{CODICE}} docente {{DOCENTE}}"))

	if len(courses) == 0 {
		courses = []models.Course{basicSafety}
	}
	history := newFakeHistory()
	gen := &Generator{
		Catalog:     fakeCatalog{courses: courses},
		Instructors: fakeInstructors{{FiscalCode: "DCNTTT70A01H501X", DisplayName: "Neri Paolo"}},
		History:     history,
		Templates:   TemplateStore{Dir: templates},
		WorkDir:     t.TempDir(),
		Now:         func() time.Time { return time.Date(2024, 3, 26, 10, 15, 30, 0, time.UTC) },
	}
	return &generatorFixture{gen: gen, history: history, templates: templates}
}

func trainee(cf, surname, name, entity string) Trainee {
	dob := day(1985, 1, 15)
	return Trainee{FiscalCode: cf, Surname: surname, GivenName: name, DateOfBirth: &dob, BirthPlace: "Roma", EntityName: entity}
}

func TestGenerate_EndToEnd(t *testing.T) {
	f := newGeneratorFixture(t)
	hours := 4
	reqs := []Request{
		{Trainee: trainee("AAA", "Rossi", "Mario", "Acme"), CourseID: 7, StartDate: "2024-03-25", Hours: &hours, InstructorFiscalCode: "DCNTTT70A01H501X"},
		{Trainee: trainee("BBB", "Verdi", "Anna", "Acme"), CourseID: 7, StartDate: "2024-03-25", Hours: &hours},
	}

	res, err := f.gen.Generate(context.Background(), reqs)
	require.NoError(t, err)

	require.Len(t, res.Sessions, 1)
	assert.Equal(t, "1SIC25032024", res.Sessions[0].Sigil)
	assert.Equal(t, 1, res.Sessions[0].SessionNumber)
	assert.Equal(t, 2, res.Sessions[0].Certificates)

	workTree := filepath.Join(res.RunDir, "certificates")
	require.Len(t, res.Files, 2)
	assert.Equal(t, filepath.Join(workTree, "1SIC25032024", "Acme", "Rossi_Mario_1SIC25032024.docx"), res.Files[0])
	assert.Equal(t, filepath.Join(workTree, "1SIC25032024", "Acme", "Verdi_Anna_1SIC25032024.docx"), res.Files[1])

	assert.Equal(t, "Export_26032024_101530.zip", res.ArchiveName)
	assert.Equal(t, filepath.Join(res.RunDir, res.ArchiveName), res.ArchivePath)
	assert.Equal(t, []string{
		"1SIC25032024/Acme/Rossi_Mario_1SIC25032024.docx",
		"1SIC25032024/Acme/Verdi_Anna_1SIC25032024.docx",
	}, zipEntries(t, res.ArchivePath))

	assert.Equal(t, []insertCall{
		{FiscalCode: "AAA", CourseID: 7, Performed: day(2024, 3, 25)},
		{FiscalCode: "BBB", CourseID: 7, Performed: day(2024, 3, 25)},
	}, f.history.inserts)

	doc := readPart(t, res.Files[0], "word/document.xml")
	assert.Contains(t, doc, "Rossi Mario AAA Acme")
	assert.Contains(t, doc, "Basic Safety 4 ore, svolto 25/03/2024, rilasciato 25/03/2024")
	assert.Contains(t, doc, "Codice 1SIC25032024 docente Neri Paolo")

	other := readPart(t, res.Files[1], "word/document.xml")
	assert.Contains(t, other, "Codice 1SIC25032024 docente </w:t>")
}

func TestGenerate_ValidationAbortsBeforeWork(t *testing.T) {
	f := newGeneratorFixture(t)
	reqs := []Request{
		{Trainee: trainee("AAA", "Rossi", "Mario", "Acme"), CourseID: 7, StartDate: "2024-03-25"},
		{Trainee: trainee("BBB", "Verdi", "Anna", "Acme"), StartDate: "2024-03-25"},
	}

	res, err := f.gen.Generate(context.Background(), reqs)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrMissingCourse)
	assert.Empty(t, f.history.inserts)

	entries, err := os.ReadDir(f.gen.WorkDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_MissingTemplateAbortsRun(t *testing.T) {
	noTemplate := models.Course{ID: 9, Name: "Antincendio", ShortCode: "ANT", TemplateFile: "antincendio.docx"}
	f := newGeneratorFixture(t, basicSafety, noTemplate)
	reqs := []Request{
		{Trainee: trainee("AAA", "Rossi", "Mario", "Acme"), CourseID: 7, StartDate: "2024-03-25"},
		{Trainee: trainee("BBB", "Verdi", "Anna", "Acme"), CourseID: 9, StartDate: "2024-03-26"},
	}

	_, err := f.gen.Generate(context.Background(), reqs)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.Contains(t, err.Error(), "antincendio.docx")
	assert.Empty(t, f.history.inserts)

	entries, err := os.ReadDir(f.gen.WorkDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_UnknownCourse(t *testing.T) {
	f := newGeneratorFixture(t)
	_, err := f.gen.Generate(context.Background(), []Request{
		{Trainee: trainee("AAA", "Rossi", "Mario", ""), CourseID: 42, StartDate: "2024-03-25"},
	})
	assert.ErrorIs(t, err, ErrUnknownCourse)
}

func TestGenerate_SessionNumbering(t *testing.T) {
	f := newGeneratorFixture(t)
	f.history.dates[7] = []time.Time{day(2024, 3, 1)}

	reqs := []Request{
		// later session listed first: numbering still follows the calendar
		{Trainee: trainee("CCC", "Bianchi", "Luca", ""), CourseID: 7, StartDate: "20/03/2024", ExtraDates: "e 21/03/2024"},
		{Trainee: trainee("AAA", "Rossi", "Mario", ""), CourseID: 7, StartDate: "2024-03-10"},
	}

	res, err := f.gen.Generate(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, res.Sessions, 2)
	assert.Equal(t, "2SIC10032024", res.Sessions[0].Sigil)
	assert.Equal(t, "3SIC20032024", res.Sessions[1].Sigil)

	assert.Equal(t, filepath.Join(res.RunDir, "certificates", "3SIC20032024", "Privati", "Bianchi_Luca_3SIC20032024.docx"), res.Files[1])
	doc := readPart(t, res.Files[1], "word/document.xml")
	assert.Contains(t, doc, "svolto 20/03/2024 e 21/03/2024, rilasciato 21/03/2024")
	// hours come from the catalog when not overridden
	assert.Contains(t, doc, "Basic Safety 4 ore")
}

func TestGenerate_HistoryOutageFallsBackToOne(t *testing.T) {
	f := newGeneratorFixture(t)
	f.history.dates[7] = []time.Time{day(2024, 3, 1)}
	f.history.countErr = errors.New("database unavailable")

	res, err := f.gen.Generate(context.Background(), []Request{
		{Trainee: trainee("AAA", "Rossi", "Mario", ""), CourseID: 7, StartDate: "2024-03-25"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1SIC25032024", res.Sessions[0].Sigil)
}

// captureLog redirects the standard logger into a buffer for the rest of the test
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestGenerate_UnparseableDateUsesToday(t *testing.T) {
	f := newGeneratorFixture(t)
	logs := captureLog(t)
	res, err := f.gen.Generate(context.Background(), []Request{
		{Trainee: trainee("AAA", "Rossi", "Mario", ""), CourseID: 7, StartDate: "la settimana scorsa"},
	})
	require.NoError(t, err)
	assert.Equal(t, "1SIC26032024", res.Sessions[0].Sigil)
	assert.Equal(t, day(2024, 3, 26), f.history.inserts[0].Performed)
	assert.Contains(t, logs.String(), `[GENERATOR] run `+res.RunID+`: no valid date in "la settimana scorsa" for AAA, using 26/03/2024`)
}

func TestGenerate_RenderFailureRollsBack(t *testing.T) {
	f := newGeneratorFixture(t, basicSafety, models.Course{ID: 9, Name: "Broken", TemplateFile: "broken.docx"})
	require.NoError(t, os.WriteFile(filepath.Join(f.templates, "broken.docx"), []byte("not a zip"), 0644))
	tx := &txHistory{fakeHistory: f.history}
	f.gen.History = tx

	_, err := f.gen.Generate(context.Background(), []Request{
		{Trainee: trainee("AAA", "Rossi", "Mario", ""), CourseID: 7, StartDate: "2024-03-25"},
		{Trainee: trainee("BBB", "Verdi", "Anna", ""), CourseID: 9, StartDate: "2024-03-26"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BBB")
	assert.Equal(t, 1, tx.rollbacks)
	assert.Empty(t, tx.inserts)

	entries, err := os.ReadDir(f.gen.WorkDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_TransactionSeesEarlierGroups(t *testing.T) {
	f := newGeneratorFixture(t)
	tx := &txHistory{fakeHistory: f.history}
	f.gen.History = tx

	res, err := f.gen.Generate(context.Background(), []Request{
		{Trainee: trainee("AAA", "Rossi", "Mario", ""), CourseID: 7, StartDate: "2024-03-05"},
		{Trainee: trainee("BBB", "Verdi", "Anna", ""), CourseID: 7, StartDate: "2024-03-25"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, "1SIC05032024", res.Sessions[0].Sigil)
	assert.Equal(t, "2SIC25032024", res.Sessions[1].Sigil)
}

package certificates

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"worksafe/models"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

var fixtureTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

// writeTemplate builds a minimal docx whose body is the given WordprocessingML
func writeTemplate(t *testing.T, dir, name, body string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct{ name, content string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><w:document ` + wordNS + `><w:body>` + body + `</w:body></w:document>`},
		{"word/footer1.xml", `<w:ftr ` + wordNS + `>` + para("Codice {{CODICE}}") + `</w:ftr>`},
	}
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: fixtureTime})
		require.NoError(t, err)
		_, err = w.Write([]byte(p.content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func readPart(t *testing.T, docx, part string) string {
	t.Helper()
	zr, err := zip.OpenReader(docx)
	require.NoError(t, err)
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != part {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("part %s not found in %s", part, docx)
	return ""
}

func zipEntries(t *testing.T, path string) []string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type insertCall struct {
	FiscalCode string
	CourseID   uint
	Performed  time.Time
}

type fakeHistory struct {
	dates     map[uint][]time.Time
	inserts   []insertCall
	countErr  error
	insertErr error
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{dates: make(map[uint][]time.Time)}
}

func (f *fakeHistory) CountDistinctDates(_ context.Context, courseID uint, month time.Month, year int, before time.Time) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	seen := make(map[time.Time]bool)
	for _, d := range f.dates[courseID] {
		if d.Month() == month && d.Year() == year && d.Before(before) {
			seen[d] = true
		}
	}
	return len(seen), nil
}

func (f *fakeHistory) Insert(_ context.Context, cf string, courseID uint, performed time.Time) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.dates[courseID] = append(f.dates[courseID], performed)
	f.inserts = append(f.inserts, insertCall{FiscalCode: cf, CourseID: courseID, Performed: performed})
	return nil
}

// txHistory rolls its inserts back when the transaction function fails
type txHistory struct {
	*fakeHistory
	commits, rollbacks int
}

func (tx *txHistory) WithinTx(_ context.Context, fn func(HistoryStore) error) error {
	snapshot := newFakeHistory()
	for k, v := range tx.dates {
		snapshot.dates[k] = append([]time.Time(nil), v...)
	}
	snapshot.inserts = append([]insertCall(nil), tx.inserts...)

	if err := fn(tx.fakeHistory); err != nil {
		tx.dates, tx.inserts = snapshot.dates, snapshot.inserts
		tx.rollbacks++
		return err
	}
	tx.commits++
	return nil
}

type fakeCatalog struct {
	courses []models.Course
	err     error
}

func (f fakeCatalog) ListCourses(context.Context) ([]models.Course, error) {
	return f.courses, f.err
}

type fakeInstructors []Instructor

func (f fakeInstructors) ListInstructors(context.Context) ([]Instructor, error) {
	return f, nil
}

package routers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"worksafe/config"
	certificatesController "worksafe/controllers/certificates"
	"worksafe/database"
	"worksafe/middleware"
	"worksafe/models"
	authRoutes "worksafe/routers/authRoutes"
	certificateRoutes "worksafe/routers/certificateRoutes"
	registryRoutes "worksafe/routers/registryRoutes"
)

type testEnv struct {
	app       *fiber.App
	db        *gorm.DB
	templates string
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	config.AppConfig = &config.Config{
		JWTKey:              "test-secret",
		SaltRound:           bcrypt.MinCost,
		TemplateDir:         filepath.Join(root, "templates"),
		DefaultTemplate:     "modello.docx",
		DefaultCourseCode:   "GEN",
		DefaultEntityFolder: "Privati",
		ExportDir:           filepath.Join(root, "exports"),
		CleanupGrace:        time.Hour,
		RenewalNoticeDays:   30,
	}

	db, err := database.Open(sqlite.Open(filepath.Join(root, "worksafe.db")))
	require.NoError(t, err)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	registryRoutes.SetupRegistryRoutes(app)

	return &testEnv{app: app, db: db, templates: config.AppConfig.TemplateDir}
}

// token logs nobody in: it signs a token directly and forgets the user's pending list afterwards
func (e *testEnv) token(t *testing.T, username, role string) string {
	t.Helper()
	tok, err := middleware.GenerateJWT(username, role)
	require.NoError(t, err)
	t.Cleanup(func() { certificatesController.Pending.Drop(username) })
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, envelope, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) (*http.Response, envelope, []byte) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp, env, raw
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func (e *testEnv) seedStaff(t *testing.T, username, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, e.db.Create(&models.StaffUser{Username: username, PasswordHash: string(hash), Role: role}).Error)
}

// docx builds a minimal Word package with the given paragraphs
func docx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	body := ""
	for _, p := range paragraphs {
		body += `<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`))
	require.NoError(t, err)
	w, err = zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func (e *testEnv) writeTemplate(t *testing.T, name string, paragraphs ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(e.templates, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(e.templates, name), docx(t, paragraphs...), 0644))
}

func zipNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

package certificates

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// TemplateStore resolves template filenames inside a directory of .docx files
type TemplateStore struct {
	Dir string
}

// Resolve returns the path of the named template, or ErrTemplateNotFound
func (s TemplateStore) Resolve(name string) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	path := filepath.Join(s.Dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return path, nil
}

// List returns the .docx filenames available in the store
func (s TemplateStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	names := []string{}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".docx" {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Render fills templatePath with tokens and writes the document into outputDir.
// The file is named after {{COGNOME}}, {{NOME}} and {{CODICE}}; when that name is
// already taken in outputDir the {{CF}} value is appended.
func Render(templatePath string, tokens TokenMap, outputDir string) (string, error) {
	zr, err := zip.OpenReader(templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, templatePath)
		}
		return "", fmt.Errorf("open template %s: %w", templatePath, err)
	}
	defer zr.Close()

	var buf bytes.Buffer
	if err := renderPackage(&zr.Reader, tokens, &buf); err != nil {
		return "", fmt.Errorf("render %s: %w", filepath.Base(templatePath), err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	outPath := filepath.Join(outputDir, CertificateFileName(tokens[TokenSurname], tokens[TokenGivenName], tokens[TokenCode]))
	if _, err := os.Stat(outPath); err == nil {
		base := outPath[:len(outPath)-len(".docx")]
		outPath = base + "_" + stripNonWord(tokens[TokenFiscalCode]) + ".docx"
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	return outPath, nil
}

// ErrInvalidTemplate is returned for files that are not Word documents
var ErrInvalidTemplate = errors.New("not a .docx document")

// CheckTemplate verifies that path is a readable Word package with a main document part
func CheckTemplate(path string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			return nil
		}
	}
	return fmt.Errorf("%w: word/document.xml missing", ErrInvalidTemplate)
}

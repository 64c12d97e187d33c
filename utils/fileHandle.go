package utils

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var ErrNotDocx = errors.New("only .docx files are accepted")

var unsafeNameRe = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// TemplateFileName sanitizes an uploaded filename, keeping it recognisable
func TemplateFileName(original string) (string, error) {
	name := filepath.Base(strings.ReplaceAll(strings.TrimSpace(original), `\`, "/"))
	if !strings.EqualFold(filepath.Ext(name), ".docx") {
		return "", ErrNotDocx
	}
	stem := strings.Trim(unsafeNameRe.ReplaceAllString(strings.TrimSuffix(name, filepath.Ext(name)), "_"), "._")
	if stem == "" {
		return "", ErrNotDocx
	}
	return stem + ".docx", nil
}

// SaveUploadedFile stores the upload as destDir/name. The content goes to a temporary file
// first; check runs on it and the file replaces any previous version only if check passes.
func SaveUploadedFile(file *multipart.FileHeader, destDir, name string, check func(path string) error) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	tmpPath := filepath.Join(destDir, ".upload-"+uuid.NewString())
	dst, err := os.Create(tmpPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return "", err
	}

	if check != nil {
		if err := check(tmpPath); err != nil {
			os.Remove(tmpPath)
			return "", err
		}
	}

	filePath := filepath.Join(destDir, name)
	if err := os.Rename(tmpPath, filePath); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return filePath, nil
}

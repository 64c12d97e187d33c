package certificates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// GenericCourseCode stands in for courses without a short code
const GenericCourseCode = "GEN"

var (
	nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_]`)
)

// BuildSigil composes the session code: number, course short code, start date as ddmmyyyy.
// It names the output folder and is printed as {{CODICE}} and {{SIGLA}}.
func BuildSigil(sessionNumber int, shortCode string, start time.Time) string {
	code := strings.TrimSpace(shortCode)
	if code == "" {
		code = GenericCourseCode
	}
	return strconv.Itoa(sessionNumber) + code + start.Format(sigilLayout)
}

// stripNonWord removes every character that is not a letter, digit or underscore
func stripNonWord(s string) string {
	return nonWordRe.ReplaceAllString(s, "")
}

// folderName replaces non-word characters with underscores, using fallback for blank names
func folderName(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		s = fallback
	}
	return nonWordRe.ReplaceAllString(s, "_")
}

// CertificateFileName is <surname>_<givenname>_<sigil>.docx with non-word characters stripped
func CertificateFileName(surname, givenName, sigil string) string {
	return stripNonWord(surname) + "_" + stripNonWord(givenName) + "_" + stripNonWord(sigil) + ".docx"
}

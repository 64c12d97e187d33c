package certificates

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyBatch       = errors.New("no pending certificates to generate")
	ErrMissingCourse    = errors.New("course not selected")
	ErrMissingDate      = errors.New("start date not set")
	ErrUnknownCourse    = errors.New("course not found in catalog")
	ErrTemplateNotFound = errors.New("template not found")
	ErrAlreadyPending   = errors.New("trainee already in the pending list")
	ErrNotPending       = errors.New("trainee not in the pending list")
)

// Problem is one rejected pending request
type Problem struct {
	FiscalCode string `json:"fiscal_code"`
	Err        error  `json:"-"`
	Reason     string `json:"reason"`
}

// ValidationError lists every pending request that blocks a generation run.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) add(cf string, err error) {
	e.Problems = append(e.Problems, Problem{FiscalCode: cf, Err: err, Reason: err.Error()})
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("%s: %s", p.FiscalCode, p.Reason))
	}
	return "missing data (course or date) for some trainees: " + strings.Join(parts, "; ")
}

// Unwrap exposes the distinct causes so errors.Is works on the aggregate.
func (e *ValidationError) Unwrap() []error {
	seen := make(map[error]bool)
	var errs []error
	for _, p := range e.Problems {
		if !seen[p.Err] {
			seen[p.Err] = true
			errs = append(errs, p.Err)
		}
	}
	return errs
}

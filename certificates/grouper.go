package certificates

import (
	"sort"
	"strings"
	"time"
)

// GroupedRequest is a request with its dates resolved
type GroupedRequest struct {
	Request
	Start     DateResult
	IssueDate time.Time
}

// SessionGroup is one physical training session: every request sharing course and start date
type SessionGroup struct {
	CourseID  uint
	StartDate time.Time
	Requests  []GroupedRequest
}

// Validate rejects the whole batch when any request lacks a course or a start date.
func Validate(reqs []Request) error {
	if len(reqs) == 0 {
		return ErrEmptyBatch
	}
	verr := &ValidationError{}
	for _, r := range reqs {
		if r.CourseID == 0 {
			verr.add(r.Trainee.FiscalCode, ErrMissingCourse)
		}
		if strings.TrimSpace(r.StartDate) == "" {
			verr.add(r.Trainee.FiscalCode, ErrMissingDate)
		}
	}
	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}

// GroupRequests partitions reqs by (course, parsed start date). Groups come back
// ordered by date then course id, requests inside a group keep their input order.
func GroupRequests(reqs []Request, today time.Time) []SessionGroup {
	type key struct {
		course uint
		date   time.Time
	}
	index := make(map[key]int)
	var groups []SessionGroup

	for _, r := range reqs {
		start := ParseDate(r.StartDate, today)
		gr := GroupedRequest{
			Request:   r,
			Start:     start,
			IssueDate: LatestDate(start.Date, r.StartDate, r.ExtraDates),
		}
		k := key{course: r.CourseID, date: start.Date}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, SessionGroup{CourseID: r.CourseID, StartDate: start.Date})
		}
		groups[i].Requests = append(groups[i].Requests, gr)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if !groups[i].StartDate.Equal(groups[j].StartDate) {
			return groups[i].StartDate.Before(groups[j].StartDate)
		}
		return groups[i].CourseID < groups[j].CourseID
	})
	return groups
}

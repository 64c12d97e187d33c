package certificates

import (
	"strings"
	"sync"
	"time"
)

// Trainee is the directory projection the generator prints on a certificate
type Trainee struct {
	FiscalCode  string     `json:"fiscal_code"`
	Surname     string     `json:"surname"`
	GivenName   string     `json:"given_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	BirthPlace  string     `json:"birth_place"`
	EntityName  string     `json:"entity_name"`
}

// Instructor is an entry of the instructor list
type Instructor struct {
	FiscalCode  string `json:"fiscal_code"`
	DisplayName string `json:"display_name"`
}

// Request is one certificate waiting to be generated
type Request struct {
	Trainee              Trainee `json:"trainee"`
	CourseID             uint    `json:"course_id"`
	StartDate            string  `json:"start_date"`
	ExtraDates           string  `json:"extra_dates"`
	Hours                *int    `json:"hours"`
	InstructorFiscalCode string  `json:"instructor_fiscal_code"`
}

// PendingList is the ordered set of requests an operator is preparing, keyed by fiscal code.
// The owner settles it after a successful run.
type PendingList struct {
	mu    sync.Mutex
	order []string
	items map[string]*Request
}

func NewPendingList() *PendingList {
	return &PendingList{items: make(map[string]*Request)}
}

// Add appends a request for t with every other field still unset
func (l *PendingList) Add(t Trainee) (Request, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cf := normalizeCF(t.FiscalCode)
	if _, ok := l.items[cf]; ok {
		return Request{}, ErrAlreadyPending
	}
	t.FiscalCode = cf
	req := &Request{Trainee: t}
	l.items[cf] = req
	l.order = append(l.order, cf)
	return *req, nil
}

// Update applies fn to the request of the given trainee
func (l *PendingList) Update(fiscalCode string, fn func(*Request)) (Request, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	req, ok := l.items[normalizeCF(fiscalCode)]
	if !ok {
		return Request{}, ErrNotPending
	}
	fn(req)
	return *req, nil
}

func (l *PendingList) Remove(fiscalCode string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cf := normalizeCF(fiscalCode)
	if _, ok := l.items[cf]; !ok {
		return false
	}
	delete(l.items, cf)
	for i, k := range l.order {
		if k == cf {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// Settle removes the requests of a finished run. An entry edited after the run took its
// snapshot stays in the list, as do entries added meanwhile. It returns how many were removed.
func (l *PendingList) Settle(done []Request) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for _, d := range done {
		cf := normalizeCF(d.Trainee.FiscalCode)
		cur, ok := l.items[cf]
		if !ok || !sameRequest(*cur, d) {
			continue
		}
		delete(l.items, cf)
		removed++
	}
	if removed > 0 {
		kept := l.order[:0]
		for _, cf := range l.order {
			if _, ok := l.items[cf]; ok {
				kept = append(kept, cf)
			}
		}
		l.order = kept
	}
	return removed
}

func sameRequest(a, b Request) bool {
	if (a.Hours == nil) != (b.Hours == nil) || (a.Hours != nil && *a.Hours != *b.Hours) {
		return false
	}
	return a.CourseID == b.CourseID &&
		a.StartDate == b.StartDate &&
		a.ExtraDates == b.ExtraDates &&
		a.InstructorFiscalCode == b.InstructorFiscalCode
}

func (l *PendingList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = nil
	l.items = make(map[string]*Request)
}

// Items returns a copy of the requests in insertion order
func (l *PendingList) Items() []Request {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Request, 0, len(l.order))
	for _, cf := range l.order {
		out = append(out, *l.items[cf])
	}
	return out
}

func (l *PendingList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.order)
}

// PendingRegistry holds one PendingList per operator
type PendingRegistry struct {
	mu    sync.Mutex
	lists map[string]*PendingList
}

func NewPendingRegistry() *PendingRegistry {
	return &PendingRegistry{lists: make(map[string]*PendingList)}
}

// For returns the operator's list, creating it on first use
func (r *PendingRegistry) For(owner string) *PendingList {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lists[owner]
	if !ok {
		l = NewPendingList()
		r.lists[owner] = l
	}
	return l
}

func (r *PendingRegistry) Drop(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lists, owner)
}

func normalizeCF(cf string) string {
	return strings.ToUpper(strings.TrimSpace(cf))
}

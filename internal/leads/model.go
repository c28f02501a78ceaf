package leads

import (
	"regexp"
	"strings"
	"time"
)

// Status is the lead lifecycle stage. A freshly created lead is always new;
// closed is terminal and only ever set outside this surface.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusConverted Status = "converted"
	StatusClosed    Status = "closed"
)

// Known reports whether s is one of the lifecycle statuses.
func (s Status) Known() bool {
	switch s {
	case StatusNew, StatusContacted, StatusConverted, StatusClosed:
		return true
	}
	return false
}

// DefaultService is assigned when a submission names no service.
const DefaultService = "Consultoria Empresarial"

// SourceLanding tags leads produced by the public landing form.
const SourceLanding = "landing_bsc"

// Lead represents a prospective customer's contact request.
type Lead struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Service    string    `json:"service"`
	Message    string    `json:"message"`
	Source     string    `json:"source"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	AssignedTo *string   `json:"assigned_to"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CreateLeadRequest represents a lead submission. Status is never accepted
// from callers; the repository always stores new.
type CreateLeadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// Validate checks the submission and reports every failing rule at once, as a
// single combined message.
func (r *CreateLeadRequest) Validate() error {
	var problems []string
	if strings.TrimSpace(r.Name) == "" {
		problems = append(problems, "Nome é obrigatório.")
	}
	if !emailPattern.MatchString(r.Email) {
		problems = append(problems, "Email inválido.")
	}
	if strings.TrimSpace(r.Phone) == "" {
		problems = append(problems, "Telefone/WhatsApp é necessário.")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// StatusAll selects every status in a ListFilter.
const StatusAll = "all"

// ListFilter narrows a lead listing. Status is "all" or one of the lifecycle
// statuses. Search reduces the result to leads whose name or email contains
// the text case-insensitively; empty matches everything.
type ListFilter struct {
	Status string
	Search string
}

// matchesSearch reports whether the lead's name or email contains the search
// text case-insensitively.
func (f ListFilter) matchesSearch(l Lead) bool {
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(l.Name), needle) ||
		strings.Contains(strings.ToLower(l.Email), needle)
}

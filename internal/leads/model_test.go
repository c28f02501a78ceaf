package leads

import (
	"errors"
	"strings"
	"testing"
)

func TestCreateLeadRequest_Validate_Accepts(t *testing.T) {
	req := CreateLeadRequest{
		Name:  "Ana Macamo",
		Email: "ana@example.com",
		Phone: "841234567",
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestCreateLeadRequest_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		req      CreateLeadRequest
		problems int
	}{
		{
			name:     "empty name",
			req:      CreateLeadRequest{Name: "", Email: "a@b.co", Phone: "84"},
			problems: 1,
		},
		{
			name:     "whitespace name",
			req:      CreateLeadRequest{Name: "   ", Email: "a@b.co", Phone: "84"},
			problems: 1,
		},
		{
			name:     "email without at",
			req:      CreateLeadRequest{Name: "Ana", Email: "ab.co", Phone: "84"},
			problems: 1,
		},
		{
			name:     "email without dot after at",
			req:      CreateLeadRequest{Name: "Ana", Email: "a@bco", Phone: "84"},
			problems: 1,
		},
		{
			name:     "whitespace phone",
			req:      CreateLeadRequest{Name: "Ana", Email: "a@b.co", Phone: "  "},
			problems: 1,
		},
		{
			name:     "everything missing",
			req:      CreateLeadRequest{},
			problems: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if len(verr.Problems) != tt.problems {
				t.Errorf("expected %d problems, got %d: %v", tt.problems, len(verr.Problems), verr.Problems)
			}
		})
	}
}

func TestValidationError_CombinedMessage(t *testing.T) {
	err := (&CreateLeadRequest{}).Validate()
	msg := err.Error()
	for _, want := range []string{"Nome é obrigatório.", "Email inválido.", "Telefone/WhatsApp é necessário."} {
		if !strings.Contains(msg, want) {
			t.Errorf("combined message %q missing %q", msg, want)
		}
	}
}

func TestStatus_Known(t *testing.T) {
	for _, s := range []Status{StatusNew, StatusContacted, StatusConverted, StatusClosed} {
		if !s.Known() {
			t.Errorf("status %q should be known", s)
		}
	}
	if Status("archived").Known() {
		t.Error("unexpected status should not be known")
	}
}

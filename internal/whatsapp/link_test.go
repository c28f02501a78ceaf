package whatsapp

import "testing"

func TestLeadLink(t *testing.T) {
	got := LeadLink("84 123-4567", "Ana")
	want := "https://wa.me/258841234567?text=Ol%C3%A1+Ana"
	if got != want {
		t.Errorf("LeadLink = %q, want %q", got, want)
	}
}

func TestEnquiryLink(t *testing.T) {
	got := EnquiryLink("258840000000", "Gestão Financeira", "Ana")
	if got[:len("https://wa.me/258840000000?text=")] != "https://wa.me/258840000000?text=" {
		t.Errorf("unexpected prefix in %q", got)
	}
}

func TestEnquiryLink_EmptyNamePlaceholder(t *testing.T) {
	got := EnquiryLink("258840000000", "Consultoria", "")
	want := "https://wa.me/258840000000?text=" +
		"Ol%C3%A1+BSC%21+Quero+informa%C3%A7%C3%B5es+sobre%3A+Consultoria+%E2%80%94+Nome%3A+_"
	if got != want {
		t.Errorf("EnquiryLink = %q, want %q", got, want)
	}
}

func TestLink_KeepsConfiguredPlaceholder(t *testing.T) {
	got := Link("258XXXXXXXXX", "oi")
	if got != "https://wa.me/258XXXXXXXXX?text=oi" {
		t.Errorf("Link = %q", got)
	}
}

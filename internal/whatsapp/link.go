// Package whatsapp builds wa.me deep links. The links are display-only
// strings for the landing page and the triage screen; nothing here performs a
// network call or validates that the number exists.
package whatsapp

import "net/url"

// CountryCode is the fixed prefix put in front of lead phone numbers.
const CountryCode = "258"

// Link concatenates a number with a URL-encoded text into a wa.me URL. The
// number is used as given so configured placeholders stay visible.
func Link(number, text string) string {
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(text)
}

// LeadLink greets a lead on their stored phone number, keeping only its
// digits behind the fixed country code.
func LeadLink(phone, name string) string {
	return Link(CountryCode+digits(phone), "Olá "+name)
}

// EnquiryLink points a visitor at the business number with a templated
// enquiry about a service.
func EnquiryLink(number, service, name string) string {
	if name == "" {
		name = "_"
	}
	return Link(number, "Olá BSC! Quero informações sobre: "+service+" — Nome: "+name)
}

// digits strips everything that is not 0-9.
func digits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

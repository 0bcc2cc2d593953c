package entity

import (
	"fmt"
	"strings"
)

// CompanyProfile is the company metadata the backend stores next to a response.
type CompanyProfile struct {
	CompanyName       string `json:"company_name"`
	Industry          string `json:"industry"`
	NumberOfEmployees string `json:"number_of_employees"`
	Website           string `json:"website"`
	City              string `json:"city"`
	Email             string `json:"email"`
}

// DraftCompany is the placeholder profile sent at session start so the backend
// hands out identifiers before any real data is entered.
type DraftCompany struct {
	profile CompanyProfile
}

// PlaceholderCompany returns the fixed visitor profile. Every value satisfies the
// backend's mandatory-field contract.
func PlaceholderCompany() DraftCompany {
	return DraftCompany{profile: CompanyProfile{
		CompanyName:       "Visitor",
		Industry:          "Other",
		NumberOfEmployees: "1-10",
		Website:           "",
		City:              "",
		Email:             "visitor@example.com",
	}}
}

func (d DraftCompany) Profile() CompanyProfile {
	return d.profile
}

// FinalizedCompany holds the real profile entered by the visitor. It can only be
// obtained through FinalizeCompany.
type FinalizedCompany struct {
	profile CompanyProfile
}

// FinalizeCompany trims the profile and checks required fields.
func FinalizeCompany(p CompanyProfile) (FinalizedCompany, error) {
	p = CompanyProfile{
		CompanyName:       strings.TrimSpace(p.CompanyName),
		Industry:          strings.TrimSpace(p.Industry),
		NumberOfEmployees: strings.TrimSpace(p.NumberOfEmployees),
		Website:           strings.TrimSpace(p.Website),
		City:              strings.TrimSpace(p.City),
		Email:             strings.TrimSpace(p.Email),
	}

	if missing := p.MissingFields(); len(missing) > 0 {
		return FinalizedCompany{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	return FinalizedCompany{profile: p}, nil
}

func (f FinalizedCompany) Profile() CompanyProfile {
	return f.profile
}

// MissingFields lists the JSON names of blank required fields.
func (p CompanyProfile) MissingFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"company_name", p.CompanyName},
		{"industry", p.Industry},
		{"number_of_employees", p.NumberOfEmployees},
		{"email", p.Email},
	}

	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}

	return missing
}

// Option lists offered by the company profile form.
var (
	Industries = []string{
		"Technology",
		"Manufacturing",
		"Healthcare",
		"Finance",
		"Retail",
		"Consulting",
		"Education",
		"Other",
	}

	CompanySizes = []string{"1-10", "11-50", "51-200", "201-500", "500+"}
)

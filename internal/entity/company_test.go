package entity

import (
	"errors"
	"strings"
	"testing"
)

func TestPlaceholderCompany_SatisfiesRequiredFields(t *testing.T) {
	profile := PlaceholderCompany().Profile()

	if missing := profile.MissingFields(); len(missing) != 0 {
		t.Fatalf("placeholder must not miss required fields, missing %v", missing)
	}
	if profile.CompanyName != "Visitor" || profile.Email != "visitor@example.com" {
		t.Errorf("unexpected placeholder %+v", profile)
	}
}

func TestFinalizeCompany(t *testing.T) {
	tests := []struct {
		name        string
		profile     CompanyProfile
		wantMissing string
	}{
		{
			name: "complete profile",
			profile: CompanyProfile{
				CompanyName:       " Acme Corp ",
				Industry:          "Technology",
				NumberOfEmployees: "51-200",
				Email:             "cto@acme.test",
			},
		},
		{
			name: "missing email and industry",
			profile: CompanyProfile{
				CompanyName:       "Acme Corp",
				NumberOfEmployees: "51-200",
				Email:             "   ",
			},
			wantMissing: "industry, email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finalized, err := FinalizeCompany(tt.profile)

			if tt.wantMissing == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if finalized.Profile().CompanyName != "Acme Corp" {
					t.Errorf("expected trimmed name, got %q", finalized.Profile().CompanyName)
				}
				return
			}

			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("expected ErrMissingField, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMissing) {
				t.Errorf("expected %q in %q", tt.wantMissing, err.Error())
			}
		})
	}
}

func TestReportFileName(t *testing.T) {
	if got := ReportFileName(7, ".pdf"); got != "ai_maturity_report_7.pdf" {
		t.Errorf("unexpected file name %q", got)
	}
}

func TestErrorKinds_Unwrap(t *testing.T) {
	cause := errors.New("boom")

	if !errors.Is(&SessionInitError{Step: "company", Err: cause}, cause) {
		t.Error("SessionInitError must unwrap its cause")
	}
	if !errors.Is(&SubmissionError{Message: "boom", Err: cause}, cause) {
		t.Error("SubmissionError must unwrap its cause")
	}
	if !errors.Is(&DownloadError{ResponseID: 7, Err: cause}, cause) {
		t.Error("DownloadError must unwrap its cause")
	}
}

package entity

import "fmt"

type ReportFormat string

const (
	ReportFormatPDF      ReportFormat = "pdf"
	ReportFormatDOCX     ReportFormat = "docx"
	ReportFormatMarkdown ReportFormat = "markdown"
)

func (f ReportFormat) IsValid() bool {
	switch f {
	case ReportFormatPDF, ReportFormatDOCX, ReportFormatMarkdown:
		return true
	default:
		return false
	}
}

// ReportDocument is a rendered report as received from the backend.
type ReportDocument struct {
	ResponseID  int64
	ContentType string
	Body        []byte
}

// ReportFileName builds the deterministic file name of a saved report.
// ext includes the leading dot.
func ReportFileName(responseID int64, ext string) string {
	return fmt.Sprintf("ai_maturity_report_%d%s", responseID, ext)
}

// SavedReport describes where a downloaded report ended up.
type SavedReport struct {
	ResponseID int64  `json:"response_id"`
	FileName   string `json:"file_name"`
	Location   string `json:"location,omitempty"`
	Size       int    `json:"size"`
}

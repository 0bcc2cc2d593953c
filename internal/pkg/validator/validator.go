package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/futig/ai-compass/internal/entity"
)

// Validator checks funnel API input before it reaches the use cases.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ParseResponseID parses a response identifier taken from a route.
func (v *Validator) ParseResponseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: response id %q", entity.ErrInvalidParameter, raw)
	}
	return id, nil
}

// ValidateRecordAnswer validates an answer submission
func (v *Validator) ValidateRecordAnswer(req *entity.RecordAnswerRequest) error {
	if req.QuestionID <= 0 {
		return fmt.Errorf("%w: question_id", entity.ErrMissingField)
	}

	if len(req.AnswerIDs) == 0 {
		return fmt.Errorf("%w: answer_ids", entity.ErrMissingField)
	}

	for _, id := range req.AnswerIDs {
		if id <= 0 {
			return fmt.Errorf("%w: answer id %d", entity.ErrInvalidParameter, id)
		}
	}

	return nil
}

// ParseReportFormat resolves the format query parameter, defaulting to PDF.
func (v *Validator) ParseReportFormat(raw string) (entity.ReportFormat, error) {
	if raw == "" {
		return entity.ReportFormatPDF, nil
	}

	format := entity.ReportFormat(strings.ToLower(raw))
	if !format.IsValid() {
		return "", fmt.Errorf("%w: format must be one of: pdf, docx, markdown", entity.ErrInvalidParameter)
	}
	return format, nil
}

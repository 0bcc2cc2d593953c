package funnel

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/ai-compass/internal/entity"
	"github.com/futig/ai-compass/internal/pkg/response"
	"github.com/futig/ai-compass/internal/usecase/report"
)

// errResponseCommitted means the status line and headers were already sent, so
// no error response can follow.
var errResponseCommitted = errors.New("response already committed")

// attachmentSaver streams the report to the client as a file download.
func attachmentSaver(w http.ResponseWriter) report.Saver {
	return report.SaverFunc(func(ctx context.Context, fileName string, doc *entity.ReportDocument) (string, error) {
		if err := response.Attachment(w, fileName, doc.ContentType, doc.Body); err != nil {
			return "", fmt.Errorf("%w: %w", errResponseCommitted, err)
		}
		return "attachment", nil
	})
}

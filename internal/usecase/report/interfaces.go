package report

import (
	"context"

	"github.com/futig/ai-compass/internal/entity"
)

type ReportConnector interface {
	DownloadReport(ctx context.Context, responseID int64, format entity.ReportFormat) (*entity.ReportDocument, error)
}

// Saver hands a downloaded report to its destination.
type Saver interface {
	Save(ctx context.Context, fileName string, doc *entity.ReportDocument) (location string, err error)
}

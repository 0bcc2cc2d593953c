// Package report retrieves rendered assessment reports and saves them.
package report

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/futig/ai-compass/internal/entity"
	"github.com/futig/ai-compass/internal/pkg/formatter"
	"github.com/futig/ai-compass/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Downloader fetches one report at a time. Its busy flag is independent of the
// submission state.
type Downloader struct {
	connector ReportConnector
	busy      atomic.Bool
}

func NewDownloader(connector ReportConnector) *Downloader {
	return &Downloader{connector: connector}
}

// Busy reports whether a download is running.
func (d *Downloader) Busy() bool {
	return d.busy.Load()
}

// Download fetches the report of responseID and passes it to saver under
// ai_maturity_report_<id><ext>. Any failure is returned as *entity.DownloadError.
func (d *Downloader) Download(ctx context.Context, responseID int64, format entity.ReportFormat, saver Saver) (entity.SavedReport, error) {
	if !d.busy.CompareAndSwap(false, true) {
		return entity.SavedReport{}, entity.ErrDownloadInProgress
	}
	defer d.busy.Store(false)

	ctx = logger.AddFields(logger.WithAction(ctx, "download_report"),
		zap.Int64("response_id", responseID),
		zap.String("format", string(format)),
	)

	if responseID <= 0 {
		return entity.SavedReport{}, &entity.DownloadError{ResponseID: responseID, Err: entity.ErrInvalidParameter}
	}
	if saver == nil {
		return entity.SavedReport{}, &entity.DownloadError{ResponseID: responseID, Err: errors.New("no saver configured")}
	}

	doc, err := d.connector.DownloadReport(ctx, responseID, format)
	if err != nil {
		ctxzap.Warn(ctx, "report download failed", zap.Error(err))
		return entity.SavedReport{}, &entity.DownloadError{ResponseID: responseID, Err: err}
	}

	fileName := entity.ReportFileName(responseID, formatter.ExtensionFor(doc.ContentType))
	location, err := saver.Save(ctx, fileName, doc)
	if err != nil {
		ctxzap.Warn(ctx, "report save failed", zap.String("file_name", fileName), zap.Error(err))
		return entity.SavedReport{}, &entity.DownloadError{ResponseID: responseID, Err: err}
	}

	ctxzap.Info(ctx, "report saved", zap.String("file_name", fileName), zap.String("location", location))

	return entity.SavedReport{
		ResponseID: responseID,
		FileName:   fileName,
		Location:   location,
		Size:       len(doc.Body),
	}, nil
}

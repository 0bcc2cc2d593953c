package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/futig/ai-compass/internal/entity"
)

type fakeReportConnector struct {
	doc     *entity.ReportDocument
	err     error
	entered chan struct{}
	release chan struct{}
}

func (f *fakeReportConnector) DownloadReport(ctx context.Context, responseID int64, format entity.ReportFormat) (*entity.ReportDocument, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

func pdfDoc(id int64) *entity.ReportDocument {
	return &entity.ReportDocument{ResponseID: id, ContentType: "application/pdf", Body: []byte("%PDF-1.4 report")}
}

func TestDownload_SavesFile(t *testing.T) {
	dir := t.TempDir()
	d := NewDownloader(&fakeReportConnector{doc: pdfDoc(7)})

	saved, err := d.Download(context.Background(), 7, entity.ReportFormatPDF, NewFileSaver(dir))
	if err != nil {
		t.Fatalf("download: %v", err)
	}

	if saved.FileName != "ai_maturity_report_7.pdf" {
		t.Fatalf("unexpected file name %q", saved.FileName)
	}
	body, err := os.ReadFile(filepath.Join(dir, saved.FileName))
	if err != nil {
		t.Fatalf("read saved report: %v", err)
	}
	if string(body) != "%PDF-1.4 report" {
		t.Fatalf("unexpected body %q", body)
	}
	if d.Busy() {
		t.Fatal("busy flag must be reset")
	}
}

func TestDownload_ExtensionFromContentType(t *testing.T) {
	doc := &entity.ReportDocument{
		ResponseID:  7,
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Body:        []byte("docx"),
	}
	var gotName string
	saver := SaverFunc(func(ctx context.Context, fileName string, doc *entity.ReportDocument) (string, error) {
		gotName = fileName
		return "memory", nil
	})

	if _, err := NewDownloader(&fakeReportConnector{doc: doc}).Download(context.Background(), 7, entity.ReportFormatDOCX, saver); err != nil {
		t.Fatal(err)
	}
	if gotName != "ai_maturity_report_7.docx" {
		t.Fatalf("unexpected file name %q", gotName)
	}
}

func TestDownload_NetworkFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	d := NewDownloader(&fakeReportConnector{err: errors.New("connection reset")})

	_, err := d.Download(context.Background(), 7, entity.ReportFormatPDF, NewFileSaver(dir))

	var dlErr *entity.DownloadError
	if !errors.As(err, &dlErr) || dlErr.ResponseID != 7 {
		t.Fatalf("expected DownloadError for 7, got %v", err)
	}
	if d.Busy() {
		t.Fatal("busy flag must be reset after failure")
	}
	assertEmptyDir(t, dir)
}

func TestDownload_SaveFailure(t *testing.T) {
	d := NewDownloader(&fakeReportConnector{doc: pdfDoc(7)})
	saver := SaverFunc(func(ctx context.Context, fileName string, doc *entity.ReportDocument) (string, error) {
		return "", errors.New("disk full")
	})

	_, err := d.Download(context.Background(), 7, entity.ReportFormatPDF, saver)

	var dlErr *entity.DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("expected DownloadError, got %v", err)
	}
	if d.Busy() {
		t.Fatal("busy flag must be reset after failure")
	}
}

func TestDownload_RejectsConcurrentDownload(t *testing.T) {
	conn := &fakeReportConnector{doc: pdfDoc(7), entered: make(chan struct{}), release: make(chan struct{})}
	d := NewDownloader(conn)

	done := make(chan error, 1)
	go func() {
		_, err := d.Download(context.Background(), 7, entity.ReportFormatPDF, NewFileSaver(t.TempDir()))
		done <- err
	}()

	<-conn.entered
	if !d.Busy() {
		t.Fatal("expected busy while downloading")
	}
	if _, err := d.Download(context.Background(), 7, entity.ReportFormatPDF, NewFileSaver(t.TempDir())); !errors.Is(err, entity.ErrDownloadInProgress) {
		t.Fatalf("expected ErrDownloadInProgress, got %v", err)
	}

	close(conn.release)
	if err := <-done; err != nil {
		t.Fatalf("first download: %v", err)
	}
	if d.Busy() {
		t.Fatal("busy flag must be reset")
	}
}

func TestDownload_InvalidResponseID(t *testing.T) {
	d := NewDownloader(&fakeReportConnector{doc: pdfDoc(7)})

	_, err := d.Download(context.Background(), 0, entity.ReportFormatPDF, NewFileSaver(t.TempDir()))
	if !errors.Is(err, entity.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if d.Busy() {
		t.Fatal("busy flag must be reset")
	}
}

func TestFileSaver_CancelledContextWritesNothing(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFileSaver(dir).Save(ctx, "ai_maturity_report_7.pdf", pdfDoc(7)); err == nil {
		t.Fatal("expected error")
	}
	assertEmptyDir(t, dir)
}

func TestFileSaver_ReplacesExistingReport(t *testing.T) {
	dir := t.TempDir()
	saver := NewFileSaver(dir)

	if _, err := saver.Save(context.Background(), "r.pdf", &entity.ReportDocument{Body: []byte("old")}); err != nil {
		t.Fatal(err)
	}
	if _, err := saver.Save(context.Background(), "r.pdf", &entity.ReportDocument{Body: []byte("new")}); err != nil {
		t.Fatal(err)
	}

	body, _ := os.ReadFile(filepath.Join(dir, "r.pdf"))
	if string(body) != "new" {
		t.Fatalf("expected replaced report, got %q", body)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected a single file, found %d", len(entries))
	}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files, found %d", len(entries))
	}
}

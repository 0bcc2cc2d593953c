package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/futig/ai-compass/internal/entity"
)

// FileSaver writes reports into a directory. A report either appears complete
// under its final name or not at all.
type FileSaver struct {
	dir string
}

func NewFileSaver(dir string) *FileSaver {
	return &FileSaver{dir: dir}
}

func (s *FileSaver) Save(ctx context.Context, fileName string, doc *entity.ReportDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+fileName+".*.part")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(doc.Body); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("sync report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}

	target := filepath.Join(s.dir, fileName)
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("move report into place: %w", err)
	}
	committed = true

	return target, nil
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, fileName string, doc *entity.ReportDocument) (string, error)

func (f SaverFunc) Save(ctx context.Context, fileName string, doc *entity.ReportDocument) (string, error) {
	return f(ctx, fileName, doc)
}

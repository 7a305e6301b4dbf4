package ops

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hpungsan/hookline/internal/audit"
	"github.com/hpungsan/hookline/internal/errors"
)

// WriteReportOutput contains the result of WriteReport.
type WriteReportOutput struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// WriteReport writes a rendered report to path. The body goes to a temp
// sibling first and is renamed into place, so an existing report survives
// a failed write.
func WriteReport(path string, report *ReportOutput) (*WriteReportOutput, error) {
	if err := ValidateReportPath(path, report.Format); err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create report directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := audit.OpenNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create report file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	n, err := file.WriteString(report.Body)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}
	// Close before rename (required on Windows).
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close report file: %w", err))
	}
	file = nil

	// os.Rename would replace a symlink planted after validation.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInvalidRequest("path must not be a symlink")
	}

	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return nil, errors.NewInvalidRequest("report destination already exists; choose a new path or delete the existing file")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize report: %w", err))
	}

	success = true
	return &WriteReportOutput{Path: path, Bytes: n}, nil
}

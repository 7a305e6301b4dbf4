package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/hookline/internal/errors"
)

// reportExtensions maps each report format to the file extension it must use.
var reportExtensions = map[ReportFormat]string{
	ReportMarkdown: ".md",
	ReportHTML:     ".html",
}

// ValidateReportPath checks a destination for a rendered report:
// no ".." components, an extension matching format, and no symlink at the
// final component or its parent directory.
func ValidateReportPath(path string, format ReportFormat) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}
	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	want, ok := reportExtensions[format]
	if !ok {
		return errors.NewInvalidRequest("format must be markdown or html")
	}
	if !strings.EqualFold(filepath.Ext(cleaned), want) {
		return errors.NewInvalidRequest(fmt.Sprintf("path must have %s extension for %s reports", want, format))
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	if info, err := os.Lstat(filepath.Dir(absPath)); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("parent directory must not be a symlink")
	}
	if info, err := os.Lstat(absPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("path must not be a symlink")
	}
	return nil
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Forward slashes arrive from user input on every platform.
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}

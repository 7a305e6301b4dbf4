package audit

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hpungsan/hookline/internal/config"
	"github.com/hpungsan/hookline/internal/errors"
	"github.com/hpungsan/hookline/internal/text"
)

// Logger appends audit rows to a CSV file.
// Every Append opens, writes and closes the file; no handle is kept between
// calls, so independent hook processes interleave at row granularity.
type Logger struct {
	Path       string
	Header     []string
	MaxDetails int

	// Now stamps each row; nil means time.Now.
	Now func() time.Time
}

// NewLogger builds a Logger from cfg.
func NewLogger(cfg *config.Config) *Logger {
	return &Logger{
		Path:       cfg.LogPath,
		Header:     cfg.Header,
		MaxDetails: cfg.DetailsMaxChars,
	}
}

// Append writes e as one row, creating the parent directory and header
// row when the log does not exist yet. The written Record is returned.
func (l *Logger) Append(e Entry) (Record, error) {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	maxDetails := l.MaxDetails
	if maxDetails <= 0 {
		maxDetails = MaxDetailsChars
	}

	rec := Record{
		Timestamp: now().Format(TimestampLayout),
		Tool:      e.Tool,
		FilePath:  e.FilePath,
		Action:    e.Action,
		Details:   text.Truncate(e.Details, maxDetails),
	}

	if dir := filepath.Dir(l.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return rec, errors.NewLogWrite(l.Path, fmt.Errorf("create log directory: %w", err))
		}
	}

	f, err := OpenNoFollow(l.Path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return rec, errors.NewLogWrite(l.Path, err)
	}

	if err := l.writeRow(f, rec); err != nil {
		f.Close()
		return rec, errors.NewLogWrite(l.Path, err)
	}
	if err := f.Close(); err != nil {
		return rec, errors.NewLogWrite(l.Path, err)
	}
	return rec, nil
}

// writeRow writes the header (if f is empty) and rec in a single flush.
func (l *Logger) writeRow(f *os.File, rec Record) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 && len(l.Header) > 0 {
		if err := w.Write(l.Header); err != nil {
			return err
		}
	}
	if err := w.Write(rec.row()); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

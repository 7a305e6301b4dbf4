package ops

import (
	"github.com/hpungsan/hookline/internal/audit"
	"github.com/hpungsan/hookline/internal/config"
	"github.com/hpungsan/hookline/internal/errors"
)

// ReportFormat selects the rendering of a review report.
type ReportFormat string

const (
	ReportMarkdown ReportFormat = "markdown"
	ReportHTML     ReportFormat = "html"
)

// ReportInput contains parameters for the Report operation.
type ReportInput struct {
	Format ReportFormat // default: markdown
	Recent int          // rows in the "recent" table, default 20
}

// ReportOutput contains the rendered report and the numbers behind it.
type ReportOutput struct {
	Format  ReportFormat  `json:"format"`
	Summary audit.Summary `json:"summary"`
	Body    string        `json:"body"`
}

// Report summarises the whole audit log for session review.
func Report(cfg *config.Config, input ReportInput) (*ReportOutput, error) {
	format := input.Format
	if format == "" {
		format = ReportMarkdown
	}
	if format != ReportMarkdown && format != ReportHTML {
		return nil, errors.NewInvalidRequest("format must be markdown or html")
	}
	recentN := clampLimit(input.Recent, DefaultRecent, MaxListLimit)

	records, err := audit.ReadAll(cfg.LogPath, cfg.Header)
	if err != nil {
		return nil, err
	}

	summary := audit.Summarize(records)
	recent := make([]audit.Record, 0, recentN)
	for i := len(records) - 1; i >= 0 && len(recent) < recentN; i-- {
		recent = append(recent, records[i])
	}

	body := audit.Markdown(summary, recent)
	if format == ReportHTML {
		body, err = audit.HTML(body)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	return &ReportOutput{Format: format, Summary: summary, Body: body}, nil
}

package audit

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Summary aggregates a set of audit rows for session review.
type Summary struct {
	Total    int            `json:"total"`
	ByAction map[Action]int `json:"by_action"`
	ByTool   map[string]int `json:"by_tool"`
	First    string         `json:"first,omitempty"`
	Last     string         `json:"last,omitempty"`
}

// Summarize counts records per action and per tool. Records are expected
// oldest first, as ReadAll returns them.
func Summarize(records []Record) Summary {
	s := Summary{
		Total:    len(records),
		ByAction: make(map[Action]int),
		ByTool:   make(map[string]int),
	}
	for _, r := range records {
		s.ByAction[r.Action]++
		s.ByTool[r.Tool]++
	}
	if len(records) > 0 {
		s.First = records[0].Timestamp
		s.Last = records[len(records)-1].Timestamp
	}
	return s
}

// Markdown renders a review document: counts, then the recent rows
// (newest first) as a table.
func Markdown(s Summary, recent []Record) string {
	var b strings.Builder

	b.WriteString("# Change log\n\n")
	if s.Total == 0 {
		b.WriteString("No changes recorded.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "%d changes recorded between %s and %s.\n\n", s.Total, s.First, s.Last)

	b.WriteString("## By action\n\n| Action | Count |\n| --- | ---: |\n")
	for _, k := range sortedKeys(s.ByAction) {
		fmt.Fprintf(&b, "| %s | %d |\n", cell(string(k)), s.ByAction[k])
	}

	b.WriteString("\n## By tool\n\n| Tool | Count |\n| --- | ---: |\n")
	for _, k := range sortedKeys(s.ByTool) {
		fmt.Fprintf(&b, "| %s | %d |\n", cell(k), s.ByTool[k])
	}

	if len(recent) > 0 {
		b.WriteString("\n## Recent\n\n| Time | Tool | File | Action | Details |\n| --- | --- | --- | --- | --- |\n")
		for _, r := range recent {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				cell(r.Timestamp), cell(r.Tool), cell(r.FilePath), cell(string(r.Action)), cell(r.Details))
		}
	}
	return b.String()
}

// HTML converts a Markdown report to HTML. Raw HTML inside commands or
// paths is not passed through; goldmark omits it unless explicitly allowed.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	renderer := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := renderer.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// cell makes s safe to place inside a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", `\|`)
	if s == "" {
		return " "
	}
	return s
}

func sortedKeys[K ~string](m map[K]int) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

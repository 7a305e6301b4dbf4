package audit

import (
	"encoding/csv"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"slices"

	"github.com/hpungsan/hookline/internal/errors"
)

// ReadAll parses every data row of the log at path, oldest first.
// A missing log is not an error; it simply has no rows. Header rows are
// skipped wherever they appear, since two hooks racing on a fresh log can
// both write one.
func ReadAll(path string, header []string) ([]Record, error) {
	f, err := OpenNoFollow(path, os.O_RDONLY, 0)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return []Record{}, nil
		}
		return nil, errors.NewLogRead(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records := make([]Record, 0)
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewLogRead(path, err)
		}
		if slices.Equal(fields, header) {
			continue
		}
		records = append(records, recordFromFields(fields))
	}
	return records, nil
}

// recordFromFields maps CSV fields onto a Record, tolerating short rows.
func recordFromFields(fields []string) Record {
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	return Record{
		Timestamp: get(0),
		Tool:      get(1),
		FilePath:  get(2),
		Action:    Action(get(3)),
		Details:   get(4),
	}
}

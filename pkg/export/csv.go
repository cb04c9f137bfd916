package export

import (
	"bytes"
	"encoding/csv"
)

// writeCSV writes each section as a title line, a header and its rows. A
// blank line separates consecutive sections. Single section exports skip
// the title.
func writeCSV(sections []section) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	titled := len(sections) > 1

	for i, s := range sections {
		if titled {
			if i > 0 {
				w.Flush()
				buf.WriteByte('\n')
			}
			if err := w.Write([]string{s.Title}); err != nil {
				return nil, err
			}
		}
		if err := w.Write(s.Header); err != nil {
			return nil, err
		}
		if err := w.WriteAll(s.Rows); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

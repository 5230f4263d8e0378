package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"

	"review_insight/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV decodes a CSV document with a header row. Non-UTF-8 input is
// decoded as EUC-KR, the default of Korean spreadsheet exports.
func ReadCSV(r io.Reader) (Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Table{}, domain.NewLoadError(domain.ErrUndecodable, "read input", err)
	}
	return parseCSV(b)
}

// ReadFile reads the whole file, releases it, then parses it.
func ReadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, domain.NewLoadError(domain.ErrUndecodable, "open "+path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

func parseCSV(b []byte) (Table, error) {
	b = bytes.TrimPrefix(b, utf8BOM)
	if len(bytes.TrimSpace(b)) == 0 {
		return Table{}, domain.NewLoadError(domain.ErrNoRows, "empty input", nil)
	}
	if bytes.IndexByte(b, 0) >= 0 {
		return Table{}, domain.NewLoadError(domain.ErrUndecodable, "binary content", nil)
	}
	if !utf8.Valid(b) {
		dec, err := korean.EUCKR.NewDecoder().Bytes(b)
		if err != nil {
			return Table{}, domain.NewLoadError(domain.ErrUndecodable, "unknown text encoding", err)
		}
		b = dec
	}

	cr := csv.NewReader(bytes.NewReader(b))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, domain.NewLoadError(domain.ErrUndecodable, "csv", err)
	}
	if len(records) == 0 {
		return Table{}, domain.NewLoadError(domain.ErrNoRows, "empty input", nil)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = normalizeHeader(h)
	}
	t := Table{Columns: header, Rows: make([]Row, 0, len(records)-1)}
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, h := range header {
			if h == "" || i >= len(rec) {
				continue
			}
			if _, dup := row[h]; dup {
				continue
			}
			row[h] = rec[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// String is used in logs.
func (t Table) String() string {
	return fmt.Sprintf("table(%d columns, %d rows)", len(t.Columns), len(t.Rows))
}

// Package manifest reads spreadsheet manifests that describe documents to
// import through the bulk path. The first sheet must start with a header
// row; columns are matched by name, case-insensitively:
//
//	name | date | category | subcategory | file_url | file_type | file_size
//
// file_type accepts a media type (application/pdf) or an extension (pdf).
package manifest

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gdocs/internal/domain"
)

// ErrEmptyManifest is returned when the first sheet has no header row.
var ErrEmptyManifest = errors.New("manifest has no header row")

// Row is one document line of a manifest. Line is the 1-based sheet row.
type Row struct {
	Line        int
	Name        string
	Date        string
	Category    string
	Subcategory string
	FileURL     string
	FileType    domain.MediaType
	FileSize    int64
}

var required = []string{"name", "category", "file_url", "file_type"}

// Parse reads every non-blank data row of the first sheet. Cell-level
// problems are reported with the row's line number.
func Parse(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read manifest rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyManifest
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("manifest is missing column %q", name)
		}
	}

	get := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok {
			return ""
		}
		return cellVal(row, i)
	}

	out := make([]Row, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		line := i + 1

		ft, err := parseFileType(get(row, "file_type"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		var size int64
		if s := get(row, "file_size"); s != "" {
			size, err = strconv.ParseInt(s, 10, 64)
			if err != nil || size < 0 {
				return nil, fmt.Errorf("row %d: invalid file_size %q", line, s)
			}
		}

		out = append(out, Row{
			Line:        line,
			Name:        get(row, "name"),
			Date:        get(row, "date"),
			Category:    get(row, "category"),
			Subcategory: get(row, "subcategory"),
			FileURL:     get(row, "file_url"),
			FileType:    ft,
			FileSize:    size,
		})
	}
	return out, nil
}

func parseFileType(s string) (domain.MediaType, error) {
	v := strings.ToLower(strings.TrimPrefix(s, "."))
	if mt := domain.MediaType(v); domain.AllowedMediaTypes[mt] {
		return mt, nil
	}
	if mt, ok := domain.AllowedExtensions[v]; ok {
		return mt, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, s)
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

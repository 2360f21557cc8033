package extraction

import (
	"regexp"
	"strings"
)

// cellSeparator splits a line on single tabs or runs of two or more spaces.
var cellSeparator = regexp.MustCompile(`\t| {2,}`)

func (e *extractor) Tables(text map[string]string) map[string][]Table {
	tables := make(map[string][]Table)
	for label, content := range text {
		if found := DetectTables(content); len(found) > 0 {
			tables[label] = found
		}
	}

	e.logger.Debug("tables extracted", "pages", len(text), "pages_with_tables", len(tables))
	return tables
}

// DetectTables finds tables in page text. A table is a run of at least two
// consecutive lines that each split into the same number (two or more) of
// cells. Blank cells are nil.
func DetectTables(text string) []Table {
	var (
		tables []Table
		run    Table
	)

	flush := func() {
		if len(run) >= 2 {
			tables = append(tables, run)
		}
		run = nil
	}

	for line := range strings.Lines(text) {
		row := splitRow(line)
		if len(row) < 2 {
			flush()
			continue
		}
		if len(run) > 0 && len(run[0]) != len(row) {
			flush()
		}
		run = append(run, row)
	}
	flush()

	return tables
}

func splitRow(line string) []*string {
	line = strings.Trim(line, " \r\n")
	if line == "" {
		return nil
	}

	parts := cellSeparator.Split(line, -1)
	row := make([]*string, len(parts))
	for i, p := range parts {
		if cell := strings.TrimSpace(p); cell != "" {
			row[i] = &cell
		}
	}
	return row
}

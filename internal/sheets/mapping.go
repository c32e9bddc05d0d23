package sheets

import (
	"bufio"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Sensor describes where one telemetry field lands in the spreadsheet.
type Sensor struct {
	Key         string
	Column      string
	Description string
}

// Mapping translates telemetry field names to spreadsheet columns. It is
// loaded once at startup and never changes afterwards.
type Mapping map[string]Sensor

// LoadMapping reads a mapping file of newline-delimited
// "key,column,description" records. Lines that do not split into exactly
// three fields are skipped.
func LoadMapping(path string) (Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := make(Mapping)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		parts := strings.SplitN(scanner.Text(), ",", 3)
		if len(parts) != 3 {
			continue
		}
		m[parts[0]] = Sensor{Key: parts[0], Column: parts[1], Description: parts[2]}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	log.Infof("loaded %d sensor mappings from %s", len(m), path)
	return m, nil
}

// rowWidth is the number of cells needed so that every mapped column,
// counted from column A, has a slot. Column A itself stays empty; it is
// only read back to learn the current row count.
func (m Mapping) rowWidth() int {
	width := 0
	for _, s := range m {
		if n := ColumnNumber(s.Column); n > width {
			width = n
		}
	}
	return width
}

// HeaderRow places each sensor's description at its mapped column.
func (m Mapping) HeaderRow() []interface{} {
	row := make([]interface{}, m.rowWidth())
	for _, s := range m {
		row[ColumnNumber(s.Column)-1] = s.Description
	}
	return row
}

// Row places each snapshot value at its sensor's mapped column. Snapshot
// keys with no mapping are ignored.
func (m Mapping) Row(snapshot map[string]interface{}) []interface{} {
	row := make([]interface{}, m.rowWidth())
	for key, value := range snapshot {
		s, ok := m[key]
		if !ok {
			continue
		}
		row[ColumnNumber(s.Column)-1] = value
	}
	return row
}

package sheets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMappingFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "headers.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadMapping(t *testing.T) {
	path := writeMappingFile(t, "tempf,B,Temperature\nhumidity,C,Humidity\n")

	m, err := LoadMapping(path)
	require.NoError(t, err)

	assert.Len(t, m, 2)
	assert.Equal(t, Sensor{Key: "tempf", Column: "B", Description: "Temperature"}, m["tempf"])
	assert.Equal(t, Sensor{Key: "humidity", Column: "C", Description: "Humidity"}, m["humidity"])
}

func TestLoadMappingSkipsMalformedLines(t *testing.T) {
	path := writeMappingFile(t, "tempf,B,Temperature\nnocolumn\nonly,two\n\nhumidity,C,Humidity\n")

	m, err := LoadMapping(path)
	require.NoError(t, err)
	assert.Len(t, m, 2)
}

func TestLoadMappingKeepsCommasInDescription(t *testing.T) {
	path := writeMappingFile(t, "windspeedmph,D,Wind speed, mph\n")

	m, err := LoadMapping(path)
	require.NoError(t, err)
	assert.Equal(t, "Wind speed, mph", m["windspeedmph"].Description)
}

func TestLoadMappingMissingFile(t *testing.T) {
	_, err := LoadMapping(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestHeaderRowPlacesDescriptionsAtMappedColumns(t *testing.T) {
	m := Mapping{
		"tempf":    {Key: "tempf", Column: "B", Description: "Temperature"},
		"humidity": {Key: "humidity", Column: "C", Description: "Humidity"},
	}

	assert.Equal(t, []interface{}{nil, "Temperature", "Humidity"}, m.HeaderRow())
}

func TestRowPlacesValuesAndIgnoresUnknownKeys(t *testing.T) {
	m := Mapping{
		"tempf":    {Key: "tempf", Column: "B", Description: "Temperature"},
		"humidity": {Key: "humidity", Column: "C", Description: "Humidity"},
	}

	row := m.Row(map[string]interface{}{
		"tempf":    72.5,
		"humidity": 45,
		"dateutc":  "ignored",
	})

	assert.Equal(t, []interface{}{nil, 72.5, 45}, row)
}

package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleOrganizeReport() *Report {
	return &Report{
		Action: ActionOrganize,
		Source: "/home/user/Downloads",
		Moves: []MoveInfo{
			{Source: "/home/user/Downloads/a.jpg", Destination: "/home/user/Downloads/Images/a.jpg", Category: "Images"},
			{Source: "/home/user/Downloads/b.png", Destination: "/home/user/Downloads/Images/b.png", Category: "Images"},
			{Source: "/home/user/Downloads/c.txt", Destination: "/home/user/Downloads/Documents/c.txt", Category: "Documents"},
		},
		ManifestID: "organize-2024-03-01T12-00-00-abcd1234",
		Duration:   150 * time.Millisecond,
	}
}

func TestCategoryCounts(t *testing.T) {
	r := sampleOrganizeReport()

	counts := r.CategoryCounts()
	require.Len(t, counts, 2)
	assert.Equal(t, CategoryCount{Category: "Images", Count: 2}, counts[0])
	assert.Equal(t, CategoryCount{Category: "Documents", Count: 1}, counts[1])
}

func TestCategoryCountsTieBreaksByName(t *testing.T) {
	r := &Report{Moves: []MoveInfo{
		{Category: "Videos"},
		{Category: "Audio"},
	}}

	counts := r.CategoryCounts()
	require.Len(t, counts, 2)
	assert.Equal(t, "Audio", counts[0].Category)
	assert.Equal(t, "Videos", counts[1].Category)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("test", func() Formatter { return &PlainFormatter{} })

	f, err := reg.Get("test")
	require.NoError(t, err)
	assert.NotNil(t, f)

	_, err = reg.Get("nonexistent")
	assert.Error(t, err)
}

func TestDefaultRegistryFormatters(t *testing.T) {
	available := Available()
	for _, name := range []string{"pretty", "plain", "json", "jsonl", "yaml"} {
		assert.Contains(t, available, name)

		f, err := Get(name)
		require.NoError(t, err)
		assert.NotNil(t, f)
	}
}

func TestPlainFormatterOrganize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, sampleOrganizeReport()))

	out := buf.String()
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "Images")
	assert.Contains(t, out, "/home/user/Downloads/a.jpg")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4) // header + 3 moves
}

func TestPlainFormatterHistory(t *testing.T) {
	r := &Report{
		Action: ActionHistory,
		Runs: []RunInfo{
			{ID: "organize-2024-03-01T12-00-00-abcd1234", Timestamp: time.Now(), SourceDir: "/src", FilesMoved: 5},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, r))

	assert.Contains(t, buf.String(), "organize-2024-03-01T12-00-00-abcd1234")
	assert.Contains(t, buf.String(), "/src")
}

func TestPlainFormatterUndo(t *testing.T) {
	r := &Report{
		Action:   ActionUndo,
		Restored: 2,
		SkippedRestores: []SkipInfo{
			{Path: "/src/Images/a.jpg", Reason: "destination no longer exists"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, r))

	assert.Contains(t, buf.String(), "restored")
	assert.Contains(t, buf.String(), "/src/Images/a.jpg")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, sampleOrganizeReport()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "organize", decoded["action"])
	assert.Equal(t, "/home/user/Downloads", decoded["source"])
	moves, ok := decoded["moves"].([]interface{})
	require.True(t, ok)
	assert.Len(t, moves, 3)

	first, ok := moves[0].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, first, "source")
	assert.Contains(t, first, "destination")
	assert.Contains(t, first, "category")
}

func TestJSONLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONLFormatter{}).Format(&buf, sampleOrganizeReport()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		var m MoveInfo
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		assert.NotEmpty(t, m.Category)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLFormatter{}).Format(&buf, sampleOrganizeReport()))

	var decoded yamlReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, ActionOrganize, decoded.Action)
	assert.Len(t, decoded.Moves, 3)
	assert.Equal(t, "Images", decoded.Moves[0].Category)
}

func TestPrettyFormatterOrganize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, sampleOrganizeReport()))

	out := buf.String()
	assert.Contains(t, out, "Organized")
	assert.Contains(t, out, "Images")
	assert.Contains(t, out, "Documents")
	assert.Contains(t, out, "organize-2024-03-01T12-00-00-abcd1234")
}

func TestPrettyFormatterDryRun(t *testing.T) {
	r := sampleOrganizeReport()
	r.Action = ActionDryRun
	r.ManifestID = ""

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "Would organize")
	assert.Contains(t, out, "a.jpg")
	assert.Contains(t, out, "no files were moved")
}

func TestPrettyFormatterUndo(t *testing.T) {
	r := &Report{
		Action:          ActionUndo,
		ManifestID:      "organize-2024-03-01T12-00-00-abcd1234",
		Restored:        3,
		ManifestDeleted: true,
	}

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "Restored:")
	assert.Contains(t, out, "3 files")
	assert.Contains(t, out, "Manifest removed")
}

func TestPrettyFormatterEmptyHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, &Report{Action: ActionHistory}))

	assert.Contains(t, buf.String(), "No recorded runs")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "500ms"},
		{2500 * time.Millisecond, "2.5s"},
		{90 * time.Second, "1m 30s"},
		{2 * time.Hour, "2h 0m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}

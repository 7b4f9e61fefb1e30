package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/squadcast-analyze/internal/analyze"
	"github.com/roach88/squadcast-analyze/internal/value"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func serviceResult() analyze.Result {
	return analyze.Result{
		Column: "service.name",
		Groups: []analyze.Group{
			{Key: value.String("a"), Count: 2},
			{Key: value.String("b"), Count: 1},
		},
		Total: 3,
	}
}

func envResult() analyze.Result {
	return analyze.Result{
		Column: "env",
		Groups: []analyze.Group{
			{Key: value.String("本番"), Count: 3},
			{Key: value.Null{}, Count: 2},
			{Key: value.String("dev"), Count: 1},
		},
		Total: 6,
	}
}

func tagsResult() analyze.Result {
	return analyze.Result{
		Column: "tags",
		Groups: []analyze.Group{
			{Key: value.Array{value.String("x"), value.String("y")}, Count: 4},
			{Key: value.String("db, cache"), Count: 1},
		},
		Total: 5,
	}
}

func TestTable_Golden(t *testing.T) {
	tests := []struct {
		name string
		res  analyze.Result
	}{
		{"table_service", serviceResult()},
		{"table_env", envResult()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Table(&buf, tt.res))
			newGoldie(t).Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestCSV_Golden(t *testing.T) {
	tests := []struct {
		name string
		res  analyze.Result
	}{
		{"csv_env", envResult()},
		{"csv_tags", tagsResult()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, CSV(&buf, tt.res))
			newGoldie(t).Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestCSVFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", "top.csv")
	require.NoError(t, CSVFile(path, serviceResult()))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "service.name,count\na,2\nb,1\n", string(got))
}

func TestTable_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, analyze.Result{Column: "service", Groups: []analyze.Group{}}))
	assert.Equal(t, "| service | count |\n|---------|-------|\n", buf.String())
}

func TestMarkdown_EscapesCells(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, []string{"k"}, [][]string{{"a|b\nc"}}))
	assert.Equal(t, "| k      |\n|--------|\n| a\\|b c |\n", buf.String())
}

func TestMarkdown_EscapesHeaders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown(&buf, []string{"a|b", "count"}, [][]string{{"x", "1"}}))
	assert.Equal(t, "| a\\|b | count |\n|------|-------|\n| x    |     1 |\n", buf.String())
}

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 0, DisplayWidth(""))
	assert.Equal(t, 3, DisplayWidth("api"))
	assert.Equal(t, 4, DisplayWidth("本番"))
	assert.Equal(t, 4, DisplayWidth("ＡＰ"))
}

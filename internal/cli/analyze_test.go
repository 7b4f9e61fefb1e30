package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestAnalyze_GroupsBySuffixMatch(t *testing.T) {
	input := writeInput(t, sampleExport)

	run := runCLI(t, nil, "analyze", "--input", input, "--group-by", "name", "--top", "2")
	require.NoError(t, run.err)

	want := "| service.name | count |\n" +
		"|--------------|-------|\n" +
		"| a            |     2 |\n" +
		"| b            |     1 |\n"
	assert.Equal(t, want, run.stdout)
}

func TestAnalyze_NullGroupAndTruncation(t *testing.T) {
	input := writeInput(t, `[{"env":"prod"},{"env":"prod"},{"other":1},{"env":"dev"}]`)

	run := runCLI(t, nil, "--format", "json", "analyze", "--input", input, "--group-by", "env", "--top", "2")
	require.NoError(t, run.err)

	var resp struct {
		Data struct {
			Records int    `json:"records"`
			Column  string `json:"column"`
			Groups  []struct {
				Key   json.RawMessage `json:"key"`
				Count int             `json:"count"`
			} `json:"groups"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(run.stdout), &resp))
	assert.Equal(t, 4, resp.Data.Records)
	assert.Equal(t, "env", resp.Data.Column)
	require.Len(t, resp.Data.Groups, 2)
	assert.JSONEq(t, `"prod"`, string(resp.Data.Groups[0].Key))
	assert.Equal(t, 2, resp.Data.Groups[0].Count)
	assert.JSONEq(t, `null`, string(resp.Data.Groups[1].Key))
	assert.Equal(t, 1, resp.Data.Groups[1].Count)
}

func TestAnalyze_WritesCSV(t *testing.T) {
	input := writeInput(t, sampleExport)
	csvOut := filepath.Join(t.TempDir(), "nested", "top.csv")

	run := runCLI(t, nil, "analyze", "--input", input, "--group-by", "service", "--csv-out", csvOut)
	require.NoError(t, run.err)
	assert.Contains(t, run.stdout, "CSV saved: "+csvOut+"\n")

	got, err := os.ReadFile(csvOut)
	require.NoError(t, err)
	assert.Equal(t, "service.name,count\na,2\nb,1\n", string(got))
}

func TestAnalyze_FieldNotFound(t *testing.T) {
	input := writeInput(t, sampleExport)

	run := runCLI(t, nil, "analyze", "--input", input, "--group-by", "priority")
	require.Error(t, run.err)
	assert.Equal(t, ExitCommandError, GetExitCode(run.err))
	assert.Contains(t, run.stderr, "Error [E301]")
	assert.Contains(t, run.stderr, "priority")
	assert.Empty(t, run.stdout)
}

func TestAnalyze_FieldNotFoundJSONListsColumns(t *testing.T) {
	input := writeInput(t, sampleExport)

	run := runCLI(t, nil, "--format", "json", "analyze", "--input", input, "--group-by", "priority")
	require.Error(t, run.err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(run.stdout), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeFieldNotFound, resp.Error.Code)
	assert.Equal(t, []interface{}{"id", "service.name"}, resp.Error.Details)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	for _, body := range []string{`[]`, `{"data":[]}`} {
		t.Run(body, func(t *testing.T) {
			input := writeInput(t, body)

			run := runCLI(t, nil, "analyze", "--input", input)
			require.Error(t, run.err)
			assert.Equal(t, ExitCommandError, GetExitCode(run.err))
			assert.Contains(t, run.stderr, "Error [E302]")
		})
	}
}

func TestAnalyze_InputProblems(t *testing.T) {
	t.Run("missing flag", func(t *testing.T) {
		run := runCLI(t, nil, "analyze")
		require.Error(t, run.err)
		assert.Equal(t, ExitCommandError, GetExitCode(run.err))
		assert.Contains(t, run.stderr, "Error [E011]")
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope.json")
		run := runCLI(t, nil, "analyze", "--input", path)
		require.Error(t, run.err)
		assert.Equal(t, ExitCommandError, GetExitCode(run.err))
		assert.Contains(t, run.stderr, "Error [E303]: input not found: "+path)
	})

	t.Run("not json", func(t *testing.T) {
		input := writeInput(t, `{"incidents": [`)
		run := runCLI(t, nil, "analyze", "--input", input)
		require.Error(t, run.err)
		assert.Equal(t, ExitCommandError, GetExitCode(run.err))
		assert.Contains(t, run.stderr, "Error [E304]")
	})
}

func TestAnalyze_DecomposedFieldName(t *testing.T) {
	input := writeInput(t, `[{"café":"x"},{"café":"x"}]`)

	run := runCLI(t, nil, "analyze", "--input", input, "--group-by", "cafe\u0301")
	require.NoError(t, run.err)
	assert.Contains(t, run.stdout, "| café | count |")
}

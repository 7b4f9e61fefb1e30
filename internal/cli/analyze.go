package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/squadcast-analyze/internal/analyze"
	"github.com/roach88/squadcast-analyze/internal/files"
	"github.com/roach88/squadcast-analyze/internal/render"
	"github.com/roach88/squadcast-analyze/internal/table"
)

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	Input   string
	GroupBy string
	Top     int
	CSVOut  string
}

// AnalyzeResult is the JSON payload of the analyze command.
type AnalyzeResult struct {
	Input   string          `json:"input"`
	Records int             `json:"records"`
	Field   string          `json:"field"`
	Column  string          `json:"column"`
	Groups  []analyze.Group `json:"groups"`
	CSVPath string          `json:"csv_path,omitempty"`
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze Top-N counts grouped by any field",
		Long: `Load an exported JSON file, flatten nested incident fields into dotted
columns and print the Top-N groups for a field.

The field is matched loosely: an exact column name wins, otherwise the
first column that ends with or contains it (so "name" finds
"service.name"). Missing values are counted as their own group.

Examples:
  squadcast-analyze analyze --input data/raw/incidents_20250201T000000Z.json
  squadcast-analyze analyze --input export.json --group-by priority --top 5
  squadcast-analyze analyze --input export.json --group-by name --csv-out data/processed/top.csv`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "", "path to JSON exported file (required)")
	cmd.Flags().StringVar(&opts.GroupBy, "group-by", "service", "field to group by (e.g. service, environment, priority)")
	cmd.Flags().IntVar(&opts.Top, "top", 10, "top N")
	cmd.Flags().StringVar(&opts.CSVOut, "csv-out", "", "optional CSV output")

	return cmd
}

func runAnalyze(opts *AnalyzeOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.logger

	if opts.Input == "" {
		return failWith(formatter, ErrCodeParam, ExitCommandError,
			fmt.Errorf("provide --input"), nil)
	}
	if _, err := os.Stat(opts.Input); err != nil {
		return failWith(formatter, ErrCodeInputNotFound, ExitCommandError,
			fmt.Errorf("input not found: %s", opts.Input), nil)
	}

	records, err := files.LoadRecords(opts.Input)
	if err != nil {
		return fail(formatter, err)
	}
	if len(records) == 0 {
		return fail(formatter, analyze.ErrEmptyInput)
	}

	tbl := table.Flatten(records)
	field := norm.NFC.String(opts.GroupBy)
	log.Debug("flattened records", "records", tbl.Len(), "columns", len(tbl.Columns))

	res, err := analyze.Analyze(tbl, field, opts.Top)
	if err != nil {
		return fail(formatter, err)
	}
	log.Debug("grouped", "field", field, "column", res.Column, "groups", len(res.Groups))

	if opts.CSVOut != "" {
		if err := render.CSVFile(opts.CSVOut, res); err != nil {
			return failWith(formatter, ErrCodeWriteFailed, ExitFailure, err, nil)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(AnalyzeResult{
			Input:   opts.Input,
			Records: tbl.Len(),
			Field:   field,
			Column:  res.Column,
			Groups:  res.Groups,
			CSVPath: opts.CSVOut,
		})
	}

	if err := render.Table(formatter.Writer, res); err != nil {
		return err
	}
	if opts.CSVOut != "" {
		fmt.Fprintf(formatter.Writer, "CSV saved: %s\n", opts.CSVOut)
	}
	return nil
}

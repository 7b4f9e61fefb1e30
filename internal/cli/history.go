package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/squadcast-analyze/internal/render"
	"github.com/roach88/squadcast-analyze/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Team     string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded exports",
		Long: `List exports recorded in the SQLite ledger, newest first.

Examples:
  squadcast-analyze history --db ./exports.db
  squadcast-analyze history --db ./exports.db --team 61a0... --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "export ledger database (default SQUADCAST_DB)")
	cmd.Flags().StringVar(&opts.Team, "team", "", "only exports for this owner/team id")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum rows (0 for all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	dbPath := opts.Database
	if dbPath == "" {
		settings, err := opts.loadSettings()
		if err != nil {
			return failWith(formatter, ErrCodeSettings, ExitCommandError, err, nil)
		}
		dbPath = settings.Database
	}
	if dbPath == "" {
		return failWith(formatter, ErrCodeParam, ExitCommandError,
			fmt.Errorf("provide --db or set SQUADCAST_DB"), nil)
	}

	ledger, err := store.Open(dbPath)
	if err != nil {
		return failWith(formatter, ErrCodeLedger, ExitFailure, err, nil)
	}
	defer ledger.Close()

	records, err := ledger.ListExports(cmd.Context(), opts.Team, opts.Limit)
	if err != nil {
		return failWith(formatter, ErrCodeLedger, ExitFailure, err, nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(formatter.Writer, "No exports recorded.")
		return nil
	}

	headers := []string{"seq", "created_at", "owner_id", "window", "format", "records", "bytes", "path"}
	rows := make([][]string, len(records))
	for i, r := range records {
		count := ""
		if r.RecordCount != nil {
			count = strconv.FormatInt(*r.RecordCount, 10)
		}
		rows[i] = []string{
			strconv.FormatInt(r.Seq, 10),
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.OwnerID,
			r.Start + " .. " + r.End,
			r.Format,
			count,
			strconv.FormatInt(r.Bytes, 10),
			r.Path,
		}
	}
	return render.Markdown(formatter.Writer, headers, rows)
}

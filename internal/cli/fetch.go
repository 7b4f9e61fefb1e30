package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/squadcast-analyze/internal/config"
	"github.com/roach88/squadcast-analyze/internal/envelope"
	"github.com/roach88/squadcast-analyze/internal/export"
	"github.com/roach88/squadcast-analyze/internal/files"
	"github.com/roach88/squadcast-analyze/internal/store"
)

// FetchOptions holds flags for the fetch command.
type FetchOptions struct {
	*RootOptions
	Start    string
	End      string
	Team     string
	Type     string
	Database string
}

// FetchResult is the JSON payload of the fetch command.
type FetchResult struct {
	Path        string `json:"path"`
	Format      string `json:"format"`
	Bytes       int    `json:"bytes"`
	SHA256      string `json:"sha256"`
	RecordCount *int64 `json:"record_count,omitempty"`
	LedgerSeq   int64  `json:"ledger_seq,omitempty"`
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FetchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch incidents (export) and save to data/raw",
		Long: `Export incidents for a time window and save the payload unmodified
under <data-dir>/raw/incidents_<UTC stamp>.<json|csv>.

--start, --end and --team fall back to START_TIME, END_TIME and
SQUADCAST_TEAM_ID. With --db (or SQUADCAST_DB) each export is also
recorded in a SQLite ledger.

Examples:
  squadcast-analyze fetch --start 2025-01-01T00:00:00Z --end 2025-01-31T23:59:59Z --team 61a0...
  squadcast-analyze fetch --type csv
  squadcast-analyze fetch --db ./exports.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Start, "start", "", "ISO start time (UTC)")
	cmd.Flags().StringVar(&opts.End, "end", "", "ISO end time (UTC)")
	cmd.Flags().StringVar(&opts.Team, "team", "", "owner/team id (owner_id)")
	cmd.Flags().StringVar(&opts.Type, "type", string(export.FormatJSON), "json or csv")
	cmd.Flags().StringVar(&opts.Database, "db", "", "export ledger database")

	return cmd
}

func runFetch(opts *FetchOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.logger

	format, err := export.ParseFormat(opts.Type)
	if err != nil {
		return fail(formatter, err)
	}

	settings, err := opts.loadSettings()
	if err != nil {
		return failWith(formatter, ErrCodeSettings, ExitCommandError, err, nil)
	}
	applyFetchOverrides(&settings, opts)
	if err := settings.Validate(config.RequireFetch); err != nil {
		return fail(formatter, err)
	}

	if err := files.EnsureDirs(settings.RawDir(), settings.ProcessedDir()); err != nil {
		return failWith(formatter, ErrCodeWriteFailed, ExitFailure, err, nil)
	}

	token, err := resolveToken(cmd, opts.RootOptions, settings)
	if err != nil {
		return err
	}

	req := export.Request{
		Start:   settings.StartTime,
		End:     settings.EndTime,
		OwnerID: settings.TeamID,
		Format:  format,
	}
	client := export.New(settings.BaseAPI, export.WithTimeout(settings.ExportTimeout))

	log.Debug("exporting incidents",
		"owner_id", req.OwnerID, "start", req.Start, "end", req.End, "format", req.Format)
	payload, err := client.Export(cmd.Context(), token, req)
	if err != nil {
		code, exit, details := classify(err)
		if code == ErrCodeGeneric {
			code = ErrCodeExportRequest
		}
		log.Debug("export failed", "code", code, "error", err)
		return failWith(formatter, code, exit, err, details)
	}

	now := opts.Now()
	out := filepath.Join(settings.RawDir(), files.ExportName(now, format.Extension()))
	if err := files.SaveBytes(out, payload); err != nil {
		return failWith(formatter, ErrCodeWriteFailed, ExitFailure, err, nil)
	}

	result := FetchResult{
		Path:        out,
		Format:      string(format),
		Bytes:       len(payload),
		SHA256:      files.Checksum(payload),
		RecordCount: countRecords(format, payload),
	}
	log.Debug("export saved", "path", out, "bytes", result.Bytes)

	if settings.Database != "" {
		seq, err := recordExport(cmd, opts.RootOptions, settings, req, result)
		if err != nil {
			return failWith(formatter, ErrCodeLedger, ExitFailure, err, nil)
		}
		result.LedgerSeq = seq
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "Saved: %s\n", out)
	if result.RecordCount != nil {
		formatter.VerboseLog("%d incident record(s), %d byte(s)", *result.RecordCount, result.Bytes)
	}
	return nil
}

// applyFetchOverrides lets command-line flags win over configured defaults.
func applyFetchOverrides(s *config.Settings, opts *FetchOptions) {
	if opts.Start != "" {
		s.StartTime = opts.Start
	}
	if opts.End != "" {
		s.EndTime = opts.End
	}
	if opts.Team != "" {
		s.TeamID = opts.Team
	}
	if opts.Database != "" {
		s.Database = opts.Database
	}
}

// countRecords counts the records in a JSON export. CSV exports and JSON
// that does not decode have no count.
func countRecords(format export.Format, payload []byte) *int64 {
	if format != export.FormatJSON {
		return nil
	}
	records, err := envelope.Decode(payload)
	if err != nil {
		return nil
	}
	n := int64(len(records))
	return &n
}

func recordExport(cmd *cobra.Command, opts *RootOptions, settings config.Settings, req export.Request, result FetchResult) (int64, error) {
	ledger, err := store.Open(settings.Database)
	if err != nil {
		return 0, err
	}
	defer ledger.Close()

	return ledger.RecordExport(cmd.Context(), store.ExportRecord{
		RunID:       opts.runID,
		OwnerID:     req.OwnerID,
		Start:       req.Start,
		End:         req.End,
		Format:      string(req.Format),
		Path:        result.Path,
		Bytes:       int64(result.Bytes),
		SHA256:      result.SHA256,
		RecordCount: result.RecordCount,
		CreatedAt:   opts.Now(),
	})
}

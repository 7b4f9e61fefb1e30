package cli

import (
	"errors"
	"io/fs"

	"github.com/roach88/squadcast-analyze/internal/analyze"
	"github.com/roach88/squadcast-analyze/internal/auth"
	"github.com/roach88/squadcast-analyze/internal/config"
	"github.com/roach88/squadcast-analyze/internal/envelope"
	"github.com/roach88/squadcast-analyze/internal/export"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeSettings    = "E010" // Settings unreadable or invalid
	ErrCodeParam       = "E011" // Bad command-line parameter
	ErrCodeWriteFailed = "E012" // File write error
	ErrCodeLedger      = "E013" // Export ledger error

	ErrCodeAuthTransport    = "E101" // Auth endpoint returned non-2xx
	ErrCodeAuthParse        = "E102" // Auth response not a JSON object
	ErrCodeAuthMissingToken = "E103" // Auth response without a token
	ErrCodeAuthRequest      = "E104" // Auth request failed (network, timeout)

	ErrCodeExportTransport = "E201" // Export endpoint returned non-200
	ErrCodeInvalidFormat   = "E202" // Export format not json|csv
	ErrCodeExportRequest   = "E203" // Export request failed (network, timeout)

	ErrCodeFieldNotFound = "E301" // Group field matches no column
	ErrCodeEmptyInput    = "E302" // No records to analyze
	ErrCodeInputNotFound = "E303" // Input file missing
	ErrCodeInputDecode   = "E304" // Input file is not JSON
)

// classify maps an error to its code, exit code and optional details.
// Parameter problems exit with ExitCommandError; everything else with ExitFailure.
func classify(err error) (code string, exit int, details interface{}) {
	var (
		authTransport *auth.TransportError
		authParse     *auth.ParseError
		authMissing   *auth.MissingTokenError
		exportErr     *export.TransportError
		fieldErr      *analyze.FieldNotFoundError
		settingsErr   *config.ValidationError
		decodeErr     *envelope.DecodeError
	)

	switch {
	case errors.As(err, &settingsErr):
		return ErrCodeSettings, ExitCommandError, settingsErr.Fields()
	case errors.Is(err, export.ErrInvalidFormat):
		return ErrCodeInvalidFormat, ExitCommandError, nil
	case errors.As(err, &fieldErr):
		return ErrCodeFieldNotFound, ExitCommandError, fieldErr.Preview
	case errors.Is(err, analyze.ErrEmptyInput):
		return ErrCodeEmptyInput, ExitCommandError, nil
	case errors.As(err, &decodeErr):
		return ErrCodeInputDecode, ExitCommandError, nil
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeInputNotFound, ExitCommandError, nil
	case errors.As(err, &authTransport):
		return ErrCodeAuthTransport, ExitFailure, map[string]int{"status": authTransport.StatusCode}
	case errors.As(err, &authParse):
		return ErrCodeAuthParse, ExitFailure, nil
	case errors.As(err, &authMissing):
		return ErrCodeAuthMissingToken, ExitFailure, authMissing.Keys
	case errors.As(err, &exportErr):
		return ErrCodeExportTransport, ExitFailure, map[string]int{"status": exportErr.StatusCode}
	default:
		return ErrCodeGeneric, ExitFailure, nil
	}
}

// fail reports err through the formatter and returns the matching ExitError.
func fail(f *OutputFormatter, err error) error {
	code, exit, details := classify(err)
	return failWith(f, code, exit, err, details)
}

// failWith reports err under an explicit code.
func failWith(f *OutputFormatter, code string, exit int, err error, details interface{}) error {
	_ = f.Error(code, err.Error(), details)
	exitErr := WrapExitError(exit, code, err)
	exitErr.reported = true
	return exitErr
}

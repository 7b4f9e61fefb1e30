package cli

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/squadcast-analyze/internal/config"
	"github.com/roach88/squadcast-analyze/internal/testutil"
)

var fixedNow = time.Date(2025, 11, 12, 14, 9, 6, 0, time.UTC)

const testRunID = "0193a4c2-0000-7000-8000-000000000001"

// cliRun is the captured outcome of one command execution.
type cliRun struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the root command with env as the entire process
// environment. The default .env lookup points at a missing file so the
// developer's own .env never leaks into tests.
func runCLI(t *testing.T, env map[string]string, args ...string) cliRun {
	t.Helper()

	opts := &RootOptions{
		Now:    testutil.NewFixedClock(fixedNow).Now,
		RunIDs: testutil.NewFixedRunID(testRunID),
		LookupEnv: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
	}
	cmd := newRootCommand(opts)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	full := append([]string{"--env", filepath.Join(t.TempDir(), "missing.env")}, args...)
	cmd.SetArgs(full)

	err := cmd.Execute()
	return cliRun{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// apiEnv returns an environment wired to api with data under dataDir.
func apiEnv(api *testutil.FakeAPI, dataDir string) map[string]string {
	return map[string]string{
		config.EnvRefreshToken: "refresh-xyz",
		config.EnvAuthURL:      api.AuthURL(),
		config.EnvBaseAPI:      api.BaseAPI(),
		config.EnvTeamID:       "team-1",
		config.EnvStartTime:    "2025-01-01T00:00:00Z",
		config.EnvEndTime:      "2025-01-31T23:59:59Z",
		config.EnvDataDir:      dataDir,
	}
}

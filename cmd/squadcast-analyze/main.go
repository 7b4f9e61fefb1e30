// Command squadcast-analyze exports Squadcast incidents and reports Top-N
// breakdowns by any incident field.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/squadcast-analyze/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		if !cli.Reported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}

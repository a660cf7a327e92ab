package schemacheck

import (
	"io"

	"github.com/osvaldoandrade/schemacheck/internal/cli"
)

// Execute runs the schemacheck CLI entrypoint against the process arguments
// and standard streams, returning the exit code.
func Execute() int {
	return cli.Execute()
}

// Run executes the CLI with explicit arguments and streams.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return cli.Run(args, stdin, stdout, stderr)
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

func Execute() int {
	return Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// Run executes the CLI with explicit streams and returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if versionRequested(args) {
		if _, err := fmt.Fprintln(stdout, versionLine()); err != nil {
			return ExitInternal
		}
		return 0
	}

	cmd := newRootCmd(stdin)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		asJSON := flagString(cmd, "output") == string(OutputJSON)
		exitErr := NormalizeError(err)
		_ = writeCLIError(cmd.ErrOrStderr(), exitErr, asJSON)
		return exitErr.Code
	}
	return 0
}

func flagString(cmd interface {
	Flags() *pflag.FlagSet
	PersistentFlags() *pflag.FlagSet
	InheritedFlags() *pflag.FlagSet
}, name string) string {
	if value, ok := getString(cmd.Flags(), name); ok {
		return value
	}
	if value, ok := getString(cmd.PersistentFlags(), name); ok {
		return value
	}
	if value, ok := getString(cmd.InheritedFlags(), name); ok {
		return value
	}
	return ""
}

func getString(flags *pflag.FlagSet, name string) (string, bool) {
	if flags == nil {
		return "", false
	}
	if flags.Lookup(name) == nil {
		return "", false
	}
	value, err := flags.GetString(name)
	if err != nil {
		return "", false
	}
	return value, true
}

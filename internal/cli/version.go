package cli

// Version is overridden at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "0.1.0"

func versionLine() string {
	return "Version: " + Version
}

// versionRequested reports whether -v/--version appears before a "--"
// terminator. It runs before flag parsing so the version wins over any other
// argument, including malformed ones.
func versionRequested(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "-v", "--version", "--version=true":
			return true
		}
	}
	return false
}

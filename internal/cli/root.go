package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/osvaldoandrade/schemacheck/internal/app/validate"
	"github.com/osvaldoandrade/schemacheck/internal/infra/filesystem"
	"github.com/osvaldoandrade/schemacheck/internal/infra/ident"
	"github.com/osvaldoandrade/schemacheck/internal/infra/jsondoc"
	"github.com/osvaldoandrade/schemacheck/internal/infra/schema"
	"github.com/osvaldoandrade/schemacheck/internal/platform"
	"github.com/spf13/cobra"
)

const appName = "schemacheck"

type RootOptions struct {
	Instances     []string
	ShowVersion   bool
	Output        string
	Jobs          int
	Draft         string
	AssertFormat  bool
	AssertContent bool
	Strict        bool
	LogLevel      string
	LogFormat     string
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	opts := &RootOptions{
		Output:    envDefault("SCHEMACHECK_OUTPUT", string(OutputText)),
		Jobs:      envIntDefault("SCHEMACHECK_JOBS", 1),
		LogLevel:  envDefault("SCHEMACHECK_LOG_LEVEL", "info"),
		LogFormat: envDefault("SCHEMACHECK_LOG_FORMAT", "text"),
	}
	cmd := &cobra.Command{
		Use:   appName + " [flags] <schema>",
		Short: "Validate JSON documents against a JSON Schema",
		Long: `Validates each instance given with -i/--instance against the schema.
Exits 0 when the schema compiles and every instance is valid, 1 otherwise.`,
		Example: `  schemacheck schema.json -i a.json -i b.json
  cat doc.json | schemacheck schema.json -i -
  schemacheck --output json --jobs 4 schema.json -i a.json -i b.yaml`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.ShowVersion {
				return nil
			}
			return usageError(cobra.MaximumNArgs(1)(cmd, args))
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.ShowVersion {
				return nil
			}
			_, err := platform.ConfigureLogger(platform.LogOptions{
				Level:   opts.LogLevel,
				Format:  opts.LogFormat,
				App:     appName,
				Version: Version,
			}, cmd.ErrOrStderr())
			return usageError(err)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.ShowVersion {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), versionLine())
				return err
			}
			if len(args) == 0 {
				// Nothing to validate is a successful run.
				slog.Debug("no schema given", "instances", len(opts.Instances))
				return nil
			}
			return runValidate(cmd, opts, stdin, args[0])
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.Instances, "instance", "i", nil, "Path to a JSON instance to validate (repeatable, - reads stdin)")
	flags.BoolVarP(&opts.ShowVersion, "version", "v", false, "Show the version and exit")
	flags.StringVarP(&opts.Output, "output", "o", opts.Output, "Report format (text, json)")
	flags.IntVarP(&opts.Jobs, "jobs", "j", opts.Jobs, "Number of instances validated in parallel")
	flags.StringVar(&opts.Draft, "draft", "", "Draft used when the schema has no $schema (4, 6, 7, 2019-09, 2020-12)")
	flags.BoolVar(&opts.AssertFormat, "assert-format", false, "Treat the format keyword as an assertion (drafts 4 to 7 always assert)")
	flags.BoolVar(&opts.AssertContent, "assert-content", false, "Treat contentEncoding and contentMediaType as assertions")
	flags.BoolVar(&opts.Strict, "strict", false, "Reject JSON objects with duplicate member names")
	flags.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.LogFormat, "log-format", opts.LogFormat, "Log format (text, json)")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *RootOptions, stdin io.Reader, schemaPath string) error {
	draft, err := schema.ParseDraft(opts.Draft)
	if err != nil {
		return err
	}
	format, err := ParseOutputFormat(opts.Output)
	if err != nil {
		return err
	}
	runID, err := ident.NewRunIDGenerator().NewID()
	if err != nil {
		return err
	}

	var reporter validate.Reporter = newTextReporter(cmd.OutOrStdout())
	if format == OutputJSON {
		reporter = newJSONReporter(cmd.OutOrStdout())
	}

	loader := jsondoc.NewLoader(filesystem.NewDocumentSource(stdin), jsondoc.Options{Strict: opts.Strict})
	compiler := schema.Compiler{
		Draft:         draft,
		AssertFormat:  opts.AssertFormat,
		AssertContent: opts.AssertContent,
	}
	service := validate.NewService(loader, compiler, reporter, validate.Options{Jobs: opts.Jobs})

	result, err := service.Run(cmd.Context(), validate.Request{
		RunID:         runID,
		SchemaPath:    schemaPath,
		InstancePaths: opts.Instances,
	})
	if err != nil {
		return err
	}
	if !result.OK() {
		return validate.ErrValidationFailed
	}
	return nil
}

func envDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envIntDefault(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
